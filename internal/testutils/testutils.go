package testutils

import (
	"io"
	"time"

	"github.com/dalfonso89/fortune-teller-service/internal/config"
	"github.com/dalfonso89/fortune-teller-service/internal/logger"
	"github.com/dalfonso89/fortune-teller-service/internal/models"
)

// FixedTime is the clock used across tests: a Friday at noon UTC
var FixedTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// FixedClock returns a clock frozen at FixedTime
func FixedClock() func() time.Time {
	return func() time.Time { return FixedTime }
}

// MockLogger creates a logger that discards everything
func MockLogger() logger.Logger {
	return logger.NewWithOutput("debug", io.Discard)
}

// MockConfig creates a mock configuration for testing
func MockConfig() *config.Config {
	return &config.Config{
		Port:     "8081",
		LogLevel: "debug",
		DBPath:   ":memory:",

		DivinationProviders: []config.DivinationProvider{
			{Name: "Tarot", Kind: config.KindTarot, URL: "https://tarot.test/api/v1/cards/random", Enabled: true, Priority: 1},
			{Name: "IChing", Kind: config.KindIChing, URL: "https://iching.test/api/hexagrams/random", Enabled: true, Priority: 2},
			{Name: "Astrology", Kind: config.KindAstrology, URL: "https://astrology.test/horoscope/today", Enabled: true, Priority: 3},
		},
		FetchCacheTTL:         30 * time.Second,
		FetchTimeout:          2 * time.Second,
		FetchMaxRetries:       3,
		FetchRetryDelay:       time.Millisecond,
		EndpointRateLimit:     60,
		EndpointRateWindow:    30 * time.Second,
		MaxConcurrentRequests: 3,

		RecentFortunesCapacity: 20,
		HistoryCapacity:        30,

		PlacesAPIURL:      "https://places.test/search",
		PlacesAPIEnabled:  true,
		PlacesResultLimit: 5,

		DefaultTheme: "classic",
		ShareBaseURL: "https://fortune.test/",

		RateLimitEnabled:  true,
		RateLimitRequests: 100,
		RateLimitWindow:   60 * time.Second,
		RateLimitBurst:    10,
	}
}

// MockConfigForServer points every divination provider at server
func MockConfigForServer(server *MockDivinationServer) *config.Config {
	configuration := MockConfig()
	configuration.DivinationProviders[0].URL = server.URL() + TarotPath
	configuration.DivinationProviders[1].URL = server.URL() + IChingPath
	configuration.DivinationProviders[2].URL = server.URL() + AstrologyPath
	configuration.PlacesAPIURL = server.URL() + PlacesPath
	return configuration
}

// MockFortune creates a base fortune for testing
func MockFortune(id int) models.Fortune {
	return models.Fortune{
		ID:             id,
		Category:       models.CategoryLove,
		Chinese:        "福缘之光",
		English:        "The Lovers - Partnerships, union, harmony of opposites.",
		Interpretation: `"The Lovers - Partnerships, union,..." reveals the path of true connection.`,
	}
}

// MockDharmaResult creates a dharma result for testing
func MockDharmaResult() models.DharmaResult {
	return models.DharmaResult{
		Number:      7,
		Dharma:      "Dharma Path 7",
		Description: "You are analytical and spiritual with deep intuition.",
		Qualities:   []string{"Analytical", "Spiritual", "Intuitive", "Wise"},
		Details: models.DharmaDetails{
			Name:       "Alice",
			BirthDate:  "1990-05-20",
			BirthTime:  "14:30",
			BirthPlace: "Paris",
		},
	}
}
