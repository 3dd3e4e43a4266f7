package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Provider kinds understood by the divination response parsers
const (
	KindTarot     = "tarot"
	KindIChing    = "iching"
	KindAstrology = "astrology"
)

// DivinationProvider represents a single third-party divination endpoint
type DivinationProvider struct {
	Name     string `validate:"required"`
	Kind     string `validate:"oneof=tarot iching astrology"`
	URL      string `validate:"required,url"`
	Enabled  bool
	Priority int // Lower number = higher priority
}

// Config holds all configuration for the application
type Config struct {
	Port     string `validate:"required,numeric"`
	LogLevel string `validate:"oneof=debug info warn error"`
	DBPath   string `validate:"required"`

	// Divination endpoints and the fetcher in front of them
	DivinationProviders   []DivinationProvider `validate:"dive"`
	FetchCacheTTL         time.Duration        `validate:"gt=0"`
	FetchTimeout          time.Duration        `validate:"gt=0"`
	FetchMaxRetries       int                  `validate:"gte=0,lte=10"`
	FetchRetryDelay       time.Duration        `validate:"gte=0"`
	EndpointRateLimit     int                  `validate:"gt=0"`
	EndpointRateWindow    time.Duration        `validate:"gt=0"`
	MaxConcurrentRequests int                  `validate:"gte=0"`

	// Fortune bookkeeping
	RecentFortunesCapacity int `validate:"gt=0"`
	HistoryCapacity        int `validate:"gt=0"`

	// Birth place suggestions
	PlacesAPIURL      string `validate:"required,url"`
	PlacesAPIEnabled  bool
	PlacesResultLimit int `validate:"gt=0,lte=50"`

	// Session defaults
	DefaultTheme string `validate:"required"`
	ShareBaseURL string `validate:"required,url"`

	// Inbound rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int           `validate:"gt=0"`
	RateLimitWindow   time.Duration `validate:"gt=0"`
	RateLimitBurst    int           `validate:"gt=0"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	configuration := &Config{
		Port:     getEnv("PORT", "8081"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		DBPath:   getEnv("DB_PATH", "fortune.db"),

		DivinationProviders:   loadDivinationProviders(),
		FetchCacheTTL:         time.Duration(mustAtoi(getEnv("FETCH_CACHE_TTL_SECONDS", "30"), 30)) * time.Second,
		FetchTimeout:          time.Duration(mustAtoi(getEnv("FETCH_TIMEOUT_SECONDS", "10"), 10)) * time.Second,
		FetchMaxRetries:       mustAtoi(getEnv("FETCH_MAX_RETRIES", "3"), 3),
		FetchRetryDelay:       time.Duration(mustAtoi(getEnv("FETCH_RETRY_DELAY_MS", "1000"), 1000)) * time.Millisecond,
		EndpointRateLimit:     mustAtoi(getEnv("ENDPOINT_RATE_LIMIT_REQUESTS", "60"), 60),
		EndpointRateWindow:    time.Duration(mustAtoi(getEnv("ENDPOINT_RATE_LIMIT_WINDOW_SECONDS", "30"), 30)) * time.Second,
		MaxConcurrentRequests: mustAtoi(getEnv("MAX_CONCURRENT_REQUESTS", "3"), 3),

		RecentFortunesCapacity: mustAtoi(getEnv("RECENT_FORTUNES_CAPACITY", "20"), 20),
		HistoryCapacity:        mustAtoi(getEnv("HISTORY_CAPACITY", "30"), 30),

		PlacesAPIURL:      getEnv("PLACES_API_URL", "https://nominatim.openstreetmap.org/search"),
		PlacesAPIEnabled:  getEnv("PLACES_API_ENABLED", "true") == "true",
		PlacesResultLimit: mustAtoi(getEnv("PLACES_RESULT_LIMIT", "5"), 5),

		DefaultTheme: getEnv("DEFAULT_THEME", "classic"),
		ShareBaseURL: getEnv("SHARE_BASE_URL", "http://localhost:8081/"),

		RateLimitEnabled:  getEnv("RATE_LIMIT_ENABLED", "true") == "true",
		RateLimitRequests: mustAtoi(getEnv("RATE_LIMIT_REQUESTS", "100"), 100),
		RateLimitWindow:   time.Duration(mustAtoi(getEnv("RATE_LIMIT_WINDOW_SECONDS", "60"), 60)) * time.Second,
		RateLimitBurst:    mustAtoi(getEnv("RATE_LIMIT_BURST", "10"), 10),
	}

	if err := Validate(configuration); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return configuration, nil
}

// loadDivinationProviders loads the three divination endpoints from environment variables
func loadDivinationProviders() []DivinationProvider {
	providers := []DivinationProvider{
		{
			Name:     "Tarot",
			Kind:     KindTarot,
			URL:      getEnv("TAROT_API_URL", "https://rws-cards-api.herokuapp.com/api/v1/cards/random"),
			Enabled:  getEnv("TAROT_API_ENABLED", "true") == "true",
			Priority: mustAtoi(getEnv("TAROT_API_PRIORITY", "1"), 1),
		},
		{
			Name:     "IChing",
			Kind:     KindIChing,
			URL:      getEnv("ICHING_API_URL", "https://iching-api.herokuapp.com/api/hexagrams/random"),
			Enabled:  getEnv("ICHING_API_ENABLED", "true") == "true",
			Priority: mustAtoi(getEnv("ICHING_API_PRIORITY", "2"), 2),
		},
		{
			Name:     "Astrology",
			Kind:     KindAstrology,
			URL:      getEnv("ASTROLOGY_API_URL", "https://horoscope-api.herokuapp.com/horoscope/today"),
			Enabled:  getEnv("ASTROLOGY_API_ENABLED", "true") == "true",
			Priority: mustAtoi(getEnv("ASTROLOGY_API_PRIORITY", "3"), 3),
		},
	}

	enabledProviders := make([]DivinationProvider, 0, len(providers))
	for _, provider := range providers {
		if provider.Enabled {
			enabledProviders = append(enabledProviders, provider)
		}
	}

	sort.SliceStable(enabledProviders, func(i, j int) bool {
		return enabledProviders[i].Priority < enabledProviders[j].Priority
	})

	return enabledProviders
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func mustAtoi(s string, fallback int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return i
}
