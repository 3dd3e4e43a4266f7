package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dalfonso89/fortune-teller-service/internal/config"
	"github.com/dalfonso89/fortune-teller-service/internal/logger"
	"github.com/dalfonso89/fortune-teller-service/internal/models"
)

// HTTPDivinationProvider implements DivinationProvider for the JSON divination APIs
type HTTPDivinationProvider struct {
	configuration config.DivinationProvider
	fetcher       *Fetcher
	logger        logger.Logger
}

// NewHTTPDivinationProvider creates a new HTTP divination provider
func NewHTTPDivinationProvider(configuration config.DivinationProvider, fetcher *Fetcher, logger logger.Logger) *HTTPDivinationProvider {
	return &HTTPDivinationProvider{
		configuration: configuration,
		fetcher:       fetcher,
		logger:        logger,
	}
}

// GetName returns the provider name
func (provider *HTTPDivinationProvider) GetName() string {
	return provider.configuration.Name
}

// IsEnabled returns whether the provider is enabled
func (provider *HTTPDivinationProvider) IsEnabled() bool {
	return provider.configuration.Enabled
}

// GetPriority returns the provider priority
func (provider *HTTPDivinationProvider) GetPriority() int {
	return provider.configuration.Priority
}

// RemainingRequests returns the calls left in the endpoint's rate limit window
func (provider *HTTPDivinationProvider) RemainingRequests() int {
	return provider.fetcher.RemainingRequests(provider.configuration.Name)
}

// Draw fetches one reading and turns it into raw fortune text
func (provider *HTTPDivinationProvider) Draw(ctx context.Context) (models.RawFortune, error) {
	body, err := provider.fetcher.Fetch(ctx, provider.configuration.URL, FetchOptions{}, provider.configuration.Name)
	if err != nil {
		return models.RawFortune{}, err
	}

	text, err := provider.parseResponse(body)
	if err != nil {
		return models.RawFortune{}, &ServiceError{
			Type:    ErrorTypeInvalidResponse,
			Message: "invalid response from " + provider.configuration.Name,
			Cause:   err,
		}
	}

	return models.RawFortune{Text: text, Source: provider.configuration.Name}, nil
}

// parseResponse dispatches on the provider kind
func (provider *HTTPDivinationProvider) parseResponse(body []byte) (string, error) {
	switch provider.configuration.Kind {
	case config.KindTarot:
		return parseTarotResponse(body)
	case config.KindIChing:
		return parseIChingResponse(body)
	case config.KindAstrology:
		return parseAstrologyResponse(body)
	default:
		return "", fmt.Errorf("unknown provider kind %q", provider.configuration.Kind)
	}
}

// parseTarotResponse reads {"cards":[{"name","meaning_up"}]}
func parseTarotResponse(body []byte) (string, error) {
	var data struct {
		Cards []struct {
			Name      string `json:"name"`
			MeaningUp string `json:"meaning_up"`
		} `json:"cards"`
	}

	if err := json.Unmarshal(body, &data); err != nil {
		return "", fmt.Errorf("failed to parse tarot response: %w", err)
	}
	if len(data.Cards) == 0 {
		return "", fmt.Errorf("tarot response has no cards")
	}

	card := data.Cards[0]
	if card.Name == "" || card.MeaningUp == "" {
		return "", fmt.Errorf("tarot card is missing name or meaning")
	}
	return card.Name + " - " + card.MeaningUp, nil
}

// parseIChingResponse reads {"name","meaning"}
func parseIChingResponse(body []byte) (string, error) {
	var data struct {
		Name    string `json:"name"`
		Meaning string `json:"meaning"`
	}

	if err := json.Unmarshal(body, &data); err != nil {
		return "", fmt.Errorf("failed to parse I Ching response: %w", err)
	}
	if data.Name == "" || data.Meaning == "" {
		return "", fmt.Errorf("hexagram is missing name or meaning")
	}
	return data.Name + " - " + data.Meaning, nil
}

// parseAstrologyResponse reads {"horoscope"}
func parseAstrologyResponse(body []byte) (string, error) {
	var data struct {
		Horoscope string `json:"horoscope"`
	}

	if err := json.Unmarshal(body, &data); err != nil {
		return "", fmt.Errorf("failed to parse astrology response: %w", err)
	}
	if data.Horoscope == "" {
		return "", fmt.Errorf("astrology response has no horoscope")
	}
	return data.Horoscope, nil
}
