package service

import (
	"context"

	"github.com/dalfonso89/fortune-teller-service/internal/config"
	"github.com/dalfonso89/fortune-teller-service/internal/logger"
	"github.com/dalfonso89/fortune-teller-service/internal/models"
)

// DivinationProvider defines the interface for fortune sources
type DivinationProvider interface {
	GetName() string
	IsEnabled() bool
	GetPriority() int
	Draw(ctx context.Context) (models.RawFortune, error)
}

// ProviderFactory creates provider instances
type ProviderFactory struct {
	config  *config.Config
	fetcher *Fetcher
	logger  logger.Logger
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(config *config.Config, fetcher *Fetcher, logger logger.Logger) *ProviderFactory {
	return &ProviderFactory{
		config:  config,
		fetcher: fetcher,
		logger:  logger,
	}
}

// CreateProviders creates all enabled providers in priority order
func (providerFactory *ProviderFactory) CreateProviders() []DivinationProvider {
	providers := make([]DivinationProvider, 0, len(providerFactory.config.DivinationProviders))

	for _, providerConfig := range providerFactory.config.DivinationProviders {
		if !providerConfig.Enabled {
			continue
		}

		provider := NewHTTPDivinationProvider(providerConfig, providerFactory.fetcher, providerFactory.logger)
		providers = append(providers, provider)
	}

	return providers
}

// ProviderStatus represents the status of a provider
type ProviderStatus struct {
	Name              string `json:"name"`
	Enabled           bool   `json:"enabled"`
	Priority          int    `json:"priority"`
	RemainingRequests *int   `json:"remainingRequests,omitempty"`
}

// quotaReporter is implemented by providers behind a rate limited endpoint
type quotaReporter interface {
	RemainingRequests() int
}
