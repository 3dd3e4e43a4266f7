package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dalfonso89/fortune-teller-service/internal/config"
	"github.com/dalfonso89/fortune-teller-service/internal/logger"
	"github.com/dalfonso89/fortune-teller-service/internal/models"
	"github.com/dalfonso89/fortune-teller-service/internal/oracle"
)

// FortuneService draws fortunes from every divination provider at once and
// falls back to the local pool when none yields a fresh one
type FortuneService struct {
	configuration *config.Config
	logger        logger.Logger
	providers     []DivinationProvider
	oracle        *oracle.Oracle
	recent        *RecentSet
}

// NewFortuneService creates a fortune service over the configured providers
func NewFortuneService(configuration *config.Config, logger logger.Logger, fetcher *Fetcher, fortuneOracle *oracle.Oracle) *FortuneService {
	providerFactory := NewProviderFactory(configuration, fetcher, logger)
	return NewFortuneServiceWithProviders(configuration, logger, providerFactory.CreateProviders(), fortuneOracle)
}

// NewFortuneServiceWithProviders creates a fortune service over explicit providers
func NewFortuneServiceWithProviders(configuration *config.Config, logger logger.Logger, providers []DivinationProvider, fortuneOracle *oracle.Oracle) *FortuneService {
	return &FortuneService{
		configuration: configuration,
		logger:        logger,
		providers:     providers,
		oracle:        fortuneOracle,
		recent:        NewRecentSet(configuration.RecentFortunesCapacity),
	}
}

// FetchRandomFortune never fails: provider errors are logged and, when no
// provider produced an unseen fortune, the local pool is used. A zero
// birthDate leaves out the personal reading.
func (fortuneService *FortuneService) FetchRandomFortune(requestContext context.Context, category models.Category, birthDate time.Time) models.EnhancedFortune {
	draws := fortuneService.drawAll(requestContext)

	candidates := make([]models.Fortune, 0, len(draws))
	for _, draw := range draws {
		if draw == nil {
			continue
		}
		fortune := fortuneService.oracle.Compose(draw.Text, category, fortuneService.oracle.ResolveCategory(category))
		if fortuneService.recent.Contains(fortune.English) {
			fortuneService.logger.Debugf("Skipping recently shown fortune from %s", draw.Source)
			continue
		}
		candidates = append(candidates, fortune)
	}

	if len(candidates) == 0 {
		fortuneService.logger.Infof("No fresh fortune from %d providers, using local pool", len(fortuneService.providers))
		return fortuneService.oracle.FallbackFortune(category, birthDate)
	}

	chosen := candidates[fortuneService.oracle.IntN(len(candidates))]
	fortuneService.recent.Add(chosen.English)

	return fortuneService.oracle.Enhance(chosen, category, birthDate)
}

// drawAll queries every provider concurrently. A failed provider leaves a
// nil slot and does not cancel the others.
func (fortuneService *FortuneService) drawAll(requestContext context.Context) []*models.RawFortune {
	draws := make([]*models.RawFortune, len(fortuneService.providers))

	var group errgroup.Group
	if limit := fortuneService.configuration.MaxConcurrentRequests; limit > 0 {
		group.SetLimit(limit)
	}

	for i, provider := range fortuneService.providers {
		group.Go(func() error {
			fortuneService.logger.Debugf("Drawing fortune from provider: %s", provider.GetName())
			draw, err := provider.Draw(requestContext)
			if err != nil {
				fortuneService.logProviderError(provider.GetName(), err)
				return nil
			}
			draw.Source = provider.GetName()
			draws[i] = &draw
			return nil
		})
	}
	_ = group.Wait()

	return draws
}

func (fortuneService *FortuneService) logProviderError(name string, err error) {
	providerLogger := fortuneService.logger.WithFields(logger.Fields{
		"provider":   name,
		"error_type": classifyError(err).String(),
	})

	switch classifyError(err) {
	case ErrorTypeRateLimited:
		providerLogger.Warnf("Provider rate limited: %v", err)
	case ErrorTypeContextCancelled:
		providerLogger.Warnf("Provider cancelled: %v", err)
	case ErrorTypeNetwork:
		providerLogger.Warnf("Provider network error: %v", err)
	case ErrorTypeInvalidResponse:
		providerLogger.Warnf("Provider invalid response: %v", err)
	default:
		providerLogger.Warnf("Provider failed: %v", err)
	}
}

// RecentCount returns how many fortune texts are remembered for duplicate detection
func (fortuneService *FortuneService) RecentCount() int {
	return fortuneService.recent.Len()
}

// GetProviderStatus returns the status of all configured providers
func (fortuneService *FortuneService) GetProviderStatus() []ProviderStatus {
	statuses := make([]ProviderStatus, len(fortuneService.providers))
	for i, provider := range fortuneService.providers {
		statuses[i] = ProviderStatus{
			Name:     provider.GetName(),
			Enabled:  provider.IsEnabled(),
			Priority: provider.GetPriority(),
		}
		if reporter, ok := provider.(quotaReporter); ok {
			remaining := reporter.RemainingRequests()
			statuses[i].RemainingRequests = &remaining
		}
	}
	return statuses
}
