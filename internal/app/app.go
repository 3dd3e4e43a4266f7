// Package app wires configuration into a ready to serve fortune teller.
package app

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/dalfonso89/fortune-teller-service/internal/api"
	"github.com/dalfonso89/fortune-teller-service/internal/config"
	"github.com/dalfonso89/fortune-teller-service/internal/logger"
	"github.com/dalfonso89/fortune-teller-service/internal/oracle"
	"github.com/dalfonso89/fortune-teller-service/internal/ratelimit"
	"github.com/dalfonso89/fortune-teller-service/internal/service"
	"github.com/dalfonso89/fortune-teller-service/internal/session"
	"github.com/dalfonso89/fortune-teller-service/internal/store"
	"github.com/dalfonso89/fortune-teller-service/internal/theme"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// App owns every long lived component of the service
type App struct {
	Router         http.Handler
	FortuneService *service.FortuneService
	Fetcher        *service.Fetcher

	logger      logger.Logger
	store       *store.SQLiteStore
	rateLimiter *ratelimit.ClientLimiter
	purgeTicker *time.Ticker
	stopPurge   chan struct{}
	closeOnce   sync.Once
}

// New builds the service from configuration
func New(configuration *config.Config, log logger.Logger) (*App, error) {
	sessionStore, err := store.Open(configuration.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	catalog, err := theme.NewCatalog(configuration.DefaultTheme)
	if err != nil {
		sessionStore.Close()
		return nil, fmt.Errorf("failed to load themes: %w", err)
	}

	fetcher := service.NewFetcher(configuration, log, nil)
	fortuneService := service.NewFortuneService(configuration, log, fetcher, oracle.New(nil, nil))
	sessions := session.NewManager(sessionStore, fortuneService, catalog, log, session.Options{
		ShareBaseURL:    configuration.ShareBaseURL,
		HistoryCapacity: configuration.HistoryCapacity,
	})

	var rateLimiter *ratelimit.ClientLimiter
	if configuration.RateLimitEnabled {
		rateLimiter = ratelimit.NewClientLimiter(configuration, log)
	}

	handlers := api.NewHandlers(api.HandlerConfig{
		Logger:         log,
		FortuneService: fortuneService,
		Sessions:       sessions,
		Themes:         catalog,
		Places:         service.NewPlacesService(configuration, fetcher, log),
		RateLimiter:    rateLimiter,
		Store:          sessionStore,
		Version:        Version,
	})

	application := &App{
		Router:         handlers.SetupRoutes(),
		FortuneService: fortuneService,
		Fetcher:        fetcher,
		logger:         log,
		store:          sessionStore,
		rateLimiter:    rateLimiter,
		purgeTicker:    time.NewTicker(configuration.FetchCacheTTL),
		stopPurge:      make(chan struct{}),
	}
	go application.purgeCache()

	log.WithFields(logger.Fields{
		"providers": len(configuration.DivinationProviders),
		"db_path":   configuration.DBPath,
		"theme":     configuration.DefaultTheme,
	}).Info("Fortune teller initialized")

	return application, nil
}

// purgeCache drops expired fetcher responses once per cache lifetime
func (a *App) purgeCache() {
	for {
		select {
		case <-a.purgeTicker.C:
			if purged := a.Fetcher.PurgeCache(); purged > 0 {
				a.logger.Debugf("Purged %d expired responses", purged)
			}
		case <-a.stopPurge:
			return
		}
	}
}

// Close stops background work and closes the session store
func (a *App) Close() error {
	var err error
	a.closeOnce.Do(func() {
		a.purgeTicker.Stop()
		close(a.stopPurge)
		if a.rateLimiter != nil {
			a.rateLimiter.Stop()
		}
		err = a.store.Close()
	})
	if err != nil {
		return fmt.Errorf("failed to close session store: %w", err)
	}
	return nil
}
