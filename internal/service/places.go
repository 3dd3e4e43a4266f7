package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dalfonso89/fortune-teller-service/internal/config"
	"github.com/dalfonso89/fortune-teller-service/internal/logger"
	"github.com/dalfonso89/fortune-teller-service/internal/models"
)

const (
	placesEndpointName = "Places"
	minPlaceQueryRunes = 2
	placesUserAgent    = "fortune-teller-service/1.0"
)

// PlacesService suggests birth places through the geocoding search API
type PlacesService struct {
	url     string
	enabled bool
	limit   int
	fetcher *Fetcher
	logger  logger.Logger
}

// NewPlacesService creates a place search over the shared fetcher
func NewPlacesService(configuration *config.Config, fetcher *Fetcher, logger logger.Logger) *PlacesService {
	return &PlacesService{
		url:     configuration.PlacesAPIURL,
		enabled: configuration.PlacesAPIEnabled,
		limit:   configuration.PlacesResultLimit,
		fetcher: fetcher,
		logger:  logger,
	}
}

// Search returns up to limit places matching query. Short queries, a
// disabled service and lookup failures all yield an empty list.
func (placesService *PlacesService) Search(ctx context.Context, query string) []models.Place {
	query = strings.TrimSpace(query)
	if !placesService.enabled || utf8.RuneCountInString(query) < minPlaceQueryRunes {
		return []models.Place{}
	}

	body, err := placesService.fetcher.Fetch(ctx, placesService.url, FetchOptions{
		Query: map[string]string{
			"format": "json",
			"q":      query,
			"limit":  strconv.Itoa(placesService.limit),
		},
		Headers: map[string]string{"User-Agent": placesUserAgent},
	}, placesEndpointName)
	if err != nil {
		placesService.logger.WithFields(logger.Fields{
			"endpoint":   placesEndpointName,
			"error_type": classifyError(err).String(),
		}).Warnf("Place search failed: %v", err)
		return []models.Place{}
	}

	places := []models.Place{}
	if err := json.Unmarshal(body, &places); err != nil {
		placesService.logger.Warnf("Place search returned an unexpected shape: %v", err)
		return []models.Place{}
	}
	if places == nil {
		return []models.Place{}
	}
	if len(places) > placesService.limit {
		places = places[:placesService.limit]
	}
	return places
}
