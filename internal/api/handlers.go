package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dalfonso89/fortune-teller-service/internal/dharma"
	"github.com/dalfonso89/fortune-teller-service/internal/logger"
	"github.com/dalfonso89/fortune-teller-service/internal/middleware"
	"github.com/dalfonso89/fortune-teller-service/internal/models"
	"github.com/dalfonso89/fortune-teller-service/internal/ratelimit"
	"github.com/dalfonso89/fortune-teller-service/internal/service"
	"github.com/dalfonso89/fortune-teller-service/internal/session"
	"github.com/dalfonso89/fortune-teller-service/internal/theme"
	"github.com/dalfonso89/fortune-teller-service/internal/validation"
)

const birthDateLayout = "2006-01-02"

// errInvalidRequest marks query strings and bodies that failed to bind
var errInvalidRequest = errors.New("invalid request")

// FortuneService is the part of the fortune aggregator the handlers use
type FortuneService interface {
	FetchRandomFortune(ctx context.Context, category models.Category, birthDate time.Time) models.EnhancedFortune
	GetProviderStatus() []service.ProviderStatus
}

// PlaceSearcher suggests birth places for a partial name
type PlaceSearcher interface {
	Search(ctx context.Context, query string) []models.Place
}

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HandlerConfig contains all dependencies for the Handlers
type HandlerConfig struct {
	Logger         logger.Logger
	FortuneService FortuneService
	Sessions       *session.Manager
	Themes         *theme.Catalog
	Places         PlaceSearcher
	RateLimiter    *ratelimit.ClientLimiter
	Store          Pinger
	Version        string
}

// Handlers contains all HTTP handlers
type Handlers struct {
	logger         logger.Logger
	startTime      time.Time
	fortuneService FortuneService
	sessions       *session.Manager
	themes         *theme.Catalog
	places         PlaceSearcher
	rateLimiter    *ratelimit.ClientLimiter
	store          Pinger
	version        string
}

// NewHandlers creates a new handlers instance
func NewHandlers(config HandlerConfig) *Handlers {
	version := config.Version
	if version == "" {
		version = "1.0.0"
	}
	return &Handlers{
		logger:         config.Logger,
		startTime:      time.Now(),
		fortuneService: config.FortuneService,
		sessions:       config.Sessions,
		themes:         config.Themes,
		places:         config.Places,
		rateLimiter:    config.RateLimiter,
		store:          config.Store,
		version:        version,
	}
}

// SetupRoutes configures all the routes using Gin
func (handlers *Handlers) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(handlers.logger))
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS())

	if handlers.rateLimiter != nil {
		router.Use(handlers.rateLimiter.Middleware())
	}

	router.GET("/health", handlers.HealthCheck)

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/providers", handlers.GetProviders)
		apiV1.GET("/themes", handlers.GetThemes)
		apiV1.GET("/backgrounds", handlers.GetBackgrounds)
		apiV1.GET("/places", handlers.SearchPlaces)
		apiV1.GET("/fortunes/random", handlers.GetRandomFortune)
		apiV1.POST("/dharma", handlers.CalculateDharma)

		sessionRoutes := apiV1.Group("/session", middleware.SessionID())
		{
			sessionRoutes.GET("", handlers.GetSession)
			sessionRoutes.POST("/fortunes", handlers.GenerateFortune)
			sessionRoutes.GET("/history", handlers.GetHistory)
			sessionRoutes.POST("/history/:id/select", handlers.SelectFromHistory)
			sessionRoutes.PUT("/theme", handlers.SetTheme)
			sessionRoutes.POST("/background/next", handlers.NextBackground)
			sessionRoutes.POST("/background/prev", handlers.PrevBackground)
			sessionRoutes.GET("/share", handlers.GetShareLinks)
			sessionRoutes.GET("/readings", handlers.ListReadings)
			sessionRoutes.POST("/readings", handlers.SaveReading)
			sessionRoutes.DELETE("/readings/:id", handlers.DeleteReading)
		}
	}

	return router
}

// fortuneQuery is the query string of the fortune endpoints
type fortuneQuery struct {
	Category  string `form:"category" binding:"omitempty,oneof=all love career health luck"`
	BirthDate string `form:"birthDate" binding:"omitempty,datetime=2006-01-02"`
}

func (query fortuneQuery) parse() (models.Category, time.Time) {
	var birthDate time.Time
	if query.BirthDate != "" {
		birthDate, _ = time.Parse(birthDateLayout, query.BirthDate)
	}
	return models.ParseCategory(query.Category), birthDate
}

type themeRequest struct {
	ThemeID string `json:"themeId" binding:"required"`
}

// themeView is a theme with its colors resolved per role
type themeView struct {
	models.Theme
	Style theme.Style `json:"style"`
}

type backgroundResponse struct {
	Index      int    `json:"index"`
	Background string `json:"background"`
}

// HealthCheck handles health check requests
func (handlers *Handlers) HealthCheck(context *gin.Context) {
	healthStatus := "healthy"
	if handlers.store != nil {
		if pingError := handlers.store.Ping(context.Request.Context()); pingError != nil {
			healthStatus = "unhealthy"
			handlers.logger.Warnf("Session store health check failed: %v", pingError)
		}
	}

	context.JSON(http.StatusOK, models.HealthCheck{
		Status:    healthStatus,
		Timestamp: time.Now(),
		Version:   handlers.version,
		Uptime:    time.Since(handlers.startTime).String(),
	})
}

// GetProviders lists the divination providers
func (handlers *Handlers) GetProviders(context *gin.Context) {
	context.JSON(http.StatusOK, handlers.fortuneService.GetProviderStatus())
}

// GetThemes lists every theme with its style
func (handlers *Handlers) GetThemes(context *gin.Context) {
	themes := handlers.themes.List()
	views := make([]themeView, len(themes))
	for i, entry := range themes {
		views[i] = themeView{Theme: entry, Style: theme.StyleOf(entry)}
	}
	context.JSON(http.StatusOK, views)
}

// GetBackgrounds lists the background images in switching order
func (handlers *Handlers) GetBackgrounds(context *gin.Context) {
	context.JSON(http.StatusOK, handlers.themes.Backgrounds())
}

// SearchPlaces suggests birth places; failures yield an empty list
func (handlers *Handlers) SearchPlaces(context *gin.Context) {
	places := []models.Place{}
	if handlers.places != nil {
		places = handlers.places.Search(context.Request.Context(), context.Query("q"))
	}
	context.JSON(http.StatusOK, places)
}

// GetRandomFortune draws a fortune without touching any session
func (handlers *Handlers) GetRandomFortune(context *gin.Context) {
	var query fortuneQuery
	if bindError := context.ShouldBindQuery(&query); bindError != nil {
		handlers.handleError(context, errors.Join(errInvalidRequest, bindError))
		return
	}

	category, birthDate := query.parse()
	context.JSON(http.StatusOK, handlers.fortuneService.FetchRandomFortune(context.Request.Context(), category, birthDate))
}

// CalculateDharma computes a dharma reading without saving it
func (handlers *Handlers) CalculateDharma(context *gin.Context) {
	result, calculateError := handlers.calculateDharma(context)
	if calculateError != nil {
		handlers.handleError(context, calculateError)
		return
	}
	context.JSON(http.StatusOK, result)
}

func (handlers *Handlers) calculateDharma(context *gin.Context) (models.DharmaResult, error) {
	var input dharma.Input
	if bindError := context.ShouldBindJSON(&input); bindError != nil {
		return models.DharmaResult{}, errors.Join(dharma.ErrInvalidInput, bindError)
	}
	return dharma.Calculate(input)
}

// GetSession returns the state a client restores on startup
func (handlers *Handlers) GetSession(context *gin.Context) {
	state, stateError := handlers.sessions.State(context.Request.Context(), sessionID(context))
	if stateError != nil {
		handlers.handleError(context, stateError)
		return
	}
	context.JSON(http.StatusOK, state)
}

// GenerateFortune draws a fortune, shows it and records it in history
func (handlers *Handlers) GenerateFortune(context *gin.Context) {
	var query fortuneQuery
	if bindError := context.ShouldBindQuery(&query); bindError != nil {
		handlers.handleError(context, errors.Join(errInvalidRequest, bindError))
		return
	}

	category, birthDate := query.parse()
	fortune, generateError := handlers.sessions.Generate(context.Request.Context(), sessionID(context), category, birthDate)
	if generateError != nil {
		handlers.handleError(context, generateError)
		return
	}
	context.JSON(http.StatusOK, fortune)
}

// GetHistory returns past fortunes, newest first
func (handlers *Handlers) GetHistory(context *gin.Context) {
	history, historyError := handlers.sessions.History(context.Request.Context(), sessionID(context))
	if historyError != nil {
		handlers.handleError(context, historyError)
		return
	}
	context.JSON(http.StatusOK, history)
}

// SelectFromHistory shows a past fortune again
func (handlers *Handlers) SelectFromHistory(context *gin.Context) {
	fortuneID, parseError := strconv.Atoi(context.Param("id"))
	if parseError != nil {
		handlers.writeErrorResponse(context, http.StatusBadRequest, "Invalid fortune ID", "Fortune ID must be a number")
		return
	}

	fortune, selectError := handlers.sessions.SelectFromHistory(context.Request.Context(), sessionID(context), fortuneID)
	if selectError != nil {
		handlers.handleError(context, selectError)
		return
	}
	context.JSON(http.StatusOK, fortune)
}

// SetTheme switches the session theme
func (handlers *Handlers) SetTheme(context *gin.Context) {
	var request themeRequest
	if bindError := context.ShouldBindJSON(&request); bindError != nil {
		handlers.handleError(context, errors.Join(errInvalidRequest, bindError))
		return
	}

	selected, themeError := handlers.sessions.SetTheme(context.Request.Context(), sessionID(context), request.ThemeID)
	if themeError != nil {
		handlers.handleError(context, themeError)
		return
	}
	context.JSON(http.StatusOK, themeView{Theme: selected, Style: theme.StyleOf(selected)})
}

// NextBackground advances the background image
func (handlers *Handlers) NextBackground(context *gin.Context) {
	handlers.writeBackground(context, handlers.sessions.NextBackground)
}

// PrevBackground goes back one background image
func (handlers *Handlers) PrevBackground(context *gin.Context) {
	handlers.writeBackground(context, handlers.sessions.PrevBackground)
}

// backgroundMove is session.Manager.NextBackground or PrevBackground
type backgroundMove func(ctx context.Context, sessionID string) (int, string, error)

func (handlers *Handlers) writeBackground(context *gin.Context, move backgroundMove) {
	index, background, moveError := move(context.Request.Context(), sessionID(context))
	if moveError != nil {
		handlers.handleError(context, moveError)
		return
	}
	context.JSON(http.StatusOK, backgroundResponse{Index: index, Background: background})
}

// GetShareLinks returns share URLs for the displayed fortune
func (handlers *Handlers) GetShareLinks(context *gin.Context) {
	links, shareError := handlers.sessions.ShareLinks(context.Request.Context(), sessionID(context))
	if shareError != nil {
		handlers.handleError(context, shareError)
		return
	}
	context.JSON(http.StatusOK, links)
}

// ListReadings returns the saved dharma readings
func (handlers *Handlers) ListReadings(context *gin.Context) {
	readings, listError := handlers.sessions.ListReadings(context.Request.Context(), sessionID(context))
	if listError != nil {
		handlers.handleError(context, listError)
		return
	}
	context.JSON(http.StatusOK, readings)
}

// SaveReading calculates a dharma reading and saves it to the session
func (handlers *Handlers) SaveReading(context *gin.Context) {
	result, calculateError := handlers.calculateDharma(context)
	if calculateError != nil {
		handlers.handleError(context, calculateError)
		return
	}

	reading, saveError := handlers.sessions.SaveReading(context.Request.Context(), sessionID(context), result)
	if saveError != nil {
		handlers.handleError(context, saveError)
		return
	}
	context.JSON(http.StatusCreated, reading)
}

// DeleteReading removes a saved reading
func (handlers *Handlers) DeleteReading(context *gin.Context) {
	if deleteError := handlers.sessions.DeleteReading(context.Request.Context(), sessionID(context), context.Param("id")); deleteError != nil {
		handlers.handleError(context, deleteError)
		return
	}
	context.Status(http.StatusNoContent)
}

func sessionID(context *gin.Context) string {
	return context.GetString(middleware.SessionIDKey)
}

// handleError logs err and writes the matching error response
func (handlers *Handlers) handleError(context *gin.Context, err error) {
	statusCode, message := mapError(err)
	if statusCode >= http.StatusInternalServerError {
		handlers.logger.Errorf("Request %s %s failed: %v", context.Request.Method, context.FullPath(), err)
	}
	handlers.writeErrorResponse(context, statusCode, message, err.Error())
}

// mapError picks the status code and summary for err
func mapError(err error) (int, string) {
	var validationError *validation.Error

	switch {
	case errors.Is(err, errInvalidRequest), errors.As(err, &validationError), errors.Is(err, dharma.ErrInvalidInput):
		return http.StatusBadRequest, "Invalid request"
	case errors.Is(err, theme.ErrUnknownTheme):
		return http.StatusBadRequest, "Unknown theme"
	case errors.Is(err, session.ErrFortuneNotFound), errors.Is(err, session.ErrReadingNotFound), errors.Is(err, session.ErrNoFortune):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, ratelimit.ErrRateLimitExceeded):
		return http.StatusTooManyRequests, "Rate limit exceeded"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// writeErrorResponse writes an error response using Gin context
func (handlers *Handlers) writeErrorResponse(context *gin.Context, statusCode int, errorMessage, errorDetails string) {
	context.JSON(statusCode, models.ErrorResponse{
		Error:   errorMessage,
		Message: errorDetails,
		Code:    statusCode,
	})
}
