// Package session keeps the per-visitor state of the fortune card: the
// displayed fortune, history, theme, background and saved dharma readings.
package session

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dalfonso89/fortune-teller-service/internal/logger"
	"github.com/dalfonso89/fortune-teller-service/internal/models"
	"github.com/dalfonso89/fortune-teller-service/internal/store"
	"github.com/dalfonso89/fortune-teller-service/internal/theme"
)

var (
	ErrFortuneNotFound = errors.New("fortune not in history")
	ErrReadingNotFound = errors.New("reading not found")
	ErrNoFortune       = errors.New("no fortune has been generated yet")
)

const lockStripes = 32

// Store is the per-session key-value persistence Manager relies on
type Store interface {
	GetJSON(ctx context.Context, sessionID, key string, target any) error
	PutJSON(ctx context.Context, sessionID, key string, value any) error
}

// FortuneGenerator produces enhanced fortunes
type FortuneGenerator interface {
	FetchRandomFortune(ctx context.Context, category models.Category, birthDate time.Time) models.EnhancedFortune
}

// Manager applies user actions to session state. Calls for the same session
// are serialized.
type Manager struct {
	store           Store
	fortunes        FortuneGenerator
	themes          *theme.Catalog
	logger          logger.Logger
	shareBaseURL    string
	historyCapacity int
	now             func() time.Time

	locks [lockStripes]sync.Mutex
}

// Options configures a Manager
type Options struct {
	ShareBaseURL    string
	HistoryCapacity int
	Now             func() time.Time
}

// NewManager creates a session manager
func NewManager(sessionStore Store, fortunes FortuneGenerator, themes *theme.Catalog, logger logger.Logger, options Options) *Manager {
	if options.Now == nil {
		options.Now = time.Now
	}
	return &Manager{
		store:           sessionStore,
		fortunes:        fortunes,
		themes:          themes,
		logger:          logger,
		shareBaseURL:    options.ShareBaseURL,
		historyCapacity: options.HistoryCapacity,
		now:             options.Now,
	}
}

// NewSessionID returns a fresh random session id
func NewSessionID() string {
	return uuid.NewString()
}

func (m *Manager) lock(sessionID string) func() {
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(sessionID))
	mutex := &m.locks[hash.Sum32()%lockStripes]
	mutex.Lock()
	return mutex.Unlock
}

// Generate draws a new fortune and shows it. When the draw repeats the
// displayed fortune id, one more draw is made with another category. The
// shown fortune is prepended to history unless its id is already there.
// Draws run without the session lock so slow providers never hold it.
func (m *Manager) Generate(ctx context.Context, sessionID string, category models.Category, birthDate time.Time) (models.EnhancedFortune, error) {
	unlock := m.lock(sessionID)
	current, err := m.lastFortune(ctx, sessionID)
	unlock()
	if err != nil && !errors.Is(err, ErrNoFortune) {
		return models.EnhancedFortune{}, err
	}

	fortune := m.fortunes.FetchRandomFortune(ctx, category, birthDate)
	if current != nil && fortune.ID == current.ID {
		retryCategory := differentCategory(category)
		m.logger.WithFields(logger.Fields{
			"session":  sessionID,
			"id":       fortune.ID,
			"category": retryCategory,
		}).Debug("Fortune id repeated, drawing again")
		fortune = m.fortunes.FetchRandomFortune(ctx, retryCategory, birthDate)
	}

	if err := m.show(ctx, sessionID, fortune.Fortune); err != nil {
		return models.EnhancedFortune{}, err
	}
	return fortune, nil
}

// show stores fortune as the displayed one and records it in history
func (m *Manager) show(ctx context.Context, sessionID string, fortune models.Fortune) error {
	unlock := m.lock(sessionID)
	defer unlock()

	if err := m.store.PutJSON(ctx, sessionID, store.KeyLastFortune, fortune); err != nil {
		return err
	}

	history, err := m.history(ctx, sessionID)
	if err != nil {
		return err
	}
	if indexOf(history, fortune.ID) >= 0 {
		return nil
	}
	history = append([]models.Fortune{fortune}, history...)
	if len(history) > m.historyCapacity {
		history = history[:m.historyCapacity]
	}
	return m.store.PutJSON(ctx, sessionID, store.KeyFortuneHistory, history)
}

// differentCategory is the first concrete category other than category
func differentCategory(category models.Category) models.Category {
	for _, candidate := range models.ConcreteCategories {
		if candidate != category {
			return candidate
		}
	}
	return models.CategoryLove
}

// State returns everything a client restores on startup
func (m *Manager) State(ctx context.Context, sessionID string) (models.SessionState, error) {
	last, err := m.lastFortune(ctx, sessionID)
	if err != nil && !errors.Is(err, ErrNoFortune) {
		return models.SessionState{}, err
	}
	selected, err := m.currentTheme(ctx, sessionID)
	if err != nil {
		return models.SessionState{}, err
	}
	index, err := m.backgroundIndex(ctx, sessionID)
	if err != nil {
		return models.SessionState{}, err
	}
	history, err := m.history(ctx, sessionID)
	if err != nil {
		return models.SessionState{}, err
	}

	return models.SessionState{
		SessionID:       sessionID,
		LastFortune:     last,
		Theme:           selected,
		BackgroundIndex: index,
		Background:      m.themes.Background(index),
		HistorySize:     len(history),
	}, nil
}

// History returns past fortunes, newest first
func (m *Manager) History(ctx context.Context, sessionID string) ([]models.Fortune, error) {
	return m.history(ctx, sessionID)
}

// SelectFromHistory shows a past fortune again. History is left untouched.
func (m *Manager) SelectFromHistory(ctx context.Context, sessionID string, fortuneID int) (models.Fortune, error) {
	unlock := m.lock(sessionID)
	defer unlock()

	history, err := m.history(ctx, sessionID)
	if err != nil {
		return models.Fortune{}, err
	}
	index := indexOf(history, fortuneID)
	if index < 0 {
		return models.Fortune{}, fmt.Errorf("fortune %d: %w", fortuneID, ErrFortuneNotFound)
	}

	if err := m.store.PutJSON(ctx, sessionID, store.KeyLastFortune, history[index]); err != nil {
		return models.Fortune{}, err
	}
	return history[index], nil
}

// SetTheme switches the session to themeID
func (m *Manager) SetTheme(ctx context.Context, sessionID, themeID string) (models.Theme, error) {
	selected, err := m.themes.Get(themeID)
	if err != nil {
		return models.Theme{}, err
	}

	unlock := m.lock(sessionID)
	defer unlock()

	if err := m.store.PutJSON(ctx, sessionID, store.KeyTheme, selected.ID); err != nil {
		return models.Theme{}, err
	}
	return selected, nil
}

// NextBackground advances to the next background, wrapping after the last
func (m *Manager) NextBackground(ctx context.Context, sessionID string) (int, string, error) {
	return m.moveBackground(ctx, sessionID, 1)
}

// PrevBackground goes back one background, wrapping before the first
func (m *Manager) PrevBackground(ctx context.Context, sessionID string) (int, string, error) {
	return m.moveBackground(ctx, sessionID, -1)
}

func (m *Manager) moveBackground(ctx context.Context, sessionID string, step int) (int, string, error) {
	unlock := m.lock(sessionID)
	defer unlock()

	index, err := m.backgroundIndex(ctx, sessionID)
	if err != nil {
		return 0, "", err
	}
	index = theme.WrapIndex(index+step, m.themes.BackgroundCount())

	if err := m.store.PutJSON(ctx, sessionID, store.KeyBackground, index); err != nil {
		return 0, "", err
	}
	return index, m.themes.Background(index), nil
}

// ShareLinks builds social network share URLs for the displayed fortune
func (m *Manager) ShareLinks(ctx context.Context, sessionID string) (models.ShareLinks, error) {
	last, err := m.lastFortune(ctx, sessionID)
	if err != nil {
		return models.ShareLinks{}, err
	}
	return BuildShareLinks(*last, m.shareBaseURL), nil
}

// BuildShareLinks builds the share text and per-network URLs for fortune
func BuildShareLinks(fortune models.Fortune, shareURL string) models.ShareLinks {
	text := fmt.Sprintf("My fortune: \"%s\" - %s - %s", fortune.Chinese, fortune.English, fortune.Interpretation)
	escapedText := encodeComponent(text)
	escapedURL := encodeComponent(shareURL)

	return models.ShareLinks{
		Text:      text,
		Twitter:   "https://twitter.com/intent/tweet?text=" + escapedText + "&url=" + escapedURL,
		Facebook:  "https://www.facebook.com/sharer/sharer.php?u=" + escapedURL + "&quote=" + escapedText,
		Instagram: "https://www.instagram.com/",
		LinkedIn:  "https://www.linkedin.com/sharing/share-offsite/?url=" + escapedURL + "&summary=" + escapedText,
	}
}

// encodeComponent escapes s for a query value with spaces as %20
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// SaveReading keeps a dharma result under a new id
func (m *Manager) SaveReading(ctx context.Context, sessionID string, result models.DharmaResult) (models.SavedReading, error) {
	unlock := m.lock(sessionID)
	defer unlock()

	readings, err := m.readings(ctx, sessionID)
	if err != nil {
		return models.SavedReading{}, err
	}

	reading := models.SavedReading{
		DharmaResult: result,
		ID:           uuid.NewString(),
		Timestamp:    m.now().UnixMilli(),
	}
	readings = append(readings, reading)

	if err := m.store.PutJSON(ctx, sessionID, store.KeyDharmaReadings, readings); err != nil {
		return models.SavedReading{}, err
	}
	return reading, nil
}

// ListReadings returns saved readings, oldest first
func (m *Manager) ListReadings(ctx context.Context, sessionID string) ([]models.SavedReading, error) {
	return m.readings(ctx, sessionID)
}

// DeleteReading removes the reading with readingID
func (m *Manager) DeleteReading(ctx context.Context, sessionID, readingID string) error {
	unlock := m.lock(sessionID)
	defer unlock()

	readings, err := m.readings(ctx, sessionID)
	if err != nil {
		return err
	}

	kept := readings[:0]
	for _, reading := range readings {
		if reading.ID != readingID {
			kept = append(kept, reading)
		}
	}
	if len(kept) == len(readings) {
		return fmt.Errorf("reading %s: %w", readingID, ErrReadingNotFound)
	}

	return m.store.PutJSON(ctx, sessionID, store.KeyDharmaReadings, kept)
}

func (m *Manager) lastFortune(ctx context.Context, sessionID string) (*models.Fortune, error) {
	var fortune models.Fortune
	found, err := m.load(ctx, sessionID, store.KeyLastFortune, &fortune)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNoFortune
	}
	return &fortune, nil
}

func (m *Manager) history(ctx context.Context, sessionID string) ([]models.Fortune, error) {
	history := []models.Fortune{}
	if _, err := m.load(ctx, sessionID, store.KeyFortuneHistory, &history); err != nil {
		return nil, err
	}
	return history, nil
}

func (m *Manager) readings(ctx context.Context, sessionID string) ([]models.SavedReading, error) {
	readings := []models.SavedReading{}
	if _, err := m.load(ctx, sessionID, store.KeyDharmaReadings, &readings); err != nil {
		return nil, err
	}
	return readings, nil
}

// currentTheme falls back to the default when nothing valid is stored
func (m *Manager) currentTheme(ctx context.Context, sessionID string) (models.Theme, error) {
	var themeID string
	found, err := m.load(ctx, sessionID, store.KeyTheme, &themeID)
	if err != nil {
		return models.Theme{}, err
	}
	if !found {
		return m.themes.Default(), nil
	}

	selected, err := m.themes.Get(themeID)
	if err != nil {
		m.logger.Warnf("Stored theme %q is no longer available, using default", themeID)
		return m.themes.Default(), nil
	}
	return selected, nil
}

func (m *Manager) backgroundIndex(ctx context.Context, sessionID string) (int, error) {
	var index int
	if _, err := m.load(ctx, sessionID, store.KeyBackground, &index); err != nil {
		return 0, err
	}
	return theme.WrapIndex(index, m.themes.BackgroundCount()), nil
}

// load reads key into target, reporting false when the session has no value
func (m *Manager) load(ctx context.Context, sessionID, key string, target any) (bool, error) {
	err := m.store.GetJSON(ctx, sessionID, key, target)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func indexOf(history []models.Fortune, id int) int {
	for i, fortune := range history {
		if fortune.ID == id {
			return i
		}
	}
	return -1
}
