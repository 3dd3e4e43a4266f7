package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dalfonso89/fortune-teller-service/internal/models"
	"github.com/dalfonso89/fortune-teller-service/internal/oracle"
	"github.com/dalfonso89/fortune-teller-service/internal/testutils"
)

// MockProvider is a DivinationProvider with scripted draws
type MockProvider struct {
	name     string
	priority int
	err      error
	delay    time.Duration
	text     func(call int) string

	calls    atomic.Int32
	inFlight *atomic.Int32
	peak     *atomic.Int32
}

func (m *MockProvider) GetName() string  { return m.name }
func (m *MockProvider) IsEnabled() bool  { return true }
func (m *MockProvider) GetPriority() int { return m.priority }

func (m *MockProvider) Draw(ctx context.Context) (models.RawFortune, error) {
	call := int(m.calls.Add(1))
	if m.inFlight != nil {
		current := m.inFlight.Add(1)
		defer m.inFlight.Add(-1)
		for {
			peak := m.peak.Load()
			if current <= peak || m.peak.CompareAndSwap(peak, current) {
				break
			}
		}
	}
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if m.err != nil {
		return models.RawFortune{}, m.err
	}
	return models.RawFortune{Text: m.text(call)}, nil
}

func fixedText(text string) func(int) string {
	return func(int) string { return text }
}

func uniqueText(prefix string) func(int) string {
	return func(call int) string { return fmt.Sprintf("%s reading number %d brings a new beginning", prefix, call) }
}

func newTestFortuneService(providers ...DivinationProvider) *FortuneService {
	fortuneOracle := oracle.New(oracle.NewSeededSource(42, 43), testutils.FixedClock())
	return NewFortuneServiceWithProviders(testutils.MockConfig(), testutils.MockLogger(), providers, fortuneOracle)
}

func TestFetchRandomFortune_UsesProviderResult(t *testing.T) {
	defer goleak.VerifyNone(t)

	service := newTestFortuneService(
		&MockProvider{name: "Tarot", text: fixedText("The Star - Hope, faith, purpose, renewal.")},
		&MockProvider{name: "IChing", err: errors.New("connection refused")},
		&MockProvider{name: "Astrology", err: &ServiceError{Type: ErrorTypeRateLimited, Message: "slow down"}},
	)

	fortune := service.FetchRandomFortune(context.Background(), models.CategoryCareer, time.Time{})

	assert.Equal(t, "The Star - Hope, faith, purpose, renewal.", fortune.English)
	assert.Equal(t, models.CategoryCareer, fortune.Category)
	assert.NotEmpty(t, fortune.Chinese)
	assert.NotEmpty(t, fortune.Interpretation)
	assert.Nil(t, fortune.Personal)
	assert.Equal(t, 1, service.RecentCount())
}

func TestFetchRandomFortune_AllEndpointsFailFallsBackToLuck(t *testing.T) {
	server := testutils.NewMockDivinationServer()
	defer server.Close()
	server.FailAll()

	configuration := testutils.MockConfigForServer(server)
	fetcher := NewFetcher(configuration, testutils.MockLogger(), nil)
	fortuneOracle := oracle.New(oracle.NewSeededSource(1, 2), testutils.FixedClock())
	service := NewFortuneService(configuration, testutils.MockLogger(), fetcher, fortuneOracle)

	fortune := service.FetchRandomFortune(context.Background(), models.CategoryAll, time.Time{})

	assert.Equal(t, models.CategoryLuck, fortune.Category)
	assert.Contains(t, fortuneOracle.Pool().Sentences(models.CategoryAll), fortune.English)
	assert.Equal(t, 12, server.TotalHits(), "three endpoints with four attempts each")
	assert.Zero(t, service.RecentCount())
}

func TestFetchRandomFortune_SkipsRecentlySeen(t *testing.T) {
	defer goleak.VerifyNone(t)

	text := "The Moon - Illusion, intuition, the unconscious mind."
	service := newTestFortuneService(&MockProvider{name: "Tarot", text: fixedText(text)})

	first := service.FetchRandomFortune(context.Background(), models.CategoryLove, time.Time{})
	assert.Equal(t, text, first.English)

	second := service.FetchRandomFortune(context.Background(), models.CategoryLove, time.Time{})
	assert.NotEqual(t, text, second.English)
	assert.Contains(t, oracle.DefaultPool().Sentences(models.CategoryLove), second.English)
}

func TestFetchRandomFortune_CategoryProperty(t *testing.T) {
	defer goleak.VerifyNone(t)

	categories := []models.Category{models.CategoryAll, models.CategoryLove, models.CategoryCareer, models.CategoryHealth, models.CategoryLuck}
	withProviders := newTestFortuneService(&MockProvider{name: "Astrology", text: uniqueText("astrology")})
	withoutProviders := newTestFortuneService()

	for _, service := range []*FortuneService{withProviders, withoutProviders} {
		for _, category := range categories {
			for i := 0; i < 5; i++ {
				fortune := service.FetchRandomFortune(context.Background(), category, time.Time{})
				if category == models.CategoryAll {
					assert.True(t, fortune.Category.IsConcrete(), "got %q", fortune.Category)
				} else {
					assert.Equal(t, category, fortune.Category)
				}
			}
		}
	}
}

func TestFetchRandomFortune_RecentSetIsBounded(t *testing.T) {
	defer goleak.VerifyNone(t)

	service := newTestFortuneService(
		&MockProvider{name: "Tarot", text: uniqueText("tarot")},
		&MockProvider{name: "IChing", text: uniqueText("iching")},
	)

	for i := 0; i < 50; i++ {
		service.FetchRandomFortune(context.Background(), models.CategoryLuck, time.Time{})
		assert.LessOrEqual(t, service.RecentCount(), 20)
	}
	assert.Equal(t, 20, service.RecentCount())
}

func TestFetchRandomFortune_RespectsConcurrencyLimit(t *testing.T) {
	defer goleak.VerifyNone(t)

	var inFlight, peak atomic.Int32
	providers := make([]DivinationProvider, 0, 3)
	for i := 0; i < 3; i++ {
		providers = append(providers, &MockProvider{
			name:     fmt.Sprintf("provider-%d", i),
			delay:    20 * time.Millisecond,
			text:     uniqueText(fmt.Sprintf("provider %d", i)),
			inFlight: &inFlight,
			peak:     &peak,
		})
	}

	configuration := testutils.MockConfig()
	configuration.MaxConcurrentRequests = 1
	fortuneOracle := oracle.New(oracle.NewSeededSource(7, 8), testutils.FixedClock())
	service := NewFortuneServiceWithProviders(configuration, testutils.MockLogger(), providers, fortuneOracle)

	service.FetchRandomFortune(context.Background(), models.CategoryHealth, time.Time{})

	assert.Equal(t, int32(1), peak.Load())
	for _, provider := range providers {
		assert.Equal(t, int32(1), provider.(*MockProvider).calls.Load())
	}
}

func TestFetchRandomFortune_ConcurrentCallers(t *testing.T) {
	defer goleak.VerifyNone(t)

	service := newTestFortuneService(
		&MockProvider{name: "Tarot", text: uniqueText("tarot")},
		&MockProvider{name: "IChing", text: uniqueText("iching")},
		&MockProvider{name: "Astrology", text: uniqueText("astrology")},
	)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fortune := service.FetchRandomFortune(context.Background(), models.CategoryAll, time.Time{})
			assert.NotEmpty(t, fortune.English)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, service.RecentCount(), 20)
}

func TestFetchRandomFortune_WithBirthDate(t *testing.T) {
	service := newTestFortuneService()

	fortune := service.FetchRandomFortune(context.Background(), models.CategoryLove, time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC))

	require.NotNil(t, fortune.Personal)
	assert.Len(t, fortune.Personal.LuckyDays, 3)
}

func TestGetProviderStatus(t *testing.T) {
	service := newTestFortuneService(
		&MockProvider{name: "Tarot", priority: 1},
		&MockProvider{name: "IChing", priority: 2},
	)

	assert.Equal(t, []ProviderStatus{
		{Name: "Tarot", Enabled: true, Priority: 1},
		{Name: "IChing", Enabled: true, Priority: 2},
	}, service.GetProviderStatus())
}

func TestGetProviderStatus_ReportsRemainingRequests(t *testing.T) {
	server := testutils.NewMockDivinationServer()
	defer server.Close()

	configuration := testutils.MockConfigForServer(server)
	fetcher := NewFetcher(configuration, testutils.MockLogger(), nil)
	fortuneOracle := oracle.New(oracle.NewSeededSource(1, 2), testutils.FixedClock())
	service := NewFortuneService(configuration, testutils.MockLogger(), fetcher, fortuneOracle)

	for _, status := range service.GetProviderStatus() {
		require.NotNil(t, status.RemainingRequests, status.Name)
		assert.Equal(t, 60, *status.RemainingRequests, status.Name)
	}

	service.FetchRandomFortune(context.Background(), models.CategoryLove, time.Time{})

	statuses := service.GetProviderStatus()
	require.Len(t, statuses, 3)
	for _, status := range statuses {
		require.NotNil(t, status.RemainingRequests, status.Name)
		assert.Equal(t, 59, *status.RemainingRequests, status.Name)
	}
}

func TestRecentSet(t *testing.T) {
	set := NewRecentSet(3)

	set.Add("a")
	set.Add("b")
	set.Add("a")
	assert.Equal(t, 2, set.Len())

	set.Add("c")
	set.Add("d")
	assert.Equal(t, 3, set.Len())
	assert.False(t, set.Contains("a"), "oldest entry is evicted")
	assert.True(t, set.Contains("b"))
	assert.True(t, set.Contains("d"))
}
