package oracle

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dalfonso89/fortune-teller-service/internal/models"
)

func TestStrength_StaysInRange(t *testing.T) {
	for seed := uint64(0); seed < 200; seed++ {
		o := New(NewSeededSource(seed, seed*31), func() time.Time {
			return fixedNow.Add(time.Duration(seed) * 37 * time.Minute)
		})
		text := randomText(o, int(seed%40))
		signals := Signals{
			Zodiac:   o.ZodiacInfo(),
			Lunar:    o.LunarInfo(),
			FengShui: o.FengShuiAdvice(),
			Lucky:    o.LuckyElements(text),
		}

		strength := o.Strength(text, o.ResolveCategory(models.CategoryAll), signals)
		assert.GreaterOrEqual(t, strength, 1)
		assert.LessOrEqual(t, strength, 100)
	}
}

func TestStrength_DeterministicForSeed(t *testing.T) {
	signals := Signals{
		Zodiac:   models.ZodiacInfo{Sign: "Pisces"},
		Lunar:    models.LunarInfo{Phase: "full moon", DayType: "auspicious"},
		FengShui: models.FengShuiAdvice{Element: "Water", Direction: "north"},
		Lucky:    models.LuckyElements{Colors: []string{"green"}, Directions: []string{"east"}},
	}

	first := newTestOracle(9).Strength("Love and harmony bring joy.", models.CategoryLove, signals)
	second := newTestOracle(9).Strength("Love and harmony bring joy.", models.CategoryLove, signals)
	assert.Equal(t, first, second)
}

func TestTextPositivity(t *testing.T) {
	assert.Equal(t, 0.0, TextPositivity("nothing to see"))
	assert.InDelta(t, 0.4, TextPositivity("Joy and peace"), 1e-9)
	assert.Equal(t, 0.0, TextPositivity("fear and worry with joy"))
	assert.Equal(t, 1.0, TextPositivity("success happy joy love peace harmony"))
}

func TestTextUniqueness(t *testing.T) {
	assert.Equal(t, 1.0, TextUniqueness("every word differs"))
	assert.Equal(t, 0.5, TextUniqueness("echo Echo two TWO"))
	assert.Equal(t, 0.0, TextUniqueness("   "))
}

func TestTextClarity(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected float64
	}{
		{"short sentence with trailing stop", "Hello world.", 0.3},
		{"ten word sentence without stop", "one two three four five six seven eight nine ten", 1},
		{"seven word sentence", "one two three four five six seven", 0.7},
		{"very long sentence", strings.Repeat("w ", 32), 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TextClarity(tt.text))
		})
	}
}

func TestCategoryRelevance(t *testing.T) {
	assert.InDelta(t, 2.0/6.0, CategoryRelevance("Your heart finds a partner", models.CategoryLove), 1e-9)
	assert.Equal(t, 0.0, CategoryRelevance("Your heart finds a partner", models.CategoryCareer))
	assert.Equal(t, 0.0, CategoryRelevance("luck", models.CategoryAll))
}

func TestCategoryTiming(t *testing.T) {
	tests := []struct {
		category models.Category
		hour     int
		expected float64
	}{
		{models.CategoryLove, 19, 1},
		{models.CategoryLove, 16, 0.8},
		{models.CategoryLove, 3, 0.5},
		{models.CategoryCareer, 8, 0.8},
		{models.CategoryHealth, 7, 1},
		{models.CategoryLuck, 2, 0.8},
		{models.CategoryAll, 12, 0.5},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, CategoryTiming(tt.category, tt.hour), "%s at %d", tt.category, tt.hour)
	}
}

func TestHarmony(t *testing.T) {
	assert.Equal(t, 1.0, zodiacHarmony("Pisces", "Pisces"))
	assert.Equal(t, 1.0, zodiacHarmony("Cancer", "Pisces"))
	assert.Equal(t, 0.7, zodiacHarmony("Aries", "Pisces"))
	assert.Equal(t, 0.7, zodiacHarmony("Ophiuchus", "Pisces"))

	lucky := models.LuckyElements{Colors: []string{"green"}, Directions: []string{"east"}}
	assert.Equal(t, 1.0, elementHarmony("Water", lucky), "water feeds wood")
	assert.Equal(t, 1.0, elementHarmony("Wood", lucky), "same element")
	assert.Equal(t, 0.7, elementHarmony("Earth", lucky))
	assert.Equal(t, 0.7, elementHarmony("Earth", models.LuckyElements{}))

	assert.Equal(t, 1.0, directionHarmony("north", lucky))
	assert.Equal(t, 0.7, directionHarmony("west", lucky))
}
