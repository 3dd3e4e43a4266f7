package oracle

import (
	"math"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/dalfonso89/fortune-teller-service/internal/models"
)

var sentenceBreak = regexp.MustCompile(`[.!?]+`)

// Signals are the displayed attributes a fortune's strength is scored against
type Signals struct {
	Zodiac   models.ZodiacInfo
	Lunar    models.LunarInfo
	FengShui models.FengShuiAdvice
	Lucky    models.LuckyElements
}

// Strength scores a fortune between 1 and 100 from its text, the current
// time, its category and how well the displayed attributes agree, with up
// to ten points of random variation
func (o *Oracle) Strength(text string, category models.Category, signals Signals) int {
	now := o.now()
	hour := now.Hour()

	textScore := math.Min(float64(utf8.RuneCountInString(text))/MaxFortuneLength*30, 30) +
		TextPositivity(text)*20 +
		TextUniqueness(text)*15 +
		TextClarity(text)*15

	timeScore := math.Sin(float64(hour)/24*math.Pi)*10 + 10 +
		math.Sin(float64(now.Weekday())/7*math.Pi)*5 + 5 +
		math.Sin(float64(now.Month()-1)/12*math.Pi)*5 + 5 +
		lunarStrength(signals.Lunar)*10

	categoryScore := CategoryRelevance(text, category)*15 +
		CategoryTiming(category, hour)*10

	harmonyScore := zodiacHarmony(signals.Zodiac.Sign, SunSign(now))*10 +
		elementHarmony(signals.FengShui.Element, signals.Lucky)*10 +
		directionHarmony(signals.FengShui.Direction, signals.Lucky)*10

	variation := o.rng.Float64()*20 - 10
	strength := int(math.Floor(textScore + timeScore + categoryScore + harmonyScore + variation + 0.5))

	return max(1, min(100, strength))
}

// TextPositivity weighs positive against negative keywords, in [0,1]
func TextPositivity(text string) float64 {
	lower := strings.ToLower(text)
	positive, negative := 0, 0
	for _, word := range positiveWords {
		if strings.Contains(lower, word) {
			positive++
		}
	}
	for _, word := range negativeWords {
		if strings.Contains(lower, word) {
			negative++
		}
	}
	return math.Max(0, math.Min(1, float64(positive-negative)/5))
}

// TextUniqueness is the share of distinct words in text
func TextUniqueness(text string) float64 {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return 0
	}
	unique := make(map[string]struct{}, len(words))
	for _, word := range words {
		unique[word] = struct{}{}
	}
	return math.Min(1, float64(len(unique))/float64(len(words)))
}

// TextClarity favours an average sentence length of ten to twenty words.
// The empty remainder after a final full stop counts as a one word sentence.
func TextClarity(text string) float64 {
	sentences := sentenceBreak.Split(text, -1)
	total := 0
	for _, sentence := range sentences {
		total += max(1, len(strings.Fields(sentence)))
	}
	average := float64(total) / float64(len(sentences))

	switch {
	case average >= 10 && average <= 20:
		return 1
	case average < 5 || average > 30:
		return 0.3
	default:
		return 0.7
	}
}

// CategoryRelevance is the share of the category's keywords found in text.
// Categories without keywords score 0.
func CategoryRelevance(text string, category models.Category) float64 {
	keywords := categoryKeywords[string(category)]
	if len(keywords) == 0 {
		return 0
	}
	lower := strings.ToLower(text)
	matches := 0
	for _, keyword := range keywords {
		if strings.Contains(lower, keyword) {
			matches++
		}
	}
	return math.Min(1, float64(matches)/float64(len(keywords)))
}

// CategoryTiming is 1 inside the category's optimal hours, 0.8 within two
// hours of one and 0.5 otherwise
func CategoryTiming(category models.Category, hour int) float64 {
	hours := categoryHours[string(category)]
	if slices.Contains(hours, hour) {
		return 1
	}
	for _, optimal := range hours {
		if abs(optimal-hour) <= 2 {
			return 0.8
		}
	}
	return 0.5
}

// zodiacHarmony is 1 when the displayed sign is today's sun sign or
// compatible with it
func zodiacHarmony(displayed, sunSign string) float64 {
	sign, ok := findSign(displayed)
	if !ok {
		return 0.7
	}
	if sign.name == sunSign || slices.Contains(sign.compatible, sunSign) {
		return 1
	}
	return 0.7
}

// elementHarmony compares the feng shui element with the element of the
// first lucky color
func elementHarmony(fengShuiElement string, lucky models.LuckyElements) float64 {
	if len(lucky.Colors) == 0 {
		return 0.7
	}
	current := strings.ToLower(fengShuiElement)
	selected := elementOf(luckyColors, lucky.Colors[0])
	if current == selected || slices.Contains(elementRelations[current], selected) {
		return 1
	}
	return 0.7
}

// directionHarmony compares the feng shui direction with the first lucky direction
func directionHarmony(fengShuiDirection string, lucky models.LuckyElements) float64 {
	if len(lucky.Directions) == 0 {
		return 0.7
	}
	if slices.Contains(directionRelations[fengShuiDirection], lucky.Directions[0]) {
		return 1
	}
	return 0.7
}

func abs(value int) int {
	if value < 0 {
		return -value
	}
	return value
}
