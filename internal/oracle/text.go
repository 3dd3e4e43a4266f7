package oracle

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/dalfonso89/fortune-teller-service/internal/models"
)

const (
	MaxFortuneLength        = 120
	MaxInterpretationLength = 80
	MinFortuneLength        = 30

	ellipsis = "..."
)

// FormatFortuneText normalizes whitespace, cuts text longer than
// MaxFortuneLength at the last whole word and capitalizes the first letter.
// Text shorter than MinFortuneLength is returned normalized only.
func FormatFortuneText(text string) string {
	formatted := []rune(normalizeSpace(text))
	if len(formatted) < MinFortuneLength {
		return string(formatted)
	}

	formatted = truncateWords(formatted, MaxFortuneLength, MinFortuneLength)
	formatted[0] = unicode.ToUpper(formatted[0])
	return string(formatted)
}

// FormatInterpretation normalizes whitespace and cuts text longer than
// MaxInterpretationLength at the last whole word
func FormatInterpretation(text string) string {
	formatted := []rune(normalizeSpace(text))
	return string(truncateWords(formatted, MaxInterpretationLength, 0))
}

// truncateWords cuts text to limit runes, backing off to the last space when
// it lies after minCut, and appends an ellipsis. Text that already ends in an
// ellipsis and fits limit plus the ellipsis is left alone, so a second pass is
// a no-op.
func truncateWords(text []rune, limit, minCut int) []rune {
	if len(text) <= limit {
		return text
	}
	if len(text) <= limit+len(ellipsis) && strings.HasSuffix(string(text), ellipsis) {
		return text
	}

	cut := text[:limit]
	if lastSpace := lastIndexRune(cut, ' '); lastSpace > minCut {
		cut = cut[:lastSpace]
	}
	result := make([]rune, 0, len(cut)+len(ellipsis))
	result = append(result, cut...)
	return append(result, []rune(ellipsis)...)
}

func normalizeSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func lastIndexRune(text []rune, target rune) int {
	for i := len(text) - 1; i >= 0; i-- {
		if text[i] == target {
			return i
		}
	}
	return -1
}

// charCodeSum adds up the UTF-16 code units of text
func charCodeSum(text string) int64 {
	var sum int64
	for _, unit := range utf16.Encode([]rune(text)) {
		sum += int64(unit)
	}
	return sum
}

// ChineseText builds a three part pseudo-Chinese phrase from the character
// codes of input mixed with the current time
func (o *Oracle) ChineseText(input string) string {
	seed := float64(charCodeSum(input))
	timestamp := float64(o.nowMillis())

	beginning := chineseBeginnings[int(math.Mod(seed+timestamp, float64(len(chineseBeginnings))))]
	middle := chineseMiddles[int(math.Mod(seed*math.Pi+timestamp, float64(len(chineseMiddles))))]
	ending := chineseEndings[int(math.Mod(seed*math.E+timestamp, float64(len(chineseEndings))))]

	return beginning + middle + ending
}

// Season names the current northern hemisphere season
func (o *Oracle) Season() string {
	switch month := o.now().Month(); {
	case month >= 3 && month <= 5:
		return "spring"
	case month >= 6 && month <= 8:
		return "summer"
	case month >= 9 && month <= 11:
		return "autumn"
	default:
		return "winter"
	}
}

// TimeOfDay names the part of the day for the current hour
func (o *Oracle) TimeOfDay() string {
	switch hour := o.now().Hour(); {
	case hour >= 5 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 17:
		return "afternoon"
	case hour >= 17 && hour < 21:
		return "evening"
	default:
		return "night"
	}
}

// Interpretation quotes the first five words of text and closes with a
// random phrase from the category's bank
func (o *Oracle) Interpretation(text string, category models.Category) string {
	replacer := strings.NewReplacer("{season}", o.Season(), "{timeOfDay}", o.TimeOfDay())
	phrase := replacer.Replace(o.pick(o.pool.PhraseBank(category)))

	words := strings.Split(text, " ")
	if len(words) > 5 {
		words = words[:5]
	}
	prefix := strings.Join(words, " ")

	return `"` + prefix + `..." ` + phrase + ". Contemplate these words deeply."
}
