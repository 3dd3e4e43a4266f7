package oracle

import (
	"math"
	"sort"
	"unicode/utf8"

	"github.com/dalfonso89/fortune-teller-service/internal/models"
)

const (
	luckyNumberCount       = 4
	luckyNumberMaxAttempts = 1000
)

// LuckyElements picks two colors, directions and times from the text length
// and the current time, plus four lucky numbers. Strength is left for the
// caller to score.
func (o *Oracle) LuckyElements(text string) models.LuckyElements {
	seed := int64(utf8.RuneCountInString(text)) + o.nowMillis()

	colors := pickPair(luckyColors, seed)
	directionPair := pickPair(luckyDirections, seed)
	times := pickPair(luckyTimes, seed)
	numbers := o.LuckyNumbers(text)

	numberMeanings := make([]string, len(numbers))
	for i, number := range numbers {
		numberMeanings[i] = luckyNumberMeaning(number)
	}

	return models.LuckyElements{
		Numbers:           numbers,
		NumberMeanings:    numberMeanings,
		Colors:            names(colors),
		ColorMeanings:     meanings(colors),
		Directions:        names(directionPair),
		DirectionMeanings: meanings(directionPair),
		Times:             names(times),
		TimeMeanings:      meanings(times),
	}
}

// LuckyNumbers derives four distinct numbers in [1,99] from the character
// codes of input and the current time, sorted ascending
func (o *Oracle) LuckyNumbers(input string) []int {
	seed := charCodeSum(input) + o.nowMillis()
	seen := make(map[int]bool, luckyNumberCount)
	numbers := make([]int, 0, luckyNumberCount)

	for attempt := int64(0); len(numbers) < luckyNumberCount && attempt < luckyNumberMaxAttempts; attempt++ {
		number := int(math.Floor((math.Sin(float64(attempt+seed))+1)*49)) + 1
		if !seen[number] {
			seen[number] = true
			numbers = append(numbers, number)
		}
	}
	for candidate := 1; len(numbers) < luckyNumberCount; candidate++ {
		if !seen[candidate] {
			seen[candidate] = true
			numbers = append(numbers, candidate)
		}
	}

	sort.Ints(numbers)
	return numbers
}

func luckyNumberMeaning(number int) string {
	if number >= 1 && number <= len(luckyNumberMeanings) {
		return luckyNumberMeanings[number-1]
	}
	return universalNumberMeaning
}

func pickPair(values []meaningful, seed int64) []meaningful {
	size := int64(len(values))
	return []meaningful{values[seed%size], values[(seed+4)%size]}
}

func names(values []meaningful) []string {
	result := make([]string, len(values))
	for i, value := range values {
		result[i] = value.name
	}
	return result
}

func meanings(values []meaningful) []string {
	result := make([]string, len(values))
	for i, value := range values {
		result[i] = value.meaning
	}
	return result
}

func elementOf(values []meaningful, name string) string {
	for _, value := range values {
		if value.name == name {
			return value.element
		}
	}
	return ""
}
