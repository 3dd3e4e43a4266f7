// Package dharma derives a 1-9 life path number from a person's name, birth
// date, birth place and birth time.
package dharma

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/dalfonso89/fortune-teller-service/internal/models"
	"github.com/dalfonso89/fortune-teller-service/internal/validation"
)

// ErrInvalidInput is wrapped by every Calculate validation failure
var ErrInvalidInput = errors.New("invalid dharma input")

const defaultInterpretation = "Your path is unique and unfolding."

var interpretations = map[int]string{
	1: "You are a natural leader with strong independence and pioneering spirit. Your path involves taking initiative and creating new opportunities.",
	2: "You are a peacemaker with a gift for diplomacy and cooperation. Your path involves bringing harmony and balance to relationships.",
	3: "You are creative and expressive with a joyful spirit. Your path involves sharing your artistic talents and spreading optimism.",
	4: "You are practical and organized with a strong work ethic. Your path involves building stable foundations and maintaining order.",
	5: "You are adventurous and adaptable with a love for freedom. Your path involves embracing change and exploring new experiences.",
	6: "You are nurturing and responsible with a healing touch. Your path involves caring for others and creating harmony in your environment.",
	7: "You are analytical and spiritual with deep intuition. Your path involves seeking wisdom and understanding life's mysteries.",
	8: "You are ambitious and powerful with a talent for manifestation. Your path involves achieving success and creating abundance.",
	9: "You are compassionate and humanitarian with universal love. Your path involves serving humanity and completing cycles.",
}

var qualities = map[int][]string{
	1: {"Leadership", "Independence", "Innovation", "Pioneer"},
	2: {"Harmony", "Diplomacy", "Sensitivity", "Cooperation"},
	3: {"Creativity", "Expression", "Joy", "Optimism"},
	4: {"Stability", "Organization", "Dedication", "Reliability"},
	5: {"Freedom", "Adaptability", "Adventure", "Versatility"},
	6: {"Nurturing", "Responsibility", "Balance", "Healing"},
	7: {"Wisdom", "Analysis", "Spirituality", "Intuition"},
	8: {"Abundance", "Power", "Achievement", "Manifestation"},
	9: {"Compassion", "Humanitarian", "Universal Love", "Completion"},
}

var validate = validation.MustNew()

// Input is a dharma request as submitted by the user
type Input struct {
	Name       string `json:"name" validate:"required"`
	BirthDate  string `json:"birthDate" validate:"required,datetime=2006-01-02"`
	BirthTime  string `json:"birthTime" validate:"required,datetime=15:04"`
	BirthPlace string `json:"birthPlace" validate:"required"`
}

// CalculateDharmaNumber reduces each input to a digit and the four digits to
// the final number. The result only depends on the arguments.
func CalculateDharmaNumber(name, birthDate, birthPlace, birthTime string) int {
	nameNumber := reduce(codeUnitSum(name))
	dateNumber := numericComponent(birthDate, "-")
	placeNumber := reduce(codeUnitSum(birthPlace))
	timeNumber := numericComponent(birthTime, ":")

	return reduce(int64(nameNumber + dateNumber + placeNumber + timeNumber))
}

// GetDharmaInterpretation describes a dharma number
func GetDharmaInterpretation(number int) string {
	if interpretation, ok := interpretations[number]; ok {
		return interpretation
	}
	return defaultInterpretation
}

// Qualities lists the key qualities of a dharma number, nil when out of range
func Qualities(number int) []string {
	return qualities[number]
}

// Calculate validates input and builds the full dharma result. Birth time is
// normalized to zero-padded 24 hour HH:MM before it is validated and used.
func Calculate(input Input) (models.DharmaResult, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.BirthPlace = strings.TrimSpace(input.BirthPlace)
	input.BirthDate = strings.TrimSpace(input.BirthDate)
	input.BirthTime = NormalizeTime(input.BirthTime)

	if err := validate.Struct(input); err != nil {
		return models.DharmaResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	number := CalculateDharmaNumber(input.Name, input.BirthDate, input.BirthPlace, input.BirthTime)
	return models.DharmaResult{
		Number:      number,
		Dharma:      fmt.Sprintf("Dharma Path %d", number),
		Description: GetDharmaInterpretation(number),
		Qualities:   Qualities(number),
		Details: models.DharmaDetails{
			Name:       input.Name,
			BirthDate:  input.BirthDate,
			BirthTime:  input.BirthTime,
			BirthPlace: input.BirthPlace,
		},
	}, nil
}

// NormalizeTime rewrites "H:M" as "HH:MM". Anything it cannot read is
// returned trimmed and unchanged.
func NormalizeTime(raw string) string {
	raw = strings.TrimSpace(raw)
	hours, minutes, found := strings.Cut(raw, ":")
	if !found {
		return raw
	}

	hour, err := strconv.Atoi(hours)
	if err != nil {
		return raw
	}
	minute, err := strconv.Atoi(minutes)
	if err != nil {
		return raw
	}
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// numericComponent sums the leading integers of the separated parts. A part
// without one poisons the whole component, which then counts as 9.
func numericComponent(value, separator string) int {
	var sum int64
	for _, part := range strings.Split(value, separator) {
		number, ok := leadingInt(part)
		if !ok {
			return 9
		}
		sum += number
	}
	return reduce(sum)
}

// leadingInt reads the run of digits at the start of s after any whitespace
func leadingInt(s string) (int64, bool) {
	s = strings.TrimLeft(s, " \t\n\r")
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}

	number, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return number, true
}

func codeUnitSum(text string) int64 {
	var sum int64
	for _, unit := range utf16.Encode([]rune(text)) {
		sum += int64(unit)
	}
	return sum
}

// reduce maps n onto 1..9 with multiples of nine becoming 9
func reduce(n int64) int {
	if remainder := int(n % 9); remainder != 0 {
		return remainder
	}
	return 9
}
