package dharma

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalfonso89/fortune-teller-service/internal/validation"
)

func TestCalculateDharmaNumber(t *testing.T) {
	tests := []struct {
		name       string
		person     string
		birthDate  string
		birthPlace string
		birthTime  string
		expected   int
	}{
		{"reference reading", "Alice", "1990-05-20", "Paris", "14:30", 6},
		{"midnight counts as nine", "Bob", "2000-01-01", "Rome", "00:00", 7},
		{"non ascii name", "é", "2015", "Paris", "14:30", 4},
		{"unparseable date counts as nine", "Alice", "someday", "Paris", "14:30", 7},
		{"leading digits are read", "Alice", "1990x-05-20", "Paris", "14:30", 6},
		{"empty name counts as nine", "", "1990-05-20", "Paris", "14:30", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CalculateDharmaNumber(tt.person, tt.birthDate, tt.birthPlace, tt.birthTime))
		})
	}
}

func TestCalculateDharmaNumber_IsDeterministic(t *testing.T) {
	first := CalculateDharmaNumber("Alice", "1990-05-20", "Paris", "14:30")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, CalculateDharmaNumber("Alice", "1990-05-20", "Paris", "14:30"))
	}
	assert.GreaterOrEqual(t, first, 1)
	assert.LessOrEqual(t, first, 9)
}

func TestGetDharmaInterpretation(t *testing.T) {
	for number := 1; number <= 9; number++ {
		assert.NotEqual(t, defaultInterpretation, GetDharmaInterpretation(number))
		assert.Len(t, Qualities(number), 4)
	}

	assert.Equal(t, "Your path is unique and unfolding.", GetDharmaInterpretation(0))
	assert.Equal(t, "Your path is unique and unfolding.", GetDharmaInterpretation(10))
	assert.Nil(t, Qualities(10))
}

func TestCalculate(t *testing.T) {
	result, err := Calculate(Input{Name: " Alice ", BirthDate: "1990-05-20", BirthTime: "14:30", BirthPlace: "Paris"})
	require.NoError(t, err)

	assert.Equal(t, 6, result.Number)
	assert.Equal(t, "Dharma Path 6", result.Dharma)
	assert.Equal(t, GetDharmaInterpretation(6), result.Description)
	assert.Equal(t, []string{"Nurturing", "Responsibility", "Balance", "Healing"}, result.Qualities)
	assert.Equal(t, "Alice", result.Details.Name)
	assert.Equal(t, "14:30", result.Details.BirthTime)
}

func TestCalculate_NormalizesTime(t *testing.T) {
	result, err := Calculate(Input{Name: "Alice", BirthDate: "1990-05-20", BirthTime: "9:5", BirthPlace: "Paris"})
	require.NoError(t, err)
	assert.Equal(t, "09:05", result.Details.BirthTime)
}

func TestCalculate_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input Input
		field string
	}{
		{"missing name", Input{BirthDate: "1990-05-20", BirthTime: "14:30", BirthPlace: "Paris"}, "name"},
		{"malformed date", Input{Name: "Alice", BirthDate: "20/05/1990", BirthTime: "14:30", BirthPlace: "Paris"}, "birthDate"},
		{"hour out of range", Input{Name: "Alice", BirthDate: "1990-05-20", BirthTime: "25:00", BirthPlace: "Paris"}, "birthTime"},
		{"missing place", Input{Name: "Alice", BirthDate: "1990-05-20", BirthTime: "14:30", BirthPlace: "   "}, "birthPlace"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Calculate(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))

			var validationError *validation.Error
			require.True(t, errors.As(err, &validationError))
			assert.Contains(t, validationError.Fields, tt.field)
		})
	}
}

func TestNormalizeTime(t *testing.T) {
	tests := map[string]string{
		"14:30":   "14:30",
		"9:5":     "09:05",
		" 07:45 ": "07:45",
		"noon":    "noon",
		"ab:10":   "ab:10",
	}
	for input, expected := range tests {
		assert.Equal(t, expected, NormalizeTime(input), input)
	}
}
