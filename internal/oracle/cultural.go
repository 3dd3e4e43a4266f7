package oracle

import (
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/dalfonso89/fortune-teller-service/internal/models"
)

// Biorhythm cycle lengths in days
const (
	physicalCycle     = 23
	emotionalCycle    = 28
	intellectualCycle = 33
)

// IChingReading draws a hexagram and between one and six changing lines
func (o *Oracle) IChingReading() models.IChingReading {
	hexagram := o.rng.IntN(64) + 1
	lines := make([]int, o.rng.IntN(6)+1)
	for i := range lines {
		lines[i] = o.rng.IntN(6) + 1
	}
	sort.Ints(lines)

	return models.IChingReading{
		Hexagram:      hexagram,
		Meaning:       hexagramName(hexagram),
		ChangingLines: lines,
	}
}

func hexagramName(number int) string {
	return "Hexagram " + strconv.Itoa(number)
}

// FengShuiAdvice draws an element, a direction and an enhancement
func (o *Oracle) FengShuiAdvice() models.FengShuiAdvice {
	return models.FengShuiAdvice{
		Element:     o.pick(chineseElements),
		Direction:   o.pick(directions),
		Enhancement: o.pick(fengShuiEnhancements),
	}
}

// Celestial includes each retrograde planet with 30% chance, each transit
// with 20% and each eclipse with 10%
func (o *Oracle) Celestial() models.CelestialInfluences {
	retrograde := make([]string, 0, len(retrogradePlanets))
	for _, planet := range retrogradePlanets {
		if o.rng.Float64() > 0.7 {
			retrograde = append(retrograde, planet)
		}
	}

	transits := make([]string, 0, len(majorTransits))
	for _, transit := range majorTransits {
		if o.rng.Float64() > 0.8 {
			transits = append(transits, transit)
		}
	}

	return models.CelestialInfluences{
		Retrograde:    retrograde,
		SolarEclipse:  o.rng.Float64() > 0.9,
		LunarEclipse:  o.rng.Float64() > 0.9,
		MajorTransits: transits,
	}
}

// Biorhythm computes the three classic cycles for a birth date. A zero
// birth date yields cycles of the current time alone.
func (o *Oracle) Biorhythm(birthDate time.Time) models.Biorhythm {
	now := o.now()
	if birthDate.IsZero() {
		millis := float64(now.UnixMilli())
		cycle := func(days int) float64 {
			return math.Sin(millis/float64(int64(days)*dayMillis)*math.Pi) * 100
		}
		return models.Biorhythm{
			Physical:     cycle(physicalCycle),
			Emotional:    cycle(emotionalCycle),
			Intellectual: cycle(intellectualCycle),
		}
	}

	days := math.Floor(float64(now.UnixMilli()-birthDate.UnixMilli()) / float64(dayMillis))
	cycle := func(period int) float64 {
		return math.Sin(2*math.Pi*days/float64(period)) * 100
	}
	return models.Biorhythm{
		Physical:     cycle(physicalCycle),
		Emotional:    cycle(emotionalCycle),
		Intellectual: cycle(intellectualCycle),
	}
}

// PersonalReading builds the birth date specific section of a fortune
func (o *Oracle) PersonalReading(birthDate time.Time) models.PersonalReading {
	return models.PersonalReading{
		Biorhythm:         o.Biorhythm(birthDate),
		LuckyDays:         o.pickN(weekdays, 3),
		LuckyHours:        o.pickN(timeSlots, 3),
		ElementalAffinity: o.pick(chineseElements),
	}
}
