package oracle

import (
	"strconv"
	"time"

	"github.com/dalfonso89/fortune-teller-service/internal/models"
)

// ResolveCategory returns requested when it is concrete, otherwise a random
// concrete category
func (o *Oracle) ResolveCategory(requested models.Category) models.Category {
	if requested.IsConcrete() {
		return requested
	}
	return models.ConcreteCategories[o.rng.IntN(len(models.ConcreteCategories))]
}

// FortuneID derives a positive display id from the clock with some random spread
func (o *Oracle) FortuneID() int {
	return int(o.nowMillis()%10000) + o.rng.IntN(1000) + 1
}

// Compose shapes raw divination text into a base fortune. The interpretation
// draws on the requested category's phrases; the fortune itself carries
// category.
func (o *Oracle) Compose(text string, requested, category models.Category) models.Fortune {
	return models.Fortune{
		ID:             o.FortuneID(),
		Category:       category,
		Chinese:        o.ChineseText(text + strconv.FormatInt(o.nowMillis(), 10)),
		English:        FormatFortuneText(text),
		Interpretation: FormatInterpretation(o.Interpretation(text, requested)),
	}
}

// Enhance attaches every generated attribute to base. Missing category,
// Chinese text or interpretation are filled in. A non-zero birthDate adds
// the personal reading.
func (o *Oracle) Enhance(base models.Fortune, requested models.Category, birthDate time.Time) models.EnhancedFortune {
	if base.ID == 0 {
		base.ID = o.FortuneID()
	}
	if base.Category == "" {
		base.Category = o.ResolveCategory(requested)
	}
	if base.Chinese == "" {
		base.Chinese = o.ChineseText(base.English)
	}
	if base.Interpretation == "" {
		base.Interpretation = FormatInterpretation(o.Interpretation(base.English, requested))
	}

	zodiac := o.ZodiacInfo()
	zodiac.ChineseSign, zodiac.ChineseElement = o.ChineseZodiac()
	lunar := o.LunarInfo()
	fengShui := o.FengShuiAdvice()
	lucky := o.LuckyElements(base.English)
	lucky.Strength = o.Strength(base.English, base.Category, Signals{
		Zodiac:   zodiac,
		Lunar:    lunar,
		FengShui: fengShui,
		Lucky:    lucky,
	})

	enhanced := models.EnhancedFortune{
		Fortune:       base,
		LuckyElements: lucky,
		Zodiac:        zodiac,
		Lunar:         lunar,
		Timing:        o.TimingAdvice(),
		Cultural: models.CulturalReadings{
			IChing:     o.IChingReading(),
			FengShui:   fengShui,
			Numerology: models.Numerology{UniversalDay: o.rng.IntN(9) + 1},
		},
		Celestial: o.Celestial(),
	}
	if !birthDate.IsZero() {
		personal := o.PersonalReading(birthDate)
		enhanced.Personal = &personal
	}
	return enhanced
}

// FallbackFortune builds a fully enhanced fortune from the local pool. A
// request for "all" yields a luck fortune.
func (o *Oracle) FallbackFortune(requested models.Category, birthDate time.Time) models.EnhancedFortune {
	sentence := o.pick(o.pool.Sentences(requested))

	category := requested
	if !category.IsConcrete() {
		category = models.CategoryLuck
	}

	timestamp := strconv.FormatInt(o.nowMillis(), 10)
	jitter := strconv.FormatFloat(o.rng.Float64(), 'f', -1, 64)

	base := models.Fortune{
		ID:             o.FortuneID(),
		Category:       category,
		Chinese:        o.ChineseText(sentence + timestamp + jitter),
		English:        FormatFortuneText(sentence),
		Interpretation: FormatInterpretation(o.Interpretation(sentence, requested)),
	}
	return o.Enhance(base, requested, birthDate)
}
