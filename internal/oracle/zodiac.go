package oracle

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalfonso89/fortune-teller-service/internal/models"
)

const dayMillis = int64(24 * time.Hour / time.Millisecond)

// ZodiacInfo draws a random western sign with three of its compatible signs
func (o *Oracle) ZodiacInfo() models.ZodiacInfo {
	sign := zodiacSigns[o.rng.IntN(len(zodiacSigns))]
	compatibility := o.pickN(sign.compatible, 3)

	traits := make([]string, len(sign.traits))
	copy(traits, sign.traits)

	return models.ZodiacInfo{
		Sign:          sign.name,
		Element:       sign.element,
		Traits:        traits,
		Compatibility: compatibility,
		Influence: fmt.Sprintf("The %s energy brings %s to your endeavors. Compatible with %s.",
			sign.name, strings.Join(sign.traits, ", "), strings.Join(compatibility, ", ")),
	}
}

// ChineseZodiac returns the animal and element for the current day. The
// animal advances once per day since the Unix epoch.
func (o *Oracle) ChineseZodiac() (sign, element string) {
	index := int((o.nowMillis() / dayMillis) % int64(len(chineseZodiac)))
	return chineseZodiac[index], chineseElements[(index/2)%len(chineseElements)]
}

// SunSign returns the western sign the sun occupies on t
func SunSign(t time.Time) string {
	month, day := int(t.Month()), t.Day()
	for i, start := range sunSignStarts {
		next := sunSignStarts[(i+1)%len(sunSignStarts)]
		if (month == start.month && day >= start.day) || (month == next.month && day < next.day) {
			return zodiacSigns[i].name
		}
	}
	return zodiacSigns[0].name
}

func findSign(name string) (zodiacSign, bool) {
	for _, sign := range zodiacSigns {
		if sign.name == name {
			return sign, true
		}
	}
	return zodiacSign{}, false
}
