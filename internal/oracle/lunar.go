package oracle

import (
	"fmt"
	"strings"

	"github.com/dalfonso89/fortune-teller-service/internal/models"
)

// LunarInfo draws a moon phase, day type and lunar day
func (o *Oracle) LunarInfo() models.LunarInfo {
	phase := lunarPhases[o.rng.IntN(len(lunarPhases))]
	dayType := o.pick(dayTypes)
	day := lunarDays[o.rng.IntN(len(lunarDays))]

	return models.LunarInfo{
		Phase:    phase.name,
		DayType:  dayType,
		LunarDay: day.day,
		Influence: fmt.Sprintf("%s. Today is lunar day %d, bringing %s. The %s energy enhances these influences.",
			phase.influence, day.day, day.influence, dayType),
		AuspiciousActivities: AuspiciousActivities(phase.name, day.day, dayType),
	}
}

// AuspiciousActivities lists activities favoured by a phase, lunar day and day type
func AuspiciousActivities(phase string, lunarDay int, dayType string) []string {
	activities := make([]string, 0, 9)

	switch {
	case strings.Contains(phase, "new"):
		activities = append(activities, "Starting new projects", "Setting intentions", "Planting seeds (literal or metaphorical)")
	case strings.Contains(phase, "full"):
		activities = append(activities, "Celebrating achievements", "Completing projects", "Expressing gratitude")
	case strings.Contains(phase, "waning"):
		activities = append(activities, "Letting go of what no longer serves", "Clearing space", "Reflecting on lessons learned")
	default:
		activities = append(activities, "Building momentum", "Taking action", "Making progress")
	}

	if lunarDay%2 == 0 {
		activities = append(activities, "Working with others", "Building relationships", "Creating harmony")
	} else {
		activities = append(activities, "Focusing on personal growth", "Developing skills", "Strengthening independence")
	}

	switch dayType {
	case "auspicious":
		activities = append(activities, "Making important decisions", "Starting new ventures", "Taking calculated risks")
	case "challenging":
		activities = append(activities, "Facing obstacles head-on", "Developing resilience", "Learning important lessons")
	}

	return activities
}

// TimingAdvice gives daily, weekly and monthly pointers
func (o *Oracle) TimingAdvice() models.TimingAdvice {
	return models.TimingAdvice{
		Daily:   "Best hours: " + o.pick(timeSlots),
		Weekly:  fmt.Sprintf("Focus on your goals during the %s phase", o.pick(dayTypes)),
		Monthly: fmt.Sprintf("The %s will bring opportunities", lunarPhases[o.rng.IntN(len(lunarPhases))].name),
	}
}

func lunarStrength(lunar models.LunarInfo) float64 {
	phaseStrength := 0.0
	for _, phase := range lunarPhases {
		if phase.name == lunar.Phase {
			phaseStrength = phase.strength
			break
		}
	}
	return (phaseStrength + dayTypeStrength[lunar.DayType]) / 2
}
