package models

import "time"

// Category tags a fortune with its life area
type Category string

const (
	CategoryAll    Category = "all"
	CategoryLove   Category = "love"
	CategoryCareer Category = "career"
	CategoryHealth Category = "health"
	CategoryLuck   Category = "luck"
)

// ConcreteCategories lists the categories a fortune can carry, in display order
var ConcreteCategories = []Category{CategoryLove, CategoryCareer, CategoryHealth, CategoryLuck}

// IsConcrete reports whether c is one of the four fortune categories
func (c Category) IsConcrete() bool {
	switch c {
	case CategoryLove, CategoryCareer, CategoryHealth, CategoryLuck:
		return true
	}
	return false
}

// ParseCategory accepts a concrete category or "all"; anything else maps to "all"
func ParseCategory(raw string) Category {
	category := Category(raw)
	if category.IsConcrete() {
		return category
	}
	return CategoryAll
}

// Fortune is the base fortune record shown on the card and kept in history
type Fortune struct {
	ID             int      `json:"id"`
	Category       Category `json:"category"`
	Chinese        string   `json:"chinese"`
	English        string   `json:"english"`
	Interpretation string   `json:"interpretation"`
}

// RawFortune is what a divination endpoint yields before enrichment
type RawFortune struct {
	Text     string
	Source   string
	Category Category
}

type LuckyElements struct {
	Numbers           []int    `json:"numbers"`
	Colors            []string `json:"colors"`
	Directions        []string `json:"directions"`
	Times             []string `json:"times"`
	ColorMeanings     []string `json:"colorMeanings"`
	DirectionMeanings []string `json:"directionMeanings"`
	NumberMeanings    []string `json:"numberMeanings"`
	TimeMeanings      []string `json:"timeMeanings"`
	Strength          int      `json:"strength"`
}

type ZodiacInfo struct {
	Sign           string   `json:"sign"`
	Element        string   `json:"element"`
	Traits         []string `json:"traits"`
	Compatibility  []string `json:"compatibility"`
	Influence      string   `json:"influence"`
	ChineseSign    string   `json:"chineseSign,omitempty"`
	ChineseElement string   `json:"chineseElement,omitempty"`
}

type LunarInfo struct {
	Phase                string   `json:"phase"`
	DayType              string   `json:"dayType"`
	LunarDay             int      `json:"lunarDay"`
	Influence            string   `json:"influence"`
	AuspiciousActivities []string `json:"auspiciousActivities"`
}

type TimingAdvice struct {
	Daily   string `json:"daily,omitempty"`
	Weekly  string `json:"weekly,omitempty"`
	Monthly string `json:"monthly,omitempty"`
}

type IChingReading struct {
	Hexagram      int    `json:"hexagram"`
	Meaning       string `json:"meaning"`
	ChangingLines []int  `json:"changingLines"`
}

type FengShuiAdvice struct {
	Element     string `json:"element"`
	Direction   string `json:"direction"`
	Enhancement string `json:"enhancement"`
}

type Numerology struct {
	LifePath     int `json:"lifePath,omitempty"`
	PersonalDay  int `json:"personalDay,omitempty"`
	UniversalDay int `json:"universalDay,omitempty"`
}

type CulturalReadings struct {
	IChing     IChingReading  `json:"iChing"`
	FengShui   FengShuiAdvice `json:"fengShui"`
	Numerology Numerology     `json:"numerology"`
}

type CelestialInfluences struct {
	Retrograde    []string `json:"retrograde"`
	SolarEclipse  bool     `json:"solarEclipse"`
	LunarEclipse  bool     `json:"lunarEclipse"`
	MajorTransits []string `json:"majorTransits"`
}

type Biorhythm struct {
	Physical     float64 `json:"physical"`
	Emotional    float64 `json:"emotional"`
	Intellectual float64 `json:"intellectual"`
}

type PersonalReading struct {
	Biorhythm         Biorhythm `json:"biorhythm"`
	LuckyDays         []string  `json:"luckyDays"`
	LuckyHours        []string  `json:"luckyHours"`
	ElementalAffinity string    `json:"elementalAffinity"`
}

// EnhancedFortune is a Fortune plus decorative attributes recomputed per generation
type EnhancedFortune struct {
	Fortune
	LuckyElements LuckyElements       `json:"luckyElements"`
	Zodiac        ZodiacInfo          `json:"zodiac"`
	Lunar         LunarInfo           `json:"lunar"`
	Timing        TimingAdvice        `json:"timing"`
	Cultural      CulturalReadings    `json:"cultural"`
	Celestial     CelestialInfluences `json:"celestial"`
	Personal      *PersonalReading    `json:"personal,omitempty"`
}

type DharmaDetails struct {
	Name       string `json:"name"`
	BirthDate  string `json:"birthDate"`
	BirthTime  string `json:"birthTime"`
	BirthPlace string `json:"birthPlace"`
}

type DharmaResult struct {
	Number      int           `json:"number"`
	Dharma      string        `json:"dharma"`
	Description string        `json:"description"`
	Qualities   []string      `json:"qualities"`
	Details     DharmaDetails `json:"details"`
}

// SavedReading is a DharmaResult the user chose to keep
type SavedReading struct {
	DharmaResult
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
}

type ThemeColors struct {
	Primary    string `json:"primary" yaml:"primary"`
	Secondary  string `json:"secondary" yaml:"secondary"`
	Text       string `json:"text" yaml:"text"`
	Background string `json:"background" yaml:"background"`
}

type Theme struct {
	ID     string      `json:"id" yaml:"id"`
	Name   string      `json:"name" yaml:"name"`
	Colors ThemeColors `json:"colors" yaml:"colors"`
}

// Place is a birth place suggestion from the geocoding service
type Place struct {
	PlaceID     int64  `json:"place_id"`
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// ShareLinks are prefilled social network share URLs for a fortune
type ShareLinks struct {
	Text      string `json:"text"`
	Twitter   string `json:"twitter"`
	Facebook  string `json:"facebook"`
	Instagram string `json:"instagram"`
	LinkedIn  string `json:"linkedin"`
}

// SessionState is everything the client restores on startup
type SessionState struct {
	SessionID       string   `json:"sessionId"`
	LastFortune     *Fortune `json:"lastFortune,omitempty"`
	Theme           Theme    `json:"theme"`
	BackgroundIndex int      `json:"backgroundIndex"`
	Background      string   `json:"background"`
	HistorySize     int      `json:"historySize"`
}

type HealthCheck struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}
