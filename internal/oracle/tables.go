package oracle

type zodiacSign struct {
	name       string
	element    string
	traits     []string
	compatible []string
}

type lunarPhase struct {
	name      string
	influence string
	strength  float64
}

type lunarDay struct {
	day       int
	influence string
}

type meaningful struct {
	name    string
	meaning string
	element string
}

var zodiacSigns = []zodiacSign{
	{"Aries", "fire", []string{"courageous", "determined", "confident", "enthusiastic"}, []string{"Leo", "Sagittarius", "Gemini", "Aquarius"}},
	{"Taurus", "earth", []string{"reliable", "patient", "practical", "devoted"}, []string{"Virgo", "Capricorn", "Cancer", "Pisces"}},
	{"Gemini", "air", []string{"gentle", "affectionate", "curious", "adaptable"}, []string{"Libra", "Aquarius", "Aries", "Leo"}},
	{"Cancer", "water", []string{"tenacious", "imaginative", "loyal", "empathetic"}, []string{"Scorpio", "Pisces", "Taurus", "Virgo"}},
	{"Leo", "fire", []string{"creative", "passionate", "generous", "warm-hearted"}, []string{"Aries", "Sagittarius", "Gemini", "Libra"}},
	{"Virgo", "earth", []string{"loyal", "analytical", "kind", "hardworking"}, []string{"Taurus", "Capricorn", "Cancer", "Scorpio"}},
	{"Libra", "air", []string{"cooperative", "diplomatic", "gracious", "fair-minded"}, []string{"Gemini", "Aquarius", "Leo", "Sagittarius"}},
	{"Scorpio", "water", []string{"resourceful", "brave", "passionate", "stubborn"}, []string{"Cancer", "Pisces", "Virgo", "Capricorn"}},
	{"Sagittarius", "fire", []string{"generous", "idealistic", "great sense of humor"}, []string{"Aries", "Leo", "Libra", "Aquarius"}},
	{"Capricorn", "earth", []string{"responsible", "disciplined", "self-controlled", "good managers"}, []string{"Taurus", "Virgo", "Scorpio", "Pisces"}},
	{"Aquarius", "air", []string{"progressive", "original", "independent", "humanitarian"}, []string{"Gemini", "Libra", "Aries", "Sagittarius"}},
	{"Pisces", "water", []string{"compassionate", "artistic", "intuitive", "gentle"}, []string{"Cancer", "Scorpio", "Taurus", "Capricorn"}},
}

// sunSignStarts holds the first day of each sign, indexed like zodiacSigns
var sunSignStarts = [12]struct{ month, day int }{
	{3, 21}, {4, 20}, {5, 21}, {6, 21}, {7, 23}, {8, 23},
	{9, 23}, {10, 23}, {11, 22}, {12, 22}, {1, 20}, {2, 19},
}

var lunarPhases = []lunarPhase{
	{"new moon", "beginnings, fresh starts, planting seeds", 0.8},
	{"waxing crescent", "growth, building momentum, taking action", 0.9},
	{"first quarter", "challenges, decisions, overcoming obstacles", 1.0},
	{"waxing gibbous", "refinement, preparation, fine-tuning", 1.0},
	{"full moon", "completion, manifestation, celebration", 1.0},
	{"waning gibbous", "gratitude, sharing, teaching", 0.9},
	{"last quarter", "release, forgiveness, letting go", 0.8},
	{"waning crescent", "rest, reflection, preparation", 0.7},
}

var lunarDays = []lunarDay{
	{1, "New beginnings and fresh starts"},
	{2, "Partnerships and relationships"},
	{3, "Creativity and self-expression"},
	{4, "Stability and foundation"},
	{5, "Change and freedom"},
	{6, "Harmony and balance"},
	{7, "Spirituality and wisdom"},
	{8, "Abundance and power"},
	{9, "Completion and humanitarianism"},
	{10, "Leadership and independence"},
	{11, "Inspiration and vision"},
	{12, "Sacrifice and service"},
	{13, "Transformation and rebirth"},
	{14, "Manifestation and success"},
	{15, "Fullness and celebration"},
}

var dayTypes = []string{"auspicious", "challenging", "balanced", "transformative", "reflective"}

var dayTypeStrength = map[string]float64{
	"auspicious":     1.0,
	"challenging":    0.7,
	"balanced":       0.9,
	"transformative": 0.8,
	"reflective":     0.8,
}

var timeSlots = []string{"dawn", "morning", "noon", "afternoon", "dusk", "evening", "night", "midnight"}

var weekdays = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

var directions = []string{"north", "south", "east", "west", "northeast", "northwest", "southeast", "southwest"}

var chineseElements = []string{"Wood", "Fire", "Earth", "Metal", "Water"}

var chineseZodiac = []string{"Rat", "Ox", "Tiger", "Rabbit", "Dragon", "Snake", "Horse", "Goat", "Monkey", "Rooster", "Dog", "Pig"}

var fengShuiEnhancements = []string{
	"Place a water feature in this direction",
	"Add metal elements to enhance energy",
	"Incorporate wood elements for growth",
	"Use earth tones for stability",
	"Add fire elements for transformation",
}

var retrogradePlanets = []string{"Mercury", "Venus", "Mars", "Jupiter", "Saturn", "Uranus", "Neptune", "Pluto"}

var majorTransits = []string{
	"Sun conjunct Moon",
	"Jupiter trine Saturn",
	"Venus square Mars",
	"Mercury sextile Venus",
}

var luckyColors = []meaningful{
	{"red", "passion, energy, courage", "fire"},
	{"gold", "wealth, success, wisdom", "metal"},
	{"green", "growth, harmony, healing", "wood"},
	{"blue", "peace, communication, trust", "water"},
	{"purple", "spirituality, creativity, luxury", "fire"},
	{"white", "purity, clarity, new beginnings", "metal"},
	{"black", "mystery, power, protection", "water"},
	{"silver", "intuition, reflection, balance", "metal"},
}

var luckyDirections = []meaningful{
	{"north", "career, life path, wisdom", "water"},
	{"south", "fame, reputation, recognition", "fire"},
	{"east", "family, health, new beginnings", "wood"},
	{"west", "creativity, children, completion", "metal"},
	{"northeast", "knowledge, self-cultivation", "earth"},
	{"northwest", "helpful people, travel", "metal"},
	{"southeast", "wealth, abundance", "wood"},
	{"southwest", "love, relationships, marriage", "earth"},
}

// luckyNumberMeanings is indexed by number-1
var luckyNumberMeanings = []string{
	"independence, leadership, new beginnings",
	"partnership, balance, harmony",
	"creativity, expression, growth",
	"stability, foundation, order",
	"change, freedom, adventure",
	"responsibility, service, harmony",
	"spirituality, wisdom, analysis",
	"abundance, power, success",
	"completion, humanitarianism, wisdom",
}

const universalNumberMeaning = "Universal energy"

var luckyTimes = []meaningful{
	{"dawn", "new beginnings, fresh starts", "wood"},
	{"morning", "growth, action, progress", "fire"},
	{"noon", "peak energy, achievement", "fire"},
	{"afternoon", "stability, maintenance", "earth"},
	{"dusk", "transition, reflection", "metal"},
	{"evening", "relationships, harmony", "water"},
	{"night", "rest, intuition, dreams", "water"},
	{"midnight", "transformation, mystery", "water"},
}

var elementRelations = map[string][]string{
	"wood":  {"fire", "water"},
	"fire":  {"earth", "wood"},
	"earth": {"metal", "fire"},
	"metal": {"water", "earth"},
	"water": {"wood", "metal"},
}

var directionRelations = map[string][]string{
	"north":     {"east", "west"},
	"south":     {"east", "west"},
	"east":      {"north", "south"},
	"west":      {"north", "south"},
	"northeast": {"southeast", "northwest"},
	"northwest": {"northeast", "southwest"},
	"southeast": {"northeast", "southwest"},
	"southwest": {"northwest", "southeast"},
}

var chineseBeginnings = []string{"命", "福", "智", "德", "善", "道", "吉", "祥", "慧", "光", "心", "灵", "天", "地", "人"}

var chineseMiddles = []string{"运", "泽", "慧", "行", "心", "义", "缘", "愿", "思", "望", "德", "道", "明", "静", "安"}

var chineseEndings = []string{"之道", "之源", "之境", "之光", "之门", "之力", "之美", "之智", "之德", "之心", "之灵", "之境", "之福", "之运", "之缘"}

var positiveWords = []string{"success", "happy", "joy", "love", "peace", "harmony", "growth", "abundance", "wisdom", "blessing"}

var negativeWords = []string{"difficult", "challenge", "obstacle", "fear", "worry", "doubt", "struggle", "pain", "loss", "failure"}

var categoryKeywords = map[string][]string{
	"love":   {"love", "heart", "relationship", "connection", "romance", "partner"},
	"career": {"work", "career", "success", "business", "job", "professional"},
	"health": {"health", "wellness", "body", "mind", "healing", "vitality"},
	"luck":   {"luck", "fortune", "destiny", "fate", "opportunity", "chance"},
}

var categoryHours = map[string][]int{
	"love":   {18, 19, 20, 21},
	"career": {9, 10, 11, 12, 13, 14, 15},
	"health": {6, 7, 8, 16, 17},
	"luck":   {0, 12, 23},
}
