package services

import (
	"strings"
	"time"
)

// ViewingContext is the numeric feature vector describing when, where and in
// what state a user asks for a recommendation. The field order matches the
// column order of the offline genre model's training data.
type ViewingContext struct {
	TimeOfDay   int `json:"time_of_day"`
	DayType     int `json:"day_type"`
	Season      int `json:"season"`
	Location    int `json:"location"`
	Weather     int `json:"weather"`
	Social      int `json:"social"`
	EndEmotion  int `json:"end_emotion"`
	DomEmotion  int `json:"dominant_emotion"`
	Mood        int `json:"mood"`
	Physical    int `json:"physical"`
	Decision    int `json:"decision"`
	Interaction int `json:"interaction"`
}

// ContextInput carries the user-supplied half of the context.
type ContextInput struct {
	Emotion     string
	Weather     string
	Place       string // home, public place, friends house
	Social      string // alone, partner, friends, ...
	Health      string // healthy, ill
	Decision    string // user, given
	Interaction int
	Holidays    []string // YYYY-MM-DD
}

// Vector returns the context in model column order.
func (v ViewingContext) Vector() []int {
	return []int{
		v.TimeOfDay, v.DayType, v.Season, v.Location, v.Weather, v.Social,
		v.EndEmotion, v.DomEmotion, v.Mood, v.Physical, v.Decision, v.Interaction,
	}
}

// BuildViewingContext derives the full context for in at time now.
func BuildViewingContext(in ContextInput, now time.Time) ViewingContext {
	emotion := strings.ToLower(in.Emotion)
	endCode := EmotionCode(emotion)

	interaction := in.Interaction
	if interaction < 1 {
		interaction = 1
	}

	return ViewingContext{
		TimeOfDay:   TimeOfDayCode(now.Hour()),
		DayType:     DayTypeCode(now, in.Holidays),
		Season:      SeasonCode(now.Month()),
		Location:    PlaceCode(in.Place),
		Weather:     WeatherCode(in.Weather),
		Social:      SocialCode(in.Social),
		EndEmotion:  endCode,
		DomEmotion:  endCode,
		Mood:        MoodCode(emotion),
		Physical:    PhysicalCode(in.Health),
		Decision:    DecisionCode(in.Decision),
		Interaction: interaction,
	}
}

// SeasonCode: spring 1, summer 2, autumn 3, winter 4.
func SeasonCode(m time.Month) int {
	switch m {
	case time.March, time.April, time.May:
		return 1
	case time.June, time.July, time.August:
		return 2
	case time.September, time.October, time.November:
		return 3
	default:
		return 4
	}
}

// TimeOfDayCode: morning 1 (5-11), afternoon 2 (12-16), evening 3 (17-20),
// night 4.
func TimeOfDayCode(hour int) int {
	switch {
	case hour >= 5 && hour < 12:
		return 1
	case hour >= 12 && hour < 17:
		return 2
	case hour >= 17 && hour < 21:
		return 3
	default:
		return 4
	}
}

// DayTypeCode: working day 1, weekend 2, holiday 3.
func DayTypeCode(d time.Time, holidays []string) int {
	key := d.Format("2006-01-02")
	for _, h := range holidays {
		if h == key {
			return 3
		}
	}
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return 2
	}
	return 1
}

var placeCodes = map[string]int{
	"home":          1,
	"public place":  2,
	"friends house": 3,
}

func PlaceCode(place string) int {
	if c, ok := placeCodes[strings.ToLower(strings.TrimSpace(place))]; ok {
		return c
	}
	return 1
}

var socialCodes = map[string]int{
	"alone":      1,
	"my partner": 2,
	"partner":    2,
	"friends":    3,
	"colleagues": 4,
	"parents":    5,
	"public":     6,
	"my family":  7,
}

func SocialCode(social string) int {
	if c, ok := socialCodes[strings.ToLower(strings.TrimSpace(social))]; ok {
		return c
	}
	return 1
}

// PhysicalCode: healthy 1, anything else 2. An empty value counts as healthy.
func PhysicalCode(health string) int {
	h := strings.ToLower(strings.TrimSpace(health))
	if h == "" || h == "healthy" {
		return 1
	}
	return 2
}

// DecisionCode: user-decided 1, given 2. Empty counts as user-decided.
func DecisionCode(decision string) int {
	d := strings.ToLower(strings.TrimSpace(decision))
	if d == "" || strings.HasPrefix(d, "user") {
		return 1
	}
	return 2
}

var emotionCodes = map[string]int{
	"sad":       1,
	"happy":     2,
	"scared":    3,
	"surprised": 4,
	"angry":     5,
	"disgusted": 6,
	"neutral":   7,
}

// EmotionCode maps an emotion label to the model's emotion code, neutral (7)
// when unknown.
func EmotionCode(emotion string) int {
	if c, ok := emotionCodes[strings.ToLower(emotion)]; ok {
		return c
	}
	return 7
}

var moodCodes = map[string]int{
	"happy":     1,
	"calm":      2,
	"neutral":   2,
	"surprised": 2,
	"sad":       3,
	"angry":     3,
	"fearful":   3,
	"disgust":   3,
}

// MoodCode: positive 1, neutral 2, negative 3.
func MoodCode(emotion string) int {
	if c, ok := moodCodes[strings.ToLower(emotion)]; ok {
		return c
	}
	return 2
}

var weatherCodes = map[string]int{
	"Clear":        1,
	"Sunny":        1,
	"Clouds":       5,
	"Rain":         2,
	"Drizzle":      2,
	"Thunderstorm": 3,
	"Snow":         4,
}

// WeatherCode maps a weather condition to the model's weather code, cloudy (5)
// when unknown.
func WeatherCode(condition string) int {
	if c, ok := weatherCodes[condition]; ok {
		return c
	}
	return 5
}
