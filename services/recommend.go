package services

import (
	"strings"
)

// GenreRecommendation is the full result of one recommender pass. Genres is
// what callers display; the resolved keys and ids are kept for persistence
// and metrics.
type GenreRecommendation struct {
	EmotionKey string   `json:"emotion_key"`
	WeatherKey string   `json:"weather_key"`
	GenreIDs   []int    `json:"genre_ids"`
	Genres     []string `json:"genres"`
}

// String joins the genre names the way the UI displays them.
func (r GenreRecommendation) String() string {
	return strings.Join(r.Genres, ", ")
}

// Recommend maps an emotion and a weather condition to a comma-separated list
// of at most five genre names. location is accepted but does not influence the
// result. Every input is valid: unknown emotions use "happy", unknown weather
// uses "Unknown".
func Recommend(emotion, weather, location string) string {
	return RecommendGenres(emotion, weather, location).String()
}

// RecommendGenres is Recommend without the final join.
func RecommendGenres(emotion, weather, location string) GenreRecommendation {
	_ = location

	emotionKey := ResolveEmotion(emotion)
	weatherKey := ResolveWeather(weather)

	names := emotionGenres[emotionKey]
	ids := make([]int, 0, maxRecommendedGenres)
	for _, name := range names {
		id, ok := emotionGenreIDs[name]
		if !ok {
			id = fallbackGenreID
		}
		ids = append(ids, id)
	}

	// Emotion ids are kept verbatim (calm yields 99 twice); only weather ids
	// are de-duplicated against what is already there.
	for _, id := range weatherGenreIDs[weatherKey] {
		if len(ids) >= maxRecommendedGenres {
			break
		}
		if !containsID(ids, id) {
			ids = append(ids, id)
		}
	}

	genres := make([]string, len(ids))
	for i, id := range ids {
		genres[i] = GenreName(id)
	}

	return GenreRecommendation{
		EmotionKey: emotionKey,
		WeatherKey: weatherKey,
		GenreIDs:   ids,
		Genres:     genres,
	}
}

// ResolveEmotion returns the table key for emotion, matched case-insensitively,
// or DefaultEmotion.
func ResolveEmotion(emotion string) string {
	key := strings.ToLower(emotion)
	if _, ok := emotionGenres[key]; ok {
		return key
	}
	return DefaultEmotion
}

// ResolveWeather returns weather when it is an exact table key, else
// DefaultWeather.
func ResolveWeather(weather string) string {
	if _, ok := weatherGenreIDs[weather]; ok {
		return weather
	}
	return DefaultWeather
}

func containsID(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
