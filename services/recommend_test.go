package services

import (
	"reflect"
	"strings"
	"sync"
	"testing"
)

func TestRecommend(t *testing.T) {
	tests := []struct {
		name    string
		emotion string
		weather string
		want    string
	}{
		{"sad clear", "sad", "Clear", "Drama, Action, Adventure"},
		{"happy unknown weather", "happy", "not-a-real-condition", "Adventure, Mystery, Comedy, Drama"},
		{"happy rain uses code table for 17", "happy", "Rain", "Adventure, Mystery, Drama, Romance"},
		{"angry clear deduplicates action", "angry", "Clear", "Action, Thriller, Adventure"},
		{"angry squall adds nothing", "angry", "Squall", "Action, Thriller"},
		{"calm keeps duplicate emotion ids", "calm", "Clear", "Documentary, Documentary, Action, Adventure"},
		{"calm haze", "calm", "Haze", "Documentary, Documentary, History"},
		{"fearful snow", "fearful", "Snow", "Family, Comedy"},
		{"surprise drizzle", "surprise", "Drizzle", "Action, Romance, Comedy"},
		{"neutral sand", "neutral", "Sand", "War, Western"},
		{"disgust tornado", "disgust", "Tornado", "Horror, Thriller"},
		{"sad smoke", "sad", "Smoke", "Drama, Thriller, Crime"},
		{"empty inputs", "", "", "Adventure, Mystery, Comedy, Drama"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Recommend(tt.emotion, tt.weather, "anywhere"); got != tt.want {
				t.Errorf("Recommend(%q, %q) = %q, want %q", tt.emotion, tt.weather, got, tt.want)
			}
		})
	}
}

func TestRecommendEmotionIsCaseInsensitive(t *testing.T) {
	for _, e := range []string{"HAPPY", "Happy", "hApPy"} {
		if got, want := Recommend(e, "Rain", ""), Recommend("happy", "Rain", ""); got != want {
			t.Errorf("Recommend(%q) = %q, want %q", e, got, want)
		}
	}
}

func TestRecommendUnknownEmotionFallsBackToHappy(t *testing.T) {
	for _, e := range []string{"unknown-emotion", "fear", "surprised", " sad"} {
		got := RecommendGenres(e, "Rain", "")
		if got.EmotionKey != DefaultEmotion {
			t.Errorf("EmotionKey for %q = %q, want %q", e, got.EmotionKey, DefaultEmotion)
		}
		if got.String() != Recommend("happy", "Rain", "") {
			t.Errorf("Recommend(%q, Rain) = %q, want happy's result", e, got.String())
		}
	}
}

func TestRecommendWeatherIsExactMatch(t *testing.T) {
	got := RecommendGenres("sad", "clear", "")
	if got.WeatherKey != DefaultWeather {
		t.Errorf("WeatherKey = %q, want %q for lower-case input", got.WeatherKey, DefaultWeather)
	}
	if got.String() != "Drama, Comedy, Adventure" {
		t.Errorf("got %q", got.String())
	}
}

func TestRecommendLocationIsIgnored(t *testing.T) {
	a := Recommend("angry", "Fog", "Tashkent")
	b := Recommend("angry", "Fog", "")
	if a != b {
		t.Errorf("location changed the result: %q vs %q", a, b)
	}
}

func TestRecommendAllCombinations(t *testing.T) {
	emotions := append([]string{"???"}, Emotions...)
	weathers := append([]string{"???"}, WeatherConditions...)
	for _, e := range emotions {
		for _, w := range weathers {
			rec := RecommendGenres(e, w, "")
			if len(rec.Genres) == 0 || len(rec.Genres) > maxRecommendedGenres {
				t.Errorf("(%q, %q) produced %d genres", e, w, len(rec.Genres))
			}
			if len(rec.Genres) != len(rec.GenreIDs) {
				t.Errorf("(%q, %q) ids and names differ in length", e, w)
			}
			for _, g := range rec.Genres {
				if g == "" || g == unknownGenreName {
					t.Errorf("(%q, %q) resolved an unnamed genre: %v", e, w, rec.GenreIDs)
				}
			}
			if again := Recommend(e, w, ""); again != rec.String() {
				t.Errorf("(%q, %q) not idempotent: %q vs %q", e, w, again, rec.String())
			}
		}
	}
}

func TestRecommendGenresIDs(t *testing.T) {
	got := RecommendGenres("happy", "Fog", "")
	want := []int{12, 9648, 53}
	if !reflect.DeepEqual(got.GenreIDs, want) {
		t.Errorf("GenreIDs = %v, want %v", got.GenreIDs, want)
	}
}

func TestRecommendConcurrent(t *testing.T) {
	want := Recommend("sad", "Clear", "")
	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := Recommend("sad", "Clear", ""); got != want {
				errs <- got
			}
		}()
	}
	wg.Wait()
	close(errs)
	for got := range errs {
		t.Errorf("concurrent Recommend = %q, want %q", got, want)
	}
}

func TestGenreNameResolution(t *testing.T) {
	tests := []struct {
		id   int
		want string
	}{
		{18, "Drama"},
		{9648, "Mystery"},
		{878, "Science Fiction"},
		{17, "Romance"},
		{-1, "Missing"},
		{22, "Western"},
		{0, "Unknown"},
		{10764, "Unknown"},
	}
	for _, tt := range tests {
		if got := GenreName(tt.id); got != tt.want {
			t.Errorf("GenreName(%d) = %q, want %q", tt.id, got, tt.want)
		}
	}
	if got := CodeGenreName(18); got != "Sci-Fi" {
		t.Errorf("CodeGenreName(18) = %q, want Sci-Fi", got)
	}
}

func TestRowGenreID(t *testing.T) {
	tests := map[string]int{
		"Drama":     18,
		"Sport":     9648,
		"Mystery":   9648,
		"Biography": 99,
		"Sci-Fi":    878,
		"Unknown":   28,
		"":          28,
	}
	for name, want := range tests {
		if got := RowGenreID(name); got != want {
			t.Errorf("RowGenreID(%q) = %d, want %d", name, got, want)
		}
	}
}

func TestEveryRecommendedNameHasARow(t *testing.T) {
	for _, e := range Emotions {
		for _, w := range WeatherConditions {
			for _, g := range RecommendGenres(e, w, "").Genres {
				if _, ok := rowGenreIDs[g]; !ok && !strings.EqualFold(g, "unknown") {
					t.Errorf("genre %q from (%s, %s) has no row id", g, e, w)
				}
			}
		}
	}
}
