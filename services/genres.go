package services

// Static lookup tables behind the genre recommender. They are built once at
// package init and never written afterwards, so concurrent readers need no
// locking.

// ─── Keys ─────────────────────────────────────────────────────────────────────

const (
	DefaultEmotion = "happy"
	DefaultWeather = "Unknown"

	// fallbackGenreID is used when a genre name has no catalog id (Action).
	fallbackGenreID = 28

	// maxRecommendedGenres caps the merged emotion + weather sequence.
	maxRecommendedGenres = 5

	unknownGenreName = "Unknown"
)

// Emotions lists the recognised emotion keys in table order.
var Emotions = []string{"sad", "happy", "fearful", "surprise", "neutral", "calm", "disgust", "angry"}

// WeatherConditions lists the recognised weather keys in table order.
var WeatherConditions = []string{
	"Rain", "Snow", "Clear", "Clouds", "Thunderstorm", "Drizzle", "Fog", "Mist",
	"Smoke", "Haze", "Dust", "Sand", "Ash", "Squall", "Tornado", DefaultWeather,
}

// ─── Emotion → genre names ────────────────────────────────────────────────────

var emotionGenres = map[string][]string{
	"sad":      {"Drama"},
	"happy":    {"Adventure", "Mystery"},
	"fearful":  {"Family"},
	"surprise": {"Action-Comedy"},
	"neutral":  {"War/History"},
	"calm":     {"Documentary", "Biography"},
	"disgust":  {"Horror"},
	"angry":    {"Action", "Thriller"},
}

// emotionGenreIDs maps the descriptive genre names used by emotionGenres onto
// the catalog's ids. Several are approximations (Biography → Documentary,
// Action-Comedy → Action).
var emotionGenreIDs = map[string]int{
	"Drama":         18,
	"Fantasy":       14,
	"Adventure":     12,
	"Mystery":       9648,
	"Rom-Com":       35,
	"Family":        10751,
	"Game-Show":     10764,
	"Action-Comedy": 28,
	"War/History":   10752,
	"Documentary":   99,
	"Biography":     99,
	"Musical":       10402,
	"Horror":        27,
	"Film-Noir":     80,
	"Action":        28,
	"Thriller":      53,
}

// ─── Weather → genre ids ──────────────────────────────────────────────────────

var weatherGenreIDs = map[string][]int{
	"Rain":         {18, 17},     // Drama, Romance
	"Snow":         {10751, 35},  // Family, Comedy
	"Clear":        {28, 12},     // Action, Adventure
	"Clouds":       {18, 99},     // Drama, Documentary
	"Thunderstorm": {53, 27},     // Thriller, Horror
	"Drizzle":      {17, 35},     // Romance, Comedy
	"Fog":          {9648, 53},   // Mystery, Thriller
	"Mist":         {18, 17},     // Drama, Romance
	"Smoke":        {53, 80},     // Thriller, Crime
	"Haze":         {99, 36},     // Documentary, History
	"Dust":         {28, 12},     // Action, Adventure
	"Sand":         {10752, 37},  // War, Western
	"Ash":          {27, 53},     // Horror, Thriller
	"Squall":       {53, 28},     // Thriller, Action
	"Tornado":      {27, 53},     // Horror, Thriller
	DefaultWeather: {35, 12, 18}, // Comedy, Adventure, Drama
}

// ─── Genre id → name ──────────────────────────────────────────────────────────

// catalogGenreNames is the movie provider's own genre list.
var catalogGenreNames = map[int]string{
	28:    "Action",
	12:    "Adventure",
	16:    "Animation",
	35:    "Comedy",
	80:    "Crime",
	99:    "Documentary",
	18:    "Drama",
	10751: "Family",
	14:    "Fantasy",
	36:    "History",
	27:    "Horror",
	10402: "Music",
	9648:  "Mystery",
	10749: "Romance",
	878:   "Science Fiction",
	10770: "TV Movie",
	53:    "Thriller",
	10752: "War",
	37:    "Western",
}

// codeGenreNames is the 22-entry numeric genre code table (plus -1 for a
// missing genre) shared with the offline genre model.
var codeGenreNames = map[int]string{
	-1: "Missing",
	1:  "Action",
	2:  "Adventure",
	3:  "Animation",
	4:  "Art",
	5:  "Biography",
	6:  "Comedy",
	7:  "Crime",
	8:  "Documentary",
	9:  "Drama",
	10: "Family",
	11: "Fantasy",
	12: "History",
	13: "Horror",
	14: "Music",
	15: "Musical",
	16: "Mystery",
	17: "Romance",
	18: "Sci-Fi",
	19: "Sport",
	20: "Thriller",
	21: "War",
	22: "Western",
}

// ─── Genre name → row query id ────────────────────────────────────────────────

// rowGenreIDs turns a recommended genre name back into the catalog id used
// to fill its movie row. Sport shares Mystery's id and Art/Biography share
// Documentary's; those collisions are kept as-is.
var rowGenreIDs = map[string]int{
	"Action":          28,
	"Adventure":       12,
	"Animation":       16,
	"Comedy":          35,
	"Crime":           80,
	"Documentary":     99,
	"Drama":           18,
	"Family":          10751,
	"Fantasy":         14,
	"History":         36,
	"Horror":          27,
	"Music":           10402,
	"Musical":         10402,
	"Mystery":         9648,
	"Romance":         10749,
	"Sci-Fi":          878,
	"Science Fiction": 878,
	"Sport":           9648,
	"Thriller":        53,
	"War":             10752,
	"Western":         37,
	"Art":             99,
	"Biography":       99,
}

// CodeGenreName resolves a numeric genre code (-1, 1..22); unknown codes and
// empty labels resolve to "Unknown".
func CodeGenreName(code int) string {
	if name, ok := codeGenreNames[code]; ok && name != "" {
		return name
	}
	return unknownGenreName
}

// GenreName resolves a catalog genre id, consulting the code table for ids the
// catalog does not define.
func GenreName(id int) string {
	if name, ok := catalogGenreNames[id]; ok && name != "" {
		return name
	}
	return CodeGenreName(id)
}

// RowGenreID returns the catalog id used to query movies for a genre name.
func RowGenreID(name string) int {
	if id, ok := rowGenreIDs[name]; ok {
		return id
	}
	return fallbackGenreID
}
