package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"cinemood/database"
	"cinemood/logging"
	"cinemood/metrics"
	"cinemood/services"
)

// defaultTemperature is reported when the caller names a weather condition
// without a temperature.
const defaultTemperature = 20

// ─── Genres ───────────────────────────────────────────────────────────────────

type GenresResponse struct {
	Genres     string   `json:"genres"`
	GenreList  []string `json:"genre_list"`
	GenreIDs   []int    `json:"genre_ids"`
	EmotionKey string   `json:"emotion_key"`
	WeatherKey string   `json:"weather_key"`
}

// Genres exposes the pure recommender: GET /api/genres?emotion=&weather=&location=
func (h *Handler) Genres(c *gin.Context) {
	rec := services.RecommendGenres(c.Query("emotion"), c.Query("weather"), c.Query("location"))
	metrics.RecommendationsTotal.WithLabelValues(rec.EmotionKey, rec.WeatherKey).Inc()
	c.JSON(http.StatusOK, genresResponse(rec))
}

func genresResponse(rec services.GenreRecommendation) GenresResponse {
	return GenresResponse{
		Genres:     rec.String(),
		GenreList:  rec.Genres,
		GenreIDs:   rec.GenreIDs,
		EmotionKey: rec.EmotionKey,
		WeatherKey: rec.WeatherKey,
	}
}

// ─── Recommend ────────────────────────────────────────────────────────────────

type RecommendRequest struct {
	Emotion string `json:"emotion"`

	// Either a condition is given directly or it is looked up from
	// coordinates or a city.
	Weather     string   `json:"weather"`
	Temperature *int     `json:"temperature"`
	Latitude    *float64 `json:"lat" binding:"omitempty,gte=-90,lte=90"`
	Longitude   *float64 `json:"lon" binding:"omitempty,gte=-180,lte=180"`
	City        string   `json:"city"`
	Location    string   `json:"location"`

	Place       string   `json:"place"`
	Social      string   `json:"social"`
	Health      string   `json:"health"`
	Decision    string   `json:"decision"`
	Interaction int      `json:"interaction" binding:"gte=0"`
	Holidays    []string `json:"holidays"`
}

// GenreRow is one genre's movie row.
type GenreRow struct {
	Genre   string           `json:"genre"`
	GenreID int              `json:"genre_id"`
	Movies  []services.Movie `json:"movies"`
	Source  string           `json:"source"`
}

type RecommendResponse struct {
	SessionID string                  `json:"session_id"`
	Emotion   string                  `json:"emotion"`
	Weather   services.Weather        `json:"weather"`
	Genres    string                  `json:"genres"`
	GenreList []string                `json:"genre_list"`
	GenreIDs  []int                   `json:"genre_ids"`
	Rows      []GenreRow              `json:"rows"`
	Binge     *services.Movie         `json:"binge_of_the_day"`
	Context   services.ViewingContext `json:"context"`
	Vector    []int                   `json:"context_vector"`
	Source    string                  `json:"source"` // "live" or "estimated"
}

func (h *Handler) Recommend(c *gin.Context) {
	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if (req.Latitude == nil) != (req.Longitude == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon must be given together"})
		return
	}
	ctx := c.Request.Context()

	// ── Weather ───────────────────────────────────────────────────────────────
	weather := h.resolveWeather(ctx, req)

	// ── Genres ────────────────────────────────────────────────────────────────
	rec := services.RecommendGenres(req.Emotion, weather.Condition, weather.Location)
	metrics.RecommendationsTotal.WithLabelValues(rec.EmotionKey, rec.WeatherKey).Inc()

	// ── Rows + binge ──────────────────────────────────────────────────────────
	rows := h.buildRows(ctx, rec.Genres)
	source := services.SourceLive
	var all []services.Movie
	for _, r := range rows {
		if r.Source == services.SourceEstimated {
			source = services.SourceEstimated
		}
		all = append(all, r.Movies...)
	}
	binge := services.PickBinge(all, h.pick)

	viewing := services.BuildViewingContext(services.ContextInput{
		Emotion:     req.Emotion,
		Weather:     weather.Condition,
		Place:       req.Place,
		Social:      req.Social,
		Health:      req.Health,
		Decision:    req.Decision,
		Interaction: req.Interaction,
		Holidays:    req.Holidays,
	}, h.now())

	// ── Persist ───────────────────────────────────────────────────────────────
	sessionID := uuid.New().String()
	contextJSON, err := h.marshal(viewing)
	if err != nil {
		h.encodeError(c, err, "viewing context")
		return
	}
	rowsJSON, err := h.marshal(rows)
	if err != nil {
		h.encodeError(c, err, "movie rows")
		return
	}
	bingeJSON, err := h.marshal(binge)
	if err != nil {
		h.encodeError(c, err, "binge pick")
		return
	}
	genreIDs := make([]int64, len(rec.GenreIDs))
	for i, id := range rec.GenreIDs {
		genreIDs[i] = int64(id)
	}

	if err := h.store.SaveSession(ctx, &database.Session{
		ID:          sessionID,
		Emotion:     req.Emotion,
		Weather:     weather.Condition,
		Temperature: weather.Temperature,
		Location:    weather.Location,
		Genres:      rec.String(),
		GenreIDs:    genreIDs,
		ContextJSON: string(contextJSON),
		RowsJSON:    string(rowsJSON),
		BingeJSON:   string(bingeJSON),
		Source:      source,
	}); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("failed to save session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save recommendation"})
		return
	}

	logging.Ctx(ctx).Info().
		Str("session_id", sessionID).
		Str("emotion", rec.EmotionKey).
		Str("weather", rec.WeatherKey).
		Str("genres", rec.String()).
		Str("source", source).
		Msg("recommendation served")

	c.JSON(http.StatusOK, RecommendResponse{
		SessionID: sessionID,
		Emotion:   req.Emotion,
		Weather:   weather,
		Genres:    rec.String(),
		GenreList: rec.Genres,
		GenreIDs:  rec.GenreIDs,
		Rows:      rows,
		Binge:     binge,
		Context:   viewing,
		Vector:    viewing.Vector(),
		Source:    source,
	})
}

func (h *Handler) encodeError(c *gin.Context, err error, what string) {
	logging.Ctx(c.Request.Context()).Error().Err(err).Str("field", what).Msg("failed to encode session")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode recommendation"})
}

func (h *Handler) resolveWeather(ctx context.Context, req RecommendRequest) services.Weather {
	if req.Weather != "" {
		temp := defaultTemperature
		if req.Temperature != nil {
			temp = *req.Temperature
		}
		return services.Weather{
			Temperature: temp,
			Condition:   req.Weather,
			Location:    req.Location,
			Source:      services.SourceLive,
		}
	}

	city := req.City
	if city == "" {
		city = req.Location
	}
	return h.weather.Lookup(ctx, req.Latitude, req.Longitude, city)
}

// buildRows fetches one row per distinct genre name, in recommendation order.
func (h *Handler) buildRows(ctx context.Context, genres []string) []GenreRow {
	var names []string
	seen := make(map[string]bool, len(genres))
	for _, g := range genres {
		if !seen[g] {
			seen[g] = true
			names = append(names, g)
		}
	}

	rows := make([]GenreRow, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			id := services.RowGenreID(name)
			movies, source := h.movies.DiscoverWithFallback(ctx, []int{id})
			rows[i] = GenreRow{Genre: name, GenreID: id, Movies: movies, Source: source}
		}(i, name)
	}
	wg.Wait()
	return rows
}

// ─── Sessions ─────────────────────────────────────────────────────────────────

type SessionResponse struct {
	ID          string          `json:"id"`
	Emotion     string          `json:"emotion"`
	Weather     string          `json:"weather"`
	Temperature int             `json:"temperature"`
	Location    string          `json:"location"`
	Genres      string          `json:"genres"`
	GenreIDs    []int64         `json:"genre_ids"`
	Context     json.RawMessage `json:"context,omitempty"`
	Rows        json.RawMessage `json:"rows,omitempty"`
	Binge       json.RawMessage `json:"binge_of_the_day,omitempty"`
	Source      string          `json:"source"`
	CreatedAt   string          `json:"created_at"`
}

func (h *Handler) GetSession(c *gin.Context) {
	sess, err := h.store.GetSession(c.Request.Context(), c.Param("id"))
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	if err != nil {
		logging.Ctx(c.Request.Context()).Error().Err(err).Msg("failed to load session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
		return
	}

	c.JSON(http.StatusOK, SessionResponse{
		ID:          sess.ID,
		Emotion:     sess.Emotion,
		Weather:     sess.Weather,
		Temperature: sess.Temperature,
		Location:    sess.Location,
		Genres:      sess.Genres,
		GenreIDs:    sess.GenreIDs,
		Context:     rawJSON(sess.ContextJSON),
		Rows:        rawJSON(sess.RowsJSON),
		Binge:       rawJSON(sess.BingeJSON),
		Source:      sess.Source,
		CreatedAt:   sess.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	})
}

func rawJSON(s string) json.RawMessage {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return nil
	}
	return json.RawMessage(s)
}
