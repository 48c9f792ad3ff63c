package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"

	"cinemood/database"
	"cinemood/services"
)

// ─── Dependencies ─────────────────────────────────────────────────────────────

// Store is the persistence the API needs. database.Store and
// database.MemoryStore both satisfy it.
type Store interface {
	Ping(ctx context.Context) error
	Backend() string
	SaveSession(ctx context.Context, s *database.Session) error
	GetSession(ctx context.Context, id string) (*database.Session, error)
	SaveWatchlist(ctx context.Context, w *database.Watchlist) error
	GetWatchlist(ctx context.Context, id string) (*database.Watchlist, error)
}

// MovieSource is implemented by *services.MovieCatalog.
type MovieSource interface {
	Configured() bool
	State() string
	Trending(ctx context.Context) ([]services.Movie, error)
	Search(ctx context.Context, query string) ([]services.Movie, error)
	Details(ctx context.Context, id int) (*services.Movie, error)
	DiscoverWithFallback(ctx context.Context, genreIDs []int) ([]services.Movie, string)
}

// WeatherSource is implemented by *services.WeatherService.
type WeatherSource interface {
	Configured() bool
	State() string
	Lookup(ctx context.Context, lat, lon *float64, city string) services.Weather
}

// Handler serves the HTTP API.
type Handler struct {
	store   Store
	movies  MovieSource
	weather WeatherSource
	emotion services.EmotionDetector
	cache   services.Cache

	now      func() time.Time
	pick     func(int) int // binge selection; nil means random
	marshal  func(any) ([]byte, error)
	maxAudio int64
}

func New(store Store, movies MovieSource, weather WeatherSource, emotion services.EmotionDetector, cache services.Cache) *Handler {
	return &Handler{
		store:    store,
		movies:   movies,
		weather:  weather,
		emotion:  emotion,
		cache:    cache,
		now:      time.Now,
		marshal:  json.Marshal,
		maxAudio: maxAudioBytes,
	}
}

// Register mounts every API route on r.
func (h *Handler) Register(r gin.IRouter) {
	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/genres", h.Genres)
		api.POST("/recommend", h.Recommend)
		api.GET("/sessions/:id", h.GetSession)

		api.GET("/movies/trending", h.Trending)
		api.GET("/movies/search", h.SearchMovies)
		api.GET("/movies/discover", h.DiscoverMovies)
		api.GET("/movies/:id", h.MovieDetails)

		api.GET("/weather", h.Weather)
		api.POST("/emotion", h.DetectEmotion)

		api.POST("/watchlist", h.GenerateWatchlist)
		api.GET("/download/:id", h.Download)
	}
}

// ─── Health ───────────────────────────────────────────────────────────────────

func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "ok"
	if h.store == nil {
		dbStatus = "not initialized"
	} else if err := h.store.Ping(ctx); err != nil {
		dbStatus = "error: " + err.Error()
	}

	cacheStatus := "ok"
	cacheBackend := "none"
	if h.cache != nil {
		cacheBackend = h.cache.Backend()
		if err := h.cache.Ping(ctx); err != nil {
			cacheStatus = "error: " + err.Error()
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"service":  "cinemood API",
		"database": dbStatus,
		"storage":  storeBackend(h.store),
		"cache":    gin.H{"backend": cacheBackend, "status": cacheStatus},
		"providers": gin.H{
			"tmdb":    providerStatus(h.movies != nil && h.movies.Configured(), stateOf(h.movies)),
			"weather": providerStatus(h.weather != nil && h.weather.Configured(), stateOf(h.weather)),
			"emotion": emotionStatus(h.emotion),
		},
	})
}

func storeBackend(s Store) string {
	if s == nil {
		return "none"
	}
	return s.Backend()
}

func stateOf(p interface{ State() string }) string {
	if p == nil {
		return ""
	}
	return p.State()
}

func providerStatus(configured bool, breaker string) gin.H {
	if !configured {
		return gin.H{"configured": false}
	}
	return gin.H{"configured": true, "breaker": breaker}
}

func emotionStatus(d services.EmotionDetector) gin.H {
	if d == nil || d.Name() == "" {
		return gin.H{"configured": false}
	}
	return gin.H{"configured": true, "detectors": d.Name()}
}
