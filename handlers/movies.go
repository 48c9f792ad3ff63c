package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"cinemood/logging"
	"cinemood/services"
)

type MoviesResponse struct {
	Movies []services.Movie `json:"movies"`
	Source string           `json:"source"`
}

func (h *Handler) Trending(c *gin.Context) {
	ctx := c.Request.Context()
	movies, err := h.movies.Trending(ctx)
	if err != nil || len(movies) == 0 {
		if err != nil && !errors.Is(err, services.ErrNotConfigured) {
			logging.Ctx(ctx).Warn().Err(err).Msg("trending failed, using fallback")
		}
		c.JSON(http.StatusOK, MoviesResponse{Movies: services.FallbackMovies(nil), Source: services.SourceEstimated})
		return
	}
	c.JSON(http.StatusOK, MoviesResponse{Movies: movies, Source: services.SourceLive})
}

func (h *Handler) SearchMovies(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter q is required"})
		return
	}
	movies, err := h.movies.Search(c.Request.Context(), q)
	if err != nil {
		h.providerError(c, err, "Movie search is unavailable")
		return
	}
	c.JSON(http.StatusOK, MoviesResponse{Movies: movies, Source: services.SourceLive})
}

// DiscoverMovies lists movies for ?genres=18,28; no genres means trending.
func (h *Handler) DiscoverMovies(c *gin.Context) {
	ids, err := parseGenreIDs(c.Query("genres"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	movies, source := h.movies.DiscoverWithFallback(c.Request.Context(), ids)
	c.JSON(http.StatusOK, MoviesResponse{Movies: movies, Source: source})
}

func (h *Handler) MovieDetails(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Movie id must be a positive integer"})
		return
	}
	movie, err := h.movies.Details(c.Request.Context(), id)
	if err != nil {
		h.providerError(c, err, "Movie details are unavailable")
		return
	}
	c.JSON(http.StatusOK, movie)
}

func parseGenreIDs(raw string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, errors.New("genres must be a comma-separated list of ids")
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// providerError maps an upstream failure onto a client-facing status without
// exposing the provider's response.
func (h *Handler) providerError(c *gin.Context, err error, msg string) {
	var apiErr *services.APIError
	switch {
	case errors.Is(err, services.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": msg})
	case errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	default:
		logging.Ctx(c.Request.Context()).Warn().Err(err).Msg("provider request failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": msg})
	}
}

// ─── Weather ──────────────────────────────────────────────────────────────────

// Weather answers GET /api/weather?lat=&lon= or ?city=. It never fails on
// provider errors; the response is labelled "estimated" instead.
func (h *Handler) Weather(c *gin.Context) {
	var lat, lon *float64
	latRaw, lonRaw := c.Query("lat"), c.Query("lon")
	if latRaw != "" || lonRaw != "" {
		la, errLat := strconv.ParseFloat(latRaw, 64)
		lo, errLon := strconv.ParseFloat(lonRaw, 64)
		if errLat != nil || errLon != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon must both be numbers"})
			return
		}
		if la < -90 || la > 90 || lo < -180 || lo > 180 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Coordinates out of range"})
			return
		}
		lat, lon = &la, &lo
	}

	c.JSON(http.StatusOK, h.weather.Lookup(c.Request.Context(), lat, lon, c.Query("city")))
}
