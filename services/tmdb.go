package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"cinemood/logging"
	"cinemood/metrics"
)

// ─── Types ────────────────────────────────────────────────────────────────────

type Movie struct {
	ID        int     `json:"id"`
	Title     string  `json:"title"`
	Genre     string  `json:"genre"`
	Rating    float64 `json:"rating"`
	Synopsis  string  `json:"synopsis"`
	PosterURL string  `json:"poster_url"`
	Year      int     `json:"year,omitempty"`
}

type tmdbMovie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
	ReleaseDate string  `json:"release_date"`
	GenreIDs    []int   `json:"genre_ids"`
	Genres      []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
}

type tmdbListResponse struct {
	Results      []tmdbMovie `json:"results"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
}

// Source values tell clients whether data came from the provider or from the
// built-in fallback tables.
const (
	SourceLive      = "live"
	SourceEstimated = "estimated"
)

const (
	maxListMovies     = 20
	placeholderPoster = "https://images.unsplash.com/photo-1489599832527-2b8e0f5a9b9b?w=500&h=750&fit=crop"
)

// ─── Client ───────────────────────────────────────────────────────────────────

type TMDBConfig struct {
	APIKey       string
	BaseURL      string
	ImageBaseURL string
	Timeout      time.Duration
	CacheTTL     time.Duration
}

// MovieCatalog talks to the TMDB v3 API. Successful list and detail payloads
// are cached for CacheTTL.
type MovieCatalog struct {
	providerTransport
	apiKey       string
	baseURL      string
	imageBaseURL string
	cache        Cache
	cacheTTL     time.Duration
}

func NewMovieCatalog(cfg TMDBConfig, cache Cache) *MovieCatalog {
	if cache == nil {
		cache = NewMemoryCache()
	}
	c := &MovieCatalog{
		providerTransport: newProviderTransport("tmdb", cfg.Timeout),
		apiKey:            cfg.APIKey,
		baseURL:           strings.TrimRight(cfg.BaseURL, "/"),
		imageBaseURL:      strings.TrimRight(cfg.ImageBaseURL, "/"),
		cache:             cache,
		cacheTTL:          cfg.CacheTTL,
	}
	if c.apiKey == "" {
		logging.Warn().Msg("TMDB_API_KEY not set, movie rows will use fallback data")
	}
	return c
}

func (c *MovieCatalog) Configured() bool {
	return c.apiKey != ""
}

// get fetches path with params, going through the cache first.
func (c *MovieCatalog) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("language", "en-US")

	cacheKey := "tmdb:" + path + "?" + params.Encode()
	if body, ok := c.cache.Get(ctx, cacheKey); ok {
		return body, nil
	}

	params.Set("api_key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	c.cache.Set(ctx, cacheKey, body, c.cacheTTL)
	return body, nil
}

func (c *MovieCatalog) list(ctx context.Context, path string, params url.Values) ([]Movie, error) {
	body, err := c.get(ctx, path, params)
	if err != nil {
		return nil, err
	}
	var resp tmdbListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse tmdb list: %w", err)
	}

	results := resp.Results
	if len(results) > maxListMovies {
		results = results[:maxListMovies]
	}
	movies := make([]Movie, 0, len(results))
	for _, m := range results {
		movies = append(movies, c.ConvertMovie(m))
	}
	return movies, nil
}

// ─── Endpoints ────────────────────────────────────────────────────────────────

// Trending returns this week's top trending movies.
func (c *MovieCatalog) Trending(ctx context.Context) ([]Movie, error) {
	movies, err := c.list(ctx, "/trending/movie/week", nil)
	if err != nil {
		return nil, fmt.Errorf("trending movies failed: %w", err)
	}
	return movies, nil
}

// Search returns the first page of title matches for query.
func (c *MovieCatalog) Search(ctx context.Context, query string) ([]Movie, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Movie{}, nil
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", "1")
	movies, err := c.list(ctx, "/search/movie", params)
	if err != nil {
		return nil, fmt.Errorf("movie search failed: %w", err)
	}
	return movies, nil
}

// Discover returns popular movies carrying all of genreIDs. No ids means
// trending.
func (c *MovieCatalog) Discover(ctx context.Context, genreIDs []int) ([]Movie, error) {
	if len(genreIDs) == 0 {
		return c.Trending(ctx)
	}
	ids := make([]string, len(genreIDs))
	for i, id := range genreIDs {
		ids[i] = strconv.Itoa(id)
	}
	params := url.Values{}
	params.Set("sort_by", "popularity.desc")
	params.Set("with_genres", strings.Join(ids, ","))
	params.Set("page", "1")
	movies, err := c.list(ctx, "/discover/movie", params)
	if err != nil {
		return nil, fmt.Errorf("discover movies failed: %w", err)
	}
	return movies, nil
}

// Details returns a single movie, labelled with its first genre.
func (c *MovieCatalog) Details(ctx context.Context, id int) (*Movie, error) {
	body, err := c.get(ctx, "/movie/"+strconv.Itoa(id), nil)
	if err != nil {
		return nil, fmt.Errorf("movie details failed: %w", err)
	}
	var m tmdbMovie
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("failed to parse movie details: %w", err)
	}
	movie := c.ConvertMovie(m)
	if len(m.Genres) > 0 && m.Genres[0].Name != "" {
		movie.Genre = m.Genres[0].Name
	}
	return &movie, nil
}

// DiscoverWithFallback never fails: discover, then trending, then the static
// catalog. The returned source is SourceLive only for provider data.
func (c *MovieCatalog) DiscoverWithFallback(ctx context.Context, genreIDs []int) ([]Movie, string) {
	movies, err := c.Discover(ctx, genreIDs)
	if err == nil && len(movies) > 0 {
		return movies, SourceLive
	}
	if err != nil && !errors.Is(err, ErrNotConfigured) {
		logging.Ctx(ctx).Warn().Err(err).Ints("genre_ids", genreIDs).Msg("tmdb discover failed, trying trending")
	}

	if len(genreIDs) > 0 && c.Configured() {
		if trending, err := c.Trending(ctx); err == nil && len(trending) > 0 {
			return trending, SourceLive
		} else if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("tmdb trending failed, using fallback catalog")
		}
	}

	metrics.ProviderRequests.WithLabelValues(c.name, "fallback").Inc()
	return FallbackMovies(genreIDs), SourceEstimated
}

// ConvertMovie maps a TMDB payload to the API's Movie shape.
func (c *MovieCatalog) ConvertMovie(m tmdbMovie) Movie {
	poster := placeholderPoster
	if m.PosterPath != "" {
		poster = c.imageBaseURL + m.PosterPath
	}
	return Movie{
		ID:        m.ID,
		Title:     m.Title,
		Genre:     "Movie",
		Rating:    math.Round(m.VoteAverage*10) / 10,
		Synopsis:  m.Overview,
		PosterURL: poster,
		Year:      releaseYear(m.ReleaseDate),
	}
}

// releaseYear returns the year of a YYYY-MM-DD date, 0 when unparseable.
func releaseYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	y, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return y
}
