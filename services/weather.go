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

type Weather struct {
	Temperature int    `json:"temperature"`
	Condition   string `json:"condition"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location"`
	Icon        string `json:"icon"`
	Source      string `json:"source"`
}

type openWeatherResponse struct {
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Name string `json:"name"`
}

type WeatherConfig struct {
	APIKey          string
	BaseURL         string
	Units           string
	DefaultLocation string
	Timeout         time.Duration
	CacheTTL        time.Duration
}

// WeatherService reads current conditions from OpenWeatherMap.
type WeatherService struct {
	providerTransport
	apiKey          string
	baseURL         string
	units           string
	defaultLocation string
	cache           Cache
	cacheTTL        time.Duration
}

func NewWeatherService(cfg WeatherConfig, cache Cache) *WeatherService {
	if cache == nil {
		cache = NewMemoryCache()
	}
	units := cfg.Units
	if units == "" {
		units = "imperial"
	}
	s := &WeatherService{
		providerTransport: newProviderTransport("openweather", cfg.Timeout),
		apiKey:            cfg.APIKey,
		baseURL:           strings.TrimRight(cfg.BaseURL, "/"),
		units:             units,
		defaultLocation:   cfg.DefaultLocation,
		cache:             cache,
		cacheTTL:          cfg.CacheTTL,
	}
	if s.apiKey == "" {
		logging.Warn().Msg("WEATHER_API_KEY not set, weather will use fallback data")
	}
	return s
}

func (s *WeatherService) Configured() bool {
	return s.apiKey != ""
}

func (s *WeatherService) DefaultLocation() string {
	return s.defaultLocation
}

// ByCoordinates returns the current weather at lat/lon.
func (s *WeatherService) ByCoordinates(ctx context.Context, lat, lon float64) (*Weather, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, fmt.Errorf("coordinates out of range: %f,%f", lat, lon)
	}
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', 4, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', 4, 64))
	return s.current(ctx, params)
}

// ByCity returns the current weather for a city name such as "London,uk".
func (s *WeatherService) ByCity(ctx context.Context, city string) (*Weather, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, errors.New("city is required")
	}
	params := url.Values{}
	params.Set("q", city)
	return s.current(ctx, params)
}

func (s *WeatherService) current(ctx context.Context, params url.Values) (*Weather, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}
	params.Set("units", s.units)

	cacheKey := "weather:" + params.Encode()
	body, ok := s.cache.Get(ctx, cacheKey)
	if !ok {
		params.Set("appid", s.apiKey)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/weather?"+params.Encode(), nil)
		if err != nil {
			return nil, err
		}
		if body, err = s.do(req); err != nil {
			return nil, fmt.Errorf("weather request failed: %w", err)
		}
		s.cache.Set(ctx, cacheKey, body, s.cacheTTL)
	}

	var resp openWeatherResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse weather response: %w", err)
	}
	if len(resp.Weather) == 0 {
		return nil, errors.New("weather response has no conditions")
	}

	return &Weather{
		Temperature: int(math.Round(resp.Main.Temp)),
		Condition:   resp.Weather[0].Main,
		Description: resp.Weather[0].Description,
		Location:    resp.Name,
		Icon:        resp.Weather[0].Icon,
		Source:      SourceLive,
	}, nil
}

// Lookup resolves weather from coordinates when given, else from city, and
// degrades to FallbackWeather on any failure.
func (s *WeatherService) Lookup(ctx context.Context, lat, lon *float64, city string) Weather {
	var (
		w   *Weather
		err error
	)
	switch {
	case lat != nil && lon != nil:
		w, err = s.ByCoordinates(ctx, *lat, *lon)
	case strings.TrimSpace(city) != "":
		w, err = s.ByCity(ctx, city)
	default:
		err = errors.New("no location given")
	}
	if err == nil {
		return *w
	}

	if !errors.Is(err, ErrNotConfigured) {
		logging.Ctx(ctx).Warn().Err(err).Msg("weather lookup failed, using fallback")
	}
	metrics.ProviderRequests.WithLabelValues(s.name, "fallback").Inc()

	location := strings.TrimSpace(city)
	if location == "" {
		location = s.defaultLocation
	}
	return FallbackWeather(location)
}
