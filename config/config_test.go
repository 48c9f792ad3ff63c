package config

import (
	"slices"
	"strings"
	"testing"
	"time"
)

// clearEnv blanks every known key; viper treats empty variables as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for k := range defaults {
		t.Setenv(strings.ToUpper(k), "")
	}
	for _, k := range []string{KeyGinMode, KeyFrontendURL, KeyDatabaseURL, KeyRedisAddr,
		KeyRedisPassword, KeyTMDBAPIKey, KeyWeatherAPIKey, KeyHFAPIKey} {
		t.Setenv(strings.ToUpper(k), "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.ReleaseMode {
		t.Error("ReleaseMode = true, want false")
	}
	if cfg.CacheTTL != 10*time.Minute {
		t.Errorf("CacheTTL = %v, want 10m", cfg.CacheTTL)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Errorf("HTTPTimeout = %v, want 15s", cfg.HTTPTimeout)
	}
	if cfg.TMDBBaseURL != "https://api.themoviedb.org/3" {
		t.Errorf("TMDBBaseURL = %q", cfg.TMDBBaseURL)
	}
	if cfg.WeatherUnits != "imperial" {
		t.Errorf("WeatherUnits = %q, want imperial", cfg.WeatherUnits)
	}
	if cfg.DefaultLocation != "San Francisco, CA" {
		t.Errorf("DefaultLocation = %q", cfg.DefaultLocation)
	}
	if cfg.RateLimitPerMinute != 120 || cfg.RateLimitBurst != 30 {
		t.Errorf("rate limit = %d/%d, want 120/30", cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	}
	if cfg.TMDBAPIKey != "" || cfg.WeatherAPIKey != "" {
		t.Error("provider keys should default to empty")
	}
	want := "host=localhost port=5432 user=postgres password=postgres dbname=cinemood sslmode=disable"
	if cfg.DatabaseDSN != want {
		t.Errorf("DatabaseDSN = %q, want %q", cfg.DatabaseDSN, want)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Errorf("AllowedOrigins = %v, want the two localhost origins", cfg.AllowedOrigins)
	}
	wantProxies := []string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}
	if !slices.Equal(cfg.TrustedProxies, wantProxies) {
		t.Errorf("TrustedProxies = %v, want %v", cfg.TrustedProxies, wantProxies)
	}
}

func TestLoadTrustedProxies(t *testing.T) {
	tests := []struct {
		value string
		want  []string
	}{
		{"10.1.0.0/16, 127.0.0.1", []string{"10.1.0.0/16", "127.0.0.1"}},
		{"none", nil},
		{"NONE", nil},
	}
	for _, tt := range tests {
		clearEnv(t)
		t.Setenv("TRUSTED_PROXIES", tt.value)
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if !slices.Equal(cfg.TrustedProxies, tt.want) {
			t.Errorf("TRUSTED_PROXIES=%q: got %v, want %v", tt.value, cfg.TrustedProxies, tt.want)
		}
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("GIN_MODE", "release")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("TMDB_BASE_URL", "http://tmdb.local/3/")
	t.Setenv("FRONTEND_URL", "https://cinemood.app, ,https://staging.cinemood.app")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/cinemood")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if !cfg.ReleaseMode {
		t.Error("ReleaseMode = false, want true")
	}
	if cfg.CacheTTL != 90*time.Second {
		t.Errorf("CacheTTL = %v, want 90s", cfg.CacheTTL)
	}
	if cfg.RedisDB != 3 {
		t.Errorf("RedisDB = %d, want 3", cfg.RedisDB)
	}
	if cfg.TMDBBaseURL != "http://tmdb.local/3" {
		t.Errorf("TMDBBaseURL = %q, trailing slash should be trimmed", cfg.TMDBBaseURL)
	}
	if cfg.DatabaseDSN != "postgres://u:p@db:5432/cinemood" {
		t.Errorf("DatabaseDSN = %q, DATABASE_URL should win", cfg.DatabaseDSN)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want lower-cased", cfg.LogLevel)
	}
	if len(cfg.AllowedOrigins) != 4 || cfg.AllowedOrigins[3] != "https://staging.cinemood.app" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"CACHE_TTL", "ten minutes"},
		{"HTTP_TIMEOUT", "15"},
		{"REDIS_DB", "zero"},
		{"RATE_LIMIT_PER_MINUTE", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load with %s=%q should fail", tt.key, tt.value)
			}
		})
	}
}
