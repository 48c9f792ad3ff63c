package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cinemood/config"
	"cinemood/database"
	"cinemood/handlers"
	"cinemood/logging"
	"cinemood/middleware"
	"cinemood/services"
)

func main() {
	// Load .env file (ignored in production where env vars are set directly)
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if envErr != nil {
		logging.Info().Msg("no .env file found, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Cache + providers
	cache := services.NewCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	movies := services.NewMovieCatalog(services.TMDBConfig{
		APIKey:       cfg.TMDBAPIKey,
		BaseURL:      cfg.TMDBBaseURL,
		ImageBaseURL: cfg.TMDBImageURL,
		Timeout:      cfg.HTTPTimeout,
		CacheTTL:     cfg.CacheTTL,
	}, cache)
	weather := services.NewWeatherService(services.WeatherConfig{
		APIKey:          cfg.WeatherAPIKey,
		BaseURL:         cfg.WeatherBaseURL,
		Units:           cfg.WeatherUnits,
		DefaultLocation: cfg.DefaultLocation,
		Timeout:         cfg.HTTPTimeout,
		CacheTTL:        cfg.CacheTTL,
	}, cache)
	emotion := services.NewEmotionDetector(cfg.EmotionServiceURL, cfg.HFAPIKey, cfg.HFEmotionModel, cfg.HTTPTimeout)

	// Database, with an in-memory store when PostgreSQL is unreachable
	var store handlers.Store
	dbCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	pg, err := database.Open(dbCtx, cfg.DatabaseDSN)
	cancel()
	if err != nil {
		logging.Warn().Err(err).Msg("database unavailable, sessions will be kept in memory")
		store = database.NewMemoryStore()
	} else {
		defer pg.Close()
		store = pg
	}

	if cfg.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	// Only these peers may set X-Forwarded-For; the rate limiter keys on ClientIP
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logging.Fatal().Err(err).Strs("trusted_proxies", cfg.TrustedProxies).Msg("invalid trusted proxies")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	limiter := middleware.NewIPRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	go limiter.RunCleanup(ctx.Done())

	r.Use(middleware.RequestID(), middleware.AccessLog(), middleware.RateLimit(limiter))

	handlers.New(store, movies, weather, emotion, cache).Register(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logging.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logging.Error().Err(err).Msg("graceful shutdown failed")
		}
	}()

	logging.Info().Str("port", cfg.Port).Str("cache", cache.Backend()).Str("storage", store.Backend()).Msg("cinemood backend starting")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.Fatal().Err(err).Msg("failed to start server")
	}
}
