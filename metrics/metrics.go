package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinemood_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	APIRateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinemood_api_rate_limited_total",
			Help: "Requests rejected by the per-client rate limiter",
		},
	)

	// Recommendations
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinemood_recommendations_total",
			Help: "Genre recommendations served, by resolved emotion and weather key",
		},
		[]string{"emotion", "weather"},
	)

	// Upstream providers
	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinemood_provider_requests_total",
			Help: "Outbound provider calls by outcome (success, failure, rejected, fallback)",
		},
		[]string{"provider", "outcome"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cinemood_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinemood_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Cache
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinemood_cache_lookups_total",
			Help: "Provider cache lookups by backend and result (hit, miss)",
		},
		[]string{"backend", "result"},
	)
)

// TrackAPIRequest records one finished HTTP request.
func TrackAPIRequest(method, route string, status int, d time.Duration) {
	APIRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}
