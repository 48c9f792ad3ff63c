package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"cinemood/logging"
	"cinemood/metrics"
)

// ErrNotConfigured is returned by provider clients that have no credentials.
var ErrNotConfigured = errors.New("provider not configured")

// APIError is a non-2xx response from an upstream provider.
type APIError struct {
	Provider string
	Status   int
	Body     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s error (%d): %s", e.Provider, e.Status, e.Body)
}

// maxErrorBody bounds how much of a failing response ends up in APIError.
const maxErrorBody = 512

// providerTransport sends requests to one upstream through a circuit breaker.
// Each provider client embeds one.
type providerTransport struct {
	name       string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker[[]byte]
}

func newProviderTransport(name string, timeout time.Duration) providerTransport {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// 4xx answers mean the request was wrong, not that the provider is down
		IsSuccessful: func(err error) bool {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return apiErr.Status < 500
			}
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return providerTransport{
		name:       name,
		httpClient: &http.Client{Timeout: timeout},
		cb:         cb,
	}
}

// do executes req and returns the body of a 2xx response.
func (t *providerTransport) do(req *http.Request) ([]byte, error) {
	body, err := t.cb.Execute(func() ([]byte, error) {
		resp, err := t.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read %s response: %w", t.name, err)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if len(respBody) > maxErrorBody {
				respBody = respBody[:maxErrorBody]
			}
			return nil, &APIError{Provider: t.name, Status: resp.StatusCode, Body: string(respBody)}
		}
		return respBody, nil
	})

	switch {
	case err == nil:
		metrics.ProviderRequests.WithLabelValues(t.name, "success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.ProviderRequests.WithLabelValues(t.name, "rejected").Inc()
	default:
		metrics.ProviderRequests.WithLabelValues(t.name, "failure").Inc()
	}
	return body, err
}

// State reports the breaker state as closed, half-open or open.
func (t *providerTransport) State() string {
	return t.cb.State().String()
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
