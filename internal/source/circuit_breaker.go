// Tautulli Snitch - Per-user device and IP activity reports for Tautulli
// Copyright 2026 The tautulli-snitch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/schwaboy/tautulli-snitch

package source

import (
	"context"
	"errors"
	"fmt"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/schwaboy/tautulli-snitch/internal/config"
	"github.com/schwaboy/tautulli-snitch/internal/logging"
	"github.com/schwaboy/tautulli-snitch/internal/metrics"
	"github.com/schwaboy/tautulli-snitch/internal/models/tautulli"
)

// breakerName labels circuit breaker logs and metrics.
const breakerName = "tautulli-api"

// CircuitBreakerClient wraps TautulliClient with the circuit breaker pattern.
// Once the upstream has failed ConsecutiveFailures times in a row, further
// calls fail immediately with gobreaker.ErrOpenState until OpenTimeout has
// passed, so a dead server costs one timeout per run instead of one per user.
type CircuitBreakerClient struct {
	client TautulliClientInterface
	cb     *gobreaker.CircuitBreaker[[]tautulli.Record]
	name   string
}

// NewCircuitBreakerClient creates a new Tautulli client with circuit breaker
func NewCircuitBreakerClient(cfg *config.TautulliConfig) *CircuitBreakerClient {
	return newCircuitBreakerClient(NewTautulliClient(cfg), cfg.CircuitBreaker)
}

func newCircuitBreakerClient(client TautulliClientInterface, cfg config.CircuitBreakerConfig) *CircuitBreakerClient {
	threshold := cfg.ConsecutiveFailures
	if threshold == 0 {
		threshold = 5
	}

	logger := logging.WithComponent("circuit_breaker")

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]tautulli.Record](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1, // one trial request in half-open state
		Timeout:     cfg.OpenTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			shouldTrip := counts.ConsecutiveFailures >= threshold
			if shouldTrip {
				logger.Warn().Uint32("consecutive_failures", counts.ConsecutiveFailures).Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logger.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()

			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &CircuitBreakerClient{
		client: client,
		cb:     cb,
		name:   breakerName,
	}
}

// execute wraps a Tautulli API call with circuit breaker protection
func (cbc *CircuitBreakerClient) execute(fn func() ([]tautulli.Record, error)) ([]tautulli.Record, error) {
	result, err := cbc.cb.Execute(fn)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "rejected").Inc()
			return nil, fmt.Errorf("tautulli request rejected: %w", err)
		}

		metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "failure").Inc()
		counts := cbc.cb.Counts()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(float64(counts.ConsecutiveFailures))
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(0)

	return result, nil
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Ping verifies connectivity to Tautulli API with circuit breaker protection
func (cbc *CircuitBreakerClient) Ping(ctx context.Context) error {
	_, err := cbc.execute(func() ([]tautulli.Record, error) {
		return nil, cbc.client.Ping(ctx)
	})
	return err
}

// GetUserNames retrieves the user list with circuit breaker protection
func (cbc *CircuitBreakerClient) GetUserNames(ctx context.Context) ([]tautulli.Record, error) {
	return cbc.execute(func() ([]tautulli.Record, error) {
		return cbc.client.GetUserNames(ctx)
	})
}

// GetUserPlayerStats retrieves player statistics with circuit breaker protection
func (cbc *CircuitBreakerClient) GetUserPlayerStats(ctx context.Context, userID string) ([]tautulli.Record, error) {
	return cbc.execute(func() ([]tautulli.Record, error) {
		return cbc.client.GetUserPlayerStats(ctx, userID)
	})
}

// GetUserIPs retrieves the IP table with circuit breaker protection
func (cbc *CircuitBreakerClient) GetUserIPs(ctx context.Context, userID string, start, length int) ([]tautulli.Record, error) {
	return cbc.execute(func() ([]tautulli.Record, error) {
		return cbc.client.GetUserIPs(ctx, userID, start, length)
	})
}

// GetHistory retrieves playback history with circuit breaker protection
func (cbc *CircuitBreakerClient) GetHistory(ctx context.Context, userID string, start, length, grouping int) ([]tautulli.Record, error) {
	return cbc.execute(func() ([]tautulli.Record, error) {
		return cbc.client.GetHistory(ctx, userID, start, length, grouping)
	})
}
