// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package encoder

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/shelfwise/internal/metrics"
)

// BreakerEncoder wraps an Encoder with a circuit breaker.
//
// The breaker uses real time for its interval and open timeout. Tests drive
// it through request counts, not the clock.
type BreakerEncoder struct {
	next   Encoder
	cb     *gobreaker.CircuitBreaker[[][]float64]
	name   string
	logger zerolog.Logger
}

// NewBreakerEncoder wraps next. The circuit opens once at least
// MinRequests calls were made in the current interval and the failure ratio
// reaches FailureRatio.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBreakerEncoder(next Encoder, cfg BreakerConfig, logger zerolog.Logger) *BreakerEncoder {
	name := "encoder-" + next.Name()
	logger = logger.With().Str("component", "encoder").Str("breaker", name).Logger()

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[[][]float64](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxHalfOpen,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= cfg.FailureRatio
			if shouldTrip {
				logger.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("Opening encoder circuit")
			}
			return shouldTrip
		},

		// Cancellations are the caller giving up, not the encoder failing.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logger.Info().Str("from", fromStr).Str("to", toStr).Msg("Encoder circuit state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &BreakerEncoder{next: next, cb: cb, name: name, logger: logger}
}

// Name returns the wrapped provider's name.
func (b *BreakerEncoder) Name() string { return b.next.Name() }

// Dimension returns the wrapped provider's dimension.
func (b *BreakerEncoder) Dimension() int { return b.next.Dimension() }

// State returns the breaker state as a string.
func (b *BreakerEncoder) State() string { return stateToString(b.cb.State()) }

// Encode calls the wrapped encoder unless the circuit is open. Rejected
// calls return an error wrapping ErrUnavailable.
func (b *BreakerEncoder) Encode(ctx context.Context, texts []string) ([][]float64, error) {
	vectors, err := b.cb.Execute(func() ([][]float64, error) {
		return b.next.Encode(ctx, texts)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			b.logger.Debug().Err(err).Msg("Encoder request rejected")
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(b.cb.Counts().ConsecutiveFailures))
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)
	return vectors, nil
}

// Close closes the wrapped encoder.
func (b *BreakerEncoder) Close() error {
	return Close(b.next)
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
