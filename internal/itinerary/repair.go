// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package itinerary

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/itinera/internal/logging"
	"github.com/tomtom215/itinera/internal/metrics"
	"github.com/tomtom215/itinera/internal/models"
)

const breakerName = "itinerary-repair"

func newRepairBreaker(cfg Config) *gobreaker.CircuitBreaker[struct{}] {
	threshold := cfg.BreakerFailures
	if threshold == 0 {
		threshold = 5
	}
	timeout := cfg.BreakerTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	metrics.ItineraryBreakerState.Set(0)

	return gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// Domain outcomes say nothing about store health.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, models.ErrNotFound) ||
				errors.Is(err, models.ErrValidation)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Repair circuit breaker state changed")
			metrics.ItineraryBreakerState.Set(stateToFloat(to))
		},
	})
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

// repair runs fn, the secondary write of a child-first pair, with bounded
// retries and exponential backoff. Validation and not-found errors are final.
// Exhaustion, an open breaker or a cancelled context yield a RepairFailure.
func (m *Manager) repair(ctx context.Context, op string, fn func(context.Context) error) error {
	var lastErr error
	delay := m.cfg.RepairDelay
	attempts := 0

	for attempts < m.cfg.RepairAttempts {
		attempts++
		metrics.ItineraryRepairAttempts.WithLabelValues(op).Inc()

		_, err := m.breaker.Execute(func() (struct{}, error) {
			return struct{}{}, fn(ctx)
		})
		if err == nil {
			return nil
		}
		lastErr = err

		if errors.Is(err, models.ErrValidation) || errors.Is(err, models.ErrNotFound) ||
			errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			break
		}
		if attempts >= m.cfg.RepairAttempts {
			break
		}

		logging.Ctx(ctx).Warn().
			Err(err).
			Str("operation", op).
			Int("attempt", attempts).
			Int("max_attempts", m.cfg.RepairAttempts).
			Dur("delay", delay).
			Msg("Parent plan update failed, retrying")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			lastErr = ctx.Err()
			return m.repairFailed(ctx, op, attempts, lastErr)
		}
		delay *= 2
	}

	return m.repairFailed(ctx, op, attempts, lastErr)
}

func (m *Manager) repairFailed(ctx context.Context, op string, attempts int, cause error) error {
	metrics.ItineraryRepairFailures.WithLabelValues(op).Inc()
	logging.Ctx(ctx).Error().
		Err(cause).
		Str("operation", op).
		Int("attempts", attempts).
		Msg("Parent plan repair failed, leaving it to the reconciliation sweep")
	return &models.RepairFailure{Operation: op, Attempts: attempts, Cause: cause}
}
