// Package pipeline drives daily challenge generation: per-difficulty
// build state machines, the concurrent fan-out across difficulties, and
// the day/index reconciliation that decides IDs and published artifacts.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// RetryConfig configures the whole-challenge retry wrapper.
type RetryConfig struct {
	Attempts int           // Total attempts, including the first
	Interval time.Duration // Fixed delay between attempts
}

// DefaultRetryConfig returns the production retry policy.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		Attempts: 3,
		Interval: 2 * time.Second,
	}
}

// ErrMaxRetriesExceeded indicates all retry attempts failed.
var ErrMaxRetriesExceeded = errors.New("maximum retries exceeded")

// WithRetry executes fn with fixed-interval retry. It returns the first
// success, or the last error tagged with the operation label after the
// attempt budget is spent.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, operation string, logger *zap.Logger, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		result, err := fn(ctx)
		if err == nil {
			if attempt > 1 {
				logger.Info("retry succeeded",
					zap.String("operation", operation),
					zap.Int("attempt", attempt))
			}
			return result, nil
		}

		lastErr = err
		logger.Warn("attempt failed",
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", cfg.Attempts),
			zap.Error(err))

		// No sleep after the last attempt.
		if attempt < cfg.Attempts {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(cfg.Interval):
			}
		}
	}

	return zero, fmt.Errorf("%w for %s: %w", ErrMaxRetriesExceeded, operation, lastErr)
}
