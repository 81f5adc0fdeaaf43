// Package retry runs fallible operations with bounded exponential backoff.
package retry

import (
	"context"
	"log/slog"
	"time"
)

// Policy controls how many times an operation runs and how long to wait
// between attempts. Backoff doubles after every failed attempt, no jitter.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultPolicy matches the automation's standard retry behavior:
// 3 attempts, 2s base delay, doubling.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, BaseDelay: 2 * time.Second}
}

// Do runs op until it succeeds or the attempt budget is exhausted. On the
// final failure the last error is returned unchanged. Intermediate failures
// are logged with the attempt number and the wait before the next try. The
// wait is a blocking sleep, interrupted only by context cancellation.
//
// The operation must be safe to repeat; Do does not enforce idempotence.
func Do[T any](ctx context.Context, name string, policy Policy, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == policy.MaxAttempts {
			break
		}

		wait := policy.BaseDelay << (attempt - 1)
		slog.Warn("Operation failed, retrying",
			"operation", name,
			"attempt", attempt,
			"max_attempts", policy.MaxAttempts,
			"wait", wait,
			"error", err)

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(wait):
		}
	}

	return zero, lastErr
}

// DoVoid is Do for operations without a result.
func DoVoid(ctx context.Context, name string, policy Policy, op func(ctx context.Context) error) error {
	_, err := Do(ctx, name, policy, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}
