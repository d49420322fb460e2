// Package connect retries store connection attempts with exponential backoff.
package connect

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// MaxBackoff caps the delay between attempts.
const MaxBackoff = 16 * time.Second

// Retry calls fn up to attempts times, sleeping with exponential backoff
// between failures. It returns the last error if every attempt fails.
func Retry(ctx context.Context, target string, attempts int, fn func(ctx context.Context) error) error {
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			slog.Info("connected", "target", target, "attempts", attempt)
			return nil
		}

		if attempt == attempts {
			break
		}

		backoff := Backoff(attempt)
		slog.Warn("connection attempt failed, retrying",
			"target", target,
			"attempt", attempt,
			"max_attempts", attempts,
			"backoff", backoff,
			"error", lastErr,
		)
		if !sleep(ctx, backoff) {
			return fmt.Errorf("connection cancelled: %w", ctx.Err())
		}
	}

	return fmt.Errorf("connect to %s after %d attempts: %w", target, attempts, lastErr)
}

// Backoff returns 1s, 2s, 4s... capped at MaxBackoff.
func Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 5 {
		return MaxBackoff
	}
	backoff := time.Duration(1<<(attempt-1)) * time.Second
	if backoff > MaxBackoff {
		backoff = MaxBackoff
	}
	return backoff
}

// sleep waits for duration or context cancellation. Returns false if cancelled.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
