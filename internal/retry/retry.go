// Package retry provides a bounded exponential-backoff executor for
// operations that are safe to run more than once. It performs no error
// classification: callers are expected to wrap only idempotent work.
package retry

import (
	"context"
	"log"
	"time"
)

// Do runs op up to maxAttempts times, sleeping baseDelay*2^attempt between
// failures (attempt counting from 0). The final attempt's error is returned
// unchanged. The sleep is cancellable through ctx.
func Do[T any](ctx context.Context, maxAttempts int, baseDelay time.Duration, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == maxAttempts-1 {
			log.Printf("retry: all %d attempts failed: %v", maxAttempts, err)
			break
		}

		delay := baseDelay << attempt
		log.Printf("retry: attempt %d/%d failed, next in %s: %v", attempt+1, maxAttempts, delay, err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	return zero, lastErr
}
