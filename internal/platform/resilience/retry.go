package resilience

import (
	"context"
	"time"
)

// Retry runs fn up to attempts times and returns the last error. Attempts
// are numbered from 1. A zero backoff retries immediately.
func Retry(ctx context.Context, attempts int, backoff time.Duration, fn func(attempt int) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn(attempt)
		if lastErr == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		if backoff <= 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			continue
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}
