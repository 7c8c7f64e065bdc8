package source

import (
	"context"
	"time"
)

// Retry calls fn up to attempts times with exponential backoff starting at
// baseDelay. It returns nil on the first success, or the last error. The
// context is checked between attempts.
func Retry(ctx context.Context, attempts int, baseDelay time.Duration, fn func() error) error {
	var err error
	delay := baseDelay

	for attempt := 0; attempt < attempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}

		// no sleep after the last attempt.
		if attempt < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
	}

	return err
}
