package retry

import (
	"context"
	"fmt"
	"time"
)

// Do runs op up to attempts times, waiting delay between failed attempts.
// It returns nil as soon as op succeeds. The wait honors context
// cancellation; op itself is responsible for observing ctx. The last
// failure is returned wrapped with the attempt count, so errors.Is and
// errors.As still reach the underlying error.
func Do(ctx context.Context, attempts int, delay time.Duration, op func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}

		if attempt == attempts {
			break
		}

		if err := wait(ctx, delay); err != nil {
			return fmt.Errorf("retry aborted after attempt %d: %w", attempt, err)
		}
	}

	return fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}

func wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
