package resilience

import (
	"context"
	"math"
	"time"
)

// BackoffMultiplier is the growth factor between consecutive retry delays
const BackoffMultiplier = 2.0

// Sleeper blocks for d or until ctx is done
type Sleeper func(ctx context.Context, d time.Duration) error

// CalculateBackoff returns base × 2^attempt, saturating at the largest Duration
func CalculateBackoff(attempt int, base time.Duration) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	backoff := float64(base) * math.Pow(BackoffMultiplier, float64(attempt))
	if backoff >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(backoff)
}

// Sleep waits for d, returning early with the context error if ctx is cancelled
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
