// Package clock holds the waiting primitives shared by the readers and
// background services.
package clock

import (
	"context"
	"time"
)

// SleepFunc is the signature services keep as a field so tests can stub it.
type SleepFunc func(ctx context.Context, d time.Duration) error

// maxShift keeps base<<attempt from overflowing for any sane base.
const maxShift = 20

// SleepWithContext blocks for d and returns ctx.Err() if ctx ends first.
// A non-positive d only checks ctx.
func SleepWithContext(ctx context.Context, d time.Duration) error {
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

// Exponential returns base * 2^attempt. Negative attempts count as zero.
func Exponential(base time.Duration, attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > maxShift {
		attempt = maxShift
	}
	return base << uint(attempt)
}
