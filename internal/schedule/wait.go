package schedule

import (
	"context"
	"time"
)

const (
	// maxSleep bounds each wait iteration so remaining time is
	// recomputed at least once a minute.
	maxSleep = 60 * time.Second

	// minSleep floors each iteration to avoid busy-looping near the
	// target.
	minSleep = 500 * time.Millisecond
)

// Waiter blocks in-process until a target instant. The clock and sleep
// functions are injectable for tests; the zero-value helpers use the real
// clock.
type Waiter struct {
	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewWaiter creates a waiter on the real clock.
func NewWaiter() *Waiter {
	return &Waiter{
		Now:   time.Now,
		Sleep: sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Wait blocks until target, sleeping min(remaining, 60s) per iteration
// with a 500ms floor. Cancelling the context returns its error; the
// caller maps that to the interrupted exit status.
func (w *Waiter) Wait(ctx context.Context, target time.Time) error {
	for {
		remaining := target.Sub(w.Now())
		if remaining <= 0 {
			return nil
		}
		d := remaining
		if d > maxSleep {
			d = maxSleep
		}
		if d < minSleep {
			d = minSleep
		}
		if err := w.Sleep(ctx, d); err != nil {
			return err
		}
	}
}
