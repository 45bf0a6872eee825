package schedule

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWaitSleepSchedule(t *testing.T) {
	start := mustTime(t, "2025-01-01T10:00:00")
	target := start.Add(2*time.Minute + 30*time.Second)

	now := start
	var sleeps []time.Duration
	w := &Waiter{
		Now: func() time.Time { return now },
		Sleep: func(_ context.Context, d time.Duration) error {
			sleeps = append(sleeps, d)
			now = now.Add(d)
			return nil
		},
	}

	if err := w.Wait(context.Background(), target); err != nil {
		t.Fatalf("Wait() error: %v", err)
	}

	// Each iteration sleeps min(remaining, 60s): a minute, a minute,
	// then the final 30 seconds.
	want := []time.Duration{60 * time.Second, 60 * time.Second, 30 * time.Second}
	if len(sleeps) != len(want) {
		t.Fatalf("sleeps = %v, want %v", sleeps, want)
	}
	for i := range want {
		if sleeps[i] != want[i] {
			t.Errorf("sleep %d = %v, want %v", i, sleeps[i], want[i])
		}
	}
}

func TestWaitFloorsShortSleeps(t *testing.T) {
	start := mustTime(t, "2025-01-01T10:00:00")
	target := start.Add(100 * time.Millisecond)

	now := start
	var sleeps []time.Duration
	w := &Waiter{
		Now: func() time.Time { return now },
		Sleep: func(_ context.Context, d time.Duration) error {
			sleeps = append(sleeps, d)
			now = now.Add(d)
			return nil
		},
	}

	if err := w.Wait(context.Background(), target); err != nil {
		t.Fatalf("Wait() error: %v", err)
	}
	if len(sleeps) != 1 || sleeps[0] != minSleep {
		t.Errorf("sleeps = %v, want a single %v floor sleep", sleeps, minSleep)
	}
}

func TestWaitAlreadyPast(t *testing.T) {
	start := mustTime(t, "2025-01-01T10:00:00")
	w := &Waiter{
		Now: func() time.Time { return start },
		Sleep: func(context.Context, time.Duration) error {
			t.Fatal("slept for a target already in the past")
			return nil
		},
	}
	if err := w.Wait(context.Background(), start.Add(-time.Minute)); err != nil {
		t.Fatalf("Wait() error: %v", err)
	}
}

func TestWaitCancellation(t *testing.T) {
	start := mustTime(t, "2025-01-01T10:00:00")
	ctx, cancel := context.WithCancel(context.Background())

	w := &Waiter{
		Now: func() time.Time { return start },
		Sleep: func(ctx context.Context, _ time.Duration) error {
			cancel()
			return ctx.Err()
		},
	}

	err := w.Wait(ctx, start.Add(time.Hour))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Wait() error = %v, want context.Canceled", err)
	}
}
