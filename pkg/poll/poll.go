// Package poll provides a bounded polling loop for eventually-consistent
// upstream resources, such as media containers that take a while to process.
package poll

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrExhausted is returned when the check never reported done within the
// configured attempt budget.
var ErrExhausted = errors.New("poll: attempts exhausted")

// SleepFunc pauses between attempts. The default honors context cancellation;
// tests inject a no-op to keep polling loops instant.
type SleepFunc func(ctx context.Context, d time.Duration) error

// CheckFunc reports whether the awaited condition holds. A non-nil error stops
// the loop immediately.
type CheckFunc func(ctx context.Context) (done bool, err error)

// Policy bounds a polling loop.
type Policy struct {
	Interval    time.Duration
	MaxAttempts int
	Sleep       SleepFunc
}

// Wait runs check up to MaxAttempts times, sleeping Interval between attempts.
// It returns nil as soon as check reports done, the check's error if one
// occurs, or ErrExhausted once the budget is spent.
func (p Policy) Wait(ctx context.Context, check CheckFunc) error {
	if check == nil {
		return errors.New("poll: check is required")
	}
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepWithContext
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		done, err := check(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		if attempt < attempts && p.Interval > 0 {
			if err := sleep(ctx, p.Interval); err != nil {
				return err
			}
		}
	}

	return fmt.Errorf("%w after %d attempts", ErrExhausted, attempts)
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
