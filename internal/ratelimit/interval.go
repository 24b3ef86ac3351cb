package ratelimit

import (
	"context"
	"time"
)

// IntervalLimiter enforces a fixed pause between dispatches, a plain
// messages-per-second ceiling rather than a token bucket. The run
// loop is single-threaded, so no locking is needed.
type IntervalLimiter struct {
	interval time.Duration
	last     time.Time
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewInterval builds a limiter for the given per-second ceiling.
// Ceilings below one message per second clamp to one.
func NewInterval(messagesPerSecond int) *IntervalLimiter {
	if messagesPerSecond < 1 {
		messagesPerSecond = 1
	}
	return &IntervalLimiter{
		interval: time.Second / time.Duration(messagesPerSecond),
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// Wait pauses until at least one interval has passed since the last
// permitted send. The first call never blocks.
func (l *IntervalLimiter) Wait(ctx context.Context) error {
	if !l.last.IsZero() {
		if remaining := l.interval - l.now().Sub(l.last); remaining > 0 {
			if err := l.sleep(ctx, remaining); err != nil {
				return err
			}
		}
	}
	l.last = l.now()
	return nil
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
