package resolver

import (
	"context"
	"time"
)

// DefaultDelay keeps the request rate under the provider's one request per second.
const DefaultDelay = 1200 * time.Millisecond

// Pacer suspends the caller between provider requests.
type Pacer interface {
	Wait(ctx context.Context) error
}

// TimerPacer waits a fixed delay, returning early when the context is done.
type TimerPacer struct {
	delay time.Duration
}

// NewTimerPacer creates a pacer with the given delay. A non-positive delay disables pausing.
func NewTimerPacer(delay time.Duration) *TimerPacer {
	return &TimerPacer{delay: delay}
}

// Delay returns the configured pause.
func (tp *TimerPacer) Delay() time.Duration {
	return tp.delay
}

// Wait blocks for the configured delay or until ctx is canceled.
func (tp *TimerPacer) Wait(ctx context.Context) error {
	if tp.delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(tp.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
