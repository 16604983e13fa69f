package cloud

import (
	"context"
	"math/rand"
	"time"
)

// Default backoff configuration values.
const (
	DefaultBackoffInitial = 500 * time.Millisecond
	DefaultBackoffMax     = 10 * time.Second
)

// backoff implements exponential backoff with jitter.
type backoff struct {
	initial time.Duration
	max     time.Duration
	current time.Duration
}

func newBackoff(initial, max time.Duration) *backoff {
	if initial <= 0 {
		initial = DefaultBackoffInitial
	}
	if max < initial {
		max = initial
	}
	return &backoff{
		initial: initial,
		max:     max,
		current: initial,
	}
}

// next returns the jittered delay for this attempt and doubles the base
// delay for the following one, capped at max.
func (b *backoff) next() time.Duration {
	// ±20%
	jitter := float64(b.current) * 0.2 * (rand.Float64()*2 - 1)
	d := time.Duration(float64(b.current) + jitter)

	b.current *= 2
	if b.current > b.max {
		b.current = b.max
	}
	return d
}

// Sleep waits for the next backoff delay or until ctx is done.
func (b *backoff) Sleep(ctx context.Context) error {
	t := time.NewTimer(b.next())
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Reset resets the backoff to the initial duration.
func (b *backoff) Reset() {
	b.current = b.initial
}

// Current returns the current base backoff duration.
func (b *backoff) Current() time.Duration {
	return b.current
}
