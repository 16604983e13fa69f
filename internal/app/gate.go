package app

import (
	"context"
	"sync"
)

// Gate is a one-shot signal. Waiters block until the first Release; every
// later Wait returns immediately. Repeated releases are no-ops, so the gate
// never counts beyond one.
type Gate struct {
	name string
	once sync.Once
	ch   chan struct{}
}

// NewGate creates an unreleased gate.
func NewGate(name string) *Gate {
	return &Gate{name: name, ch: make(chan struct{})}
}

// Name returns the gate name used in logs and metrics.
func (g *Gate) Name() string {
	return g.name
}

// Release opens the gate. It never blocks and reports whether this call
// was the one that opened it.
func (g *Gate) Release() bool {
	released := false
	g.once.Do(func() {
		close(g.ch)
		released = true
	})
	return released
}

// Released reports whether the gate has been opened.
func (g *Gate) Released() bool {
	select {
	case <-g.ch:
		return true
	default:
		return false
	}
}

// Done returns a channel closed when the gate is released.
func (g *Gate) Done() <-chan struct{} {
	return g.ch
}

// Wait blocks until the gate is released. There is no timeout; the only
// other way out is cancellation of ctx.
func (g *Gate) Wait(ctx context.Context) error {
	select {
	case <-g.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
