package modemprov

import (
	"time"

	"github.com/bft-labs/modemprov/internal/app"
)

// Phase is a step of the main sequence.
type Phase = app.Phase

// Main sequence phases.
const (
	PhaseIdle                 = app.PhaseIdle
	PhaseInitDisplay          = app.PhaseInitDisplay
	PhaseStartingModem        = app.PhaseStartingModem
	PhaseAwaitingLink         = app.PhaseAwaitingLink
	PhaseProvisioning         = app.PhaseProvisioning
	PhaseAwaitingProvisioning = app.PhaseAwaitingProvisioning
	PhaseOperational          = app.PhaseOperational
	PhaseRebooting            = app.PhaseRebooting
	PhaseFailed               = app.PhaseFailed
)

// PhaseChangeEvent describes one phase transition.
type PhaseChangeEvent struct {
	Previous  Phase
	Current   Phase
	Reason    string
	Timestamp time.Time
}

// EventHandler receives device events.
type EventHandler interface {
	OnPhaseChange(event PhaseChangeEvent)
}

// BaseEventHandler provides no-op implementations for embedding.
type BaseEventHandler struct{}

// OnPhaseChange does nothing.
func (BaseEventHandler) OnPhaseChange(PhaseChangeEvent) {}

// eventEmitterWrapper adapts EventHandler to app.PhaseEmitter.
type eventEmitterWrapper struct {
	handler EventHandler
}

func (e *eventEmitterWrapper) OnPhaseChange(previous, current app.Phase, reason string) {
	if e.handler == nil {
		return
	}
	e.handler.OnPhaseChange(PhaseChangeEvent{
		Previous:  previous,
		Current:   current,
		Reason:    reason,
		Timestamp: time.Now(),
	})
}
