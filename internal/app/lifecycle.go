package app

import (
	"sync"

	"github.com/bft-labs/modemprov/internal/domain"
	"github.com/bft-labs/modemprov/internal/metrics"
	"github.com/bft-labs/modemprov/pkg/log"
)

// Phase is the position of the main sequence.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseInitDisplay
	PhaseStartingModem
	PhaseAwaitingLink
	PhaseProvisioning
	PhaseAwaitingProvisioning
	PhaseOperational
	PhaseRebooting
	PhaseFailed
)

// String returns a human-readable representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseInitDisplay:
		return "InitDisplay"
	case PhaseStartingModem:
		return "StartingModem"
	case PhaseAwaitingLink:
		return "AwaitingLink"
	case PhaseProvisioning:
		return "Provisioning"
	case PhaseAwaitingProvisioning:
		return "AwaitingProvisioning"
	case PhaseOperational:
		return "Operational"
	case PhaseRebooting:
		return "Rebooting"
	case PhaseFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Terminal reports whether no transition leaves p.
func (p Phase) Terminal() bool {
	return p == PhaseOperational || p == PhaseRebooting || p == PhaseFailed
}

// transitions lists the allowed successors of each phase.
var transitions = map[Phase][]Phase{
	PhaseIdle:                 {PhaseInitDisplay},
	PhaseInitDisplay:          {PhaseStartingModem},
	PhaseStartingModem:        {PhaseAwaitingLink, PhaseFailed},
	PhaseAwaitingLink:         {PhaseProvisioning, PhaseFailed},
	PhaseProvisioning:         {PhaseAwaitingProvisioning, PhaseRebooting, PhaseFailed},
	PhaseAwaitingProvisioning: {PhaseOperational, PhaseRebooting, PhaseFailed},
}

// PhaseEmitter is called when the phase changes.
type PhaseEmitter interface {
	OnPhaseChange(previous, current Phase, reason string)
}

// Lifecycle tracks the main sequence phase. Transitions may come from the
// main sequence and from the provisioning agent's goroutine.
type Lifecycle struct {
	mu           sync.RWMutex
	phase        Phase
	logger       log.Logger
	eventEmitter PhaseEmitter
}

// NewLifecycle creates a lifecycle tracker in PhaseIdle.
func NewLifecycle(logger log.Logger, emitter PhaseEmitter) *Lifecycle {
	return &Lifecycle{
		phase:        PhaseIdle,
		logger:       logger,
		eventEmitter: emitter,
	}
}

// Phase returns the current phase.
func (l *Lifecycle) Phase() Phase {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.phase
}

// TransitionTo attempts to move to a new phase.
// Returns domain.ErrInvalidTransition if the transition is not allowed.
func (l *Lifecycle) TransitionTo(next Phase, reason string) error {
	l.mu.Lock()
	previous := l.phase

	if !allowed(previous, next) {
		l.mu.Unlock()
		return domain.ErrInvalidTransition
	}

	l.phase = next
	l.mu.Unlock()

	metrics.SetPhase(previous.String(), next.String())

	// Emit event outside of lock
	if l.eventEmitter != nil {
		l.eventEmitter.OnPhaseChange(previous, next, reason)
	}

	l.logger.Info("phase transition",
		log.String("from", previous.String()),
		log.String("to", next.String()),
		log.String("reason", reason),
	)

	return nil
}

func allowed(from, to Phase) bool {
	for _, p := range transitions[from] {
		if p == to {
			return true
		}
	}
	return false
}
