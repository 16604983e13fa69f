package domain

import "errors"

// Domain errors represent error conditions in the provisioning lifecycle.
// They are wrapped with context by callers and checked with errors.Is.
var (
	// ErrModeRead is returned when the current functional mode cannot be read.
	// It is fatal to the arbitration call that hit it and is not retried.
	ErrModeRead = errors.New("modemprov: read functional mode")

	// ErrModeSet is returned when the network link rejects a functional mode change.
	ErrModeSet = errors.New("modemprov: set functional mode")

	// ErrTimeUnavailable is returned by time sources that have no network time yet.
	// Arbitration retries it until it clears.
	ErrTimeUnavailable = errors.New("modemprov: network time unavailable")

	// ErrProtocolViolation marks an event that arrived in a state that does not accept it.
	ErrProtocolViolation = errors.New("modemprov: protocol violation")

	// ErrLinkStart is returned when the modem subsystem fails to initialize or start.
	ErrLinkStart = errors.New("modemprov: start network link")

	// ErrAgentInit is returned when the provisioning agent fails to initialize.
	ErrAgentInit = errors.New("modemprov: init provisioning agent")

	// ErrRestartRequested is returned by the main sequence when provisioning finished
	// with a restart and the restarter returned control.
	ErrRestartRequested = errors.New("modemprov: restart requested")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("modemprov: invalid configuration")

	// ErrInvalidTransition is returned when a phase transition is not allowed.
	ErrInvalidTransition = errors.New("modemprov: invalid phase transition")
)
