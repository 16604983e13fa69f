package domain

// ProvisioningEvent is a lifecycle event reported by the provisioning agent.
type ProvisioningEvent int

const (
	ProvisioningStart ProvisioningEvent = iota
	ProvisioningStop
	ProvisioningDone
)

// String returns a human-readable representation of the event.
func (e ProvisioningEvent) String() string {
	switch e {
	case ProvisioningStart:
		return "start"
	case ProvisioningStop:
		return "stop"
	case ProvisioningDone:
		return "done"
	default:
		return "unknown"
	}
}

// ProvisioningState is the position of one provisioning cycle.
// Transitions are linear: Idle -> Started -> Stopped -> Done. Done is terminal.
type ProvisioningState int

const (
	ProvisioningIdle ProvisioningState = iota
	ProvisioningStarted
	ProvisioningStopped
	ProvisioningFinished
)

// String returns a human-readable representation of the state.
func (s ProvisioningState) String() string {
	switch s {
	case ProvisioningIdle:
		return "Idle"
	case ProvisioningStarted:
		return "Started"
	case ProvisioningStopped:
		return "Stopped"
	case ProvisioningFinished:
		return "Done"
	default:
		return "Unknown"
	}
}
