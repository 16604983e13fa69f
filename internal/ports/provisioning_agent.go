package ports

import (
	"context"

	"github.com/bft-labs/modemprov/internal/domain"
)

// ModeChangeHandler arbitrates functional mode requests from the provisioning agent.
// The call is synchronous: the agent does not continue until it returns.
// It returns the mode active before the call, or the unchanged mode when no
// change was needed.
type ModeChangeHandler interface {
	OnModeChange(ctx context.Context, requested domain.FunctionalMode) (domain.FunctionalMode, error)
}

// DeviceEventHandler receives provisioning lifecycle events.
type DeviceEventHandler interface {
	OnDeviceEvent(evt domain.ProvisioningEvent)
}

// ProvisioningAgent executes the provisioning protocol exchange.
type ProvisioningAgent interface {
	// Init registers the handlers and starts the agent. It returns once the
	// agent is running; the exchange continues in the background.
	Init(ctx context.Context, modes ModeChangeHandler, events DeviceEventHandler) error
}

// TimeSource reports network time. It returns an error (typically wrapping
// domain.ErrTimeUnavailable) until the modem has acquired time from the network.
type TimeSource interface {
	NetworkTime(ctx context.Context) (string, error)
}
