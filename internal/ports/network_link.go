package ports

import (
	"context"

	"github.com/bft-labs/modemprov/internal/domain"
)

// NetworkEventHandler receives events from a NetworkLink.
// It is called on the link's delivery goroutine and must not block.
type NetworkEventHandler interface {
	OnNetworkEvent(evt domain.NetworkEvent)
}

// NetworkLink is the modem connectivity provider. It owns the functional mode
// and serializes its own state.
type NetworkLink interface {
	// Init brings up the modem library.
	Init(ctx context.Context) error

	// StartAsync starts connecting and returns immediately. Events are
	// delivered to handler until ctx is canceled.
	StartAsync(ctx context.Context, handler NetworkEventHandler) error

	// FunctionalMode reads the current functional mode.
	FunctionalMode(ctx context.Context) (domain.FunctionalMode, error)

	// SetFunctionalMode requests a functional mode change.
	SetFunctionalMode(ctx context.Context, mode domain.FunctionalMode) error

	// ConnectBlocking puts the modem in normal mode and returns once it is
	// registered or the attempt failed.
	ConnectBlocking(ctx context.Context) error
}
