package modemprov

import (
	"github.com/bft-labs/modemprov/internal/ports"
	"github.com/bft-labs/modemprov/pkg/log"
)

// Collaborator interfaces, re-exported for implementers.
type (
	StatusSink           = ports.StatusSink
	NetworkLink          = ports.NetworkLink
	NetworkEventHandler  = ports.NetworkEventHandler
	ProvisioningAgent    = ports.ProvisioningAgent
	ModeChangeHandler    = ports.ModeChangeHandler
	DeviceEventHandler   = ports.DeviceEventHandler
	TimeSource           = ports.TimeSource
	Restarter            = ports.Restarter
	OperationalPhase     = ports.OperationalPhase
	BootRecordRepository = ports.BootRecordRepository
	HTTPClient           = ports.HTTPClient
	Clock                = ports.Clock
)

// Option configures optional behavior of a Device.
type Option func(*options)

type options struct {
	logger       log.Logger
	eventHandler EventHandler
	httpClient   HTTPClient
	sink         StatusSink
	link         NetworkLink
	agent        ProvisioningAgent
	timeSource   TimeSource
	restarter    Restarter
	operational  OperationalPhase
	boots        BootRecordRepository
	clock        Clock
}

// WithLogger sets the logger. Without it nothing is logged.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithEventHandler sets a handler for phase changes.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithHTTPClient sets the client used by the default operational phase.
func WithHTTPClient(client HTTPClient) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithStatusSink sets the status display.
func WithStatusSink(sink StatusSink) Option {
	return func(o *options) {
		o.sink = sink
	}
}

// WithNetworkLink sets the modem connectivity provider.
func WithNetworkLink(link NetworkLink) Option {
	return func(o *options) {
		o.link = link
	}
}

// WithProvisioningAgent sets the provisioning client.
func WithProvisioningAgent(agent ProvisioningAgent) Option {
	return func(o *options) {
		o.agent = agent
	}
}

// WithTimeSource sets the network time source queried after the modem
// returns to normal mode.
func WithTimeSource(ts TimeSource) Option {
	return func(o *options) {
		o.timeSource = ts
	}
}

// WithRestarter sets the restart mechanism used when provisioning is done.
func WithRestarter(r Restarter) Option {
	return func(o *options) {
		o.restarter = r
	}
}

// WithOperationalPhase sets the phase entered after provisioning.
func WithOperationalPhase(p OperationalPhase) Option {
	return func(o *options) {
		o.operational = p
	}
}

// WithBootRecordRepository overrides the boot record store derived from StateDir.
func WithBootRecordRepository(repo BootRecordRepository) Option {
	return func(o *options) {
		o.boots = repo
	}
}

// WithClock overrides the clock used for the network time retry pause.
func WithClock(clock Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}
