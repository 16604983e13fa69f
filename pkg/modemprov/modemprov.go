package modemprov

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/bft-labs/modemprov/internal/adapters/cloud"
	"github.com/bft-labs/modemprov/internal/adapters/display"
	"github.com/bft-labs/modemprov/internal/adapters/fs"
	"github.com/bft-labs/modemprov/internal/adapters/restart"
	"github.com/bft-labs/modemprov/internal/adapters/simagent"
	"github.com/bft-labs/modemprov/internal/adapters/simlink"
	"github.com/bft-labs/modemprov/internal/app"
	"github.com/bft-labs/modemprov/internal/domain"
	"github.com/bft-labs/modemprov/internal/metrics"
	"github.com/bft-labs/modemprov/pkg/log"
)

// Sentinel errors returned by Run.
var (
	ErrLinkStart        = domain.ErrLinkStart
	ErrAgentInit        = domain.ErrAgentInit
	ErrRestartRequested = domain.ErrRestartRequested
	ErrInvalidConfig    = domain.ErrInvalidConfig
)

// BootRecord is the persisted boot bookkeeping.
type BootRecord = domain.BootRecord

// Device is the lifecycle controller with its collaborators.
// Use New to create one and Run to drive it.
type Device struct {
	config Config
	ctrl   *app.Controller
	seq    *app.Sequence
	logger log.Logger
}

// New creates a Device. Collaborators not supplied through options are
// replaced by the built-in simulated or default adapters.
func New(cfg Config, opts ...Option) (*Device, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	metrics.RegisterMetrics()

	sink := o.sink
	if sink == nil {
		sink = display.NewFramebuffer(io.Discard, domain.Geometry{})
	}
	link := o.link
	if link == nil {
		link = simlink.New(simlink.Config{Script: simlink.DefaultScript(100 * time.Millisecond)}, logger)
	}
	agent := o.agent
	if agent == nil {
		agent = simagent.New(simagent.Config{Finish: domain.ProvisioningStop}, logger)
	}
	timeSource := o.timeSource
	if timeSource == nil {
		timeSource = simagent.NewTimeSource(link, 0)
	}
	restarter := o.restarter
	if restarter == nil {
		restarter = restart.NewExecRestarter(logger)
	}
	boots := o.boots
	if boots == nil && cfg.StateDir != "" {
		boots = fs.NewBootFileRepository(cfg.StateDir)
	}

	ctrl := app.NewController(app.ControllerConfig{
		TimeSyncInterval: cfg.TimeSyncInterval,
	}, link, sink, timeSource, restarter, o.clock, logger)

	d := &Device{config: cfg, ctrl: ctrl, logger: logger}

	operational := o.operational
	if operational == nil {
		client := o.httpClient
		if client == nil {
			client = &http.Client{Timeout: cfg.HTTPTimeout}
		}
		operational = cloud.NewPhase(cloud.PhaseConfig{
			Metadata: cloud.Metadata{
				DeviceID:   cfg.DeviceID,
				Hostname:   hostname(),
				AuthKey:    cfg.AuthKey,
				ServiceURL: cfg.ServiceURL,
			},
			Interval: cfg.HeartbeatInterval,
			Once:     cfg.Once,
		}, cloud.NewHeartbeatSender(client), d.BootRecord, logger)
	}

	var emitter app.PhaseEmitter
	if o.eventHandler != nil {
		emitter = &eventEmitterWrapper{handler: o.eventHandler}
	}

	d.seq = app.NewSequence(app.SequenceConfig{}, ctrl, agent, operational, boots, logger, emitter)
	return d, nil
}

// Run executes the main sequence and then the operational phase. It returns
// ErrLinkStart or ErrAgentInit (wrapped) on start failures, and
// ErrRestartRequested if a restart returned control.
func (d *Device) Run(ctx context.Context) error {
	return d.seq.Run(ctx)
}

// Phase returns the current main sequence phase.
// Safe to call concurrently from any goroutine.
func (d *Device) Phase() Phase {
	return d.seq.Phase()
}

// BootRecord returns the current boot record.
func (d *Device) BootRecord() BootRecord {
	return d.seq.BootRecord()
}

// LinkEstablished is closed once the network registration has been seen.
func (d *Device) LinkEstablished() <-chan struct{} {
	return d.ctrl.LinkEstablished().Done()
}

// ProvisioningComplete is closed once provisioning has stopped.
func (d *Device) ProvisioningComplete() <-chan struct{} {
	return d.ctrl.ProvisioningComplete().Done()
}

// hostname returns the current hostname.
func hostname() string {
	if h, err := os.Hostname(); err == nil {
		return h
	}
	return "unknown"
}
