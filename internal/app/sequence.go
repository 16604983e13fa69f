package app

import (
	"context"
	"fmt"

	"github.com/bft-labs/modemprov/internal/domain"
	"github.com/bft-labs/modemprov/internal/ports"
	"github.com/bft-labs/modemprov/pkg/log"
)

// GreetingLine is one line of the static greeting shown once the link is up.
type GreetingLine struct {
	Text string
	X, Y int
}

// DefaultGreeting is rendered after network registration.
var DefaultGreeting = []GreetingLine{
	{Text: "Nordic", X: 40, Y: 1},
	{Text: "Semiconductor", X: 20, Y: 10},
	{Text: "EMEA FAE Workshop", X: 12, Y: 20},
}

// SequenceConfig contains configuration for the main sequence.
type SequenceConfig struct {
	Greeting []GreetingLine
}

// Sequence is the main control sequence: display, modem, link wait,
// provisioning, provisioning wait, then hand-off to the operational phase.
type Sequence struct {
	config      SequenceConfig
	ctrl        *Controller
	agent       ports.ProvisioningAgent
	operational ports.OperationalPhase
	boots       *bootTracker
	lifecycle   *Lifecycle
	logger      log.Logger
	emitter     PhaseEmitter
}

// NewSequence creates the main sequence around ctrl. boots and emitter may be nil.
func NewSequence(
	config SequenceConfig,
	ctrl *Controller,
	agent ports.ProvisioningAgent,
	operational ports.OperationalPhase,
	boots ports.BootRecordRepository,
	logger log.Logger,
	emitter PhaseEmitter,
) *Sequence {
	if config.Greeting == nil {
		config.Greeting = DefaultGreeting
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	s := &Sequence{
		config:      config,
		ctrl:        ctrl,
		agent:       agent,
		operational: operational,
		boots:       newBootTracker(boots, logger),
		logger:      logger,
		emitter:     emitter,
	}
	s.lifecycle = NewLifecycle(logger, s)
	return s
}

// Phase returns the current phase.
func (s *Sequence) Phase() Phase {
	return s.lifecycle.Phase()
}

// BootRecord returns the boot record as last written.
func (s *Sequence) BootRecord() domain.BootRecord {
	return s.boots.current()
}

// Run executes the sequence. It blocks without timeout on network
// registration and on provisioning completion; only ctx cancellation ends
// those waits early. Modem and agent start failures are returned wrapped in
// domain.ErrLinkStart and domain.ErrAgentInit. If provisioning finished with
// a restart that returned control, Run returns domain.ErrRestartRequested.
func (s *Sequence) Run(ctx context.Context) error {
	s.ctrl.attach(ctx)
	s.ctrl.SetObserver(s)
	s.boots.begin(ctx)

	s.advance(PhaseInitDisplay, "sequence started")
	geo, err := s.ctrl.sink.Init()
	if err != nil {
		// The device keeps running headless.
		s.logger.Error("status display init failed", log.Err(err))
	} else {
		s.logger.Info("status display ready",
			log.Int("x_res", geo.Width),
			log.Int("y_res", geo.Height),
			log.Int("ppt", geo.PixelsPerTile),
			log.Int("rows", geo.Rows),
			log.Int("cols", geo.Cols),
			log.Int("font_width", geo.FontWidth),
			log.Int("font_height", geo.FontHeight),
		)
	}

	s.advance(PhaseStartingModem, "display initialized")
	if err := s.startModem(ctx); err != nil {
		return s.fail(ctx, err)
	}

	s.advance(PhaseAwaitingLink, "modem started")
	if err := s.ctrl.LinkEstablished().Wait(ctx); err != nil {
		return err
	}

	s.renderGreeting()

	s.advance(PhaseProvisioning, "link established")
	if err := s.agent.Init(ctx, s.ctrl, s.ctrl); err != nil {
		s.logger.Error("failed to initialize provisioning client", log.Err(err))
		return s.fail(ctx, fmt.Errorf("%w: %w", domain.ErrAgentInit, err))
	}
	s.advance(PhaseAwaitingProvisioning, "provisioning client started")

	select {
	case <-s.ctrl.ProvisioningComplete().Done():
	case <-s.ctrl.Terminated():
		return domain.ErrRestartRequested
	case <-ctx.Done():
		return ctx.Err()
	}

	s.logger.Info("provisioning complete")
	s.advance(PhaseOperational, "provisioning complete")
	s.boots.record(ctx, domain.OutcomeOperational)

	if s.operational == nil {
		return nil
	}
	return s.operational.Run(ctx)
}

func (s *Sequence) startModem(ctx context.Context) error {
	link := s.ctrl.link

	s.logger.Info("initializing modem library")
	if err := link.Init(ctx); err != nil {
		s.logger.Error("failed to initialize the modem library", log.Err(err))
		return fmt.Errorf("%w: %w", domain.ErrLinkStart, err)
	}

	s.logger.Info("connecting to lte network")
	if err := link.StartAsync(ctx, s.ctrl); err != nil {
		s.logger.Error("failed to start lte connection", log.Err(err))
		return fmt.Errorf("%w: %w", domain.ErrLinkStart, err)
	}
	return nil
}

func (s *Sequence) renderGreeting() {
	s.ctrl.Render(func(sink ports.StatusSink) error {
		if err := sink.Clear(false); err != nil {
			return err
		}
		for _, line := range s.config.Greeting {
			if err := sink.DrawText(line.Text, line.X, line.Y); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Sequence) fail(ctx context.Context, err error) error {
	s.advance(PhaseFailed, err.Error())
	s.boots.record(ctx, domain.OutcomeInitFailed)
	return err
}

// advance logs rather than returns transition errors: the provisioning agent
// may move the sequence to Rebooting concurrently.
func (s *Sequence) advance(next Phase, reason string) {
	if err := s.lifecycle.TransitionTo(next, reason); err != nil {
		s.logger.Debug("phase transition skipped",
			log.String("from", s.lifecycle.Phase().String()),
			log.String("to", next.String()),
			log.Err(err))
	}
}

// OnPhaseChange records the phase and forwards to the external emitter.
func (s *Sequence) OnPhaseChange(previous, current Phase, reason string) {
	s.boots.phase(current.String())
	if s.emitter != nil {
		s.emitter.OnPhaseChange(previous, current, reason)
	}
}

// OnProvisioningStateChange records provisioning progress in the boot record.
func (s *Sequence) OnProvisioningStateChange(previous, current domain.ProvisioningState, evt domain.ProvisioningEvent) {
	ctx := s.ctrl.context()

	switch current {
	case domain.ProvisioningStarted:
		s.boots.record(ctx, domain.OutcomeStarted)
	case domain.ProvisioningStopped:
		s.boots.record(ctx, domain.OutcomeStopped)
	case domain.ProvisioningFinished:
		s.advance(PhaseRebooting, "provisioning done")
		s.boots.record(ctx, domain.OutcomeDone)
	}
}
