package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bft-labs/modemprov/internal/domain"
	"github.com/bft-labs/modemprov/internal/metrics"
	"github.com/bft-labs/modemprov/internal/ports"
	"github.com/bft-labs/modemprov/pkg/log"
)

// DefaultTimeSyncInterval is the pause before each network time query while
// returning the modem to normal mode.
const DefaultTimeSyncInterval = 3 * time.Second

// Status line used for RRC updates.
const (
	rrcStatusX = 20
	rrcStatusY = 40

	// rrcStatusBlank is as wide as the widest RRC status string.
	rrcStatusBlank = "              "
)

// Gate names, also used as metric labels.
const (
	GateLinkEstablished      = "link_established"
	GateProvisioningComplete = "provisioning_complete"
)

// ControllerConfig contains tunables for the lifecycle controller.
type ControllerConfig struct {
	TimeSyncInterval time.Duration
}

// ProvisioningObserver is notified when the provisioning state changes.
// It is called on the provisioning agent's goroutine, before any restart.
type ProvisioningObserver interface {
	OnProvisioningStateChange(previous, current domain.ProvisioningState, evt domain.ProvisioningEvent)
}

// Controller owns the lifecycle gates and implements the handlers registered
// with the network link and the provisioning agent.
type Controller struct {
	config     ControllerConfig
	link       ports.NetworkLink
	sink       ports.StatusSink
	timeSource ports.TimeSource
	restarter  ports.Restarter
	clock      ports.Clock
	logger     log.Logger

	linkUp      *Gate
	provisioned *Gate
	finished    *Gate

	// renderMu makes each draw-then-finalize sequence one unit.
	renderMu sync.Mutex

	mu       sync.Mutex
	state    domain.ProvisioningState
	observer ProvisioningObserver
	ctx      context.Context
}

// NewController creates a controller with both gates unreleased.
func NewController(
	config ControllerConfig,
	link ports.NetworkLink,
	sink ports.StatusSink,
	timeSource ports.TimeSource,
	restarter ports.Restarter,
	clock ports.Clock,
	logger log.Logger,
) *Controller {
	if config.TimeSyncInterval <= 0 {
		config.TimeSyncInterval = DefaultTimeSyncInterval
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Controller{
		config:      config,
		link:        link,
		sink:        sink,
		timeSource:  timeSource,
		restarter:   restarter,
		clock:       clock,
		logger:      logger,
		linkUp:      NewGate(GateLinkEstablished),
		provisioned: NewGate(GateProvisioningComplete),
		finished:    NewGate("finished"),
		state:       domain.ProvisioningIdle,
		ctx:         context.Background(),
	}
}

// LinkEstablished returns the gate released on network registration.
func (c *Controller) LinkEstablished() *Gate { return c.linkUp }

// ProvisioningComplete returns the gate released when provisioning stops.
func (c *Controller) ProvisioningComplete() *Gate { return c.provisioned }

// Terminated is closed once the restart sequence has run and the restarter
// returned control.
func (c *Controller) Terminated() <-chan struct{} { return c.finished.Done() }

// State returns the current provisioning state.
func (c *Controller) State() domain.ProvisioningState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetObserver registers the provisioning state observer.
func (c *Controller) SetObserver(o ProvisioningObserver) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observer = o
}

// attach sets the context used by callbacks that do not carry one.
func (c *Controller) attach(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ctx = ctx
}

func (c *Controller) context() context.Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ctx
}

// Render runs draw followed by Finalize while holding the render lock.
// Errors are logged; rendering never fails the caller.
func (c *Controller) Render(draw func(sink ports.StatusSink) error) {
	c.renderMu.Lock()
	defer c.renderMu.Unlock()

	if err := draw(c.sink); err != nil {
		c.logger.Debug("status draw failed", log.Err(err))
	}
	if err := c.sink.Finalize(); err != nil {
		c.logger.Debug("status finalize failed", log.Err(err))
	}
}

// OnNetworkEvent handles events from the network link. It never blocks on
// anything but the status sink.
func (c *Controller) OnNetworkEvent(evt domain.NetworkEvent) {
	metrics.RecordNetworkEvent(evt.Kind.String())

	if c.State() == domain.ProvisioningFinished {
		c.logger.Debug("network event after provisioning done, dropped",
			log.Stringer("kind", evt.Kind))
		return
	}

	switch evt.Kind {
	case domain.EventRegistrationStatus:
		if !evt.RegStatus.Registered() {
			break
		}

		c.logger.Info("connected to network", log.Stringer("network", evt.RegStatus))

		if c.linkUp.Release() {
			metrics.RecordGateRelease(c.linkUp.Name())
		}

	case domain.EventRRCUpdate:
		c.logger.Info("rrc mode", log.Stringer("mode", evt.RRC))
		c.renderRRC(evt.RRC)

	case domain.EventPSMUpdate,
		domain.EventEDRXUpdate,
		domain.EventCellUpdate,
		domain.EventLTEModeUpdate,
		domain.EventTAUPreWarning,
		domain.EventNeighborCellMeasurement,
		domain.EventModemSleepExitPreWarning,
		domain.EventModemSleepExit,
		domain.EventModemSleepEnter,
		domain.EventModemEvent:
		// Acknowledged, no behaviour.

	default:
	}
}

func (c *Controller) renderRRC(mode domain.RRCMode) {
	c.Render(func(sink ports.StatusSink) error {
		if err := sink.DrawText(rrcStatusBlank, rrcStatusX, rrcStatusY); err != nil {
			return err
		}
		switch mode {
		case domain.RRCConnected:
			return sink.DrawText("RRC Connected", rrcStatusX, rrcStatusY)
		case domain.RRCIdle:
			return sink.DrawText("RRC Idle", rrcStatusX, rrcStatusY)
		default:
			return nil
		}
	})
}

// OnModeChange arbitrates a functional mode request from the provisioning
// agent. It blocks the agent until the radio is in the requested mode and,
// for normal mode, until network time is available. It returns the mode that
// was active before the call.
func (c *Controller) OnModeChange(ctx context.Context, requested domain.FunctionalMode) (domain.FunctionalMode, error) {
	current, err := c.link.FunctionalMode(ctx)
	if err != nil {
		c.logger.Error("failed to read modem functional mode", log.Err(err))
		metrics.RecordArbitration(requested.String(), "read_error")
		return domain.ModeUnknown, fmt.Errorf("%w: %w", domain.ErrModeRead, err)
	}

	if current == requested {
		metrics.RecordArbitration(requested.String(), "unchanged")
		return current, nil
	}

	if requested == domain.ModeNormal {
		return c.restoreNormal(ctx, current)
	}

	if !requested.Valid() {
		metrics.RecordArbitration(requested.String(), "set_error")
		return domain.ModeUnknown, fmt.Errorf("%w: unsupported mode %s", domain.ErrModeSet, requested)
	}

	if err := c.link.SetFunctionalMode(ctx, requested); err != nil {
		c.logger.Error("failed to set modem functional mode",
			log.Stringer("requested", requested),
			log.Err(err))
		metrics.RecordArbitration(requested.String(), "set_error")
		return domain.ModeUnknown, fmt.Errorf("%w: %w", domain.ErrModeSet, err)
	}

	c.logger.Info("modem set to requested mode",
		log.Stringer("from", current),
		log.Stringer("to", requested))
	metrics.RecordArbitration(requested.String(), "changed")
	return current, nil
}

// restoreNormal connects the modem and waits for network time. The wait has
// no attempt limit: provisioning cannot continue without a trusted timestamp.
func (c *Controller) restoreNormal(ctx context.Context, previous domain.FunctionalMode) (domain.FunctionalMode, error) {
	if err := c.link.ConnectBlocking(ctx); err != nil {
		// Registration problems surface through network events.
		c.logger.Error("modem connect failed", log.Err(err))
	}
	c.logger.Info("modem connection restored")
	c.logger.Info("waiting for modem to acquire network time...")

	attempts := 0
	for {
		if err := c.clock.Sleep(ctx, c.config.TimeSyncInterval); err != nil {
			metrics.RecordArbitration(domain.ModeNormal.String(), "canceled")
			return domain.ModeUnknown, err
		}

		attempts++
		_, err := c.timeSource.NetworkTime(ctx)
		metrics.RecordTimeSyncAttempt(err == nil)
		if err == nil {
			break
		}
		c.logger.Debug("network time not available",
			log.Int("attempt", attempts),
			log.Err(err))
	}

	c.logger.Warn("network time obtained", log.Int("attempts", attempts))
	metrics.RecordArbitration(domain.ModeNormal.String(), "changed")
	return previous, nil
}

// OnDeviceEvent handles provisioning lifecycle events.
func (c *Controller) OnDeviceEvent(evt domain.ProvisioningEvent) {
	metrics.RecordProvisioningEvent(evt.String())

	c.mu.Lock()
	previous := c.state

	if previous == domain.ProvisioningFinished {
		c.mu.Unlock()
		c.logger.Warn("provisioning event after done, ignored",
			log.Stringer("event", evt),
			log.Err(domain.ErrProtocolViolation))
		return
	}

	switch evt {
	case domain.ProvisioningStart:
		if previous != domain.ProvisioningIdle {
			c.mu.Unlock()
			c.logger.Warn("unexpected provisioning start, ignored",
				log.Stringer("state", previous),
				log.Err(domain.ErrProtocolViolation))
			return
		}
		c.state = domain.ProvisioningStarted

	case domain.ProvisioningStop:
		if previous == domain.ProvisioningStopped {
			c.mu.Unlock()
			c.logger.Warn("duplicate provisioning stop, ignored")
			return
		}
		c.state = domain.ProvisioningStopped

	case domain.ProvisioningDone:
		c.state = domain.ProvisioningFinished

	default:
		c.mu.Unlock()
		c.logger.Error("unknown provisioning event", log.Int("event", int(evt)))
		return
	}

	current := c.state
	observer := c.observer
	c.mu.Unlock()

	if observer != nil {
		observer.OnProvisioningStateChange(previous, current, evt)
	}

	switch evt {
	case domain.ProvisioningStart:
		c.logger.Info("provisioning started")

	case domain.ProvisioningStop:
		if previous == domain.ProvisioningIdle {
			c.logger.Warn("provisioning stopped before it started")
		}
		c.logger.Warn("provisioning stopped")
		if c.provisioned.Release() {
			metrics.RecordGateRelease(c.provisioned.Name())
		}

	case domain.ProvisioningDone:
		if previous == domain.ProvisioningIdle {
			c.logger.Warn("provisioning done before it started")
		}
		c.logger.Info("provisioning done, rebooting...")
		c.reboot()
	}
}

// reboot takes the modem offline and restarts. A failed offline request does
// not prevent the restart.
func (c *Controller) reboot() {
	ctx := c.context()

	if err := c.link.SetFunctionalMode(ctx, domain.ModeOffline); err != nil {
		c.logger.Error("unable to set modem offline", log.Err(err))
	}

	metrics.RecordRestart()
	if err := c.restarter.Restart(ctx); err != nil {
		c.logger.Error("restart failed", log.Err(err))
	}

	c.finished.Release()
}
