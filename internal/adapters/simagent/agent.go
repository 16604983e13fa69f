// Package simagent simulates a remote provisioning client.
//
// The agent runs the exchange a real client performs when the server has
// pending commands: it announces the start, takes the modem offline to write
// credentials, asks for normal mode again and finally reports either Stop
// (no restart needed) or Done (restart required).
package simagent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bft-labs/modemprov/internal/domain"
	"github.com/bft-labs/modemprov/internal/ports"
	"github.com/bft-labs/modemprov/pkg/log"
)

// Config configures the simulated exchange.
type Config struct {
	// Finish is the final event: ProvisioningStop or ProvisioningDone.
	Finish domain.ProvisioningEvent

	// StepDelay separates the steps of the exchange.
	StepDelay time.Duration

	// SkipCredentials omits the offline/normal mode round trip, as when the
	// server has no commands queued.
	SkipCredentials bool
}

// ParseFinish parses "stop" or "done".
func ParseFinish(s string) (domain.ProvisioningEvent, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stop":
		return domain.ProvisioningStop, nil
	case "done":
		return domain.ProvisioningDone, nil
	default:
		return 0, fmt.Errorf("unknown provisioning outcome %q (want stop or done)", s)
	}
}

// Agent implements ports.ProvisioningAgent.
type Agent struct {
	config Config
	logger log.Logger

	mu      sync.Mutex
	started bool
	done    chan struct{}
}

// New creates an agent.
func New(config Config, logger log.Logger) *Agent {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Agent{config: config, logger: logger, done: make(chan struct{})}
}

// Init registers the handlers and starts the exchange in the background.
func (a *Agent) Init(ctx context.Context, modes ports.ModeChangeHandler, events ports.DeviceEventHandler) error {
	if modes == nil || events == nil {
		return errors.New("simagent: handlers required")
	}
	if a.config.Finish != domain.ProvisioningStop && a.config.Finish != domain.ProvisioningDone {
		return fmt.Errorf("simagent: invalid finish event %s", a.config.Finish)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started {
		return errors.New("simagent: already initialized")
	}
	a.started = true

	go a.run(ctx, modes, events)
	return nil
}

// Done is closed when the exchange has finished or was canceled.
func (a *Agent) Done() <-chan struct{} {
	return a.done
}

func (a *Agent) run(ctx context.Context, modes ports.ModeChangeHandler, events ports.DeviceEventHandler) {
	defer close(a.done)

	if !a.pause(ctx) {
		return
	}
	events.OnDeviceEvent(domain.ProvisioningStart)

	finish := a.config.Finish
	if !a.config.SkipCredentials {
		if err := a.writeCredentials(ctx, modes); err != nil {
			if ctx.Err() != nil {
				return
			}
			a.logger.Error("provisioning exchange failed", log.Err(err))
			finish = domain.ProvisioningStop
		}
	}

	if !a.pause(ctx) {
		return
	}
	events.OnDeviceEvent(finish)
}

func (a *Agent) writeCredentials(ctx context.Context, modes ports.ModeChangeHandler) error {
	prev, err := modes.OnModeChange(ctx, domain.ModeOffline)
	if err != nil {
		return fmt.Errorf("go offline: %w", err)
	}
	a.logger.Info("modem offline for credential write", log.Stringer("previous", prev))

	if !a.pause(ctx) {
		return ctx.Err()
	}

	if _, err := modes.OnModeChange(ctx, domain.ModeNormal); err != nil {
		return fmt.Errorf("restore normal: %w", err)
	}
	a.logger.Info("credentials written, modem back online")
	return nil
}

func (a *Agent) pause(ctx context.Context) bool {
	if a.config.StepDelay <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(a.config.StepDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
