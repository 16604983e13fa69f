// Package simlink provides a scripted network link for development and tests.
//
// The link replays a fixed event script after StartAsync and keeps its own
// functional-mode register. Mode changes produce the registration events a
// real modem would report.
package simlink

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bft-labs/modemprov/internal/domain"
	"github.com/bft-labs/modemprov/internal/ports"
	"github.com/bft-labs/modemprov/pkg/log"
)

// ErrNotInitialized is returned when the link is used before Init.
var ErrNotInitialized = errors.New("simlink: not initialized")

// Config configures the simulated link.
type Config struct {
	// Script is replayed once after StartAsync.
	Script []Step

	// ConnectDelay is how long ConnectBlocking takes to register.
	ConnectDelay time.Duration
}

type delivery struct {
	evt domain.NetworkEvent
	ack chan struct{}
}

// Link implements ports.NetworkLink.
type Link struct {
	config Config
	logger log.Logger

	mu          sync.Mutex
	initialized bool
	mode        domain.FunctionalMode
	queue       chan delivery
}

// New creates a link in ModeOff.
func New(config Config, logger log.Logger) *Link {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Link{
		config: config,
		logger: logger,
		mode:   domain.ModeOff,
	}
}

// Init brings the simulated modem to offline mode.
func (l *Link) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.initialized = true
	l.mode = domain.ModeOffline
	return nil
}

// StartAsync switches to normal mode and starts delivering events to handler
// on a dedicated goroutine until ctx is done.
func (l *Link) StartAsync(ctx context.Context, handler ports.NetworkEventHandler) error {
	l.mu.Lock()
	if !l.initialized {
		l.mu.Unlock()
		return ErrNotInitialized
	}
	if l.queue != nil {
		l.mu.Unlock()
		return errors.New("simlink: already started")
	}
	l.mode = domain.ModeNormal
	l.queue = make(chan delivery, 16)
	queue := l.queue
	l.mu.Unlock()

	go l.deliverLoop(ctx, handler, queue)
	go l.replay(ctx)
	return nil
}

func (l *Link) deliverLoop(ctx context.Context, handler ports.NetworkEventHandler, queue <-chan delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d := <-queue:
			l.logger.Debug("network event", log.Stringer("kind", d.evt.Kind))
			handler.OnNetworkEvent(d.evt)
			if d.ack != nil {
				close(d.ack)
			}
		}
	}
}

func (l *Link) replay(ctx context.Context) {
	for _, step := range l.config.Script {
		if step.Delay > 0 {
			t := time.NewTimer(step.Delay)
			select {
			case <-ctx.Done():
				t.Stop()
				return
			case <-t.C:
			}
		}
		// A scripted registration only takes effect while the radio is on.
		if step.Event.Kind == domain.EventRegistrationStatus && step.Event.RegStatus.Registered() {
			if mode, _ := l.FunctionalMode(ctx); mode != domain.ModeNormal {
				continue
			}
		}
		if err := l.enqueue(ctx, step.Event, nil); err != nil {
			return
		}
	}
}

func (l *Link) enqueue(ctx context.Context, evt domain.NetworkEvent, ack chan struct{}) error {
	l.mu.Lock()
	queue := l.queue
	l.mu.Unlock()
	if queue == nil {
		return ErrNotInitialized
	}

	select {
	case queue <- delivery{evt: evt, ack: ack}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// FunctionalMode returns the current mode.
func (l *Link) FunctionalMode(ctx context.Context) (domain.FunctionalMode, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.initialized {
		return domain.ModeUnknown, ErrNotInitialized
	}
	return l.mode, nil
}

// SetFunctionalMode changes the mode. Leaving normal mode reports
// deregistration.
func (l *Link) SetFunctionalMode(ctx context.Context, mode domain.FunctionalMode) error {
	if !mode.Valid() {
		return domain.ErrModeSet
	}

	l.mu.Lock()
	if !l.initialized {
		l.mu.Unlock()
		return ErrNotInitialized
	}
	previous := l.mode
	l.mode = mode
	started := l.queue != nil
	l.mu.Unlock()

	l.logger.Debug("functional mode set", log.Stringer("from", previous), log.Stringer("to", mode))

	if started && previous == domain.ModeNormal && mode != domain.ModeNormal {
		return l.enqueue(ctx, domain.RegistrationEvent(domain.RegNotRegistered), nil)
	}
	return nil
}

// ConnectBlocking switches to normal mode and returns once the resulting
// registration event has been handled.
func (l *Link) ConnectBlocking(ctx context.Context) error {
	l.mu.Lock()
	if !l.initialized {
		l.mu.Unlock()
		return ErrNotInitialized
	}
	l.mode = domain.ModeNormal
	started := l.queue != nil
	l.mu.Unlock()

	if l.config.ConnectDelay > 0 {
		t := time.NewTimer(l.config.ConnectDelay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}

	if !started {
		return nil
	}

	ack := make(chan struct{})
	if err := l.enqueue(ctx, domain.RegistrationEvent(domain.RegRegisteredHome), ack); err != nil {
		return err
	}
	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
