package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bft-labs/modemprov/internal/domain"
	"github.com/bft-labs/modemprov/internal/ports"
)

// call records one interaction with a fake, in order.
type call struct {
	name string
	arg  string
}

// recorder is a shared, ordered call log so tests can assert cross-fake ordering.
type recorder struct {
	mu    sync.Mutex
	calls []call
}

func (r *recorder) add(name, arg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call{name, arg})
}

func (r *recorder) all() []call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]call{}, r.calls...)
}

func (r *recorder) count(name string) int {
	n := 0
	for _, c := range r.all() {
		if c.name == name {
			n++
		}
	}
	return n
}

// fakeSink implements ports.StatusSink.
type fakeSink struct {
	rec     *recorder
	initErr error
}

func (s *fakeSink) Init() (domain.Geometry, error) {
	s.rec.add("init", "")
	if s.initErr != nil {
		return domain.Geometry{}, s.initErr
	}
	return domain.Geometry{Width: 128, Height: 64, Rows: 8, Cols: 16, PixelsPerTile: 8, FontWidth: 8, FontHeight: 8}, nil
}

func (s *fakeSink) Clear(invert bool) error {
	s.rec.add("clear", fmt.Sprint(invert))
	return nil
}

func (s *fakeSink) DrawText(text string, x, y int) error {
	s.rec.add("draw", text)
	return nil
}

func (s *fakeSink) Finalize() error {
	s.rec.add("finalize", "")
	return nil
}

// fakeLink implements ports.NetworkLink.
type fakeLink struct {
	rec *recorder

	mu         sync.Mutex
	mode       domain.FunctionalMode
	getErr     error
	setErr     error
	connectErr error
	initErr    error
	startErr   error
	handler    ports.NetworkEventHandler
}

func (l *fakeLink) Init(ctx context.Context) error {
	l.rec.add("link.init", "")
	return l.initErr
}

func (l *fakeLink) StartAsync(ctx context.Context, handler ports.NetworkEventHandler) error {
	l.rec.add("link.start", "")
	l.mu.Lock()
	l.handler = handler
	l.mu.Unlock()
	return l.startErr
}

func (l *fakeLink) FunctionalMode(ctx context.Context) (domain.FunctionalMode, error) {
	l.rec.add("link.get", "")
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.getErr != nil {
		return domain.ModeUnknown, l.getErr
	}
	return l.mode, nil
}

func (l *fakeLink) SetFunctionalMode(ctx context.Context, mode domain.FunctionalMode) error {
	l.rec.add("link.set", mode.String())
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.setErr != nil {
		return l.setErr
	}
	l.mode = mode
	return nil
}

func (l *fakeLink) ConnectBlocking(ctx context.Context) error {
	l.rec.add("link.connect", "")
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.connectErr != nil {
		return l.connectErr
	}
	l.mode = domain.ModeNormal
	return nil
}

func (l *fakeLink) deliver(evt domain.NetworkEvent) {
	l.mu.Lock()
	h := l.handler
	l.mu.Unlock()
	if h != nil {
		h.OnNetworkEvent(evt)
	}
}

// fakeTimeSource fails a fixed number of times before succeeding.
type fakeTimeSource struct {
	rec      *recorder
	failures int

	mu    sync.Mutex
	calls int
}

func (f *fakeTimeSource) NetworkTime(ctx context.Context) (string, error) {
	f.rec.add("time", "")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failures {
		return "", domain.ErrTimeUnavailable
	}
	return "26/10/18,12:00:00+08", nil
}

// fakeClock returns immediately and records requested durations.
type fakeClock struct {
	rec *recorder

	mu     sync.Mutex
	sleeps []time.Duration
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.rec.add("sleep", d.String())
	c.mu.Lock()
	c.sleeps = append(c.sleeps, d)
	c.mu.Unlock()
	return ctx.Err()
}

// fakeRestarter records restarts and returns err.
type fakeRestarter struct {
	rec *recorder
	err error
}

func (r *fakeRestarter) Restart(ctx context.Context) error {
	r.rec.add("restart", "")
	return r.err
}

// fakeAgent records Init and keeps the handlers for the test to drive.
type fakeAgent struct {
	rec     *recorder
	initErr error

	mu     sync.Mutex
	modes  ports.ModeChangeHandler
	events ports.DeviceEventHandler
	inited chan struct{}
}

func newFakeAgent(rec *recorder) *fakeAgent {
	return &fakeAgent{rec: rec, inited: make(chan struct{})}
}

func (a *fakeAgent) Init(ctx context.Context, modes ports.ModeChangeHandler, events ports.DeviceEventHandler) error {
	a.rec.add("agent.init", "")
	if a.initErr != nil {
		return a.initErr
	}
	a.mu.Lock()
	a.modes = modes
	a.events = events
	a.mu.Unlock()
	close(a.inited)
	return nil
}

func (a *fakeAgent) emit(evt domain.ProvisioningEvent) {
	a.mu.Lock()
	h := a.events
	a.mu.Unlock()
	h.OnDeviceEvent(evt)
}

// fakeOperational records that the hand-off happened.
type fakeOperational struct {
	rec *recorder
}

func (o *fakeOperational) Run(ctx context.Context) error {
	o.rec.add("operational", "")
	return nil
}

// memBootRepo is an in-memory ports.BootRecordRepository.
type memBootRepo struct {
	mu      sync.Mutex
	rec     domain.BootRecord
	saves   int
	loadErr error
}

func (m *memBootRepo) Load(ctx context.Context) (domain.BootRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rec, m.loadErr
}

func (m *memBootRepo) Save(ctx context.Context, rec domain.BootRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = rec
	m.saves++
	return nil
}

func (m *memBootRepo) get() domain.BootRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rec
}

var errBoom = errors.New("boom")

// harness wires a controller to fakes sharing one recorder.
type harness struct {
	rec        *recorder
	sink       *fakeSink
	link       *fakeLink
	timeSource *fakeTimeSource
	clock      *fakeClock
	restarter  *fakeRestarter
	ctrl       *Controller
}

func newHarness(mode domain.FunctionalMode) *harness {
	rec := &recorder{}
	h := &harness{
		rec:        rec,
		sink:       &fakeSink{rec: rec},
		link:       &fakeLink{rec: rec, mode: mode},
		timeSource: &fakeTimeSource{rec: rec},
		clock:      &fakeClock{rec: rec},
		restarter:  &fakeRestarter{rec: rec},
	}
	h.ctrl = NewController(ControllerConfig{}, h.link, h.sink, h.timeSource, h.restarter, h.clock, nil)
	return h
}
