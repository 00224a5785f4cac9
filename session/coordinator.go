// Package session owns the lifecycle of the background remapping worker.
//
// Concurrency notes:
//   - Coordinator methods are safe to call from any goroutine, but in the
//     application they are only called from the command loop.
//   - Stop is fire-and-forget: it signals the worker's CancelToken and returns.
//     The worker may still be shutting down for a while afterwards (the engine
//     typically waits for the next device event before noticing the token).
//   - Lock order is coordinator mutex, then the shared state mutex. Observers
//     only ever take the latter.
package session

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"NagaGUI/keymap"
	"NagaGUI/state"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

var (
	ErrAlreadyRunning = errors.New("remapping already running")
	ErrNotRunning     = errors.New("remapping not running")
)

// Engine is the external remapping worker. Run blocks until the token is
// stopped or an unrecoverable error occurs.
type Engine interface {
	Run(m keymap.Mapping, token *CancelToken) error
}

// EngineFunc adapts a function to Engine.
type EngineFunc func(m keymap.Mapping, token *CancelToken) error

func (f EngineFunc) Run(m keymap.Mapping, token *CancelToken) error {
	return f(m, token)
}

// Phase is the coordinator's view of the session lifecycle.
type Phase int

const (
	Idle Phase = iota
	Running
	StoppingRequested
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case StoppingRequested:
		return "stopping"
	}
	return "unknown"
}

// Info describes the current session.
type Info struct {
	ID        string
	StartedAt time.Time
}

// Exit is reported when a worker goroutine returns. Unexpected is true when
// the worker ended on its own while still being the current session.
type Exit struct {
	ID         string
	Err        error
	Unexpected bool
}

type handle struct {
	info  Info
	token *CancelToken
}

// Coordinator starts and stops the worker and mirrors its bookkeeping into the
// shared session state.
type Coordinator struct {
	engine Engine
	state  *state.Session
	clock  clockwork.Clock

	mu      sync.Mutex
	phase   Phase
	current *handle
	onExit  func(Exit)

	// live counts worker goroutines that have not returned yet. drained is
	// closed when it drops back to zero.
	live    int
	drained chan struct{}
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithClock sets the clock used for session start times and Wait timeouts.
func WithClock(c clockwork.Clock) Option {
	return func(co *Coordinator) { co.clock = c }
}

// WithOnExit registers a callback invoked from the worker goroutine when it returns.
func WithOnExit(fn func(Exit)) Option {
	return func(co *Coordinator) { co.onExit = fn }
}

// NewCoordinator returns an idle coordinator.
func NewCoordinator(engine Engine, st *state.Session, opts ...Option) *Coordinator {
	c := &Coordinator{
		engine: engine,
		state:  st,
		clock:  clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnExit replaces the worker exit callback.
func (c *Coordinator) OnExit(fn func(Exit)) {
	c.mu.Lock()
	c.onExit = fn
	c.mu.Unlock()
}

// Start spawns a worker with a copy of m. It fails with ErrAlreadyRunning
// unless the coordinator is idle.
func (c *Coordinator) Start(m keymap.Mapping) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != Idle {
		return "", ErrAlreadyRunning
	}

	h := &handle{
		info:  Info{ID: uuid.NewString(), StartedAt: c.clock.Now()},
		token: NewCancelToken(),
	}
	snapshot := m.Clone()

	if c.live == 0 {
		c.drained = make(chan struct{})
	}
	c.live++
	go c.runWorker(h, snapshot)

	c.current = h
	c.phase = Running
	c.state.Set(true)

	slog.Info("remapping session started", "session", h.info.ID, "buttons", snapshot.Len())
	return h.info.ID, nil
}

func (c *Coordinator) runWorker(h *handle, m keymap.Mapping) {
	defer c.workerDone()

	err := c.engine.Run(m, h.token)
	if err != nil {
		slog.Error("remapping backend error", "session", h.info.ID, "error", err)
	}

	c.mu.Lock()
	unexpected := c.current == h
	if unexpected {
		h.token.Stop()
		c.current = nil
		c.phase = Idle
		c.state.Set(false)
	}
	onExit := c.onExit
	c.mu.Unlock()

	if unexpected {
		slog.Warn("remapping worker exited on its own", "session", h.info.ID)
	} else {
		slog.Info("remapping worker finished", "session", h.info.ID)
	}

	if onExit != nil {
		onExit(Exit{ID: h.info.ID, Err: err, Unexpected: unexpected})
	}
}

// Stop signals the worker to exit and returns without waiting for it. It
// fails with ErrNotRunning, leaving the shared state untouched, when idle.
func (c *Coordinator) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return ErrNotRunning
	}

	c.phase = StoppingRequested
	h := c.current
	h.token.Stop()
	c.current = nil
	c.phase = Idle
	c.state.Set(false)

	slog.Info("remapping stop requested", "session", h.info.ID)
	return nil
}

// Shutdown stops any running session. It is meant for exit paths and never fails.
func (c *Coordinator) Shutdown() {
	if err := c.Stop(); err != nil && !errors.Is(err, ErrNotRunning) {
		slog.Warn("shutdown stop failed", "error", err)
	}
}

// IsActive reports whether the coordinator holds a session handle. It can be
// true for a short while after the worker has already decided to exit, and
// false while a stopped worker is still winding down.
func (c *Coordinator) IsActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil
}

// Phase returns the current lifecycle phase.
func (c *Coordinator) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Current returns the running session, if any.
func (c *Coordinator) Current() (Info, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return Info{}, false
	}
	return c.current.info, true
}

// Wait blocks until every worker started so far has returned or the timeout
// elapses on the coordinator clock. It reports whether all workers finished.
// The UI never calls it.
func (c *Coordinator) Wait(timeout time.Duration) bool {
	c.mu.Lock()
	if c.live == 0 {
		c.mu.Unlock()
		return true
	}
	drained := c.drained
	c.mu.Unlock()

	select {
	case <-drained:
		return true
	case <-c.clock.After(timeout):
		return false
	}
}

func (c *Coordinator) workerDone() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.live--
	if c.live == 0 {
		close(c.drained)
	}
}
