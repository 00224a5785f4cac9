// Package tray keeps the system tray icon in step with the shared session
// state. The tray toolkit itself is behind the Refresher interface.
package tray

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultInterval is the polling period of the tray poller.
const DefaultInterval = 250 * time.Millisecond

// StateReader is the read side of the shared session state.
type StateReader interface {
	Get() bool
}

// Refresher redraws the tray icon and menu for the given state.
type Refresher interface {
	Refresh(active bool)
}

// RefresherFunc adapts a function to Refresher.
type RefresherFunc func(active bool)

func (f RefresherFunc) Refresh(active bool) { f(active) }

// Poller samples the session state at a fixed interval and triggers a tray
// refresh exactly when the observed value changes. It can miss intermediate
// values but converges on the latest one within one interval.
type Poller struct {
	state     StateReader
	refresher Refresher
	interval  time.Duration
	clock     clockwork.Clock
	last      bool
}

// NewPoller returns a poller. The initial observed value is inactive, which
// matches the icon the tray is created with.
func NewPoller(st StateReader, r Refresher, interval time.Duration, clock clockwork.Clock) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Poller{state: st, refresher: r, interval: interval, clock: clock}
}

// Run polls until ctx is cancelled. In the application ctx lives as long as
// the process.
func (p *Poller) Run(ctx context.Context) {
	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			p.tick()
		}
	}
}

func (p *Poller) tick() {
	current, ok := p.read()
	if !ok || current == p.last {
		return
	}
	p.last = current
	slog.Debug("tray state changed", "active", current)
	p.refresher.Refresh(current)
}

// read treats a panicking reader as "no change".
func (p *Poller) read() (active bool, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("tray poller read failed", "panic", r)
			active, ok = false, false
		}
	}()
	return p.state.Get(), true
}
