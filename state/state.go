// Package state holds the "remapping is active" flag shared by the session
// coordinator (sole writer) and every status observer: the main window, the
// status indicator and the tray poller.
package state

import (
	"log/slog"
	"sync"
)

// Session is a mutex-guarded boolean. Create one per process and pass the
// pointer to each component that needs it.
type Session struct {
	mu     sync.Mutex
	active bool
}

// New returns an inactive session state.
func New() *Session {
	return &Session{}
}

// Set overwrites the flag.
func (s *Session) Set(active bool) {
	s.mu.Lock()
	s.active = active
	s.mu.Unlock()
}

// Get returns the last written value. Status display must degrade rather than
// fail, so a panic while reading is swallowed and reported as inactive.
func (s *Session) Get() (active bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("session state read failed", "panic", r)
			active = false
		}
	}()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}
