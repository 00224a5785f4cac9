package session

import (
	"sync"
	"sync/atomic"
)

// CancelToken is the cooperative stop signal shared between the coordinator
// and one worker. The worker checks Stopped at its own cadence, or selects on
// Done if it blocks.
type CancelToken struct {
	stopped atomic.Bool
	once    sync.Once
	done    chan struct{}
}

// NewCancelToken returns a token in the "continue" state.
func NewCancelToken() *CancelToken {
	return &CancelToken{done: make(chan struct{})}
}

// Stop requests the worker to exit. Safe to call more than once.
func (t *CancelToken) Stop() {
	t.stopped.Store(true)
	t.once.Do(func() { close(t.done) })
}

// Stopped reports whether Stop has been called.
func (t *CancelToken) Stopped() bool {
	return t.stopped.Load()
}

// Done is closed once Stop has been called.
func (t *CancelToken) Done() <-chan struct{} {
	return t.done
}
