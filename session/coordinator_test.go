package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"NagaGUI/keymap"
	"NagaGUI/state"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// blockingEngine runs until its token is stopped, recording what it was given.
type blockingEngine struct {
	mu       sync.Mutex
	runs     int
	mappings []keymap.Mapping
	tokens   []*CancelToken
	started  chan struct{}
}

func newBlockingEngine() *blockingEngine {
	return &blockingEngine{started: make(chan struct{}, 8)}
}

func (e *blockingEngine) Run(m keymap.Mapping, token *CancelToken) error {
	e.mu.Lock()
	e.runs++
	e.mappings = append(e.mappings, m)
	e.tokens = append(e.tokens, token)
	e.mu.Unlock()
	e.started <- struct{}{}

	<-token.Done()
	return nil
}

func (e *blockingEngine) runCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.runs
}

func (e *blockingEngine) token(i int) *CancelToken {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tokens[i]
}

func testMapping(t *testing.T) keymap.Mapping {
	t.Helper()
	m, err := keymap.New(keymap.Entry{Button: 1, Key: "F1"}, keymap.Entry{Button: 2, Key: "Esc"})
	require.NoError(t, err)
	return m
}

func waitStarted(t *testing.T, e *blockingEngine) {
	t.Helper()
	select {
	case <-e.started:
	case <-time.After(time.Second):
		t.Fatal("worker did not start")
	}
}

func TestStart_SetsStateAndRunsWorker(t *testing.T) {
	st := state.New()
	eng := newBlockingEngine()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	c := NewCoordinator(eng, st, WithClock(clock))

	id, err := c.Start(testMapping(t))
	require.NoError(t, err)
	waitStarted(t, eng)

	assert.NotEmpty(t, id)
	assert.True(t, st.Get())
	assert.True(t, c.IsActive())
	assert.Equal(t, Running, c.Phase())

	info, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, id, info.ID)
	assert.Equal(t, clock.Now(), info.StartedAt)

	require.NoError(t, c.Stop())
	assert.True(t, c.Wait(time.Second))
}

func TestStart_WhileRunningDoesNotSpawnSecondWorker(t *testing.T) {
	st := state.New()
	eng := newBlockingEngine()
	c := NewCoordinator(eng, st)

	first, err := c.Start(testMapping(t))
	require.NoError(t, err)
	waitStarted(t, eng)

	_, err = c.Start(testMapping(t))
	assert.ErrorIs(t, err, ErrAlreadyRunning)
	assert.Equal(t, Running, c.Phase())
	assert.Equal(t, 1, eng.runCount())

	info, _ := c.Current()
	assert.Equal(t, first, info.ID)

	require.NoError(t, c.Stop())
	assert.True(t, c.Wait(time.Second))
	assert.Equal(t, 1, eng.runCount())
}

func TestStart_WorkerGetsIndependentSnapshot(t *testing.T) {
	eng := newBlockingEngine()
	c := NewCoordinator(eng, state.New())

	m := testMapping(t)
	_, err := c.Start(m)
	require.NoError(t, err)
	waitStarted(t, eng)

	require.NoError(t, m.Set(1, "Tab"))
	m.Remove(2)

	eng.mu.Lock()
	got := eng.mappings[0]
	eng.mu.Unlock()
	assert.True(t, testMapping(t).Equal(got))

	c.Shutdown()
	assert.True(t, c.Wait(time.Second))
}

func TestStop_SignalsTokenWithoutWaiting(t *testing.T) {
	st := state.New()
	release := make(chan struct{})
	var sawStop atomic.Bool
	eng := EngineFunc(func(_ keymap.Mapping, token *CancelToken) error {
		<-token.Done()
		sawStop.Store(token.Stopped())
		// Simulates the engine waiting for one more device event.
		<-release
		return nil
	})
	c := NewCoordinator(eng, st)

	_, err := c.Start(keymap.Mapping{})
	require.NoError(t, err)

	require.NoError(t, c.Stop())
	assert.False(t, st.Get())
	assert.False(t, c.IsActive())
	assert.Equal(t, Idle, c.Phase())

	// The worker is still alive: Stop did not join it.
	assert.False(t, c.Wait(50*time.Millisecond))

	close(release)
	assert.True(t, c.Wait(time.Second))
	assert.True(t, sawStop.Load())
}

func TestStop_FromIdleIsNoop(t *testing.T) {
	st := state.New()
	st.Set(true) // sentinel: Stop from idle must not touch the shared state
	c := NewCoordinator(newBlockingEngine(), st)

	assert.ErrorIs(t, c.Stop(), ErrNotRunning)
	assert.True(t, st.Get())
	assert.Equal(t, Idle, c.Phase())
}

func TestStop_IsIdempotent(t *testing.T) {
	eng := newBlockingEngine()
	c := NewCoordinator(eng, state.New())

	_, err := c.Start(keymap.Mapping{})
	require.NoError(t, err)
	waitStarted(t, eng)

	require.NoError(t, c.Stop())
	assert.ErrorIs(t, c.Stop(), ErrNotRunning)
	assert.NotPanics(t, c.Shutdown)
	assert.True(t, c.Wait(time.Second))
}

func TestRestart_AfterStop(t *testing.T) {
	st := state.New()
	eng := newBlockingEngine()
	c := NewCoordinator(eng, st)

	first, err := c.Start(keymap.Mapping{})
	require.NoError(t, err)
	waitStarted(t, eng)
	require.NoError(t, c.Stop())

	second, err := c.Start(keymap.Mapping{})
	require.NoError(t, err)
	waitStarted(t, eng)

	assert.NotEqual(t, first, second)
	assert.True(t, eng.token(0).Stopped())
	assert.False(t, eng.token(1).Stopped())
	assert.True(t, st.Get())

	c.Shutdown()
	assert.True(t, c.Wait(time.Second))
	assert.False(t, st.Get())
}

func TestWorkerFailure_ClearsSessionAndReports(t *testing.T) {
	st := state.New()
	boom := errors.New("device unplugged")
	exits := make(chan Exit, 1)
	c := NewCoordinator(EngineFunc(func(keymap.Mapping, *CancelToken) error {
		return boom
	}), st, WithOnExit(func(e Exit) { exits <- e }))

	id, err := c.Start(keymap.Mapping{})
	require.NoError(t, err)

	select {
	case e := <-exits:
		assert.Equal(t, id, e.ID)
		assert.ErrorIs(t, e.Err, boom)
		assert.True(t, e.Unexpected)
	case <-time.After(time.Second):
		t.Fatal("no exit reported")
	}

	assert.False(t, st.Get())
	assert.False(t, c.IsActive())
	assert.Equal(t, Idle, c.Phase())
	assert.ErrorIs(t, c.Stop(), ErrNotRunning)
}

func TestWorkerExitAfterStop_IsExpected(t *testing.T) {
	exits := make(chan Exit, 1)
	eng := newBlockingEngine()
	c := NewCoordinator(eng, state.New())
	c.OnExit(func(e Exit) { exits <- e })

	_, err := c.Start(keymap.Mapping{})
	require.NoError(t, err)
	waitStarted(t, eng)
	require.NoError(t, c.Stop())

	select {
	case e := <-exits:
		assert.False(t, e.Unexpected)
		assert.NoError(t, e.Err)
	case <-time.After(time.Second):
		t.Fatal("no exit reported")
	}
}

func TestCancelToken(t *testing.T) {
	tok := NewCancelToken()
	assert.False(t, tok.Stopped())

	tok.Stop()
	tok.Stop()

	assert.True(t, tok.Stopped())
	select {
	case <-tok.Done():
	default:
		t.Fatal("done channel not closed")
	}
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "stopping", StoppingRequested.String())
	assert.Equal(t, "unknown", Phase(42).String())
}

func TestWait_TimesOutOnCoordinatorClock(t *testing.T) {
	st := state.New()
	clock := clockwork.NewFakeClock()
	release := make(chan struct{})
	c := NewCoordinator(EngineFunc(func(keymap.Mapping, *CancelToken) error {
		<-release
		return nil
	}), st, WithClock(clock))

	assert.True(t, c.Wait(time.Hour), "no workers yet")

	_, err := c.Start(keymap.Mapping{})
	require.NoError(t, err)
	require.NoError(t, c.Stop())

	result := make(chan bool, 1)
	go func() { result <- c.Wait(3 * time.Second) }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(3 * time.Second)

	select {
	case finished := <-result:
		assert.False(t, finished)
	case <-time.After(time.Second):
		t.Fatal("Wait ignored the coordinator clock")
	}

	close(release)
	assert.True(t, c.Wait(time.Hour))
}
