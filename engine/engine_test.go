package engine

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"NagaGUI/keymap"
	"NagaGUI/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
}

func runAsync(e session.Engine, m keymap.Mapping, tok *session.CancelToken) <-chan error {
	done := make(chan error, 1)
	go func() { done <- e.Run(m, tok) }()
	return done
}

func TestDryRun_ReturnsOnStop(t *testing.T) {
	tok := session.NewCancelToken()
	done := runAsync(DryRun{}, keymap.Mapping{}, tok)

	select {
	case <-done:
		t.Fatal("returned before stop")
	case <-time.After(20 * time.Millisecond):
	}

	tok.Stop()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("did not return after stop")
	}
}

func TestProcess_PassesSnapshotAndStops(t *testing.T) {
	skipWithoutShell(t)

	out := filepath.Join(t.TempDir(), "seen.toml")
	p := &Process{
		Command: "sh",
		Args:    []string{"-c", `cp "$1" "` + out + `" && exec sleep 30`, "remapper"},
		Grace:   time.Second,
	}

	m, err := keymap.New(keymap.Entry{Button: 1, Key: "F1"}, keymap.Entry{Button: 2, Key: "Esc"})
	require.NoError(t, err)

	tok := session.NewCancelToken()
	done := runAsync(p, m, tok)

	assert.Eventually(t, func() bool {
		_, err := os.Stat(out)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "[keys]\n1 = \"F1\"\n2 = \"Esc\"\n", string(data))

	tok.Stop()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("process not stopped")
	}
}

func TestProcess_EarlyExitIsError(t *testing.T) {
	skipWithoutShell(t)

	p := &Process{Command: "sh", Args: []string{"-c", "exit 3"}}
	err := p.Run(keymap.Mapping{}, session.NewCancelToken())
	assert.Error(t, err)
}

func TestProcess_MissingBinary(t *testing.T) {
	p := &Process{Command: filepath.Join(t.TempDir(), "does-not-exist")}
	err := p.Run(keymap.Mapping{}, session.NewCancelToken())
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	assert.IsType(t, DryRun{}, Resolve("definitely-not-a-naga-remapper-binary"))

	skipWithoutShell(t)
	e := Resolve("sh")
	require.IsType(t, &Process{}, e)
	assert.True(t, filepath.IsAbs(e.(*Process).Command))
}
