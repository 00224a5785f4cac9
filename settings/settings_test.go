package settings

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubConfigDir(t *testing.T, dir string, err error) {
	t.Helper()
	orig := userConfigDir
	userConfigDir = func() (string, error) { return dir, err }
	t.Cleanup(func() { userConfigDir = orig })
}

func TestLoad_Defaults(t *testing.T) {
	stubConfigDir(t, "/home/u/.config", nil)

	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, "text", s.LogFormat)
	assert.Equal(t, 250*time.Millisecond, s.PollInterval)
	assert.Equal(t, "config-2014-naga", s.Engine)
	assert.True(t, s.Sounds)
	assert.Equal(t, filepath.Join("/home/u/.config", "config-2014-naga"), s.ConfigDir)
	assert.Equal(t, filepath.Join(s.ConfigDir, "naga-gui.log"), s.LogFile)
}

func TestLoad_FromEnvironment(t *testing.T) {
	stubConfigDir(t, "/unused", nil)
	t.Setenv("NAGA_LANG", "ru")
	t.Setenv("NAGA_LOG_LEVEL", "debug")
	t.Setenv("NAGA_CONFIG_DIR", "/srv/naga")
	t.Setenv("NAGA_TRAY_POLL", "300ms")
	t.Setenv("NAGA_ENGINE", "/opt/naga/bin/remap")
	t.Setenv("NAGA_SOUNDS", "false")

	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ru", s.Lang)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, "/srv/naga", s.ConfigDir)
	assert.Equal(t, "/srv/naga/naga-gui.log", s.LogFile)
	assert.Equal(t, 300*time.Millisecond, s.PollInterval)
	assert.Equal(t, "/opt/naga/bin/remap", s.Engine)
	assert.False(t, s.Sounds)
}

func TestLoad_ClampsPollInterval(t *testing.T) {
	stubConfigDir(t, "/c", nil)

	t.Setenv("NAGA_TRAY_POLL", "1ms")
	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 100*time.Millisecond, s.PollInterval)

	t.Setenv("NAGA_TRAY_POLL", "10s")
	s, err = Load()
	require.NoError(t, err)
	assert.Equal(t, time.Second, s.PollInterval)
}

func TestLoad_NoUserConfigDir(t *testing.T) {
	stubConfigDir(t, "", errors.New("no home"))

	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(".", "config-2014-naga"), s.ConfigDir)
}

func TestLoad_BadValue(t *testing.T) {
	stubConfigDir(t, "/c", nil)
	t.Setenv("NAGA_TRAY_POLL", "soon")

	_, err := Load()
	assert.Error(t, err)
}
