// Package settings reads the application settings from the environment.
package settings

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go-simpler.org/env"
)

const (
	appDirName      = "config-2014-naga"
	minPollInterval = 100 * time.Millisecond
	maxPollInterval = time.Second
)

type Settings struct {
	Lang         string        `env:"NAGA_LANG"`
	LogLevel     string        `env:"NAGA_LOG_LEVEL" default:"info"`
	LogFormat    string        `env:"NAGA_LOG_FORMAT" default:"text"`
	LogFile      string        `env:"NAGA_LOG_FILE"`
	ConfigDir    string        `env:"NAGA_CONFIG_DIR"`
	PollInterval time.Duration `env:"NAGA_TRAY_POLL" default:"250ms"`
	Engine       string        `env:"NAGA_ENGINE" default:"config-2014-naga"`
	Sounds       bool          `env:"NAGA_SOUNDS" default:"true"`
}

// userConfigDir is swapped in tests.
var userConfigDir = os.UserConfigDir

func Load() (*Settings, error) {
	var s Settings
	if err := env.Load(&s, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if s.ConfigDir == "" {
		base, err := userConfigDir()
		if err != nil {
			slog.Warn("could not determine user config directory, using current directory", "error", err)
			base = "."
		}
		s.ConfigDir = filepath.Join(base, appDirName)
	}
	if s.LogFile == "" {
		s.LogFile = filepath.Join(s.ConfigDir, "naga-gui.log")
	}

	switch {
	case s.PollInterval < minPollInterval:
		s.PollInterval = minPollInterval
	case s.PollInterval > maxPollInterval:
		s.PollInterval = maxPollInterval
	}

	return &s, nil
}
