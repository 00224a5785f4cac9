// Package engine adapts the external config-2014-naga remapper to the
// session.Engine contract.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"NagaGUI/config"
	"NagaGUI/keymap"
	"NagaGUI/session"
)

// DefaultGrace is how long a stopped process gets to exit after the interrupt.
const DefaultGrace = 2 * time.Second

// Process runs the remapper binary with a snapshot of the mapping written to
// a temporary TOML file passed as the last argument. An empty mapping passes
// no file, which makes the remapper use its built-in defaults.
type Process struct {
	Command string
	Args    []string
	Grace   time.Duration
}

// Run implements session.Engine.
func (p *Process) Run(m keymap.Mapping, token *session.CancelToken) error {
	args := append([]string(nil), p.Args...)

	if m.Len() > 0 {
		dir, err := os.MkdirTemp("", "naga-session-")
		if err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
		defer os.RemoveAll(dir)

		snapshot := filepath.Join(dir, "config.toml")
		if err := config.Save(snapshot, m); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
		args = append(args, snapshot)
	}

	cmd := exec.Command(p.Command, args...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", p.Command, err)
	}
	slog.Info("remapper process started", "command", p.Command, "pid", cmd.Process.Pid)

	exited := make(chan error, 1)
	go func() { exited <- cmd.Wait() }()

	select {
	case err := <-exited:
		if err != nil {
			return fmt.Errorf("%s exited: %w", p.Command, err)
		}
		return errors.New(p.Command + " exited unexpectedly")
	case <-token.Done():
	}

	grace := p.Grace
	if grace <= 0 {
		grace = DefaultGrace
	}
	if err := cmd.Process.Signal(os.Interrupt); err != nil {
		slog.Debug("interrupt failed, killing remapper", "error", err)
		_ = cmd.Process.Kill()
	}

	select {
	case <-exited:
	case <-time.After(grace):
		slog.Warn("remapper ignored interrupt, killing", "pid", cmd.Process.Pid)
		_ = cmd.Process.Kill()
		<-exited
	}
	return nil
}

// DryRun holds a session open without touching any device. It is used when
// the remapper binary is not installed.
type DryRun struct{}

// Run implements session.Engine.
func (DryRun) Run(m keymap.Mapping, token *session.CancelToken) error {
	slog.Info("dry run session", "buttons", m.Len())
	<-token.Done()
	return nil
}

// Resolve returns a Process engine for command when it can be found on PATH,
// and DryRun otherwise.
func Resolve(command string) session.Engine {
	path, err := exec.LookPath(command)
	if err != nil {
		slog.Warn("remapper not found, sessions will be dry runs", "command", command, "error", err)
		return DryRun{}
	}
	return &Process{Command: path}
}
