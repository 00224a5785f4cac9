package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LastPathFile is the side file holding the last loaded or saved config path.
const LastPathFile = "last_config.txt"

// Store owns the application config directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir, creating the directory if needed.
// A directory that cannot be created only disables the last-path pointer.
func NewStore(dir string) *Store {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		slog.Warn("could not create config directory", "dir", dir, "error", err)
	}
	return &Store{dir: dir}
}

// Dir returns the config directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) pointerPath() string {
	return filepath.Join(s.dir, LastPathFile)
}

// RememberLastPath records path for the next launch. Failures are logged and
// otherwise ignored.
func (s *Store) RememberLastPath(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		slog.Debug("could not resolve config path", "path", path, "error", err)
		return
	}
	if err := writeFileAtomic(s.pointerPath(), []byte(abs+"\n"), 0o644); err != nil {
		slog.Debug("could not remember last config path", "path", abs, "error", err)
	}
}

// RecallLastPath returns the remembered path. Missing or corrupt pointer
// content yields ok == false.
func (s *Store) RecallLastPath() (path string, ok bool) {
	data, err := os.ReadFile(s.pointerPath())
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Debug("could not read last config path", "error", err)
		}
		return "", false
	}

	p := strings.TrimSpace(string(data))
	if p == "" || strings.ContainsAny(p, "\r\n\x00") || !filepath.IsAbs(p) {
		slog.Debug("ignoring corrupt last config pointer", "content", p)
		return "", false
	}
	return p, true
}

// RecallExisting is RecallLastPath restricted to paths that still exist.
func (s *Store) RecallExisting() (string, bool) {
	p, ok := s.RecallLastPath()
	if !ok {
		return "", false
	}
	if _, err := os.Stat(p); err != nil {
		slog.Info("last config no longer available", "path", p, "error", err)
		return "", false
	}
	return p, true
}

// DefaultPath is the suggested location for a newly saved config.
func (s *Store) DefaultPath() string {
	return filepath.Join(s.dir, "config.toml")
}
