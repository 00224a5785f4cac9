// Package config persists key mappings as TOML files and remembers which file
// was used last so it can be reloaded on the next launch.
//
// File format:
//
//	[keys]
//	1 = "F1"
//	2 = "Esc"
//
// An inline table (keys = { "1" = "F1" }) is accepted as well. Only buttons
// 1 through 12 are read; anything else under the table is ignored.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"NagaGUI/keymap"

	"github.com/BurntSushi/toml"
)

const keysTable = "keys"

// Load reads and validates the mapping stored at path. The returned error
// matches ErrIO when the file cannot be read and ErrInvalid when its content
// is not a valid mapping.
func Load(path string) (keymap.Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return keymap.Mapping{}, ioErr("load", path, err)
	}
	return parse(path, data)
}

func parse(path string, data []byte) (keymap.Mapping, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return keymap.Mapping{}, invalid(path, err)
	}

	raw, ok := doc[keysTable]
	if !ok {
		return keymap.Mapping{}, invalid(path, errors.New("missing [keys] table"))
	}
	table, ok := raw.(map[string]any)
	if !ok {
		return keymap.Mapping{}, invalid(path, fmt.Errorf("%q is a %T, not a table", keysTable, raw))
	}

	var m keymap.Mapping
	for b := keymap.MinButton; b <= keymap.MaxButton; b++ {
		v, ok := table[strconv.Itoa(b)]
		if !ok {
			continue
		}
		name, ok := v.(string)
		if !ok {
			slog.Debug("ignoring non-string key name", "path", path, "button", b, "type", fmt.Sprintf("%T", v))
			continue
		}
		if err := m.Set(b, name); err != nil {
			return keymap.Mapping{}, invalid(path, fmt.Errorf("button %d: %w", b, err))
		}
	}
	return m, nil
}

type fileDoc struct {
	Keys buttonKeys `toml:"keys"`
}

// buttonKeys lists the buttons in file order.
type buttonKeys struct {
	B1  string `toml:"1,omitempty"`
	B2  string `toml:"2,omitempty"`
	B3  string `toml:"3,omitempty"`
	B4  string `toml:"4,omitempty"`
	B5  string `toml:"5,omitempty"`
	B6  string `toml:"6,omitempty"`
	B7  string `toml:"7,omitempty"`
	B8  string `toml:"8,omitempty"`
	B9  string `toml:"9,omitempty"`
	B10 string `toml:"10,omitempty"`
	B11 string `toml:"11,omitempty"`
	B12 string `toml:"12,omitempty"`
}

func (k *buttonKeys) slot(button int) *string {
	return [keymap.MaxButton]*string{
		&k.B1, &k.B2, &k.B3, &k.B4, &k.B5, &k.B6,
		&k.B7, &k.B8, &k.B9, &k.B10, &k.B11, &k.B12,
	}[button-keymap.MinButton]
}

// Encode renders m as a [keys] table in ascending button order.
func Encode(m keymap.Mapping) ([]byte, error) {
	var doc fileDoc
	for _, e := range m.Entries() {
		*doc.Keys.slot(e.Button) = e.Key
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode mapping: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes m to path. The new content is written to a temporary file in the
// same directory and renamed over path, so a failed save never leaves a
// previously valid file truncated.
func Save(path string, m keymap.Mapping) error {
	data, err := Encode(m)
	if err != nil {
		return ioErr("save", path, err)
	}
	if err := writeFileAtomic(path, data, 0o644); err != nil {
		return ioErr("save", path, err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		_ = os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
