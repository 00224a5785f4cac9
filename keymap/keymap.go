// Package keymap holds the button-to-key mapping edited by the user and handed
// to the remapping engine when a session starts.
//
// A Mapping is plain data. It has no locking of its own: the command loop owns
// the live copy and the session coordinator only ever receives a Clone.
package keymap

import (
	"errors"
	"fmt"
	"sort"
)

// Button range of the side keypad.
const (
	MinButton = 1
	MaxButton = 12
)

var (
	ErrButtonOutOfRange = errors.New("button out of range")
	ErrUnknownKey       = errors.New("unknown key name")
)

// validKeys is the vocabulary understood by the remapping engine, in display order.
var validKeys = []string{
	"F1", "F2", "F3", "F4", "F5", "F6", "F7", "F8", "F9", "F10", "F11", "F12",
	"Grave", "_1", "_2", "_3", "_4", "_5", "_6", "_7", "_8", "_9", "_0", "Minus", "Equal", "BackSpace",
	"Tab", "Q", "W", "E", "R", "T", "Y", "U", "I", "O", "P", "LeftBrace", "RightBrace", "BackSlash",
	"CapsLock", "A", "S", "D", "F", "G", "H", "J", "K", "L", "SemiColon", "Apostrophe", "Enter",
	"LeftShift", "Z", "X", "C", "V", "B", "N", "M", "Comma", "Dot", "Slash", "RightShift",
	"LeftControl", "LeftMeta", "LeftAlt", "Space", "RightAlt", "RightMeta", "RightControl",
	"Esc", "SysRq", "ScrollLock", "Insert", "Home", "PageUp", "Delete", "End", "PageDown",
	"Up", "Left", "Down", "Right", "NumLock", "LineFeed", "ScrollUp", "ScrollDown",
}

var validKeySet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(validKeys))
	for _, k := range validKeys {
		set[k] = struct{}{}
	}
	return set
}()

// ValidKeys returns a copy of the supported key names.
func ValidKeys() []string {
	out := make([]string, len(validKeys))
	copy(out, validKeys)
	return out
}

// IsValidKey reports whether name belongs to the supported vocabulary.
func IsValidKey(name string) bool {
	_, ok := validKeySet[name]
	return ok
}

// IsValidButton reports whether b is a keypad button number.
func IsValidButton(b int) bool {
	return b >= MinButton && b <= MaxButton
}

// Entry is one button assignment.
type Entry struct {
	Button int
	Key    string
}

// Mapping assigns key names to buttons. The zero value is an empty mapping.
type Mapping struct {
	keys map[int]string
}

// New builds a mapping from entries, validating each one.
func New(entries ...Entry) (Mapping, error) {
	var m Mapping
	for _, e := range entries {
		if err := m.Set(e.Button, e.Key); err != nil {
			return Mapping{}, err
		}
	}
	return m, nil
}

// Set assigns key to button, replacing any previous assignment.
func (m *Mapping) Set(button int, key string) error {
	if !IsValidButton(button) {
		return fmt.Errorf("%w: %d", ErrButtonOutOfRange, button)
	}
	if !IsValidKey(key) {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	if m.keys == nil {
		m.keys = make(map[int]string)
	}
	m.keys[button] = key
	return nil
}

// Remove unassigns button. Removing an unassigned button is a no-op.
func (m *Mapping) Remove(button int) {
	delete(m.keys, button)
}

// Key returns the key assigned to button.
func (m Mapping) Key(button int) (string, bool) {
	k, ok := m.keys[button]
	return k, ok
}

// Len returns the number of assigned buttons.
func (m Mapping) Len() int {
	return len(m.keys)
}

// Entries returns the assignments in ascending button order.
func (m Mapping) Entries() []Entry {
	out := make([]Entry, 0, len(m.keys))
	for b, k := range m.keys {
		out = append(out, Entry{Button: b, Key: k})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Button < out[j].Button })
	return out
}

// Clone returns a copy that shares no storage with m.
func (m Mapping) Clone() Mapping {
	if m.keys == nil {
		return Mapping{}
	}
	c := Mapping{keys: make(map[int]string, len(m.keys))}
	for b, k := range m.keys {
		c.keys[b] = k
	}
	return c
}

// Equal reports whether both mappings hold the same assignments.
func (m Mapping) Equal(o Mapping) bool {
	if len(m.keys) != len(o.keys) {
		return false
	}
	for b, k := range m.keys {
		if ok, found := o.keys[b]; !found || ok != k {
			return false
		}
	}
	return true
}
