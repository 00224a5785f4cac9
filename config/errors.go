package config

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalid marks a file that could be read but is not a usable mapping.
	ErrInvalid = errors.New("invalid config")
	// ErrIO marks a filesystem failure while reading or writing a config.
	ErrIO = errors.New("config i/o failure")
)

// Error describes a failed config operation. It matches ErrInvalid or ErrIO
// with errors.Is, as well as its underlying cause.
type Error struct {
	Op   string
	Path string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Path, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func invalid(path string, err error) error {
	return &Error{Op: "load", Path: path, Kind: ErrInvalid, Err: err}
}

func ioErr(op, path string, err error) error {
	return &Error{Op: op, Path: path, Kind: ErrIO, Err: err}
}
