package session

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFile is created in the config directory while an instance is running.
const LockFile = "naga-gui.lock"

var ErrAnotherInstance = errors.New("another instance is already running")

// InstanceLock keeps a second copy of the application from grabbing the device.
type InstanceLock struct {
	fl *flock.Flock
}

// LockInstance takes the per-user instance lock in dir without blocking.
func LockInstance(dir string) (*InstanceLock, error) {
	fl := flock.New(filepath.Join(dir, LockFile))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire instance lock: %w", err)
	}
	if !ok {
		return nil, ErrAnotherInstance
	}
	return &InstanceLock{fl: fl}, nil
}

// Release drops the lock.
func (l *InstanceLock) Release() error {
	return l.fl.Unlock()
}
