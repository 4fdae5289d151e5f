package library

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockFile = ".flixcase.lock"

// Lock is an exclusive hold on a library root, taken by imports so two
// processes never write the same tree.
type Lock struct {
	fl *flock.Flock
}

// TryLock takes the library lock without blocking.
// Returns ErrBusy if another process holds it.
func (l *Library) TryLock() (*Lock, error) {
	if err := l.Init(); err != nil {
		return nil, err
	}
	fl := flock.New(filepath.Join(l.root, lockFile))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire library lock: %w", err)
	}
	if !ok {
		return nil, ErrBusy
	}
	return &Lock{fl: fl}, nil
}

// Unlock releases the lock.
func (k *Lock) Unlock() error {
	if err := k.fl.Unlock(); err != nil {
		return fmt.Errorf("release library lock: %w", err)
	}
	return nil
}
