// Package runlock serializes conversion runs that target the same output
// directory. The lock is an advisory flock on a sibling "<output>.lock"
// file, so it is released automatically if the process dies.
package runlock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrHeld is returned when another run already holds the lock.
var ErrHeld = errors.New("output directory is in use by another run")

// Lock is a held run lock.
type Lock struct {
	path string
	fl   *flock.Flock
}

// PathFor returns the lock file used for outputDir.
func PathFor(outputDir string) string {
	return filepath.Clean(outputDir) + ".lock"
}

// Acquire takes the lock for outputDir without blocking.
func Acquire(outputDir string) (*Lock, error) {
	path := PathFor(outputDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrHeld, path)
	}
	return &Lock{path: path, fl: fl}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Release drops the lock. The lock file stays on disk; deleting it would let
// a waiting run lock an orphaned inode.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("release lock %s: %w", l.path, err)
	}
	return nil
}
