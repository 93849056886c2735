//go:build unix

package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// FlockLock is the advisory-lock variant of the process lock. The
// kernel releases the lock when the owning process dies, so there is no
// stale state to repair, at the cost of being unix-only.
type FlockLock struct {
	path string
	file *os.File
}

// NewFlock creates an advisory file lock at path.
func NewFlock(path string) *FlockLock {
	return &FlockLock{path: path}
}

// Acquire takes an exclusive non-blocking flock on the lock file.
func (l *FlockLock) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o700); err != nil {
		return fmt.Errorf("lock: create dir: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("lock: open %s: %w", l.path, err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return ErrLockHeld
		}
		return fmt.Errorf("lock: flock %s: %w", l.path, err)
	}
	l.file = f
	return nil
}

// Release drops the flock and closes the file.
func (l *FlockLock) Release() error {
	if l.file == nil {
		return nil
	}
	defer func() { l.file = nil }()

	if err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN); err != nil {
		l.file.Close()
		return fmt.Errorf("lock: unlock %s: %w", l.path, err)
	}
	return l.file.Close()
}
