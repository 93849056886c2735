// Package lock provides the exclusive process lock that keeps a single
// server instance per user. Two implementations share one interface: a
// portable PID-file heuristic and a stronger OS advisory flock (unix).
package lock

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// ErrLockHeld is returned when another live process owns the lock. The
// caller is expected to exit cleanly: a second instance is an
// idempotent no-op, not an error condition.
var ErrLockHeld = errors.New("another instance holds the lock")

// Locker is the exclusive process lock capability.
type Locker interface {
	// Acquire takes the lock or fails with ErrLockHeld.
	Acquire() error
	// Release frees the lock. Safe to call when not held.
	Release() error
}

// PIDFileLock records the owner's PID in a well-known file. A recorded
// PID whose process is gone marks a stale lock, which Acquire reclaims.
// Best-effort by design: abrupt termination leaves a stale file that
// the next startup repairs.
type PIDFileLock struct {
	path  string
	pid   int
	held  bool
	alive func(pid int) bool
}

// PIDOption configures a PIDFileLock.
type PIDOption func(*PIDFileLock)

// WithLivenessProbe replaces the PID liveness check, for tests.
func WithLivenessProbe(fn func(pid int) bool) PIDOption {
	return func(l *PIDFileLock) { l.alive = fn }
}

// NewPIDFile creates a PID-file lock at path.
func NewPIDFile(path string, opts ...PIDOption) *PIDFileLock {
	l := &PIDFileLock{path: path, pid: os.Getpid(), alive: processAlive}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Acquire reads any existing lock file, probes the recorded PID, and
// either yields (live owner), reclaims (stale owner), or creates the
// file.
func (l *PIDFileLock) Acquire() error {
	data, err := os.ReadFile(l.path)
	switch {
	case err == nil:
		recorded, parseErr := strconv.Atoi(strings.TrimSpace(string(data)))
		if parseErr == nil && recorded == l.pid {
			l.held = true
			return nil
		}
		if parseErr == nil && l.alive(recorded) {
			return fmt.Errorf("%w (pid %d)", ErrLockHeld, recorded)
		}
		// Stale or unreadable lock: the recorded process is gone.
		log.Printf("WARNING: reclaiming stale lock file %s", l.path)
		if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("lock: remove stale file: %w", err)
		}
	case !os.IsNotExist(err):
		return fmt.Errorf("lock: read %s: %w", l.path, err)
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0o700); err != nil {
		return fmt.Errorf("lock: create dir: %w", err)
	}
	if err := os.WriteFile(l.path, []byte(strconv.Itoa(l.pid)+"\n"), 0o644); err != nil {
		return fmt.Errorf("lock: write %s: %w", l.path, err)
	}
	l.held = true
	return nil
}

// Release removes the lock file, but only if this process still owns
// it; a later instance that reclaimed a stale lock must not lose its
// own file.
func (l *PIDFileLock) Release() error {
	if !l.held {
		return nil
	}
	l.held = false

	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("lock: read %s: %w", l.path, err)
	}
	if recorded, err := strconv.Atoi(strings.TrimSpace(string(data))); err == nil && recorded != l.pid {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("lock: remove %s: %w", l.path, err)
	}
	return nil
}

// processAlive reports whether a process with the given PID exists.
// Signal 0 performs the existence check without delivering anything.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	// EPERM means the process exists but belongs to another user.
	return errors.Is(err, syscall.EPERM)
}
