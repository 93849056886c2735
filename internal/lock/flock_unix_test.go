//go:build unix

package lock

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlockLock(t *testing.T) {
	path := lockPath(t)

	// Two FlockLocks on one path hold independent file descriptions, so
	// the second non-blocking acquire must fail.
	first := NewFlock(path)
	require.NoError(t, first.Acquire())

	second := NewFlock(path)
	require.ErrorIs(t, second.Acquire(), ErrLockHeld)

	require.NoError(t, first.Release())
	require.NoError(t, second.Acquire())
	require.NoError(t, second.Release())

	// Releasing an unheld lock is a no-op.
	require.NoError(t, first.Release())
}

func TestFlockSatisfiesLocker(t *testing.T) {
	var _ Locker = NewFlock(lockPath(t))
	var _ Locker = NewPIDFile(lockPath(t))
}
