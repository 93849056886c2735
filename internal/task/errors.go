package task

import (
	"errors"
	"fmt"
)

// Domain errors. Sentinels for conditions without payload; typed errors
// where the caller needs details (current/requested state, remaining
// dwell seconds).
var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrParentNotFound   = errors.New("parent task not found")
	ErrProjectNotFound  = errors.New("project not found")
	ErrEmptyTitle       = errors.New("task title cannot be empty")
	ErrEmptyProjectName = errors.New("project name cannot be empty")
	ErrNoFieldsToUpdate = errors.New("no fields to update")
)

// InvalidTransitionError reports a status workflow violation, naming
// both the current and the requested state.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %q to %q", e.From, e.To)
}

// CircularDependencyError reports a rejected parent link that would
// create a cycle in the task hierarchy.
type CircularDependencyError struct {
	TaskID   int64
	ParentID int64
}

func (e *CircularDependencyError) Error() string {
	if e.TaskID == e.ParentID {
		return fmt.Sprintf("task %d cannot be its own parent", e.TaskID)
	}
	return fmt.Sprintf("linking task %d under %d would create a circular dependency", e.TaskID, e.ParentID)
}

// PreconditionError reports a testing-phase gate failure on complete.
// RemainingSeconds is non-zero only for the dwell-time gate.
type PreconditionError struct {
	Reason           string
	RemainingSeconds int
}

func (e *PreconditionError) Error() string {
	if e.RemainingSeconds > 0 {
		return fmt.Sprintf("%s: %d seconds remaining", e.Reason, e.RemainingSeconds)
	}
	return e.Reason
}
