package task

// Status represents the lifecycle state of a task.
type Status string

const (
	StatusPending    Status = "pending"     // Created, awaiting start
	StatusInProgress Status = "in_progress" // Agent working
	StatusInTesting  Status = "in_testing"  // Work done, quarantined for verification
	StatusCompleted  Status = "completed"   // Verified and closed (terminal)
)

// AllStatuses returns all valid status values in board column order.
func AllStatuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusInTesting, StatusCompleted}
}

// transitions defines the allowed forward moves. The workflow is
// strictly monotonic: pending → in_progress → in_testing → completed.
// in_testing → in_testing is a permitted retry no-op; completed is
// terminal.
var transitions = map[Status][]Status{
	StatusPending:    {StatusInProgress},
	StatusInProgress: {StatusInTesting},
	StatusInTesting:  {StatusInTesting, StatusCompleted},
	StatusCompleted:  {},
}

// CanTransitionTo returns true if the status can move to target.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true for states with no outgoing transitions.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted
}

// IsValid returns true if the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusInTesting, StatusCompleted:
		return true
	default:
		return false
	}
}

// Display returns a human-readable label for board rendering.
func (s Status) Display() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusInTesting:
		return "In Testing"
	case StatusCompleted:
		return "Completed"
	default:
		return string(s)
	}
}
