// Package task contains the core domain model of the task board:
// entities, the status workflow, hierarchy integrity, and the service
// that enforces both on top of a persistence adapter.
//
// The transport layer (internal/tools) never mutates state directly;
// every workflow rule lives here.
package task

import "time"

// Task represents a unit of work on the board. A task may belong to a
// project (loose string tag, not a foreign key) and may reference a
// parent task, forming an acyclic hierarchy.
type Task struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Plan           string    `json:"plan,omitempty"`
	Implementation string    `json:"implementation,omitempty"`
	Status         Status    `json:"status"`
	TerminalID     *int64    `json:"terminal_id,omitempty"`
	Project        string    `json:"project,omitempty"`
	ParentTaskID   *int64    `json:"parent_task_id,omitempty"`
	SortOrder      int       `json:"sort_order"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsSubtask returns true if the task has a parent.
func (t *Task) IsSubtask() bool {
	return t.ParentTaskID != nil
}

// Project is a named grouping of tasks. Tasks reference projects by
// name only; deleting a project leaves its tasks tagged with the old
// name (soft decoupling, see DESIGN.md).
type Project struct {
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	Color       string    `json:"color"`
	Path        string    `json:"path,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Node is a task plus its recursively nested subtasks, as returned by
// Service.Hierarchy.
type Node struct {
	Task     Task   `json:"task"`
	Subtasks []Node `json:"subtasks"`
}

// CreateParams holds the input for creating a new task.
type CreateParams struct {
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Project      string `json:"project,omitempty"`
	ParentTaskID *int64 `json:"parent_task_id,omitempty"`
	TerminalID   *int64 `json:"terminal_id,omitempty"`
}

// UpdateFields holds a partial update. Nil fields are left untouched.
// Status is set only by the Service transition methods, never from a
// request parameter bag.
type UpdateFields struct {
	Status         *Status `json:"-"`
	Title          *string `json:"title,omitempty"`
	Description    *string `json:"description,omitempty"`
	Plan           *string `json:"plan,omitempty"`
	Implementation *string `json:"implementation,omitempty"`
	TerminalID     *int64  `json:"terminal_id,omitempty"`
	Project        *string `json:"project,omitempty"`
	ParentTaskID   **int64 `json:"-"`
	SortOrder      *int    `json:"sort_order,omitempty"`
}

// IsZero returns true when no caller-settable field is set.
func (f UpdateFields) IsZero() bool {
	return f.Title == nil && f.Description == nil && f.Plan == nil &&
		f.Implementation == nil && f.TerminalID == nil && f.Project == nil &&
		f.ParentTaskID == nil && f.SortOrder == nil
}

// Filter narrows ListTasks results. Zero values mean "no filter".
type Filter struct {
	Status       Status
	Project      string
	ParentTaskID *int64
	UpdatedSince time.Time
	Limit        int
}

// Store is the persistence contract the domain service depends on.
// Implemented by internal/store on SQLite; tests substitute fakes.
//
// Every successful mutation refreshes the task's updated_at. The store
// owns durable state only; validation and transition rules live in
// this package.
type Store interface {
	CreateTask(p CreateParams) (Task, error)
	GetTask(id int64) (Task, error)
	ListTasks(f Filter) ([]Task, error)
	UpdateTaskFields(id int64, f UpdateFields) error
	DeleteTask(id int64) error
	Subtasks(parentID int64) ([]Task, error)
	CountTasks() (int, error)
	UpdateSortOrders(ids []int64) error

	UpsertProject(name, color string) (Project, error)
	GetProject(name string) (Project, error)
	ListProjects() ([]Project, error)
	DeleteProject(name string) error
}

// Notifier receives board events destined for the desktop process.
// Implementations must be safe for concurrent use. Callers treat all
// methods as best-effort: a failing sink never fails the operation.
type Notifier interface {
	TaskTesting(taskID int64, title string) error
	TaskCompleted(taskID int64, title string) error
	TerminalTitle(terminalID int64, label string) error
}
