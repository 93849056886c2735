package task

import (
	"log"
	"math"
	"strings"
	"time"
)

// DefaultDwell is the minimum time a task must sit in in_testing before
// it can be completed.
const DefaultDwell = 30 * time.Second

// Service enforces the task workflow on top of a Store. It is the only
// component allowed to change task status.
//
// State is always re-read from the store immediately before a
// transition precondition is checked: the backing database is shared
// with the desktop process, which may mutate records out-of-band.
type Service struct {
	store    Store
	notifier Notifier
	dwell    time.Duration
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the wall clock, for tests.
func WithClock(fn func() time.Time) Option {
	return func(s *Service) { s.now = fn }
}

// WithDwell overrides the minimum testing dwell time.
func WithDwell(d time.Duration) Option {
	return func(s *Service) { s.dwell = d }
}

// NewService creates a Service. notifier may be nil, in which case no
// board events are emitted.
func NewService(store Store, notifier Notifier, opts ...Option) *Service {
	s := &Service{
		store:    store,
		notifier: notifier,
		dwell:    DefaultDwell,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates and persists a new task. If the task names a project
// that does not exist yet, the project is materialized with a palette
// color. A subtask without an explicit project inherits its parent's
// project at creation time (best-effort default, not an invariant).
func (s *Service) Create(p CreateParams) (Task, error) {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return Task{}, ErrEmptyTitle
	}

	if p.ParentTaskID != nil {
		parent, err := s.store.GetTask(*p.ParentTaskID)
		if err != nil {
			return Task{}, ErrParentNotFound
		}
		if p.Project == "" {
			p.Project = parent.Project
		}
	}

	if p.Project != "" {
		if _, err := s.store.UpsertProject(p.Project, ""); err != nil {
			return Task{}, err
		}
	}

	return s.store.CreateTask(p)
}

// Get returns a single task.
func (s *Service) Get(id int64) (Task, error) {
	return s.store.GetTask(id)
}

// List returns tasks matching the filter, ordered by sort_order then
// creation time.
func (s *Service) List(f Filter) ([]Task, error) {
	return s.store.ListTasks(f)
}

// Update applies a partial update. Status is deliberately absent from
// the exposed fields: transitions go through Start/SubmitForTesting/
// Complete only.
func (s *Service) Update(id int64, f UpdateFields) (Task, error) {
	if f.IsZero() {
		return Task{}, ErrNoFieldsToUpdate
	}
	if f.Title != nil && strings.TrimSpace(*f.Title) == "" {
		return Task{}, ErrEmptyTitle
	}
	if f.Project != nil && *f.Project != "" {
		if _, err := s.store.UpsertProject(*f.Project, ""); err != nil {
			return Task{}, err
		}
	}
	if err := s.store.UpdateTaskFields(id, f); err != nil {
		return Task{}, err
	}
	return s.store.GetTask(id)
}

// Delete removes a task. Its direct subtasks are reparented to the
// deleted task's own parent (or become root tasks) in the same
// transaction; children are never silently orphaned or cascaded.
func (s *Service) Delete(id int64) error {
	return s.store.DeleteTask(id)
}

// Reorder rewrites sort_order for the given tasks: position in the
// slice becomes the new order.
func (s *Service) Reorder(ids []int64) error {
	if len(ids) == 0 {
		return ErrNoFieldsToUpdate
	}
	return s.store.UpdateSortOrders(ids)
}

// Start moves a pending task to in_progress.
func (s *Service) Start(id int64) (Task, error) {
	return s.transition(id, StatusInProgress, func(t Task) error {
		if t.Status != StatusPending {
			return &InvalidTransitionError{From: t.Status, To: StatusInProgress}
		}
		return nil
	})
}

// SubmitForTesting moves an in_progress task to in_testing and emits a
// task_testing event. Calling it on a task already in_testing is a
// permitted retry no-op.
func (s *Service) SubmitForTesting(id int64) (Task, error) {
	t, err := s.store.GetTask(id)
	if err != nil {
		return Task{}, err
	}
	if t.Status == StatusInTesting {
		return t, nil
	}
	if t.Status != StatusInProgress {
		return Task{}, &InvalidTransitionError{From: t.Status, To: StatusInTesting}
	}
	return s.enterTesting(id)
}

// Complete advances a task through the two-phase completion protocol.
// The first call on an in_progress task moves it to in_testing. The
// second call, on the in_testing task, requires a non-empty
// implementation and the minimum dwell time since the task entered
// testing; on success the task becomes completed and a task_completed
// event is emitted.
func (s *Service) Complete(id int64) (Task, error) {
	t, err := s.store.GetTask(id)
	if err != nil {
		return Task{}, err
	}

	switch t.Status {
	case StatusInProgress:
		return s.enterTesting(id)

	case StatusInTesting:
		if strings.TrimSpace(t.Implementation) == "" {
			return Task{}, &PreconditionError{Reason: "implementation required"}
		}
		// Dwell is measured against updated_at read fresh above; the
		// desktop process may have touched the row since our last look.
		elapsed := s.now().Sub(t.UpdatedAt)
		if remaining := s.dwell - elapsed; remaining > 0 {
			return Task{}, &PreconditionError{
				Reason:           "minimum testing time not elapsed",
				RemainingSeconds: int(math.Ceil(remaining.Seconds())),
			}
		}
		done, err := s.transition(id, StatusCompleted, func(Task) error { return nil })
		if err != nil {
			return Task{}, err
		}
		s.notify(func(n Notifier) error { return n.TaskCompleted(done.ID, done.Title) })
		return done, nil

	default:
		return Task{}, &InvalidTransitionError{From: t.Status, To: StatusCompleted}
	}
}

// enterTesting performs the in_progress to in_testing move shared by
// SubmitForTesting and the first Complete call.
func (s *Service) enterTesting(id int64) (Task, error) {
	t, err := s.transition(id, StatusInTesting, func(Task) error { return nil })
	if err != nil {
		return Task{}, err
	}
	s.notify(func(n Notifier) error { return n.TaskTesting(t.ID, t.Title) })
	return t, nil
}

// transition re-checks the guard against fresh state, writes the new
// status, and returns the updated task.
func (s *Service) transition(id int64, to Status, guard func(Task) error) (Task, error) {
	t, err := s.store.GetTask(id)
	if err != nil {
		return Task{}, err
	}
	if err := guard(t); err != nil {
		return Task{}, err
	}
	st := to
	if err := s.store.UpdateTaskFields(id, UpdateFields{Status: &st}); err != nil {
		return Task{}, err
	}
	return s.store.GetTask(id)
}

// notify runs a sink call if a notifier is configured. Sink failures
// are logged and swallowed: board events are best-effort.
func (s *Service) notify(fn func(Notifier) error) {
	if s.notifier == nil {
		return
	}
	if err := fn(s.notifier); err != nil {
		log.Printf("WARNING: notification sink: %v", err)
	}
}

// AnnounceTerminal emits the terminal title hint for a started task.
// Best-effort: never returns an error.
func (s *Service) AnnounceTerminal(terminalID int64, label string) {
	if label == "" {
		return
	}
	s.notify(func(n Notifier) error { return n.TerminalTitle(terminalID, label) })
}

// --- Projects ---

// CreateProject materializes a project, assigning a palette color when
// none is given.
func (s *Service) CreateProject(name, color string) (Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Project{}, ErrEmptyProjectName
	}
	return s.store.UpsertProject(name, color)
}

// Projects lists all known projects.
func (s *Service) Projects() ([]Project, error) {
	return s.store.ListProjects()
}

// DeleteProject removes a project. Tasks keep the project name as a
// loose tag; there is no cascade.
func (s *Service) DeleteProject(name string) error {
	return s.store.DeleteProject(name)
}
