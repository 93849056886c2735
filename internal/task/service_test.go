package task

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// testClock is a controllable wall clock shared by the service and the
// fake store, so updated_at and dwell checks see the same time.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time          { return c.now }
func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestService(t *testing.T) (*Service, *fakeStore, *fakeNotifier, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	store := newFakeStore(clock.Now)
	notifier := &fakeNotifier{}
	svc := NewService(store, notifier, WithClock(clock.Now))
	return svc, store, notifier, clock
}

func TestService_Create(t *testing.T) {
	svc, store, _, _ := newTestService(t)

	created, err := svc.Create(CreateParams{Title: "  Fix login crash  ", Project: "webapp"})
	require.NoError(t, err)
	require.Equal(t, "Fix login crash", created.Title)
	require.Equal(t, StatusPending, created.Status)
	require.Equal(t, "webapp", created.Project)

	// The referenced project is materialized.
	_, err = store.GetProject("webapp")
	require.NoError(t, err)
}

func TestService_Create_EmptyTitle(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Create(CreateParams{Title: "   "})
	require.ErrorIs(t, err, ErrEmptyTitle)
}

func TestService_Create_ParentMissing(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	missing := int64(99)
	_, err := svc.Create(CreateParams{Title: "Subtask", ParentTaskID: &missing})
	require.ErrorIs(t, err, ErrParentNotFound)
}

func TestService_Create_SubtaskInheritsProject(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	parent, err := svc.Create(CreateParams{Title: "Parent", Project: "webapp"})
	require.NoError(t, err)

	child, err := svc.Create(CreateParams{Title: "Child", ParentTaskID: &parent.ID})
	require.NoError(t, err)
	require.Equal(t, "webapp", child.Project)

	// An explicit project wins over inheritance.
	other, err := svc.Create(CreateParams{Title: "Other child", Project: "cli", ParentTaskID: &parent.ID})
	require.NoError(t, err)
	require.Equal(t, "cli", other.Project)
}

func TestService_Update(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	created, err := svc.Create(CreateParams{Title: "Original"})
	require.NoError(t, err)

	_, err = svc.Update(created.ID, UpdateFields{})
	require.ErrorIs(t, err, ErrNoFieldsToUpdate)

	empty := " "
	_, err = svc.Update(created.ID, UpdateFields{Title: &empty})
	require.ErrorIs(t, err, ErrEmptyTitle)

	title := "Renamed"
	desc := "details"
	updated, err := svc.Update(created.ID, UpdateFields{Title: &title, Description: &desc})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Title)
	require.Equal(t, "details", updated.Description)
}

func TestService_Workflow(t *testing.T) {
	svc, _, notifier, clock := newTestService(t)

	created, err := svc.Create(CreateParams{Title: "Ship feature"})
	require.NoError(t, err)

	// pending -> in_progress
	started, err := svc.Start(created.ID)
	require.NoError(t, err)
	require.Equal(t, StatusInProgress, started.Status)

	// Starting twice violates the workflow.
	_, err = svc.Start(created.ID)
	var tErr *InvalidTransitionError
	require.ErrorAs(t, err, &tErr)
	require.Equal(t, StatusInProgress, tErr.From)

	// in_progress -> in_testing emits task_testing.
	testing1, err := svc.SubmitForTesting(created.ID)
	require.NoError(t, err)
	require.Equal(t, StatusInTesting, testing1.Status)
	require.Len(t, notifier.ofKind("task_testing"), 1)

	// Submitting again is a retry no-op: no transition, no extra event.
	testing2, err := svc.SubmitForTesting(created.ID)
	require.NoError(t, err)
	require.Equal(t, StatusInTesting, testing2.Status)
	require.Len(t, notifier.ofKind("task_testing"), 1)

	// Completion requires implementation notes.
	_, err = svc.Complete(created.ID)
	var pErr *PreconditionError
	require.ErrorAs(t, err, &pErr)
	require.Equal(t, "implementation required", pErr.Reason)

	// Saving the implementation restarts the dwell clock.
	impl := "Changed the feature flag default and added a migration."
	_, err = svc.Update(created.ID, UpdateFields{Implementation: &impl})
	require.NoError(t, err)

	// Immediately after the write the full dwell remains.
	_, err = svc.Complete(created.ID)
	require.ErrorAs(t, err, &pErr)
	require.Equal(t, 30, pErr.RemainingSeconds)
	require.EqualError(t, err, "minimum testing time not elapsed: 30 seconds remaining")

	// Partial elapsed time is reported rounded up.
	clock.Advance(29*time.Second + 500*time.Millisecond)
	_, err = svc.Complete(created.ID)
	require.ErrorAs(t, err, &pErr)
	require.Equal(t, 1, pErr.RemainingSeconds)

	// After the dwell the task completes and task_completed fires once.
	clock.Advance(2 * time.Second)
	done, err := svc.Complete(created.ID)
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, done.Status)
	require.Len(t, notifier.ofKind("task_completed"), 1)

	// Completed is terminal.
	_, err = svc.Complete(created.ID)
	require.ErrorAs(t, err, &tErr)
	require.Equal(t, StatusCompleted, tErr.From)
}

func TestService_Complete_FromInProgressEntersTesting(t *testing.T) {
	svc, _, notifier, _ := newTestService(t)

	created, err := svc.Create(CreateParams{Title: "Two-phase"})
	require.NoError(t, err)
	_, err = svc.Start(created.ID)
	require.NoError(t, err)

	// First complete call on an in_progress task is the testing phase.
	moved, err := svc.Complete(created.ID)
	require.NoError(t, err)
	require.Equal(t, StatusInTesting, moved.Status)
	require.Len(t, notifier.ofKind("task_testing"), 1)
	require.Empty(t, notifier.ofKind("task_completed"))
}

func TestService_Complete_PendingRejected(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	created, err := svc.Create(CreateParams{Title: "Not started"})
	require.NoError(t, err)

	_, err = svc.Complete(created.ID)
	var tErr *InvalidTransitionError
	require.ErrorAs(t, err, &tErr)
	require.Equal(t, StatusPending, tErr.From)
	require.Equal(t, StatusCompleted, tErr.To)
}

func TestService_DwellMeasuredAgainstLatestWrite(t *testing.T) {
	svc, _, _, clock := newTestService(t)

	created, err := svc.Create(CreateParams{Title: "Restart clock"})
	require.NoError(t, err)
	_, err = svc.Start(created.ID)
	require.NoError(t, err)
	_, err = svc.SubmitForTesting(created.ID)
	require.NoError(t, err)

	impl := "done"
	_, err = svc.Update(created.ID, UpdateFields{Implementation: &impl})
	require.NoError(t, err)

	clock.Advance(25 * time.Second)

	// Any write refreshes updated_at and restarts the dwell.
	plan := "revised plan"
	_, err = svc.Update(created.ID, UpdateFields{Plan: &plan})
	require.NoError(t, err)

	clock.Advance(10 * time.Second)
	_, err = svc.Complete(created.ID)
	var pErr *PreconditionError
	require.ErrorAs(t, err, &pErr)
	require.Equal(t, 20, pErr.RemainingSeconds)
}

func TestService_CustomDwell(t *testing.T) {
	clock := &testClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	store := newFakeStore(clock.Now)
	svc := NewService(store, nil, WithClock(clock.Now), WithDwell(5*time.Second))

	created, err := svc.Create(CreateParams{Title: "Short dwell"})
	require.NoError(t, err)
	_, err = svc.Start(created.ID)
	require.NoError(t, err)
	_, err = svc.SubmitForTesting(created.ID)
	require.NoError(t, err)
	impl := "done"
	_, err = svc.Update(created.ID, UpdateFields{Implementation: &impl})
	require.NoError(t, err)

	clock.Advance(6 * time.Second)
	done, err := svc.Complete(created.ID)
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, done.Status)
}

func TestService_NotifierFailureDoesNotFailTransition(t *testing.T) {
	clock := &testClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	store := newFakeStore(clock.Now)
	notifier := &fakeNotifier{err: errors.New("disk full")}
	svc := NewService(store, notifier, WithClock(clock.Now))

	created, err := svc.Create(CreateParams{Title: "Best effort"})
	require.NoError(t, err)
	_, err = svc.Start(created.ID)
	require.NoError(t, err)

	moved, err := svc.SubmitForTesting(created.ID)
	require.NoError(t, err)
	require.Equal(t, StatusInTesting, moved.Status)
}

func TestService_Reorder(t *testing.T) {
	svc, store, _, _ := newTestService(t)

	a, _ := svc.Create(CreateParams{Title: "a"})
	b, _ := svc.Create(CreateParams{Title: "b"})
	c, _ := svc.Create(CreateParams{Title: "c"})

	require.ErrorIs(t, svc.Reorder(nil), ErrNoFieldsToUpdate)

	require.NoError(t, svc.Reorder([]int64{c.ID, a.ID, b.ID}))
	tasks, err := store.ListTasks(Filter{})
	require.NoError(t, err)
	require.Equal(t, []string{"c", "a", "b"}, []string{tasks[0].Title, tasks[1].Title, tasks[2].Title})
}

func TestService_Projects(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.CreateProject("  ", "")
	require.ErrorIs(t, err, ErrEmptyProjectName)

	p, err := svc.CreateProject("webapp", "#FF5733")
	require.NoError(t, err)
	require.Equal(t, "#FF5733", p.Color)

	list, err := svc.Projects()
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, svc.DeleteProject("webapp"))
	require.ErrorIs(t, svc.DeleteProject("webapp"), ErrProjectNotFound)
}

func TestService_AnnounceTerminal(t *testing.T) {
	svc, _, notifier, _ := newTestService(t)

	svc.AnnounceTerminal(2, "Fix login")
	svc.AnnounceTerminal(2, "")

	events := notifier.ofKind("terminal_title")
	require.Len(t, events, 1)
	require.Equal(t, int64(2), events[0].id)
	require.Equal(t, "Fix login", events[0].label)
}
