package task

import (
	"sort"
	"time"
)

// fakeStore is an in-memory Store for service tests. It mirrors the
// SQLite adapter's contract: mutations refresh updated_at, deletes
// reparent children to the deleted task's own parent.
type fakeStore struct {
	nextID   int64
	tasks    map[int64]*Task
	projects map[string]Project
	now      func() time.Time
}

func newFakeStore(now func() time.Time) *fakeStore {
	return &fakeStore{
		tasks:    make(map[int64]*Task),
		projects: make(map[string]Project),
		now:      now,
	}
}

func (f *fakeStore) CreateTask(p CreateParams) (Task, error) {
	if p.Title == "" {
		return Task{}, ErrEmptyTitle
	}
	f.nextID++
	ts := f.now()
	t := Task{
		ID:           f.nextID,
		Title:        p.Title,
		Description:  p.Description,
		Status:       StatusPending,
		Project:      p.Project,
		ParentTaskID: p.ParentTaskID,
		TerminalID:   p.TerminalID,
		SortOrder:    int(f.nextID) - 1,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	f.tasks[t.ID] = &t
	return t, nil
}

func (f *fakeStore) GetTask(id int64) (Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return Task{}, ErrTaskNotFound
	}
	return *t, nil
}

func (f *fakeStore) ListTasks(fl Filter) ([]Task, error) {
	var out []Task
	for _, t := range f.tasks {
		if fl.Status != "" && t.Status != fl.Status {
			continue
		}
		if fl.Project != "" && t.Project != fl.Project {
			continue
		}
		if fl.ParentTaskID != nil && (t.ParentTaskID == nil || *t.ParentTaskID != *fl.ParentTaskID) {
			continue
		}
		if !fl.UpdatedSince.IsZero() && t.UpdatedAt.Before(fl.UpdatedSince) {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	if fl.Limit > 0 && len(out) > fl.Limit {
		out = out[:fl.Limit]
	}
	return out, nil
}

func (f *fakeStore) UpdateTaskFields(id int64, fl UpdateFields) error {
	t, ok := f.tasks[id]
	if !ok {
		return ErrTaskNotFound
	}
	if fl.Status != nil {
		t.Status = *fl.Status
	}
	if fl.Title != nil {
		t.Title = *fl.Title
	}
	if fl.Description != nil {
		t.Description = *fl.Description
	}
	if fl.Plan != nil {
		t.Plan = *fl.Plan
	}
	if fl.Implementation != nil {
		t.Implementation = *fl.Implementation
	}
	if fl.TerminalID != nil {
		t.TerminalID = fl.TerminalID
	}
	if fl.Project != nil {
		t.Project = *fl.Project
	}
	if fl.ParentTaskID != nil {
		t.ParentTaskID = *fl.ParentTaskID
	}
	if fl.SortOrder != nil {
		t.SortOrder = *fl.SortOrder
	}
	t.UpdatedAt = f.now()
	return nil
}

func (f *fakeStore) DeleteTask(id int64) error {
	t, ok := f.tasks[id]
	if !ok {
		return ErrTaskNotFound
	}
	for _, c := range f.tasks {
		if c.ParentTaskID != nil && *c.ParentTaskID == id {
			c.ParentTaskID = t.ParentTaskID
		}
	}
	delete(f.tasks, id)
	return nil
}

func (f *fakeStore) Subtasks(parentID int64) ([]Task, error) {
	return f.ListTasks(Filter{ParentTaskID: &parentID})
}

func (f *fakeStore) CountTasks() (int, error) {
	return len(f.tasks), nil
}

func (f *fakeStore) UpdateSortOrders(ids []int64) error {
	for pos, id := range ids {
		t, ok := f.tasks[id]
		if !ok {
			return ErrTaskNotFound
		}
		t.SortOrder = pos
		t.UpdatedAt = f.now()
	}
	return nil
}

func (f *fakeStore) UpsertProject(name, color string) (Project, error) {
	if p, ok := f.projects[name]; ok {
		if color != "" {
			p.Color = color
			f.projects[name] = p
		}
		return p, nil
	}
	if color == "" {
		color = "#007ACC"
	}
	p := Project{Name: name, DisplayName: name, Color: color, CreatedAt: f.now()}
	f.projects[name] = p
	return p, nil
}

func (f *fakeStore) GetProject(name string) (Project, error) {
	p, ok := f.projects[name]
	if !ok {
		return Project{}, ErrProjectNotFound
	}
	return p, nil
}

func (f *fakeStore) ListProjects() ([]Project, error) {
	var out []Project
	for _, p := range f.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStore) DeleteProject(name string) error {
	if _, ok := f.projects[name]; !ok {
		return ErrProjectNotFound
	}
	delete(f.projects, name)
	return nil
}

// recordedEvent is one Notifier call captured by fakeNotifier.
type recordedEvent struct {
	kind  string
	id    int64
	label string
}

type fakeNotifier struct {
	events []recordedEvent
	err    error
}

func (n *fakeNotifier) TaskTesting(taskID int64, title string) error {
	n.events = append(n.events, recordedEvent{kind: "task_testing", id: taskID, label: title})
	return n.err
}

func (n *fakeNotifier) TaskCompleted(taskID int64, title string) error {
	n.events = append(n.events, recordedEvent{kind: "task_completed", id: taskID, label: title})
	return n.err
}

func (n *fakeNotifier) TerminalTitle(terminalID int64, label string) error {
	n.events = append(n.events, recordedEvent{kind: "terminal_title", id: terminalID, label: label})
	return n.err
}

func (n *fakeNotifier) ofKind(kind string) []recordedEvent {
	var out []recordedEvent
	for _, e := range n.events {
		if e.kind == kind {
			out = append(out, e)
		}
	}
	return out
}
