// Package store implements the persistence adapter for the task board
// on SQLite. It owns durable state and nothing else: validation and
// workflow rules live in internal/task.
//
// All statements are parameterized and multi-row mutations run inside
// transactions.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arturogj92/codeagentswarm-tasks/internal/task"
	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// timeNow is replaceable in tests to control updated_at stamps.
var timeNow = time.Now

// palette holds the fixed project colors. New projects get the first
// color not yet taken; once the palette is exhausted, colors repeat.
var palette = []string{
	"#e74c3c", "#e67e22", "#f1c40f", "#2ecc71",
	"#1abc9c", "#3498db", "#9b59b6", "#e84393",
}

// Store is the SQLite-backed task and project repository.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath, applies pragmas, and
// runs migrations. The parent directory is created if needed.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("store: create data dir: %w", err)
	}

	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("store: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("store: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS tasks (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			title          TEXT    NOT NULL,
			description    TEXT    NOT NULL DEFAULT '',
			plan           TEXT    NOT NULL DEFAULT '',
			implementation TEXT    NOT NULL DEFAULT '',
			status         TEXT    NOT NULL DEFAULT 'pending',
			terminal_id    INTEGER,
			project        TEXT,
			parent_task_id INTEGER,
			sort_order     INTEGER NOT NULL DEFAULT 0,
			created_at     TEXT    NOT NULL,
			updated_at     TEXT    NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_tasks_status  ON tasks(status);
		CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project);
		CREATE INDEX IF NOT EXISTS idx_tasks_parent  ON tasks(parent_task_id);
		CREATE INDEX IF NOT EXISTS idx_tasks_updated ON tasks(updated_at DESC);

		CREATE TABLE IF NOT EXISTS projects (
			name         TEXT PRIMARY KEY,
			display_name TEXT NOT NULL,
			color        TEXT NOT NULL,
			path         TEXT NOT NULL DEFAULT '',
			created_at   TEXT NOT NULL
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

func stamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseStamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

const taskColumns = `id, title, description, plan, implementation, status,
	terminal_id, project, parent_task_id, sort_order, created_at, updated_at`

func scanTask(row interface{ Scan(...any) error }) (task.Task, error) {
	var (
		t          task.Task
		terminalID sql.NullInt64
		project    sql.NullString
		parentID   sql.NullInt64
		createdAt  string
		updatedAt  string
	)
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Plan, &t.Implementation,
		&t.Status, &terminalID, &project, &parentID, &t.SortOrder,
		&createdAt, &updatedAt)
	if err != nil {
		return task.Task{}, err
	}
	if terminalID.Valid {
		t.TerminalID = &terminalID.Int64
	}
	if project.Valid {
		t.Project = project.String
	}
	if parentID.Valid {
		t.ParentTaskID = &parentID.Int64
	}
	t.CreatedAt = parseStamp(createdAt)
	t.UpdatedAt = parseStamp(updatedAt)
	return t, nil
}

// CreateTask inserts a new task in pending status at the end of the
// board column and returns the stored row.
func (s *Store) CreateTask(p task.CreateParams) (task.Task, error) {
	if strings.TrimSpace(p.Title) == "" {
		return task.Task{}, task.ErrEmptyTitle
	}

	var order int
	if err := s.db.QueryRow(`SELECT COALESCE(MAX(sort_order)+1, 0) FROM tasks`).Scan(&order); err != nil {
		return task.Task{}, fmt.Errorf("store: next sort order: %w", err)
	}

	now := stamp(timeNow())
	res, err := s.db.Exec(`
		INSERT INTO tasks (title, description, status, terminal_id, project,
			parent_task_id, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Description, task.StatusPending,
		nullInt(p.TerminalID), nullStr(p.Project), nullInt(p.ParentTaskID),
		order, now, now,
	)
	if err != nil {
		return task.Task{}, fmt.Errorf("store: create task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return task.Task{}, fmt.Errorf("store: last insert id: %w", err)
	}
	return s.GetTask(id)
}

// GetTask returns the task with the given id, or task.ErrTaskNotFound.
func (s *Store) GetTask(id int64) (task.Task, error) {
	row := s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return task.Task{}, task.ErrTaskNotFound
	}
	if err != nil {
		return task.Task{}, fmt.Errorf("store: get task %d: %w", id, err)
	}
	return t, nil
}

// ListTasks returns tasks matching the filter, ordered by sort_order
// ascending then created_at descending.
func (s *Store) ListTasks(f task.Filter) ([]task.Task, error) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	if f.Project != "" {
		where = append(where, "project = ?")
		args = append(args, f.Project)
	}
	if f.ParentTaskID != nil {
		where = append(where, "parent_task_id = ?")
		args = append(args, *f.ParentTaskID)
	}
	if !f.UpdatedSince.IsZero() {
		where = append(where, "updated_at >= ?")
		args = append(args, stamp(f.UpdatedSince))
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY sort_order ASC, created_at DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// UpdateTaskFields applies a partial update and refreshes updated_at.
// Returns task.ErrTaskNotFound when the id does not exist.
func (s *Store) UpdateTaskFields(id int64, f task.UpdateFields) error {
	var (
		sets []string
		args []any
	)
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if f.Status != nil {
		add("status", string(*f.Status))
	}
	if f.Title != nil {
		add("title", *f.Title)
	}
	if f.Description != nil {
		add("description", *f.Description)
	}
	if f.Plan != nil {
		add("plan", *f.Plan)
	}
	if f.Implementation != nil {
		add("implementation", *f.Implementation)
	}
	if f.TerminalID != nil {
		add("terminal_id", *f.TerminalID)
	}
	if f.Project != nil {
		add("project", nullStr(*f.Project))
	}
	if f.ParentTaskID != nil {
		add("parent_task_id", nullInt(*f.ParentTaskID))
	}
	if f.SortOrder != nil {
		add("sort_order", *f.SortOrder)
	}
	if len(sets) == 0 {
		return task.ErrNoFieldsToUpdate
	}

	add("updated_at", stamp(timeNow()))
	args = append(args, id)

	res, err := s.db.Exec(`UPDATE tasks SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("store: update task %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: rows affected: %w", err)
	}
	if n == 0 {
		return task.ErrTaskNotFound
	}
	return nil
}

// DeleteTask removes a task. Its direct subtasks are reparented to the
// deleted task's own parent in the same transaction, so child rows
// never end up with a dangling reference.
func (s *Store) DeleteTask(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: begin delete: %w", err)
	}
	defer tx.Rollback()

	var parentID sql.NullInt64
	err = tx.QueryRow(`SELECT parent_task_id FROM tasks WHERE id = ?`, id).Scan(&parentID)
	if errors.Is(err, sql.ErrNoRows) {
		return task.ErrTaskNotFound
	}
	if err != nil {
		return fmt.Errorf("store: delete task %d: %w", id, err)
	}

	if _, err := tx.Exec(`UPDATE tasks SET parent_task_id = ?, updated_at = ? WHERE parent_task_id = ?`,
		parentID, stamp(timeNow()), id); err != nil {
		return fmt.Errorf("store: reparent subtasks of %d: %w", id, err)
	}
	if _, err := tx.Exec(`DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("store: delete task %d: %w", id, err)
	}
	return tx.Commit()
}

// Subtasks returns the direct children of parentID ordered by
// sort_order.
func (s *Store) Subtasks(parentID int64) ([]task.Task, error) {
	return s.ListTasks(task.Filter{ParentTaskID: &parentID})
}

// CountTasks returns the total number of tasks.
func (s *Store) CountTasks() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM tasks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count tasks: %w", err)
	}
	return n, nil
}

// UpdateSortOrders rewrites sort_order so that position in ids becomes
// the new order. Runs in a single transaction.
func (s *Store) UpdateSortOrders(ids []int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: begin reorder: %w", err)
	}
	defer tx.Rollback()

	now := stamp(timeNow())
	for i, id := range ids {
		res, err := tx.Exec(`UPDATE tasks SET sort_order = ?, updated_at = ? WHERE id = ?`, i, now, id)
		if err != nil {
			return fmt.Errorf("store: reorder task %d: %w", id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("store: rows affected: %w", err)
		}
		if n == 0 {
			return task.ErrTaskNotFound
		}
	}
	return tx.Commit()
}

func nullInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullStr(v string) any {
	if v == "" {
		return nil
	}
	return v
}
