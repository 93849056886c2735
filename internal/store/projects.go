package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/arturogj92/codeagentswarm-tasks/internal/task"
)

// UpsertProject returns the existing project or creates it. A supplied
// color overrides the stored one; otherwise new projects receive the
// first palette color not yet in use.
func (s *Store) UpsertProject(name, color string) (task.Project, error) {
	if name == "" {
		return task.Project{}, task.ErrEmptyProjectName
	}

	existing, err := s.GetProject(name)
	switch {
	case err == nil:
		if color != "" && color != existing.Color {
			if _, err := s.db.Exec(`UPDATE projects SET color = ? WHERE name = ?`, color, name); err != nil {
				return task.Project{}, fmt.Errorf("store: update project color: %w", err)
			}
			existing.Color = color
		}
		return existing, nil
	case !errors.Is(err, task.ErrProjectNotFound):
		return task.Project{}, err
	}

	if color == "" {
		color, err = s.nextPaletteColor()
		if err != nil {
			return task.Project{}, err
		}
	}

	p := task.Project{
		Name:        name,
		DisplayName: name,
		Color:       color,
		CreatedAt:   timeNow().UTC(),
	}
	_, err = s.db.Exec(`
		INSERT INTO projects (name, display_name, color, path, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		p.Name, p.DisplayName, p.Color, p.Path, stamp(p.CreatedAt),
	)
	if err != nil {
		return task.Project{}, fmt.Errorf("store: create project %q: %w", name, err)
	}
	return p, nil
}

// nextPaletteColor picks the first palette entry not used by any
// project, cycling once the palette is exhausted.
func (s *Store) nextPaletteColor() (string, error) {
	rows, err := s.db.Query(`SELECT color FROM projects`)
	if err != nil {
		return "", fmt.Errorf("store: list project colors: %w", err)
	}
	defer rows.Close()

	used := make(map[string]bool)
	count := 0
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return "", fmt.Errorf("store: scan color: %w", err)
		}
		used[c] = true
		count++
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	for _, c := range palette {
		if !used[c] {
			return c, nil
		}
	}
	return palette[count%len(palette)], nil
}

// GetProject returns the project with the given name, or
// task.ErrProjectNotFound.
func (s *Store) GetProject(name string) (task.Project, error) {
	row := s.db.QueryRow(`
		SELECT name, display_name, color, path, created_at
		FROM projects WHERE name = ?`, name)

	var (
		p         task.Project
		createdAt string
	)
	err := row.Scan(&p.Name, &p.DisplayName, &p.Color, &p.Path, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return task.Project{}, task.ErrProjectNotFound
	}
	if err != nil {
		return task.Project{}, fmt.Errorf("store: get project %q: %w", name, err)
	}
	p.CreatedAt = parseStamp(createdAt)
	return p, nil
}

// ListProjects returns all projects ordered by name.
func (s *Store) ListProjects() ([]task.Project, error) {
	rows, err := s.db.Query(`
		SELECT name, display_name, color, path, created_at
		FROM projects ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("store: list projects: %w", err)
	}
	defer rows.Close()

	projects := []task.Project{}
	for rows.Next() {
		var (
			p         task.Project
			createdAt string
		)
		if err := rows.Scan(&p.Name, &p.DisplayName, &p.Color, &p.Path, &createdAt); err != nil {
			return nil, fmt.Errorf("store: scan project: %w", err)
		}
		p.CreatedAt = parseStamp(createdAt)
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// DeleteProject removes a project row. Tasks referencing the name are
// left untouched; project membership is a loose string tag.
func (s *Store) DeleteProject(name string) error {
	res, err := s.db.Exec(`DELETE FROM projects WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("store: delete project %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: rows affected: %w", err)
	}
	if n == 0 {
		return task.ErrProjectNotFound
	}
	return nil
}
