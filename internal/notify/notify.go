// Package notify implements the append-only notification sink consumed
// by the desktop process.
//
// The sink is a JSON array file capped at the most recent 50 entries.
// This side only appends and evicts; the consumer flips the processed
// flag. Delivery is at-least-once: duplicates are possible, so every
// event carries a UUID the consumer can use as a short-window dedup
// key (the same mitigation the webhook listener applies to OS events).
package notify

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MaxEntries is the sink capacity: appending beyond it evicts the
// oldest entries first.
const MaxEntries = 50

// Event types understood by the desktop process.
const (
	TypeTaskTesting   = "task_testing"
	TypeTaskCompleted = "task_completed"
	TypeTerminalTitle = "terminal_title"
)

// Event is one notification record.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	TaskID     *int64    `json:"task_id,omitempty"`
	TerminalID *int64    `json:"terminal_id,omitempty"`
	Title      string    `json:"title,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	Processed  bool      `json:"processed"`
}

// Sink is the single-writer file-backed event log.
type Sink struct {
	mu   sync.Mutex
	path string
	max  int
	now  func() time.Time
}

// New creates a Sink writing to path. The file is created lazily on
// first append.
func New(path string) *Sink {
	return &Sink{path: path, max: MaxEntries, now: time.Now}
}

// Append adds an event, filling in id, timestamp, and processed=false,
// and evicts the oldest entries beyond the cap. The write is atomic
// (temp file + rename) so the consumer never observes a torn file.
func (s *Sink) Append(e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.load()
	if err != nil {
		return err
	}

	e.ID = uuid.NewString()
	e.Timestamp = s.now().UTC()
	e.Processed = false
	events = append(events, e)

	if len(events) > s.max {
		events = events[len(events)-s.max:]
	}
	return s.write(events)
}

// Events returns the current sink contents, oldest first.
func (s *Sink) Events() ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Sink) load() ([]Event, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []Event{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("notify: read %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return []Event{}, nil
	}

	var events []Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("notify: decode %s: %w", s.path, err)
	}
	return events, nil
}

func (s *Sink) write(events []Event) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("notify: create dir: %w", err)
	}
	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("notify: encode: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("notify: write temp: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("notify: rename: %w", err)
	}
	return nil
}

// --- task.Notifier implementation ---

// TaskTesting records that a task entered the testing quarantine.
func (s *Sink) TaskTesting(taskID int64, title string) error {
	return s.Append(Event{Type: TypeTaskTesting, TaskID: &taskID, Title: title})
}

// TaskCompleted records a completed task.
func (s *Sink) TaskCompleted(taskID int64, title string) error {
	return s.Append(Event{Type: TypeTaskCompleted, TaskID: &taskID, Title: title})
}

// TerminalTitle records a terminal tab label hint for the UI.
func (s *Sink) TerminalTitle(terminalID int64, label string) error {
	return s.Append(Event{Type: TypeTerminalTitle, TerminalID: &terminalID, Title: label})
}
