package notify

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestSink(t *testing.T) *Sink {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "notifications.json"))
}

func TestAppendAndEvents(t *testing.T) {
	s := newTestSink(t)

	// Missing file reads as empty, not as an error.
	events, err := s.Events()
	require.NoError(t, err)
	require.Empty(t, events)

	require.NoError(t, s.TaskTesting(7, "Fix login"))
	require.NoError(t, s.TaskCompleted(7, "Fix login"))
	require.NoError(t, s.TerminalTitle(2, "Fix login"))

	events, err = s.Events()
	require.NoError(t, err)
	require.Len(t, events, 3)

	testing1 := events[0]
	require.Equal(t, TypeTaskTesting, testing1.Type)
	require.NotEmpty(t, testing1.ID)
	require.False(t, testing1.Timestamp.IsZero())
	require.False(t, testing1.Processed)
	require.NotNil(t, testing1.TaskID)
	require.Equal(t, int64(7), *testing1.TaskID)
	require.Nil(t, testing1.TerminalID)

	title := events[2]
	require.Equal(t, TypeTerminalTitle, title.Type)
	require.Nil(t, title.TaskID)
	require.NotNil(t, title.TerminalID)
	require.Equal(t, int64(2), *title.TerminalID)

	// Every event carries a distinct dedup id.
	require.NotEqual(t, events[0].ID, events[1].ID)
	require.NotEqual(t, events[1].ID, events[2].ID)
}

func TestAppend_EvictsOldestBeyondCap(t *testing.T) {
	s := newTestSink(t)

	for i := 0; i < MaxEntries+5; i++ {
		require.NoError(t, s.TaskTesting(int64(i), "t"))
	}

	events, err := s.Events()
	require.NoError(t, err)
	require.Len(t, events, MaxEntries)

	// The oldest five were evicted; order is preserved.
	require.Equal(t, int64(5), *events[0].TaskID)
	require.Equal(t, int64(MaxEntries+4), *events[len(events)-1].TaskID)
}

func TestAppend_PreservesConsumerProcessedFlag(t *testing.T) {
	s := newTestSink(t)

	require.NoError(t, s.TaskTesting(1, "a"))

	// The desktop process marks entries processed in place.
	events, err := s.Events()
	require.NoError(t, err)
	events[0].Processed = true
	data, err := json.MarshalIndent(events, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(s.path, data, 0o644))

	require.NoError(t, s.TaskTesting(2, "b"))

	events, err = s.Events()
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.True(t, events[0].Processed)
	require.False(t, events[1].Processed)
}

func TestEvents_EmptyFile(t *testing.T) {
	s := newTestSink(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.path), 0o700))
	require.NoError(t, os.WriteFile(s.path, nil, 0o644))

	events, err := s.Events()
	require.NoError(t, err)
	require.Empty(t, events)
}

func TestEvents_CorruptFile(t *testing.T) {
	s := newTestSink(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.path), 0o700))
	require.NoError(t, os.WriteFile(s.path, []byte("{not json"), 0o644))

	_, err := s.Events()
	require.Error(t, err)
}

func TestAppend_NoTempFileLeftBehind(t *testing.T) {
	s := newTestSink(t)
	require.NoError(t, s.TaskTesting(1, "a"))

	_, err := os.Stat(s.path + ".tmp")
	require.True(t, os.IsNotExist(err))
}
