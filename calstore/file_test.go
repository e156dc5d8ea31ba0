package calstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_BootstrapsEmptyStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meetings.json")

	s, err := OpenFile(path)
	require.NoError(t, err)

	meetings, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, meetings)

	// The empty store is persisted as a JSON array immediately.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw []json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Empty(t, raw)
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meetings.json")
	ctx := context.Background()

	s, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, s.Append(ctx, testMeeting("first", 9)))
	require.NoError(t, s.Append(ctx, testMeeting("second", 11)))

	// Reloading yields an identical ordered sequence.
	reloaded, err := OpenFile(path)
	require.NoError(t, err)
	meetings, err := reloaded.List(ctx)
	require.NoError(t, err)
	require.Len(t, meetings, 2)
	assert.Equal(t, "first", meetings[0].Summary)
	assert.Equal(t, "second", meetings[1].Summary)
	assert.True(t, meetings[0].Start.Equal(time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)))
	assert.NotNil(t, meetings[1].Attendees)
}

func TestFileStore_PersistedShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meetings.json")
	ctx := context.Background()

	s, err := OpenFile(path)
	require.NoError(t, err)
	m := testMeeting("sync", 10)
	m.Attendees = []string{"alice@example.com"}
	require.NoError(t, s.Append(ctx, m))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	for _, key := range []string{"summary", "start", "end", "attendees"} {
		assert.Contains(t, raw[0], key)
	}
}

func TestFileStore_RejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meetings.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := OpenFile(path)
	assert.Error(t, err)
}

func TestFileStore_RequiresPath(t *testing.T) {
	_, err := OpenFile("")
	assert.Error(t, err)
}
