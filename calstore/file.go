package calstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/callclerk/callclerk/calendar"
)

// FileStore persists the meeting list as a single JSON array on disk.
//
// Semantics:
//   - the full file is loaded once at Open
//   - every Append rewrites the whole array before returning (write-through)
//   - writes go through a temp file + rename so a crash never leaves a
//     truncated store behind
//
// A mutex serializes read-modify-write cycles within the process. Across
// processes the file is last-writer-wins; deployments sharing one calendar
// between processes should use the sqlite backend instead.
type FileStore struct {
	mu       sync.Mutex
	path     string
	meetings []calendar.Meeting
}

// OpenFile loads the store at path, creating and persisting an empty one if
// no file exists yet.
func OpenFile(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("meeting store path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	s := &FileStore{path: path, meetings: []calendar.Meeting{}}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := s.persistLocked(); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read meeting store: %w", err)
	}
	if err := json.Unmarshal(data, &s.meetings); err != nil {
		return nil, fmt.Errorf("decode meeting store %s: %w", path, err)
	}
	if s.meetings == nil {
		s.meetings = []calendar.Meeting{}
	}
	return s, nil
}

// List returns a snapshot of all meetings in insertion order.
func (s *FileStore) List(_ context.Context) ([]calendar.Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]calendar.Meeting, len(s.meetings))
	copy(out, s.meetings)
	return out, nil
}

// Append adds a meeting and flushes the full store to disk before returning.
func (s *FileStore) Append(_ context.Context, m calendar.Meeting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meetings = append(s.meetings, m)
	if err := s.persistLocked(); err != nil {
		// Keep memory and disk consistent on failure.
		s.meetings = s.meetings[:len(s.meetings)-1]
		return err
	}
	return nil
}

// persistLocked writes the array atomically; caller must hold the mutex.
func (s *FileStore) persistLocked() error {
	data, err := json.MarshalIndent(s.meetings, "", "  ")
	if err != nil {
		return fmt.Errorf("encode meeting store: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write meeting store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace meeting store: %w", err)
	}
	return nil
}
