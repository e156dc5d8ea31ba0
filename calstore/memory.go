package calstore

import (
	"context"
	"sync"

	"github.com/callclerk/callclerk/calendar"
)

// MemoryStore is a volatile calendar.Store keeping meetings in a process
// local slice. It is safe for concurrent access and best suited for tests or
// ephemeral demo servers. List returns a defensive copy to prevent external
// mutation of internal state.
type MemoryStore struct {
	mu       sync.RWMutex
	meetings []calendar.Meeting
}

// NewMemoryStore constructs an empty in-memory meeting store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{meetings: []calendar.Meeting{}}
}

// List returns a snapshot of all meetings in insertion order.
func (s *MemoryStore) List(_ context.Context) ([]calendar.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]calendar.Meeting, len(s.meetings))
	copy(out, s.meetings)
	return out, nil
}

// Append adds a meeting to the end of the list.
func (s *MemoryStore) Append(_ context.Context, m calendar.Meeting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meetings = append(s.meetings, m)
	return nil
}
