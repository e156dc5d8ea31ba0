package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Turn is one utterance in a call: what the caller said or what the
// assistant answered.
type Turn struct {
	ID   string    `json:"id"`
	Role string    `json:"role"` // "user" or "assistant"
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// NewTurn creates a timestamped turn with a fresh id.
func NewTurn(role, text string) Turn {
	return Turn{ID: uuid.NewString(), Role: role, Text: text, At: time.Now().UTC()}
}

// Session tracks the conversation state of a single call, keyed by the
// telephony call identifier. It is safe for concurrent access.
//
// Contract:
//   - mutations update the Updated timestamp
//   - History returns a defensive copy to avoid external mutation
//   - Clone performs deep copies for safe divergence
type Session struct {
	ID      string    `json:"id"`
	Turns   []Turn    `json:"turns"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
	mu      sync.RWMutex
}

// NewSession creates a new session for the given call identifier.
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{ID: id, Turns: []Turn{}, Created: now, Updated: now}
}

// AddTurn appends a turn to the history updating the Updated timestamp.
func (s *Session) AddTurn(t Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Turns = append(s.Turns, t)
	s.Updated = time.Now()
}

// History returns a defensive copy of the full turn list.
func (s *Session) History() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	turns := make([]Turn, len(s.Turns))
	copy(turns, s.Turns)
	return turns
}

// IdleSince reports the time of the last mutation.
func (s *Session) IdleSince() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Updated
}

// Clone returns a deep copy of the session safe for independent mutation.
func (s *Session) Clone() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clone := &Session{ID: s.ID, Turns: make([]Turn, len(s.Turns)), Created: s.Created, Updated: s.Updated}
	copy(clone.Turns, s.Turns)
	return clone
}

// Store tracks per-call conversation sessions. Sessions are created lazily on
// first use and evicted by the implementation's lifecycle policy.
type Store interface {
	// Get returns the session for the call id, creating it if absent.
	Get(callID string) (*Session, error)

	// Append adds a turn to the call's session, creating it if absent.
	Append(callID string, t Turn) error

	// History returns a copy of the call's conversation so far.
	History(callID string) ([]Turn, error)
}
