package session

import (
	"sync"
	"time"
)

// InMemoryStoreOptions configure the in-memory session store lifecycle.
type InMemoryStoreOptions struct {
	// IdleTimeout is how long a session may go untouched before the
	// janitor evicts it. Zero disables eviction.
	IdleTimeout time.Duration

	// SweepInterval is how often the janitor scans for idle sessions.
	// Defaults to one minute when IdleTimeout is set.
	SweepInterval time.Duration
}

// InMemoryStore is a process local Store implementation keeping sessions in a
// map keyed by call id. It is safe for concurrent access. Each returned
// session is cloned to prevent external mutation of internal state.
//
// Unlike a bare process-wide map, the store has an explicit lifecycle:
// sessions are created on first turn and evicted once idle longer than the
// configured timeout, so memory does not grow with every call ever answered.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	idleTimeout time.Duration
	stop        chan struct{}
	stopOnce    sync.Once
}

// NewInMemoryStore constructs an in-memory session store and, when an idle
// timeout is configured, starts the eviction janitor. Call Close to stop it.
func NewInMemoryStore(optFns ...func(o *InMemoryStoreOptions)) *InMemoryStore {
	opts := InMemoryStoreOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	s := &InMemoryStore{
		sessions:    make(map[string]*Session),
		idleTimeout: opts.IdleTimeout,
		stop:        make(chan struct{}),
	}
	if opts.IdleTimeout > 0 {
		interval := opts.SweepInterval
		if interval <= 0 {
			interval = time.Minute
		}
		go s.janitor(interval)
	}
	return s
}

// Get returns a clone of the session for the call id, creating it lazily.
func (s *InMemoryStore) Get(callID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateLocked(callID).Clone(), nil
}

// Append adds a turn to an existing or newly created session.
func (s *InMemoryStore) Append(callID string, t Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getOrCreateLocked(callID).AddTurn(t)
	return nil
}

// History returns a copy of the call's conversation so far.
func (s *InMemoryStore) History(callID string) ([]Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[callID]
	if !ok {
		return []Turn{}, nil
	}
	return sess.History(), nil
}

// Active returns clones of all live sessions, for the read-only HTTP surface.
func (s *InMemoryStore) Active() []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess.Clone())
	}
	return out
}

// Evict removes a session, reporting whether it existed.
func (s *InMemoryStore) Evict(callID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[callID]
	delete(s.sessions, callID)
	return ok
}

// Len reports the number of live sessions.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close stops the eviction janitor. Safe to call more than once.
func (s *InMemoryStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// getOrCreateLocked allocates and stores a new session; caller must hold the
// write lock.
func (s *InMemoryStore) getOrCreateLocked(callID string) *Session {
	sess, ok := s.sessions[callID]
	if !ok {
		sess = NewSession(callID)
		s.sessions[callID] = sess
	}
	return sess
}

func (s *InMemoryStore) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep(time.Now())
		}
	}
}

// sweep evicts sessions idle longer than the timeout.
func (s *InMemoryStore) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		if now.Sub(sess.IdleSince()) > s.idleTimeout {
			delete(s.sessions, id)
		}
	}
}
