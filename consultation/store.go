package consultation

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Christ-Poyah/e-sante-ENTREPRISE/metrics"
)

// ErrSessionNotFound is returned when a session id is unknown or expired.
var ErrSessionNotFound = errors.New("session not found")

// Store holds the open consultation sessions in memory. Sessions expire
// after the idle TTL; the scheduler drives Sweep periodically.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	lastSeen map[uuid.UUID]time.Time
	ttl      time.Duration
	clock    func() time.Time
}

// NewStore creates a session store with the given idle TTL.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[uuid.UUID]*Session),
		lastSeen: make(map[uuid.UUID]time.Time),
		ttl:      ttl,
		clock:    time.Now,
	}
}

// Put registers a new session.
func (st *Store) Put(s *Session) {
	st.mu.Lock()
	st.sessions[s.ID()] = s
	st.lastSeen[s.ID()] = st.clock()
	metrics.ActiveSessions.Set(float64(len(st.sessions)))
	st.mu.Unlock()
}

// Get returns a session and refreshes its idle timer.
func (st *Store) Get(id uuid.UUID) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	st.lastSeen[id] = st.clock()
	return s, nil
}

// Delete removes a session explicitly.
func (st *Store) Delete(id uuid.UUID) {
	st.mu.Lock()
	delete(st.sessions, id)
	delete(st.lastSeen, id)
	metrics.ActiveSessions.Set(float64(len(st.sessions)))
	st.mu.Unlock()
}

// Len returns the number of open sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep removes sessions idle past the TTL and returns how many were
// removed. Implements interfaces.SessionSweeper.
func (st *Store) Sweep() int {
	st.mu.Lock()
	defer st.mu.Unlock()

	cutoff := st.clock().Add(-st.ttl)
	removed := 0
	for id, seen := range st.lastSeen {
		if seen.Before(cutoff) {
			delete(st.sessions, id)
			delete(st.lastSeen, id)
			removed++
		}
	}
	metrics.ActiveSessions.Set(float64(len(st.sessions)))
	return removed
}
