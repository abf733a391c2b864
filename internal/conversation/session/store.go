package session

import (
	"sync"
	"time"
)

// Store is the process-wide call SID → Session registry. Creation is atomic
// with respect to concurrent first turns for the same SID, so the system
// turn is seeded exactly once. Sessions live until the gateway reports a
// terminal call status or the idle sweeper evicts them.
type Store struct {
	systemPrompt string

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore creates an empty registry seeding new sessions with systemPrompt.
func NewStore(systemPrompt string) *Store {
	return &Store{
		systemPrompt: systemPrompt,
		sessions:     make(map[string]*Session),
	}
}

// Resolve returns the session for callSID, creating it when absent.
// The second return value reports whether a new session was created.
func (st *Store) Resolve(callSID string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if existing, ok := st.sessions[callSID]; ok {
		return existing, false
	}

	created := newSession(callSID, st.systemPrompt, time.Now())
	st.sessions[callSID] = created
	return created, true
}

// Get returns the session for callSID if one exists.
func (st *Store) Get(callSID string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[callSID]
	return s, ok
}

// End removes and returns the session for callSID.
func (st *Store) End(callSID string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[callSID]
	if ok {
		delete(st.sessions, callSID)
	}
	return s, ok
}

// Sweep evicts sessions idle longer than maxIdle and returns how many were
// removed. A zero or negative maxIdle disables eviction.
func (st *Store) Sweep(maxIdle time.Duration) int {
	if maxIdle <= 0 {
		return 0
	}

	cutoff := time.Now().Add(-maxIdle)

	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for sid, s := range st.sessions {
		if s.LastActive().Before(cutoff) {
			delete(st.sessions, sid)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
