// Package session owns per-call conversation state: role-tagged transcripts
// keyed by the telephony gateway's call SID.
package session

import (
	"sync"
	"sync/atomic"
	"time"
)

// Role tags a transcript turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one role-tagged utterance in a conversation transcript.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Session is the transcript for one active call. The first turn is always
// the system turn seeded at creation; turns are append-only after that.
type Session struct {
	CallSID   string
	CreatedAt time.Time

	mu         sync.Mutex
	turns      []Turn
	lastActive atomic.Int64
}

func newSession(callSID, systemPrompt string, now time.Time) *Session {
	s := &Session{
		CallSID:   callSID,
		CreatedAt: now,
		turns:     []Turn{{Role: RoleSystem, Content: systemPrompt}},
	}
	s.lastActive.Store(now.UnixNano())
	return s
}

// Lock acquires the per-session turn lock. A conversational turn holds it
// from transcript read through append so concurrent deliveries for the
// same call cannot interleave their appends.
func (s *Session) Lock() {
	s.mu.Lock()
}

// Unlock releases the per-session turn lock.
func (s *Session) Unlock() {
	s.mu.Unlock()
}

// AppendUser appends a user turn. Callers must hold the session lock.
func (s *Session) AppendUser(content string) {
	s.turns = append(s.turns, Turn{Role: RoleUser, Content: content})
	s.touch()
}

// AppendAssistant appends an assistant turn. Callers must hold the session lock.
func (s *Session) AppendAssistant(content string) {
	s.turns = append(s.turns, Turn{Role: RoleAssistant, Content: content})
	s.touch()
}

// Snapshot returns a copy of the transcript. Callers must hold the session lock.
func (s *Session) Snapshot() []Turn {
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Len returns the number of turns. Callers must hold the session lock.
func (s *Session) Len() int {
	return len(s.turns)
}

// LastActive reports when the session last saw a turn.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

func (s *Session) touch() {
	s.lastActive.Store(time.Now().UnixNano())
}
