// Package conversation provides the per-call dialogue engine bridging the
// telephony gateway and the chat completion service.
package conversation

import (
	"context"
	"strings"

	"dialer_backend/internal/conversation/session"
	"dialer_backend/platform/logger"
)

// FallbackUtterance is spoken whenever inference fails or returns nothing
// usable. The caller must never be left without a spoken response.
const FallbackUtterance = "Sorry, I'm having trouble understanding you."

// Completer produces the next assistant utterance for an ordered transcript.
type Completer interface {
	Complete(ctx context.Context, turns []session.Turn) (string, error)
}

// Engine owns turn handling: it resolves the call's session, appends the
// recognized speech, asks the completer for a reply, and always yields an
// utterance to speak.
type Engine struct {
	sessions *session.Store
	llm      Completer
	log      *logger.Logger
}

// NewEngine creates an engine over the given session store and completer.
func NewEngine(sessions *session.Store, llm Completer, log *logger.Logger) *Engine {
	return &Engine{
		sessions: sessions,
		llm:      llm,
		log:      log,
	}
}

// HandleTurn processes one telephony event for callSID. speech is empty on
// call start. The returned utterance is always non-empty; the dialogue never
// self-terminates from here, so the gateway should keep listening.
func (e *Engine) HandleTurn(ctx context.Context, callSID, speech string) string {
	sess, created := e.sessions.Resolve(callSID)
	log := e.log.WithCallSID(callSID)
	if created {
		log.Info("conversation started")
	}

	sess.Lock()
	defer sess.Unlock()

	if trimmed := strings.TrimSpace(speech); trimmed != "" {
		sess.AppendUser(trimmed)
	}

	reply, err := e.llm.Complete(ctx, sess.Snapshot())
	if err != nil {
		log.Error("inference failed, speaking fallback", "error", err)
		return FallbackUtterance
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		log.Warn("inference returned empty text, speaking fallback")
		return FallbackUtterance
	}

	sess.AppendAssistant(reply)
	return reply
}

// EndCall evicts the session for callSID and returns its final turn count.
// It reports false when no session was live for the SID.
func (e *Engine) EndCall(callSID string) (int, bool) {
	sess, ok := e.sessions.End(callSID)
	if !ok {
		return 0, false
	}

	sess.Lock()
	defer sess.Unlock()
	return sess.Len(), true
}

// ActiveSessions returns the number of live sessions.
func (e *Engine) ActiveSessions() int {
	return e.sessions.Len()
}
