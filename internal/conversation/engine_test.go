package conversation

import (
	"context"
	"errors"
	"testing"

	"dialer_backend/internal/conversation/session"
	"dialer_backend/platform/logger"
)

type stubCompleter struct {
	reply string
	err   error

	calls      int
	lastPrompt []session.Turn
}

func (s *stubCompleter) Complete(_ context.Context, turns []session.Turn) (string, error) {
	s.calls++
	s.lastPrompt = turns
	return s.reply, s.err
}

func newTestEngine(llm Completer) *Engine {
	return NewEngine(session.NewStore("system prompt"), llm, logger.New("development"))
}

func TestHandleTurn_AppendsSpeechAndReply(t *testing.T) {
	llm := &stubCompleter{reply: "Hello! Are you open to a cash offer?"}
	eng := newTestEngine(llm)

	got := eng.HandleTurn(context.Background(), "CA1", "I'd like to sell my house")
	if got != llm.reply {
		t.Fatalf("expected completer reply, got %q", got)
	}

	if len(llm.lastPrompt) != 2 {
		t.Fatalf("expected system + user turns in prompt, got %d", len(llm.lastPrompt))
	}
	if llm.lastPrompt[1].Role != session.RoleUser || llm.lastPrompt[1].Content != "I'd like to sell my house" {
		t.Fatalf("unexpected user turn: %+v", llm.lastPrompt[1])
	}

	turns, ok := eng.EndCall("CA1")
	if !ok {
		t.Fatalf("expected a live session for CA1")
	}
	if turns != 3 {
		t.Fatalf("expected 3 turns (system, user, assistant), got %d", turns)
	}
}

func TestHandleTurn_EmptySpeechSkipsUserTurn(t *testing.T) {
	llm := &stubCompleter{reply: "Hi, who am I speaking with?"}
	eng := newTestEngine(llm)

	eng.HandleTurn(context.Background(), "CA1", "")

	if len(llm.lastPrompt) != 1 {
		t.Fatalf("expected only the system turn on call start, got %d turns", len(llm.lastPrompt))
	}

	eng.HandleTurn(context.Background(), "CA1", "   \t ")
	if len(llm.lastPrompt) != 2 {
		t.Fatalf("expected whitespace speech to be skipped, prompt had %d turns", len(llm.lastPrompt))
	}
}

func TestHandleTurn_FallbackOnCompleterError(t *testing.T) {
	llm := &stubCompleter{err: errors.New("upstream timeout")}
	eng := newTestEngine(llm)

	got := eng.HandleTurn(context.Background(), "CA1", "hello?")
	if got != FallbackUtterance {
		t.Fatalf("expected fallback utterance, got %q", got)
	}

	// The failed reply must not pollute the transcript.
	turns, _ := eng.EndCall("CA1")
	if turns != 2 {
		t.Fatalf("expected only system + user turns after failure, got %d", turns)
	}
}

func TestHandleTurn_FallbackOnBlankReply(t *testing.T) {
	llm := &stubCompleter{reply: "   "}
	eng := newTestEngine(llm)

	got := eng.HandleTurn(context.Background(), "CA1", "hello?")
	if got != FallbackUtterance {
		t.Fatalf("expected fallback utterance for blank reply, got %q", got)
	}

	turns, _ := eng.EndCall("CA1")
	if turns != 2 {
		t.Fatalf("expected no assistant turn after blank reply, got %d turns", turns)
	}
}

func TestHandleTurn_TranscriptGrowsAcrossTurns(t *testing.T) {
	llm := &stubCompleter{reply: "ok"}
	eng := newTestEngine(llm)

	prev := 0
	for i := 0; i < 4; i++ {
		eng.HandleTurn(context.Background(), "CA1", "more input")
		if len(llm.lastPrompt) <= prev {
			t.Fatalf("expected transcript to grow, prompt went from %d to %d turns", prev, len(llm.lastPrompt))
		}
		prev = len(llm.lastPrompt)
	}
}

func TestEndCall_UnknownSID(t *testing.T) {
	eng := newTestEngine(&stubCompleter{reply: "ok"})

	if _, ok := eng.EndCall("CA-missing"); ok {
		t.Fatalf("expected no session for unknown SID")
	}
}

func TestActiveSessions(t *testing.T) {
	eng := newTestEngine(&stubCompleter{reply: "ok"})

	eng.HandleTurn(context.Background(), "CA1", "")
	eng.HandleTurn(context.Background(), "CA2", "")
	if got := eng.ActiveSessions(); got != 2 {
		t.Fatalf("expected 2 active sessions, got %d", got)
	}

	eng.EndCall("CA1")
	if got := eng.ActiveSessions(); got != 1 {
		t.Fatalf("expected 1 active session after EndCall, got %d", got)
	}
}
