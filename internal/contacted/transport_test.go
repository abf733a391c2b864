package contacted

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestToLeadResponse(t *testing.T) {
	id := uuid.New()
	callTime := time.Date(2026, 8, 12, 15, 4, 0, 0, time.UTC)

	lead := Lead{
		ID:       id,
		Phone:    "+14155550100",
		Address:  "12 Main St",
		CallTime: callTime,
		Tags:     []string{"Follow Up Needed"},
		Status:   StatusNotContacted,
		Summary:  "",
		Transcript: []TranscriptTurn{
			{Role: "assistant", Content: "Hello"},
			{Role: "user", Content: "Hi"},
		},
	}

	resp := toLeadResponse(lead)
	if resp.ID != id.String() {
		t.Fatalf("expected id %q, got %q", id.String(), resp.ID)
	}
	if resp.Phone != lead.Phone || resp.Address != lead.Address {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if !resp.CallTime.Equal(callTime) {
		t.Fatalf("expected call time %v, got %v", callTime, resp.CallTime)
	}
	if resp.Status != StatusNotContacted {
		t.Fatalf("expected status %q, got %q", StatusNotContacted, resp.Status)
	}
	if len(resp.Transcript) != 2 || resp.Transcript[0].Content != "Hello" {
		t.Fatalf("unexpected transcript: %+v", resp.Transcript)
	}
}
