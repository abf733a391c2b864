package twiml

import (
	"strings"
	"testing"
)

func TestGatherSpeech_RendersDocument(t *testing.T) {
	body, err := GatherSpeech("Hello there", "/api/v1/voice/webhook", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc := string(body)
	if !strings.HasPrefix(doc, "<?xml") {
		t.Fatalf("expected XML declaration prefix, got %q", doc)
	}

	for _, want := range []string{
		`<Gather input="speech" action="/api/v1/voice/webhook" method="POST">`,
		`<Say voice="Polly.Matthew">Hello there</Say>`,
		"</Gather></Response>",
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("expected document to contain %q, got:\n%s", want, doc)
		}
	}
}

func TestGatherSpeech_CustomVoice(t *testing.T) {
	body, err := GatherSpeech("Hoi", "/cb", "Polly.Lotte")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(body), `voice="Polly.Lotte"`) {
		t.Fatalf("expected custom voice attribute, got:\n%s", body)
	}
}

func TestGatherSpeech_EscapesUtterance(t *testing.T) {
	body, err := GatherSpeech(`Offers <above> $100k & "fair"`, "/cb", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc := string(body)
	if strings.Contains(doc, "<above>") {
		t.Fatalf("expected angle brackets to be escaped, got:\n%s", doc)
	}
	if !strings.Contains(doc, "&lt;above&gt;") || !strings.Contains(doc, "&amp;") {
		t.Fatalf("expected escaped entities in document, got:\n%s", doc)
	}
}
