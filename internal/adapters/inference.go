// Package adapters contains anti-corruption adapters that bridge bounded
// contexts without introducing direct dependencies between them.
package adapters

import (
	"context"

	"dialer_backend/internal/conversation/session"
	"dialer_backend/internal/inference"
)

// InferenceCompleter adapts the chat completion client to the conversation
// engine's Completer port.
type InferenceCompleter struct {
	client *inference.Client
}

// NewInferenceCompleter wraps the given inference client.
func NewInferenceCompleter(client *inference.Client) *InferenceCompleter {
	return &InferenceCompleter{client: client}
}

// Complete maps the session transcript onto the wire message format and
// requests the next assistant utterance.
func (a *InferenceCompleter) Complete(ctx context.Context, turns []session.Turn) (string, error) {
	messages := make([]inference.Message, 0, len(turns))
	for _, t := range turns {
		messages = append(messages, inference.Message{
			Role:    string(t.Role),
			Content: t.Content,
		})
	}
	return a.client.Complete(ctx, messages)
}
