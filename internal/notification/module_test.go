package notification

import (
	"context"
	"errors"
	"testing"

	"dialer_backend/internal/events"
	"dialer_backend/platform/logger"
)

type emailSettings struct {
	enabled   bool
	recipient string
}

func (s emailSettings) GetEmailEnabled() bool       { return s.enabled }
func (s emailSettings) GetSMTPHost() string         { return "smtp.example.com" }
func (s emailSettings) GetSMTPPort() int            { return 587 }
func (s emailSettings) GetSMTPUsername() string     { return "mailer" }
func (s emailSettings) GetSMTPPassword() string     { return "secret" }
func (s emailSettings) GetEmailFromAddress() string { return "dialer@example.com" }
func (s emailSettings) GetReportRecipient() string  { return s.recipient }

type recordingSender struct {
	err error

	sent      int
	recipient string
	placed    int
}

func (r *recordingSender) SendDispatchReport(_ context.Context, toEmail string, _, placed, _ int) error {
	r.sent++
	r.recipient = toEmail
	r.placed = placed
	return r.err
}

func TestNewModule_DisabledReturnsNil(t *testing.T) {
	m := NewModule(emailSettings{enabled: false}, logger.New("development"))
	if m != nil {
		t.Fatalf("expected nil module when email is disabled")
	}

	// Nil receivers must be safe to wire.
	m.RegisterHandlers(events.NewInMemoryBus(logger.New("development")))
}

func TestHandle_DispatchCompletedSendsReport(t *testing.T) {
	sender := &recordingSender{}
	m := &Module{sender: sender, recipient: "ops@example.com", log: logger.New("development")}

	err := m.Handle(context.Background(), events.DispatchCompleted{
		BaseEvent: events.NewBaseEvent(),
		Requested: 3,
		Placed:    2,
		Pages:     1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sender.sent != 1 {
		t.Fatalf("expected 1 report sent, got %d", sender.sent)
	}
	if sender.recipient != "ops@example.com" || sender.placed != 2 {
		t.Fatalf("unexpected report: recipient %q placed %d", sender.recipient, sender.placed)
	}
}

func TestHandle_NoRecipientSkipsSend(t *testing.T) {
	sender := &recordingSender{}
	m := &Module{sender: sender, log: logger.New("development")}

	if err := m.Handle(context.Background(), events.DispatchCompleted{BaseEvent: events.NewBaseEvent()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sender.sent != 0 {
		t.Fatalf("expected no send without a recipient")
	}
}

func TestHandle_SendFailurePropagates(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	m := &Module{sender: sender, recipient: "ops@example.com", log: logger.New("development")}

	if err := m.Handle(context.Background(), events.DispatchCompleted{BaseEvent: events.NewBaseEvent()}); err == nil {
		t.Fatalf("expected send failure to propagate")
	}
}

func TestHandle_CallSessionEndedIsLoggedOnly(t *testing.T) {
	sender := &recordingSender{}
	m := &Module{sender: sender, recipient: "ops@example.com", log: logger.New("development")}

	err := m.Handle(context.Background(), events.CallSessionEnded{
		BaseEvent: events.NewBaseEvent(),
		CallSID:   "CA1",
		Status:    "completed",
		Turns:     5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sender.sent != 0 {
		t.Fatalf("expected no email for call end events")
	}
}

func TestRegisterHandlers_DeliversViaBus(t *testing.T) {
	sender := &recordingSender{}
	m := &Module{sender: sender, recipient: "ops@example.com", log: logger.New("development")}

	bus := events.NewInMemoryBus(logger.New("development"))
	m.RegisterHandlers(bus)

	if err := bus.PublishSync(context.Background(), events.DispatchCompleted{
		BaseEvent: events.NewBaseEvent(),
		Placed:    1,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sender.sent != 1 {
		t.Fatalf("expected subscribed handler to receive the event, got %d sends", sender.sent)
	}
}
