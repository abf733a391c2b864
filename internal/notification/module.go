package notification

import (
	"context"

	"dialer_backend/internal/events"
	"dialer_backend/platform/config"
	"dialer_backend/platform/logger"
)

// Module emails operator-facing reports in response to domain events.
type Module struct {
	sender    Sender
	recipient string
	log       *logger.Logger
}

// NewModule constructs the notification module. It returns nil when email
// delivery is disabled, and all methods tolerate a nil receiver so callers
// do not need to branch.
func NewModule(cfg config.EmailConfig, log *logger.Logger) *Module {
	if !cfg.GetEmailEnabled() {
		log.Info("notification module disabled, dispatch reports will not be emailed")
		return nil
	}

	return &Module{
		sender: NewSMTPSender(
			cfg.GetSMTPHost(),
			cfg.GetSMTPPort(),
			cfg.GetSMTPUsername(),
			cfg.GetSMTPPassword(),
			cfg.GetEmailFromAddress(),
		),
		recipient: cfg.GetReportRecipient(),
		log:       log,
	}
}

// RegisterHandlers subscribes to the domain events this module reacts to.
func (m *Module) RegisterHandlers(bus events.Bus) {
	if m == nil {
		return
	}
	bus.Subscribe(events.DispatchCompleted{}.EventName(), m)
	bus.Subscribe(events.CallSessionEnded{}.EventName(), m)
	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.DispatchCompleted:
		return m.handleDispatchCompleted(ctx, e)
	case events.CallSessionEnded:
		m.log.Info("call session ended",
			"callSid", e.CallSID,
			"status", e.Status,
			"turns", e.Turns,
		)
		return nil
	default:
		return nil
	}
}

func (m *Module) handleDispatchCompleted(ctx context.Context, e events.DispatchCompleted) error {
	if m.recipient == "" {
		return nil
	}
	if err := m.sender.SendDispatchReport(ctx, m.recipient, e.Requested, e.Placed, e.Pages); err != nil {
		m.log.Error("failed to send dispatch report", "error", err)
		return err
	}
	m.log.Info("dispatch report sent", "recipient", m.recipient, "placed", e.Placed)
	return nil
}
