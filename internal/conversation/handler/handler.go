// Package handler exposes the voice webhook endpoints the telephony gateway
// posts call events to.
package handler

import (
	"context"
	"net/http"

	"dialer_backend/internal/conversation/twiml"
	"dialer_backend/internal/events"
	"dialer_backend/platform/httpkit"
	"dialer_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// Terminal call statuses after which the gateway sends no further turns.
var terminalStatuses = map[string]bool{
	"completed": true,
	"busy":      true,
	"failed":    true,
	"no-answer": true,
	"canceled":  true,
}

// Dialogue runs one conversation turn and ends calls. It is satisfied by
// the conversation engine.
type Dialogue interface {
	HandleTurn(ctx context.Context, callSID, speech string) string
	EndCall(callSID string) (int, bool)
}

// Handler serves the per-turn webhook and the call status callback.
type Handler struct {
	engine        Dialogue
	bus           events.Bus
	log           *logger.Logger
	webhookAction string
}

// New creates the voice webhook handler. webhookAction is the absolute or
// relative URL the gateway posts the next turn to.
func New(engine Dialogue, bus events.Bus, log *logger.Logger, webhookAction string) *Handler {
	return &Handler{
		engine:        engine,
		bus:           bus,
		log:           log,
		webhookAction: webhookAction,
	}
}

// HandleTurn handles POST /api/v1/voice/webhook.
// The gateway sends form fields CallSid and, after the first turn,
// SpeechResult with the recognized speech.
func (h *Handler) HandleTurn(c *gin.Context) {
	callSID := c.PostForm("CallSid")
	if callSID == "" {
		httpkit.Error(c, http.StatusBadRequest, "CallSid is required", nil)
		return
	}

	speech := c.PostForm("SpeechResult")
	say := h.engine.HandleTurn(c.Request.Context(), callSID, speech)

	body, err := twiml.GatherSpeech(say, h.webhookAction, twiml.DefaultVoice)
	if err != nil {
		h.log.WithCallSID(callSID).Error("failed to render voice response", "error", err)
		httpkit.Error(c, http.StatusInternalServerError, "failed to render voice response", nil)
		return
	}

	c.Data(http.StatusOK, "text/xml", body)
}

// HandleStatus handles POST /api/v1/voice/status.
// On a terminal call status the session is evicted; the transcript is gone
// with it, which is acceptable for this short-lived in-memory design.
func (h *Handler) HandleStatus(c *gin.Context) {
	callSID := c.PostForm("CallSid")
	if callSID == "" {
		httpkit.Error(c, http.StatusBadRequest, "CallSid is required", nil)
		return
	}

	status := c.PostForm("CallStatus")
	if !terminalStatuses[status] {
		c.Status(http.StatusNoContent)
		return
	}

	turns, ok := h.engine.EndCall(callSID)
	if ok {
		h.log.WithCallSID(callSID).Info("conversation ended", "status", status, "turns", turns)
		h.bus.Publish(c.Request.Context(), events.CallSessionEnded{
			BaseEvent: events.NewBaseEvent(),
			CallSID:   callSID,
			Status:    status,
			Turns:     turns,
		})
	}

	c.Status(http.StatusNoContent)
}
