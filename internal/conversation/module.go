// Package conversation provides the per-call dialogue bounded context module.
// This file defines the module that encapsulates engine setup and route
// registration.
package conversation

import (
	"context"
	"strings"
	"time"

	"dialer_backend/internal/conversation/handler"
	"dialer_backend/internal/conversation/session"
	"dialer_backend/internal/events"
	apphttp "dialer_backend/internal/http"
	"dialer_backend/platform/config"
	"dialer_backend/platform/logger"
)

// WebhookPath is where the telephony gateway posts per-turn events.
const WebhookPath = "/api/v1/voice/webhook"

// StatusPath is where the gateway posts call status callbacks.
const StatusPath = "/api/v1/voice/status"

const sweepInterval = 5 * time.Minute

// ModuleConfig combines the config interfaces the module needs.
type ModuleConfig interface {
	config.ConversationConfig
	config.TelephonyConfig
}

// Module is the conversation bounded context module implementing http.Module.
type Module struct {
	engine  *Engine
	handler *handler.Handler
	store   *session.Store
	idleTTL time.Duration
	log     *logger.Logger
}

// NewModule creates and initializes the conversation module.
func NewModule(cfg ModuleConfig, llm Completer, bus events.Bus, log *logger.Logger) *Module {
	store := session.NewStore(cfg.GetSystemPrompt())
	engine := NewEngine(store, llm, log)

	h := handler.New(engine, bus, log, webhookAction(cfg))

	return &Module{
		engine:  engine,
		handler: h,
		store:   store,
		idleTTL: cfg.GetSessionIdleTTL(),
		log:     log,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "conversation"
}

// Engine returns the dialogue engine for external use.
func (m *Module) Engine() *Engine {
	return m.engine
}

// RegisterRoutes mounts the voice webhook routes. They are public: the
// telephony gateway cannot present operator JWTs.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	voice := ctx.V1.Group("/voice")
	voice.POST("/webhook", m.handler.HandleTurn)
	voice.POST("/status", m.handler.HandleStatus)
}

// Run sweeps idle sessions until ctx is cancelled. Calls for which the
// gateway never delivers a terminal status are evicted after the idle TTL.
func (m *Module) Run(ctx context.Context) {
	if m.idleTTL <= 0 {
		return
	}

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := m.store.Sweep(m.idleTTL); removed > 0 {
				m.log.Info("idle conversations evicted", "count", removed)
			}
		}
	}
}

// webhookAction resolves the action URL for the next-turn gather. An absolute
// URL is required for calls the dispatcher places; fall back to a relative
// path when no callback base is configured (local testing).
func webhookAction(cfg ModuleConfig) string {
	base := strings.TrimRight(cfg.GetVoiceCallbackBaseURL(), "/")
	if base == "" {
		return WebhookPath
	}
	return base + WebhookPath
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
