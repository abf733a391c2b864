// Package dispatch provides the lead sync bounded context module.
// This file defines the module that encapsulates dispatcher setup and route
// registration.
package dispatch

import (
	"dialer_backend/internal/events"
	apphttp "dialer_backend/internal/http"
	"dialer_backend/platform/config"
	"dialer_backend/platform/logger"
	"dialer_backend/platform/validator"
)

// Module is the dispatch bounded context module implementing http.Module.
type Module struct {
	service *Service
	handler *Handler
}

// NewModule creates and initializes the dispatch module with its injected
// collaborators.
func NewModule(source LeadSource, placer CallPlacer, store LeadStore, bus events.Bus, val *validator.Validator, cfg config.DispatchConfig, log *logger.Logger) *Module {
	svc := NewService(source, placer, store, bus, cfg, log)
	return &Module{
		service: svc,
		handler: NewHandler(svc, store, val),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "dispatch"
}

// Service returns the dispatcher for the scheduler worker.
func (m *Module) Service() *Service {
	return m.service
}

// RegisterRoutes mounts dispatch routes; both trigger and logging require
// operator auth, and the trigger carries the stricter dispatch rate limit.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.POST("/dispatch", ctx.DispatchRateLimiter.RateLimit(), m.handler.HandleSync)
	ctx.Protected.POST("/leads/log", m.handler.HandleLogLead)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
