package contacted

import (
	apphttp "dialer_backend/internal/http"
	"dialer_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the contacted-leads bounded context module implementing http.Module.
type Module struct {
	repo    *Repository
	handler *Handler
}

// NewModule creates and initializes the contacted-leads module.
func NewModule(pool *pgxpool.Pool, log *logger.Logger) *Module {
	repo := New(pool)
	return &Module{
		repo:    repo,
		handler: NewHandler(repo, log),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "contacted"
}

// Repository returns the lead store for the dispatcher.
func (m *Module) Repository() *Repository {
	return m.repo
}

// RegisterRoutes mounts the operator listing route.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/contacted", m.handler.HandleList)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
