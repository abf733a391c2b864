package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apphttp "dialer_backend/internal/http"
	"dialer_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

type routerSettings struct{}

func (routerSettings) GetHTTPAddr() string         { return ":0" }
func (routerSettings) GetCORSAllowAll() bool       { return false }
func (routerSettings) GetCORSOrigins() []string    { return []string{"http://localhost:4200"} }
func (routerSettings) GetCORSAllowCreds() bool     { return true }
func (routerSettings) GetJWTAccessSecret() string  { return "secret" }

type staticHealth struct {
	err error
}

func (h staticHealth) Ping(context.Context) error { return h.err }

type pingModule struct{}

func (pingModule) Name() string { return "ping" }

func (pingModule) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	ctx.Protected.GET("/secure", func(c *gin.Context) { c.Status(http.StatusOK) })
}

func newApp(health apphttp.HealthChecker) *apphttp.App {
	gin.SetMode(gin.TestMode)
	return &apphttp.App{
		Config:  routerSettings{},
		Logger:  logger.New("development"),
		Health:  health,
		Modules: []apphttp.Module{pingModule{}},
	}
}

func TestHealth_OK(t *testing.T) {
	engine := New(newApp(staticHealth{}))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestHealth_DegradedWhenPingFails(t *testing.T) {
	engine := New(newApp(staticHealth{err: errors.New("db down")}))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestModuleRoutes_PublicAndProtected(t *testing.T) {
	engine := New(newApp(staticHealth{}))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected public route to pass, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/secure", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected protected route to require auth, got %d", w.Code)
	}
}
