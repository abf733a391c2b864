package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dialer_backend/internal/adapters"
	"dialer_backend/internal/contacted"
	"dialer_backend/internal/conversation"
	"dialer_backend/internal/dispatch"
	"dialer_backend/internal/events"
	apphttp "dialer_backend/internal/http"
	"dialer_backend/internal/http/router"
	"dialer_backend/internal/inference"
	"dialer_backend/internal/leadsource"
	"dialer_backend/internal/notification"
	"dialer_backend/internal/scheduler"
	"dialer_backend/internal/telephony"
	"dialer_backend/platform/config"
	"dialer_backend/platform/db"
	"dialer_backend/platform/logger"
	"dialer_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.NewModule(cfg, log)
	notificationModule.RegisterHandlers(eventBus)

	inferenceClient := inference.NewClient(cfg)
	completer := adapters.NewInferenceCompleter(inferenceClient)
	conversationModule := conversation.NewModule(cfg, completer, eventBus, log)

	contactedModule := contacted.NewModule(pool, log)

	var leadSource dispatch.LeadSource
	if c := leadsource.NewClient(cfg); c != nil {
		leadSource = c
	} else {
		log.Warn("lead source not configured; dispatch passes will fail until DEALMACHINE_API_KEY is set")
	}
	callPlacer := telephony.NewClient(cfg, log)
	if callPlacer == nil {
		log.Warn("telephony not configured; calls will not be placed")
	}

	dispatchModule := dispatch.NewModule(leadSource, callPlacer, contactedModule.Repository(), eventBus, val, cfg, log)

	// Seed the recurring dispatch pass when Redis and an interval are configured.
	if cfg.GetRedisURL() != "" && cfg.GetDispatchInterval() > 0 {
		passClient, err := scheduler.NewClient(cfg)
		if err != nil {
			log.Error("failed to initialize dispatch scheduler client", "error", err)
		} else {
			defer func() {
				_ = passClient.Close()
			}()
			payload := scheduler.DispatchPassPayload{MaxCalls: cfg.DispatchDefaultLimit}
			runAt := scheduler.NextPassTime(time.Now(), cfg.GetDispatchInterval())
			if err := passClient.ScheduleDispatchPass(ctx, payload, runAt); err != nil {
				log.Error("failed to seed dispatch pass", "error", err)
			} else {
				log.Info("recurring dispatch pass seeded", "interval", cfg.GetDispatchInterval())
			}
		}
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			conversationModule,
			contactedModule,
			dispatchModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		return serveHTTP(gctx, srv, log)
	})

	g.Go(func() error {
		// Evicts idle call sessions until shutdown.
		conversationModule.Run(gctx)
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
}

// serveHTTP runs srv until ctx is cancelled, then drains in-flight requests.
// A listen failure is returned immediately.
func serveHTTP(ctx context.Context, srv *http.Server, log *logger.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutdown signal received, gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed, closing server", "error", err)
		return srv.Close()
	}
	return nil
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
