package scheduler

import (
	"context"
	"fmt"
	"time"

	"dialer_backend/platform/config"
	"dialer_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Syncer runs one lead sync pass.
type Syncer interface {
	Sync(ctx context.Context, maxCalls int) (int, error)
}

// Worker consumes dispatch pass tasks. When a dispatch interval is
// configured, each completed pass schedules the next one, so a single
// seeded task keeps passes recurring.
type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	syncer   Syncer
	client   PassScheduler
	interval time.Duration
	log      *logger.Logger
}

// NewWorker creates the consume-side scheduler worker.
func NewWorker(cfg config.SchedulerConfig, syncer Syncer, client PassScheduler, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:   server,
		mux:      mux,
		syncer:   syncer,
		client:   client,
		interval: cfg.GetDispatchInterval(),
		log:      log,
	}

	mux.HandleFunc(TaskDispatchPass, w.handleDispatchPass)

	return w, nil
}

// Run serves tasks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleDispatchPass(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseDispatchPassPayload(task)
	if err != nil {
		return err
	}

	placed, err := w.syncer.Sync(ctx, payload.MaxCalls)
	if err != nil {
		w.log.Error("scheduled dispatch pass failed", "error", err)
		return err
	}

	w.log.Info("scheduled dispatch pass complete", "placed", placed)

	if w.interval > 0 && w.client != nil {
		if err := w.client.ScheduleDispatchPass(ctx, payload, NextPassTime(time.Now(), w.interval)); err != nil {
			w.log.Error("failed to schedule next dispatch pass", "error", err)
		}
	}

	return nil
}
