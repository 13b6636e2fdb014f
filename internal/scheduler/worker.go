package scheduler

import (
	"context"
	"fmt"

	"crm_insights_backend/internal/leads/service"
	"crm_insights_backend/platform/config"
	"crm_insights_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	leads  *service.Service
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, leads *service.Service, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
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
		server: server,
		mux:    mux,
		leads:  leads,
		log:    log,
	}

	mux.HandleFunc(TaskPortfolioRescan, w.handlePortfolioRescan)

	return w, nil
}

func (w *Worker) handlePortfolioRescan(ctx context.Context, task *asynq.Task) error {
	payload, err := ParsePortfolioRescanPayload(task)
	if err != nil {
		return err
	}

	if payload.OwnerID != "" {
		ownerID, err := uuid.Parse(payload.OwnerID)
		if err != nil {
			return err
		}
		return w.rescanOwner(ctx, ownerID)
	}

	ownerIDs, err := w.leads.OwnerIDs(ctx)
	if err != nil {
		return err
	}

	for _, ownerID := range ownerIDs {
		if err := w.rescanOwner(ctx, ownerID); err != nil {
			w.log.Error("portfolio rescan failed for owner", "error", err, "ownerId", ownerID)
		}
	}
	return nil
}

func (w *Worker) rescanOwner(ctx context.Context, ownerID uuid.UUID) error {
	count, err := w.leads.RescoreOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	w.log.Info("portfolio rescan complete", "ownerId", ownerID, "leads", count)
	return nil
}

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
