package scheduler

import (
	"context"
	"fmt"
	"time"

	montagesvc "montagehub_backend/internal/montages/service"
	"montagehub_backend/platform/config"
	"montagehub_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// ChecklistReconciler is the slice of the montages service the worker needs.
type ChecklistReconciler interface {
	ReconcileChecklists(ctx context.Context) (montagesvc.ReconcileReport, error)
}

type Worker struct {
	server     *asynq.Server
	scheduler  *asynq.Scheduler
	mux        *asynq.ServeMux
	reconciler ChecklistReconciler
	log        *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, reconciler ChecklistReconciler, log *logger.Logger) (*Worker, error) {
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

	periodic := asynq.NewScheduler(opt, nil)
	repairTask, err := NewReconcileChecklistsTask(ReconcileChecklistsPayload{})
	if err != nil {
		return nil, err
	}
	interval := cfg.GetChecklistRepairInterval()
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	if _, err := periodic.Register(fmt.Sprintf("@every %s", interval), repairTask, asynq.Queue(queue)); err != nil {
		return nil, err
	}

	mux := asynq.NewServeMux()
	w := &Worker{
		server:     server,
		scheduler:  periodic,
		mux:        mux,
		reconciler: reconciler,
		log:        log,
	}

	mux.HandleFunc(TaskReconcileChecklists, w.handleReconcileChecklists)

	return w, nil
}

func (w *Worker) handleReconcileChecklists(ctx context.Context, task *asynq.Task) error {
	if _, err := ParseReconcileChecklistsPayload(task); err != nil {
		return err
	}

	report, err := w.reconciler.ReconcileChecklists(ctx)
	if err != nil {
		return err
	}

	w.log.Info("checklist reconcile pass finished",
		"scanned", report.Scanned,
		"repaired", report.Repaired,
		"failed", report.Failed,
	)
	return nil
}

// Run starts the periodic enqueuer and the task server, blocking until the
// context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.scheduler.Shutdown()
		w.server.Shutdown()
	}()

	go func() {
		if err := w.scheduler.Run(); err != nil {
			w.log.Error("periodic scheduler stopped", "error", err)
		}
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
