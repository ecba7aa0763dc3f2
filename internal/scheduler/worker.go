package scheduler

import (
	"context"
	"fmt"

	"talentflow_backend/internal/notification/webhook"
	"talentflow_backend/platform/config"
	"talentflow_backend/platform/logger"

	"github.com/hibiken/asynq"
)

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	sender webhook.Sender
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, sender webhook.Sender, log *logger.Logger) (*Worker, error) {
	opt, err := redisClientOpt(cfg.GetRedisURL(), cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	w := &Worker{
		mux:    asynq.NewServeMux(),
		sender: sender,
		log:    log,
	}

	w.server = asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(w.handleTaskError),
	})

	w.mux.HandleFunc(TaskPipelineWebhook, w.handlePipelineWebhook)

	return w, nil
}

func (w *Worker) handlePipelineWebhook(ctx context.Context, task *asynq.Task) error {
	payload, err := ParsePipelineWebhookPayload(task)
	if err != nil {
		return fmt.Errorf("parse pipeline webhook payload: %v: %w", err, asynq.SkipRetry)
	}

	if w.sender == nil {
		w.log.Warn("pipeline webhook task dropped, no endpoint configured", "applicationId", payload.ApplicationID)
		return nil
	}

	return w.sender.Send(ctx, payload)
}

// handleTaskError logs every failed attempt and flags the last one.
func (w *Worker) handleTaskError(ctx context.Context, task *asynq.Task, err error) {
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)

	if retried >= maxRetry {
		w.log.Error("pipeline webhook gave up", "task", task.Type(), "attempts", retried+1, "error", err)
		return
	}
	w.log.Warn("pipeline webhook attempt failed", "task", task.Type(), "retry", retried, "maxRetry", maxRetry, "error", err)
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
