package webhook

import (
	"context"
	"sync"

	"talentflow_backend/platform/logger"
)

// Sender performs one delivery attempt.
type Sender interface {
	Send(ctx context.Context, payload TransitionPayload) error
}

// Dispatcher hands off a payload without blocking the caller.
type Dispatcher interface {
	Dispatch(ctx context.Context, payload TransitionPayload, dedupeKey string)
}

// Enqueuer schedules a delivery on the task queue.
type Enqueuer interface {
	EnqueueWebhook(ctx context.Context, payload TransitionPayload, dedupeKey string) error
}

// DirectDispatcher sends on a goroutine with a bounded timeout. Failures are
// logged and not retried.
type DirectDispatcher struct {
	sender Sender
	log    *logger.Logger
	wg     sync.WaitGroup
}

// NewDirectDispatcher creates a dispatcher that calls sender in the background.
func NewDirectDispatcher(sender Sender, log *logger.Logger) *DirectDispatcher {
	return &DirectDispatcher{sender: sender, log: log}
}

// Dispatch starts the delivery and returns immediately.
func (d *DirectDispatcher) Dispatch(ctx context.Context, payload TransitionPayload, _ string) {
	detached := context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.sender.Send(detached, payload); err != nil {
			d.log.WithContext(detached).Error("pipeline webhook failed",
				"applicationId", payload.ApplicationID,
				"fromStage", payload.FromStage,
				"toStage", payload.ToStage,
				"error", err,
			)
		}
	}()
}

// Wait blocks until in-flight deliveries finish.
func (d *DirectDispatcher) Wait() {
	d.wg.Wait()
}

// QueueDispatcher enqueues a retried task. If the queue is unavailable it
// falls back to a direct attempt when one is configured.
type QueueDispatcher struct {
	queue    Enqueuer
	fallback Dispatcher
	log      *logger.Logger
}

// NewQueueDispatcher creates a queued dispatcher. fallback may be nil.
func NewQueueDispatcher(queue Enqueuer, fallback Dispatcher, log *logger.Logger) *QueueDispatcher {
	return &QueueDispatcher{queue: queue, fallback: fallback, log: log}
}

// Dispatch enqueues the delivery. It never returns an error to the caller.
func (d *QueueDispatcher) Dispatch(ctx context.Context, payload TransitionPayload, dedupeKey string) {
	err := d.queue.EnqueueWebhook(context.WithoutCancel(ctx), payload, dedupeKey)
	if err == nil {
		return
	}

	d.log.WithContext(ctx).Warn("failed to enqueue pipeline webhook", "applicationId", payload.ApplicationID, "error", err)
	if d.fallback != nil {
		d.fallback.Dispatch(ctx, payload, dedupeKey)
	}
}

var (
	_ Dispatcher = (*DirectDispatcher)(nil)
	_ Dispatcher = (*QueueDispatcher)(nil)
	_ Sender     = (*Client)(nil)
)
