package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"talentflow_backend/internal/notification/webhook"
	"talentflow_backend/platform/cache"
	"talentflow_backend/platform/config"

	"github.com/hibiken/asynq"
)

type Client struct {
	client   *asynq.Client
	queue    string
	maxRetry int
	timeout  time.Duration
}

func NewClient(cfg config.SchedulerConfig, webhookCfg config.WebhookConfig) (*Client, error) {
	opt, err := redisClientOpt(cfg.GetRedisURL(), cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	return &Client{
		client:   asynq.NewClient(opt),
		queue:    queueName(cfg),
		maxRetry: webhookCfg.GetPipelineWebhookMaxRetry(),
		timeout:  webhookCfg.GetPipelineWebhookTimeout(),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueWebhook schedules a delivery. A task already queued under the same
// dedupe key is not enqueued twice.
func (c *Client) EnqueueWebhook(ctx context.Context, payload webhook.TransitionPayload, dedupeKey string) error {
	if c == nil || c.client == nil {
		return fmt.Errorf("scheduler client not configured")
	}

	task, err := NewPipelineWebhookTask(payload)
	if err != nil {
		return err
	}

	opts := []asynq.Option{
		asynq.Queue(c.queue),
		asynq.MaxRetry(c.maxRetry),
	}
	if c.timeout > 0 {
		opts = append(opts, asynq.Timeout(c.timeout))
	}
	if dedupeKey != "" {
		opts = append(opts, asynq.TaskID(TaskPipelineWebhook+":"+dedupeKey))
	}

	_, err = c.client.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

func queueName(cfg config.SchedulerConfig) string {
	if q := cfg.GetAsynqQueueName(); q != "" {
		return q
	}
	return "default"
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := cache.ParseOptions(redisURL, tlsInsecure)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Username:  opt.Username,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}

var _ webhook.Enqueuer = (*Client)(nil)
