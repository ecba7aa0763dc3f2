package scheduler

import (
	"encoding/json"

	"talentflow_backend/internal/notification/webhook"

	"github.com/hibiken/asynq"
)

const TaskPipelineWebhook = "pipeline.webhook"

func NewPipelineWebhookTask(payload webhook.TransitionPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPipelineWebhook, data), nil
}

func ParsePipelineWebhookPayload(task *asynq.Task) (webhook.TransitionPayload, error) {
	var payload webhook.TransitionPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return webhook.TransitionPayload{}, err
	}
	return payload, nil
}
