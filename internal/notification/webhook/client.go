// Package webhook delivers pipeline transition events to the external
// automation endpoint.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"talentflow_backend/internal/events"
	"talentflow_backend/platform/config"
	"talentflow_backend/platform/logger"
)

// timestampLayout matches JavaScript's Date.toISOString.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

const defaultTimeout = 10 * time.Second

// TransitionPayload is the body POSTed on every committed stage change.
type TransitionPayload struct {
	ApplicationID  string  `json:"application_id"`
	CandidateName  string  `json:"candidate_name"`
	CandidateEmail *string `json:"candidate_email"`
	JobTitle       string  `json:"job_title"`
	FromStage      string  `json:"from_stage"`
	ToStage        string  `json:"to_stage"`
	Timestamp      string  `json:"timestamp"`
}

// PayloadFromEvent builds the webhook body for a stage change event.
func PayloadFromEvent(e events.ApplicationStageChanged) TransitionPayload {
	return TransitionPayload{
		ApplicationID:  e.ApplicationID.String(),
		CandidateName:  e.CandidateName,
		CandidateEmail: e.CandidateEmail,
		JobTitle:       e.JobTitle,
		FromStage:      e.FromStage,
		ToStage:        e.ToStage,
		Timestamp:      e.OccurredAt().UTC().Format(timestampLayout),
	}
}

// NotificationError is a failed delivery. It is logged, never surfaced to API callers.
type NotificationError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *NotificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("webhook request failed: %v", e.Err)
	}
	return fmt.Sprintf("Webhook returned %d", e.StatusCode)
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}

// Client POSTs transition payloads to a fixed URL.
type Client struct {
	url  string
	http *http.Client
	log  *logger.Logger
}

// NewClient returns nil when no webhook URL is configured.
func NewClient(cfg config.WebhookConfig, log *logger.Logger) *Client {
	if !cfg.IsPipelineWebhookEnabled() {
		return nil
	}

	timeout := cfg.GetPipelineWebhookTimeout()
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		url:  strings.TrimSpace(cfg.GetPipelineWebhookURL()),
		http: &http.Client{Timeout: timeout},
		log:  log,
	}
}

// Send performs a single delivery. Non-2xx responses are a *NotificationError.
func (c *Client) Send(ctx context.Context, payload TransitionPayload) error {
	if c == nil {
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return &NotificationError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &NotificationError{Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &NotificationError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	c.log.Info("pipeline webhook delivered", "applicationId", payload.ApplicationID, "toStage", payload.ToStage)
	return nil
}
