// Package notification provides event handlers that deliver pipeline activity
// to external systems in response to domain events. Domain modules publish
// events and never call the webhook directly.
package notification

import (
	"context"

	"talentflow_backend/internal/events"
	"talentflow_backend/internal/notification/webhook"
	"talentflow_backend/platform/logger"
)

// Module handles notification-related event subscriptions.
type Module struct {
	dispatcher webhook.Dispatcher
	log        *logger.Logger
}

// New creates a notification module. A nil dispatcher disables the webhook.
func New(dispatcher webhook.Dispatcher, log *logger.Logger) *Module {
	return &Module{dispatcher: dispatcher, log: log}
}

// RegisterHandlers subscribes to the relevant domain events on the event bus.
func (m *Module) RegisterHandlers(bus events.Bus) {
	// Application domain events
	bus.Subscribe(events.ApplicationStageChanged{}.EventName(), m)

	// Pipeline and tenancy activity, logged only
	bus.Subscribe(events.PipelineStagesSeeded{}.EventName(), m)
	bus.Subscribe(events.PipelineStageDeleted{}.EventName(), m)
	bus.Subscribe(events.OrganizationSynced{}.EventName(), m)

	m.log.Info("notification module registered event handlers", "webhookEnabled", m.dispatcher != nil)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.ApplicationStageChanged:
		return m.handleApplicationStageChanged(ctx, e)
	case events.PipelineStagesSeeded:
		m.log.Info("tenant pipeline seeded", "tenantId", e.TenantID, "count", e.Count)
	case events.PipelineStageDeleted:
		m.log.Info("tenant stage removed", "tenantId", e.TenantID, "stage", e.StageName, "reassigned", e.Reassigned)
	case events.OrganizationSynced:
		m.log.Info("organization synced", "tenantId", e.TenantID, "externalOrgId", e.ExternalOrgID, "created", e.Created)
	default:
		m.log.Debug("unhandled event", "event", event.EventName())
	}
	return nil
}

func (m *Module) handleApplicationStageChanged(ctx context.Context, e events.ApplicationStageChanged) error {
	if m.dispatcher == nil {
		return nil
	}
	m.dispatcher.Dispatch(ctx, webhook.PayloadFromEvent(e), e.ID.String())
	return nil
}
