// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"talentflow_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Tenancy Domain Events
// =============================================================================

// OrganizationSynced is published after an external organization is upserted.
type OrganizationSynced struct {
	BaseEvent
	TenantID      uuid.UUID `json:"tenantId"`
	ExternalOrgID string    `json:"externalOrgId"`
	Name          string    `json:"name"`
	Created       bool      `json:"created"`
}

func (e OrganizationSynced) EventName() string { return "tenancy.organization.synced" }

// =============================================================================
// Pipeline Domain Events
// =============================================================================

// PipelineStagesSeeded is published when a tenant receives its default stages.
type PipelineStagesSeeded struct {
	BaseEvent
	TenantID uuid.UUID `json:"tenantId"`
	Count    int       `json:"count"`
}

func (e PipelineStagesSeeded) EventName() string { return "pipeline.stages.seeded" }

// PipelineStageDeleted is published after a stage is removed.
type PipelineStageDeleted struct {
	BaseEvent
	TenantID   uuid.UUID `json:"tenantId"`
	StageID    uuid.UUID `json:"stageId"`
	StageName  string    `json:"stageName"`
	Reassigned int64     `json:"reassigned"`
}

func (e PipelineStageDeleted) EventName() string { return "pipeline.stage.deleted" }

// =============================================================================
// Application Domain Events
// =============================================================================

// ApplicationStageChanged is published once a stage move has been persisted.
type ApplicationStageChanged struct {
	BaseEvent
	TenantID       uuid.UUID `json:"tenantId"`
	ApplicationID  uuid.UUID `json:"applicationId"`
	CandidateName  string    `json:"candidateName"`
	CandidateEmail *string   `json:"candidateEmail,omitempty"`
	JobTitle       string    `json:"jobTitle"`
	FromStage      string    `json:"fromStage"`
	ToStage        string    `json:"toStage"`
	ActorID        string    `json:"actorId"`
}

func (e ApplicationStageChanged) EventName() string { return "applications.stage.changed" }
