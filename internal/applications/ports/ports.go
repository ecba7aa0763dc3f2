// Package ports defines the interfaces the applications domain requires from
// other modules. Implementations are wired in the composition root through
// internal/adapters, so applications never imports the pipeline or notes packages.
package ports

import (
	"context"

	"github.com/google/uuid"
)

// Stage is the view of a pipeline stage the applications domain needs.
type Stage struct {
	ID        uuid.UUID
	Name      string
	SortOrder int
}

// StageResolver maps stage names to stages within a tenant.
// Unknown names return an apperr NotFound error.
type StageResolver interface {
	ResolveStage(ctx context.Context, tenantID uuid.UUID, name string) (Stage, error)
}

// StageLister returns a tenant's stages in display order, seeding defaults if needed.
type StageLister interface {
	ListStages(ctx context.Context, tenantID uuid.UUID) ([]Stage, error)
}

// TransitionNote is an audit entry written after a stage change.
type TransitionNote struct {
	TenantID      uuid.UUID
	ApplicationID uuid.UUID
	Content       string
	AuthorID      string
	AuthorName    string
}

// NoteWriter appends audit notes to an application.
type NoteWriter interface {
	AppendTransitionNote(ctx context.Context, note TransitionNote) error
}
