package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Stage is one ordered phase of a tenant's hiring pipeline.
type Stage struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	SortOrder      int
	CreatedAt      time.Time
}

// DefaultStage is a stage seeded into an empty pipeline.
type DefaultStage struct {
	Name      string `yaml:"name"`
	SortOrder int    `yaml:"sortOrder"`
}

// CreateParams contains parameters for creating a stage.
// A nil SortOrder appends the stage after the current maximum.
type CreateParams struct {
	OrganizationID uuid.UUID
	Name           string
	SortOrder      *int
}

// UpdateParams contains parameters for updating a stage.
type UpdateParams struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           *string
	SortOrder      *int
}

// ReorderItem represents a single item in a reorder request.
type ReorderItem struct {
	ID        uuid.UUID
	SortOrder int
}

// DeleteResult reports the removed stage and how many applications moved off it.
type DeleteResult struct {
	Stage      Stage
	Reassigned int64
}

// StageReader provides read operations for stages.
type StageReader interface {
	List(ctx context.Context, organizationID uuid.UUID) ([]Stage, error)
	GetByID(ctx context.Context, organizationID, id uuid.UUID) (Stage, error)
	FindByName(ctx context.Context, organizationID uuid.UUID, name string) (Stage, error)
	FindByNameFold(ctx context.Context, organizationID uuid.UUID, name string) (Stage, error)
}

// StageWriter provides write operations for stages.
type StageWriter interface {
	// SeedDefaults inserts defaults only when the tenant has no stages and
	// returns the number of rows inserted.
	SeedDefaults(ctx context.Context, organizationID uuid.UUID, defaults []DefaultStage) (int, error)
	Create(ctx context.Context, params CreateParams) (Stage, error)
	Update(ctx context.Context, params UpdateParams) (Stage, error)
	// Delete moves applications on the stage to fallbackName, then removes it.
	Delete(ctx context.Context, organizationID, id uuid.UUID, fallbackName string) (DeleteResult, error)
	// Reorder applies every item or none.
	Reorder(ctx context.Context, organizationID uuid.UUID, items []ReorderItem) error
}

// Repository combines all stage repository operations.
type Repository interface {
	StageReader
	StageWriter
}
