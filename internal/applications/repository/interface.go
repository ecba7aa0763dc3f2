package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Application is one candidate's candidacy for one job, with the joined
// stage name, candidate contact and job title.
type Application struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	CandidateID    uuid.UUID
	JobID          uuid.UUID
	StageID        uuid.UUID
	StageName      string
	Status         string
	ScreeningScore *int
	AppliedAt      time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
	CandidateName  string
	CandidateEmail *string
	JobTitle       string
}

// CreateParams contains parameters for creating an application.
type CreateParams struct {
	OrganizationID uuid.UUID
	CandidateID    uuid.UUID
	JobID          uuid.UUID
	StageID        uuid.UUID
	Status         string
	AppliedAt      time.Time
}

// UpdateParams is a sparse update. Nil fields are left unchanged;
// ScreeningScoreSet distinguishes an explicit null from an omitted score.
type UpdateParams struct {
	ID                uuid.UUID
	OrganizationID    uuid.UUID
	StageID           *uuid.UUID
	Status            *string
	ScreeningScoreSet bool
	ScreeningScore    *int
}

// ListParams filters the application list. Nil filters are ignored.
type ListParams struct {
	OrganizationID uuid.UUID
	JobID          *uuid.UUID
	CandidateID    *uuid.UUID
	StageName      *string
	Status         *string
}

// Reader provides read operations for applications.
type Reader interface {
	GetByID(ctx context.Context, organizationID, id uuid.UUID) (Application, error)
	List(ctx context.Context, params ListParams) ([]Application, error)
	Exists(ctx context.Context, organizationID, candidateID, jobID uuid.UUID) (bool, error)
}

// Writer provides write operations for applications.
type Writer interface {
	Create(ctx context.Context, params CreateParams) (Application, error)
	Update(ctx context.Context, params UpdateParams) (Application, error)
	Delete(ctx context.Context, organizationID, id uuid.UUID) error
}

// Repository combines all application repository operations.
type Repository interface {
	Reader
	Writer
}
