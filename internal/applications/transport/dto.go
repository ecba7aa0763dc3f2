package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateApplicationRequest starts a candidacy. Stage defaults to "New" and
// status to "active".
type CreateApplicationRequest struct {
	CandidateID uuid.UUID  `json:"candidateId" validate:"required"`
	JobID       uuid.UUID  `json:"jobId" validate:"required"`
	Stage       *string    `json:"stage" validate:"omitempty,notblank,max=100"`
	Status      *string    `json:"status" validate:"omitempty,notblank,max=50"`
	AppliedAt   *time.Time `json:"appliedAt"`
}

// UpdateApplicationRequest is sparse: only keys present in the payload are written.
type UpdateApplicationRequest struct {
	Stage           *string     `json:"stage" validate:"omitempty,notblank,max=100"`
	Status          *string     `json:"status" validate:"omitempty,notblank,max=50"`
	ScreeningScore  OptionalInt `json:"screeningScore"`
	StageChangeNote string      `json:"stageChangeNote" validate:"max=5000"`
}

// ListApplicationsRequest carries the optional list filters.
type ListApplicationsRequest struct {
	JobID       string `form:"jobId" validate:"omitempty,uuid"`
	CandidateID string `form:"candidateId" validate:"omitempty,uuid"`
	Stage       string `form:"stage" validate:"max=100"`
	Status      string `form:"status" validate:"max=50"`
}

type ApplicationResponse struct {
	ID             uuid.UUID `json:"id"`
	CandidateID    uuid.UUID `json:"candidateId"`
	JobID          uuid.UUID `json:"jobId"`
	StageID        uuid.UUID `json:"stageId"`
	Stage          string    `json:"stage"`
	Status         string    `json:"status"`
	ScreeningScore *int      `json:"screeningScore"`
	AppliedAt      time.Time `json:"appliedAt"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	CandidateName  string    `json:"candidateName"`
	CandidateEmail *string   `json:"candidateEmail"`
	JobTitle       string    `json:"jobTitle"`
}

// BoardMoveRequest drops a card over a stage column or over another card.
type BoardMoveRequest struct {
	ApplicationID uuid.UUID `json:"applicationId" validate:"required"`
	OverID        string    `json:"overId" validate:"required,notblank"`
}

type BoardCard struct {
	ApplicationID  uuid.UUID `json:"applicationId"`
	CandidateName  string    `json:"candidateName"`
	CandidateEmail *string   `json:"candidateEmail"`
	JobTitle       string    `json:"jobTitle"`
	Stage          string    `json:"stage"`
	Status         string    `json:"status"`
	ScreeningScore *int      `json:"screeningScore"`
	AppliedAt      time.Time `json:"appliedAt"`
}

type BoardColumn struct {
	StageID   uuid.UUID   `json:"stageId"`
	Name      string      `json:"name"`
	SortOrder int         `json:"sortOrder"`
	Cards     []BoardCard `json:"cards"`
}

type BoardResponse struct {
	JobID   uuid.UUID     `json:"jobId"`
	Columns []BoardColumn `json:"columns"`
}

// BoardMoveResponse reports the board after a drop. On a failed commit the
// columns are the restored pre-drag state and Error carries the reason.
type BoardMoveResponse struct {
	Moved   bool          `json:"moved"`
	Columns []BoardColumn `json:"columns"`
	Error   string        `json:"error,omitempty"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}
