package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateStageRequest creates a stage. Omit sortOrder to append at the end.
type CreateStageRequest struct {
	Name      string `json:"name" validate:"required,notblank,max=100"`
	SortOrder *int   `json:"sortOrder" validate:"omitempty,min=0"`
}

// UpdateStageRequest renames and/or moves a stage.
type UpdateStageRequest struct {
	Name      *string `json:"name" validate:"omitempty,notblank,max=100"`
	SortOrder *int    `json:"sortOrder" validate:"omitempty,min=0"`
}

type ReorderItem struct {
	ID        uuid.UUID `json:"id" validate:"required"`
	SortOrder int       `json:"sortOrder" validate:"min=0"`
}

// ReorderRequest sets the sort order of several stages at once.
type ReorderRequest struct {
	Items []ReorderItem `json:"items" validate:"required,min=1,dive"`
}

type StageResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
}

type DeleteStageResponse struct {
	Success    bool  `json:"success"`
	Reassigned int64 `json:"reassigned"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}
