package transport

import (
	"time"

	"github.com/google/uuid"
)

// SyncOrganizationRequest upserts the tenant for an external organization.
// OrganizationID is optional and must equal the token's org claim when sent.
type SyncOrganizationRequest struct {
	OrganizationID string `json:"organizationId" validate:"omitempty,max=255"`
	Name           string `json:"name" validate:"required,notblank,max=255"`
}

type OrganizationResponse struct {
	ID            uuid.UUID `json:"id"`
	ExternalOrgID string    `json:"externalOrgId"`
	Name          string    `json:"name"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
