package handler

import (
	"net/http"
	"strings"

	"talentflow_backend/internal/tenancy/scope"
	"talentflow_backend/internal/tenancy/service"
	"talentflow_backend/internal/tenancy/transport"
	"talentflow_backend/platform/apperr"
	"talentflow_backend/platform/httpkit"
	"talentflow_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgForeignOrg       = "organization does not match the authenticated session"
)

// Handler serves tenant endpoints and the scope middleware.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new tenancy handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RequireScope resolves the caller's tenant once and stores it for downstream handlers.
// The organization is taken from the token only. Missing identity yields 401;
// a missing or unknown organization yields 404.
func (h *Handler) RequireScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := httpkit.MustGetIdentity(c)
		if identity == nil {
			return
		}

		s, err := h.svc.Resolve(c.Request.Context(), identity, identity.ExternalOrgID())
		if httpkit.HandleError(c, err) {
			return
		}

		scope.Set(c, s)
		c.Next()
	}
}

// Sync upserts the tenant for the caller's organization.
// POST /api/v1/organizations/sync
func (h *Handler) Sync(c *gin.Context) {
	var req transport.SyncOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	orgID := identity.ExternalOrgID()
	if requested := strings.TrimSpace(req.OrganizationID); requested != "" && requested != orgID {
		httpkit.HandleError(c, apperr.Forbidden(msgForeignOrg))
		return
	}

	org, err := h.svc.Sync(c.Request.Context(), identity, orgID, req.Name)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.OrganizationResponse{
		ID:            org.ID,
		ExternalOrgID: org.ExternalOrgID,
		Name:          org.Name,
		CreatedAt:     org.CreatedAt,
		UpdatedAt:     org.UpdatedAt,
	})
}
