package handler

import (
	"net/http"

	"talentflow_backend/internal/pipeline/service"
	"talentflow_backend/internal/pipeline/transport"
	"talentflow_backend/internal/tenancy/scope"
	"talentflow_backend/platform/httpkit"
	"talentflow_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for pipeline stages.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid stage ID"
	msgNameRequired     = "name is required"
)

// New creates a new pipeline stage handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// List returns the tenant's stages, seeding defaults on first use.
// GET /api/v1/stages
func (h *Handler) List(c *gin.Context) {
	sc, ok := scope.MustGet(c)
	if !ok {
		return
	}

	result, err := h.svc.List(c.Request.Context(), sc)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetByID returns one stage.
// GET /api/v1/stages/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	sc, ok := scope.MustGet(c)
	if !ok {
		return
	}

	result, err := h.svc.GetByID(c.Request.Context(), sc, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Create adds a stage.
// POST /api/v1/stages
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgNameRequired, err.Error())
		return
	}
	sc, ok := scope.MustGet(c)
	if !ok {
		return
	}

	result, err := h.svc.Create(c.Request.Context(), sc, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// Update renames or moves a stage.
// PATCH /api/v1/stages/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.UpdateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	sc, ok := scope.MustGet(c)
	if !ok {
		return
	}

	result, err := h.svc.Update(c.Request.Context(), sc, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Delete removes a stage, moving its applications to "New".
// DELETE /api/v1/stages/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	sc, ok := scope.MustGet(c)
	if !ok {
		return
	}

	result, err := h.svc.Delete(c.Request.Context(), sc, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Reorder sets the sort order of several stages atomically.
// PUT /api/v1/stages/order
func (h *Handler) Reorder(c *gin.Context) {
	var req transport.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	sc, ok := scope.MustGet(c)
	if !ok {
		return
	}

	if err := h.svc.Reorder(c.Request.Context(), sc, req); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.SuccessResponse{Success: true})
}
