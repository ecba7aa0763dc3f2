package handler

import (
	"context"
	"errors"
	"net/http"

	"talentflow_backend/internal/applications/ports"
	"talentflow_backend/internal/applications/repository"
	"talentflow_backend/internal/applications/service"
	"talentflow_backend/internal/applications/transition"
	"talentflow_backend/internal/applications/transport"
	"talentflow_backend/internal/board"
	"talentflow_backend/internal/tenancy/scope"
	"talentflow_backend/platform/apperr"
	"talentflow_backend/platform/httpkit"
	"talentflow_backend/platform/logger"
	"talentflow_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Handler handles HTTP requests for applications and the job board.
type Handler struct {
	svc    *service.Service
	coord  *transition.Coordinator
	stages ports.StageLister
	val    *validator.Validator
	log    *logger.Logger
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid application ID"
	msgInvalidJobID     = "invalid job ID"
)

// New creates a new applications handler.
func New(svc *service.Service, coord *transition.Coordinator, stages ports.StageLister, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{svc: svc, coord: coord, stages: stages, val: val, log: log}
}

// List returns applications matching the optional filters.
// GET /api/v1/applications
func (h *Handler) List(c *gin.Context) {
	var req transport.ListApplicationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
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

	result, err := h.svc.List(c.Request.Context(), sc, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Create starts a candidacy.
// POST /api/v1/applications
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateApplicationRequest
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

	result, err := h.svc.Create(c.Request.Context(), sc, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// GetByID returns one application.
// GET /api/v1/applications/:id
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

// Update applies a sparse update, running the move protocol when the stage changes.
// PATCH /api/v1/applications/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.UpdateApplicationRequest
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

	result, err := h.coord.Move(c.Request.Context(), sc, id, transition.MoveRequest{
		Stage:             req.Stage,
		Status:            req.Status,
		ScreeningScoreSet: req.ScreeningScore.Set,
		ScreeningScore:    req.ScreeningScore.Value,
		Note:              req.StageChangeNote,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, service.ToResponse(result.Application))
}

// Delete removes an application.
// DELETE /api/v1/applications/:id
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

	if err := h.svc.Delete(c.Request.Context(), sc, id); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.SuccessResponse{Success: true})
}

// Board returns a job's pipeline columns.
// GET /api/v1/jobs/:jobId/board
func (h *Handler) Board(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("jobId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidJobID, nil)
		return
	}
	sc, ok := scope.MustGet(c)
	if !ok {
		return
	}

	b, err := h.loadBoard(c.Request.Context(), sc, jobID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.BoardResponse{JobID: jobID, Columns: toColumns(b.Columns())})
}

// MoveOnBoard runs a drag and drop against the board and commits it.
// POST /api/v1/jobs/:jobId/board/moves
func (h *Handler) MoveOnBoard(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("jobId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidJobID, nil)
		return
	}

	var req transport.BoardMoveRequest
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

	ctx := c.Request.Context()
	b, err := h.loadBoard(ctx, sc, jobID)
	if httpkit.HandleError(c, err) {
		return
	}
	if err := b.DragStart(req.ApplicationID); httpkit.HandleError(c, err) {
		return
	}
	pending, err := b.DragEnd(ctx, req.OverID)
	if httpkit.HandleError(c, err) {
		return
	}
	if pending == nil {
		httpkit.OK(c, transport.BoardMoveResponse{Moved: false, Columns: toColumns(b.Columns())})
		return
	}

	if err := pending.Wait(); err != nil {
		status := http.StatusInternalServerError
		var domainErr *apperr.Error
		if errors.As(err, &domainErr) {
			status = domainErr.HTTPStatus()
		}
		httpkit.JSON(c, status, transport.BoardMoveResponse{
			Moved:   false,
			Columns: toColumns(b.Columns()),
			Error:   err.Error(),
		})
		return
	}
	httpkit.OK(c, transport.BoardMoveResponse{Moved: true, Columns: toColumns(b.Columns())})
}

func (h *Handler) loadBoard(ctx context.Context, sc scope.Scope, jobID uuid.UUID) (*board.Board, error) {
	var (
		stages []ports.Stage
		apps   []repository.Application
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stages, err = h.stages.ListStages(gctx, sc.TenantID)
		return err
	})
	g.Go(func() error {
		var err error
		apps, err = h.svc.ListForJob(gctx, sc.TenantID, jobID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	commit := board.CommitFunc(func(ctx context.Context, applicationID uuid.UUID, target string) error {
		_, err := h.coord.Move(ctx, sc, applicationID, transition.MoveRequest{Stage: &target})
		return err
	})
	return board.New(toBoardStages(stages), toCards(apps), commit, board.WithLogger(h.log)), nil
}
