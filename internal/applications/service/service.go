// Package service provides the application record store business logic.
package service

import (
	"context"
	"strings"
	"time"

	"talentflow_backend/internal/applications/ports"
	"talentflow_backend/internal/applications/repository"
	"talentflow_backend/internal/applications/transport"
	"talentflow_backend/internal/tenancy/scope"
	"talentflow_backend/platform/apperr"
	"talentflow_backend/platform/logger"
	"talentflow_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	// DefaultStageName is the stage new applications start in.
	DefaultStageName = "New"
	// DefaultStatus is the status new applications start with.
	DefaultStatus = "active"
)

// Service provides business logic for applications.
type Service struct {
	repo   repository.Repository
	stages ports.StageResolver
	log    *logger.Logger
}

// New creates a new applications service.
func New(repo repository.Repository, stages ports.StageResolver, log *logger.Logger) *Service {
	return &Service{repo: repo, stages: stages, log: log}
}

// Create starts a candidacy. A candidate may apply to a job only once.
func (s *Service) Create(ctx context.Context, sc scope.Scope, req transport.CreateApplicationRequest) (transport.ApplicationResponse, error) {
	stageName := DefaultStageName
	if req.Stage != nil {
		stageName = sanitize.Label(*req.Stage)
	}
	status := DefaultStatus
	if req.Status != nil {
		status = sanitize.Label(*req.Status)
	}
	appliedAt := time.Now().UTC()
	if req.AppliedAt != nil {
		appliedAt = req.AppliedAt.UTC()
	}

	exists, err := s.repo.Exists(ctx, sc.TenantID, req.CandidateID, req.JobID)
	if err != nil {
		return transport.ApplicationResponse{}, apperr.AsPersistence("check application", err)
	}
	if exists {
		return transport.ApplicationResponse{}, apperr.Conflict("Application already exists")
	}

	stage, err := s.stages.ResolveStage(ctx, sc.TenantID, stageName)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return transport.ApplicationResponse{}, apperr.Validation("unknown stage: " + stageName)
		}
		return transport.ApplicationResponse{}, err
	}

	app, err := s.repo.Create(ctx, repository.CreateParams{
		OrganizationID: sc.TenantID,
		CandidateID:    req.CandidateID,
		JobID:          req.JobID,
		StageID:        stage.ID,
		Status:         status,
		AppliedAt:      appliedAt,
	})
	if err != nil {
		return transport.ApplicationResponse{}, apperr.AsPersistence("create application", err)
	}

	s.log.Info("application created", "tenantId", sc.TenantID, "applicationId", app.ID, "jobId", app.JobID, "stage", app.StageName)
	return ToResponse(app), nil
}

// GetByID retrieves a single application.
func (s *Service) GetByID(ctx context.Context, sc scope.Scope, id uuid.UUID) (transport.ApplicationResponse, error) {
	app, err := s.repo.GetByID(ctx, sc.TenantID, id)
	if err != nil {
		return transport.ApplicationResponse{}, err
	}
	return ToResponse(app), nil
}

// List returns the tenant's applications, newest first.
func (s *Service) List(ctx context.Context, sc scope.Scope, req transport.ListApplicationsRequest) ([]transport.ApplicationResponse, error) {
	params := repository.ListParams{OrganizationID: sc.TenantID}
	if req.JobID != "" {
		id, err := uuid.Parse(req.JobID)
		if err != nil {
			return nil, apperr.Validation("invalid jobId")
		}
		params.JobID = &id
	}
	if req.CandidateID != "" {
		id, err := uuid.Parse(req.CandidateID)
		if err != nil {
			return nil, apperr.Validation("invalid candidateId")
		}
		params.CandidateID = &id
	}
	if stage := strings.TrimSpace(req.Stage); stage != "" {
		params.StageName = &stage
	}
	if status := strings.TrimSpace(req.Status); status != "" {
		params.Status = &status
	}

	apps, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return ToResponses(apps), nil
}

// ListForJob returns every application on a job, for the board.
func (s *Service) ListForJob(ctx context.Context, tenantID, jobID uuid.UUID) ([]repository.Application, error) {
	return s.repo.List(ctx, repository.ListParams{OrganizationID: tenantID, JobID: &jobID})
}

// Delete removes an application.
func (s *Service) Delete(ctx context.Context, sc scope.Scope, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, sc.TenantID, id); err != nil {
		return apperr.AsPersistence("delete application", err)
	}
	s.log.Info("application deleted", "tenantId", sc.TenantID, "applicationId", id)
	return nil
}

// ToResponse maps a stored application to its API shape.
func ToResponse(app repository.Application) transport.ApplicationResponse {
	return transport.ApplicationResponse{
		ID:             app.ID,
		CandidateID:    app.CandidateID,
		JobID:          app.JobID,
		StageID:        app.StageID,
		Stage:          app.StageName,
		Status:         app.Status,
		ScreeningScore: app.ScreeningScore,
		AppliedAt:      app.AppliedAt,
		CreatedAt:      app.CreatedAt,
		UpdatedAt:      app.UpdatedAt,
		CandidateName:  app.CandidateName,
		CandidateEmail: app.CandidateEmail,
		JobTitle:       app.JobTitle,
	}
}

func ToResponses(apps []repository.Application) []transport.ApplicationResponse {
	out := make([]transport.ApplicationResponse, len(apps))
	for i, app := range apps {
		out[i] = ToResponse(app)
	}
	return out
}
