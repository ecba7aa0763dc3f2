// Package service provides the stage registry business logic.
package service

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"talentflow_backend/internal/events"
	"talentflow_backend/internal/pipeline/repository"
	"talentflow_backend/internal/pipeline/transport"
	"talentflow_backend/internal/tenancy/scope"
	"talentflow_backend/platform/apperr"
	"talentflow_backend/platform/logger"
	"talentflow_backend/platform/sanitize"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const msgNameRequired = "name is required"

// Service provides business logic for pipeline stages.
type Service struct {
	repo      repository.Repository
	defaults  []repository.DefaultStage
	bus       events.Bus
	log       *logger.Logger
	bootstrap singleflight.Group
}

// New creates a stage registry. Empty defaults fall back to the built-in set.
func New(repo repository.Repository, defaults []repository.DefaultStage, bus events.Bus, log *logger.Logger) *Service {
	if len(defaults) == 0 {
		defaults = BuiltinDefaults()
	}
	return &Service{repo: repo, defaults: defaults, bus: bus, log: log}
}

// List returns the tenant's stages in ascending sort order, seeding the
// defaults first when the tenant has none.
func (s *Service) List(ctx context.Context, sc scope.Scope) ([]transport.StageResponse, error) {
	stages, err := s.Stages(ctx, sc.TenantID)
	if err != nil {
		return nil, err
	}
	return toResponses(stages), nil
}

// Stages is List without the transport mapping, for in-process callers.
func (s *Service) Stages(ctx context.Context, tenantID uuid.UUID) ([]repository.Stage, error) {
	stages, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if len(stages) == 0 {
		if err := s.EnsureDefaults(ctx, tenantID); err != nil {
			return nil, err
		}
		if stages, err = s.repo.List(ctx, tenantID); err != nil {
			return nil, err
		}
	}

	slices.SortStableFunc(stages, func(a, b repository.Stage) int {
		return cmp.Compare(a.SortOrder, b.SortOrder)
	})
	return stages, nil
}

// EnsureDefaults seeds the default stages if the tenant has none. Concurrent
// callers for the same tenant share a single seed attempt in-process; the
// repository guards across processes.
func (s *Service) EnsureDefaults(ctx context.Context, tenantID uuid.UUID) error {
	_, err, _ := s.bootstrap.Do(tenantID.String(), func() (interface{}, error) {
		inserted, err := s.repo.SeedDefaults(context.WithoutCancel(ctx), tenantID, s.defaults)
		if err != nil {
			return nil, apperr.AsPersistence("seed default stages", err)
		}
		if inserted > 0 {
			s.log.Info("default pipeline stages seeded", "tenantId", tenantID, "count", inserted)
			if s.bus != nil {
				s.bus.Publish(ctx, events.PipelineStagesSeeded{
					BaseEvent: events.NewBaseEvent(),
					TenantID:  tenantID,
					Count:     inserted,
				})
			}
		}
		return nil, nil
	})
	return err
}

// GetByID retrieves a single stage.
func (s *Service) GetByID(ctx context.Context, sc scope.Scope, id uuid.UUID) (transport.StageResponse, error) {
	st, err := s.repo.GetByID(ctx, sc.TenantID, id)
	if err != nil {
		return transport.StageResponse{}, err
	}
	return toResponse(st), nil
}

// Create adds a stage. Without a sort order it is appended after the last stage.
func (s *Service) Create(ctx context.Context, sc scope.Scope, req transport.CreateStageRequest) (transport.StageResponse, error) {
	name := sanitize.Label(req.Name)
	if name == "" {
		return transport.StageResponse{}, apperr.Validation(msgNameRequired)
	}

	st, err := s.repo.Create(ctx, repository.CreateParams{
		OrganizationID: sc.TenantID,
		Name:           name,
		SortOrder:      req.SortOrder,
	})
	if err != nil {
		return transport.StageResponse{}, apperr.AsPersistence("create stage", err)
	}

	s.log.Info("pipeline stage created", "tenantId", sc.TenantID, "stageId", st.ID, "name", st.Name, "sortOrder", st.SortOrder)
	return toResponse(st), nil
}

// Update renames and/or moves a stage.
func (s *Service) Update(ctx context.Context, sc scope.Scope, id uuid.UUID, req transport.UpdateStageRequest) (transport.StageResponse, error) {
	var name *string
	if req.Name != nil {
		trimmed := sanitize.Label(*req.Name)
		if trimmed == "" {
			return transport.StageResponse{}, apperr.Validation(msgNameRequired)
		}
		name = &trimmed
	}

	st, err := s.repo.Update(ctx, repository.UpdateParams{
		ID:             id,
		OrganizationID: sc.TenantID,
		Name:           name,
		SortOrder:      req.SortOrder,
	})
	if err != nil {
		return transport.StageResponse{}, apperr.AsPersistence("update stage", err)
	}

	s.log.Info("pipeline stage updated", "tenantId", sc.TenantID, "stageId", st.ID, "name", st.Name, "sortOrder", st.SortOrder)
	return toResponse(st), nil
}

// Delete removes a stage after moving its applications to the "New" stage.
func (s *Service) Delete(ctx context.Context, sc scope.Scope, id uuid.UUID) (transport.DeleteStageResponse, error) {
	result, err := s.repo.Delete(ctx, sc.TenantID, id, FallbackStageName)
	if err != nil {
		return transport.DeleteStageResponse{}, apperr.AsPersistence("delete stage", err)
	}

	s.log.Info("pipeline stage deleted", "tenantId", sc.TenantID, "stageId", id, "name", result.Stage.Name, "reassigned", result.Reassigned)
	if s.bus != nil {
		s.bus.Publish(ctx, events.PipelineStageDeleted{
			BaseEvent:  events.NewBaseEvent(),
			TenantID:   sc.TenantID,
			StageID:    id,
			StageName:  result.Stage.Name,
			Reassigned: result.Reassigned,
		})
	}

	return transport.DeleteStageResponse{Success: true, Reassigned: result.Reassigned}, nil
}

// Reorder applies a batch of sort order changes atomically.
func (s *Service) Reorder(ctx context.Context, sc scope.Scope, req transport.ReorderRequest) error {
	if len(req.Items) == 0 {
		return apperr.Validation("items are required")
	}

	items := make([]repository.ReorderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = repository.ReorderItem{ID: item.ID, SortOrder: item.SortOrder}
	}

	if err := s.repo.Reorder(ctx, sc.TenantID, items); err != nil {
		return apperr.AsPersistence("reorder stages", err)
	}

	s.log.Info("pipeline stages reordered", "tenantId", sc.TenantID, "count", len(items))
	return nil
}

// ResolveByName finds a stage by exact name, then case-insensitively.
// A case-insensitive hit is logged so drifting labels can be cleaned up.
func (s *Service) ResolveByName(ctx context.Context, tenantID uuid.UUID, name string) (repository.Stage, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return repository.Stage{}, apperr.Validation("stage is required")
	}

	st, err := s.repo.FindByName(ctx, tenantID, name)
	if err == nil {
		return st, nil
	}
	if !apperr.Is(err, apperr.KindNotFound) {
		return repository.Stage{}, err
	}

	st, err = s.repo.FindByNameFold(ctx, tenantID, name)
	if err != nil {
		return repository.Stage{}, err
	}
	s.log.Warn("stage matched case-insensitively", "tenantId", tenantID, "requested", name, "matched", st.Name)
	return st, nil
}

func toResponse(st repository.Stage) transport.StageResponse {
	return transport.StageResponse{
		ID:        st.ID,
		Name:      st.Name,
		SortOrder: st.SortOrder,
		CreatedAt: st.CreatedAt,
	}
}

func toResponses(stages []repository.Stage) []transport.StageResponse {
	out := make([]transport.StageResponse, len(stages))
	for i, st := range stages {
		out[i] = toResponse(st)
	}
	return out
}
