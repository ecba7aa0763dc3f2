package adapters

import (
	"context"

	"talentflow_backend/internal/applications"
	"talentflow_backend/internal/applications/ports"
	pipelinerepo "talentflow_backend/internal/pipeline/repository"
	pipelinesvc "talentflow_backend/internal/pipeline/service"
	"talentflow_backend/platform/apperr"

	"github.com/google/uuid"
)

// PipelineStageSource adapts the stage registry for the applications domain.
type PipelineStageSource struct {
	svc *pipelinesvc.Service
}

// NewPipelineStageSource creates a new stage source adapter.
func NewPipelineStageSource(svc *pipelinesvc.Service) *PipelineStageSource {
	return &PipelineStageSource{svc: svc}
}

// ResolveStage finds a stage by name. A tenant that has never listed its
// stages is seeded first, so "New" always resolves for a fresh tenant.
func (a *PipelineStageSource) ResolveStage(ctx context.Context, tenantID uuid.UUID, name string) (ports.Stage, error) {
	st, err := a.svc.ResolveByName(ctx, tenantID, name)
	if apperr.Is(err, apperr.KindNotFound) {
		if seedErr := a.svc.EnsureDefaults(ctx, tenantID); seedErr != nil {
			return ports.Stage{}, seedErr
		}
		st, err = a.svc.ResolveByName(ctx, tenantID, name)
	}
	if err != nil {
		return ports.Stage{}, err
	}
	return toPortStage(st), nil
}

// ListStages returns the tenant's stages in display order.
func (a *PipelineStageSource) ListStages(ctx context.Context, tenantID uuid.UUID) ([]ports.Stage, error) {
	stages, err := a.svc.Stages(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]ports.Stage, len(stages))
	for i, st := range stages {
		out[i] = toPortStage(st)
	}
	return out, nil
}

func toPortStage(st pipelinerepo.Stage) ports.Stage {
	return ports.Stage{ID: st.ID, Name: st.Name, SortOrder: st.SortOrder}
}

// Compile-time check.
var _ applications.StageSource = (*PipelineStageSource)(nil)
