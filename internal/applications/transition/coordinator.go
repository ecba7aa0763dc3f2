// Package transition moves applications between pipeline stages.
//
// A move is persisted first. Only after the store accepts it are the
// best-effort side effects run: an audit note when the caller supplied one,
// and an ApplicationStageChanged event for the notification dispatcher.
// Neither side effect can fail or reverse the move.
package transition

import (
	"context"
	"fmt"
	"strings"

	"talentflow_backend/internal/applications/ports"
	"talentflow_backend/internal/applications/repository"
	"talentflow_backend/internal/events"
	"talentflow_backend/internal/tenancy/scope"
	"talentflow_backend/platform/apperr"
	"talentflow_backend/platform/logger"
	"talentflow_backend/platform/sanitize"

	"github.com/google/uuid"
)

// MoveRequest is a sparse update of an application. Stage is a stage name.
type MoveRequest struct {
	Stage             *string
	Status            *string
	ScreeningScoreSet bool
	ScreeningScore    *int
	Note              string
}

// Result is the persisted application plus the stages it moved between.
type Result struct {
	Application  repository.Application
	FromStage    string
	ToStage      string
	StageChanged bool
}

// Coordinator validates and persists stage moves.
type Coordinator struct {
	repo   repository.Repository
	stages ports.StageResolver
	notes  ports.NoteWriter
	bus    events.Bus
	log    *logger.Logger
}

// New creates a coordinator. notes and bus may be nil.
func New(repo repository.Repository, stages ports.StageResolver, notes ports.NoteWriter, bus events.Bus, log *logger.Logger) *Coordinator {
	return &Coordinator{repo: repo, stages: stages, notes: notes, bus: bus, log: log}
}

// Move applies a partial update to an application. The target stage must
// exist in the tenant's registry.
func (c *Coordinator) Move(ctx context.Context, sc scope.Scope, applicationID uuid.UUID, req MoveRequest) (Result, error) {
	current, err := c.repo.GetByID(ctx, sc.TenantID, applicationID)
	if err != nil {
		return Result{}, err
	}

	params := repository.UpdateParams{
		ID:                applicationID,
		OrganizationID:    sc.TenantID,
		ScreeningScoreSet: req.ScreeningScoreSet,
		ScreeningScore:    req.ScreeningScore,
	}
	if req.Status != nil {
		status := sanitize.LabelPtr(req.Status)
		if *status == "" {
			return Result{}, apperr.Validation("status cannot be blank")
		}
		params.Status = status
	}

	result := Result{FromStage: current.StageName, ToStage: current.StageName}
	if req.Stage != nil {
		target, err := c.resolveTarget(ctx, sc.TenantID, *req.Stage)
		if err != nil {
			return Result{}, err
		}
		params.StageID = &target.ID
		result.ToStage = target.Name
		result.StageChanged = target.ID != current.StageID
	}

	updated, err := c.repo.Update(ctx, params)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindUnknown {
			c.log.DatabaseError("update application", err)
		}
		return Result{}, apperr.AsPersistence("update application", err)
	}
	result.Application = updated

	if !result.StageChanged {
		return result, nil
	}

	c.log.StageTransition(sc.TenantID.String(), applicationID.String(), result.FromStage, result.ToStage)
	c.appendNote(ctx, sc, applicationID, result, req.Note)
	c.publish(ctx, sc, updated, result)
	return result, nil
}

func (c *Coordinator) resolveTarget(ctx context.Context, tenantID uuid.UUID, name string) (ports.Stage, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ports.Stage{}, apperr.Validation("stage cannot be blank")
	}
	target, err := c.stages.ResolveStage(ctx, tenantID, name)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return ports.Stage{}, apperr.Validation(fmt.Sprintf("unknown stage: %s", name))
		}
		return ports.Stage{}, err
	}
	return target, nil
}

func (c *Coordinator) appendNote(ctx context.Context, sc scope.Scope, applicationID uuid.UUID, result Result, note string) {
	note = strings.TrimSpace(note)
	if note == "" || c.notes == nil {
		return
	}

	err := c.notes.AppendTransitionNote(ctx, ports.TransitionNote{
		TenantID:      sc.TenantID,
		ApplicationID: applicationID,
		Content:       FormatNote(result.FromStage, result.ToStage, note),
		AuthorID:      sc.UserID,
		AuthorName:    sc.ActorName,
	})
	if err != nil {
		c.log.Warn("failed to record stage change note", "tenantId", sc.TenantID, "applicationId", applicationID, "error", err)
	}
}

func (c *Coordinator) publish(ctx context.Context, sc scope.Scope, app repository.Application, result Result) {
	if c.bus == nil {
		return
	}
	c.bus.Publish(ctx, events.ApplicationStageChanged{
		BaseEvent:      events.NewBaseEvent(),
		TenantID:       sc.TenantID,
		ApplicationID:  app.ID,
		CandidateName:  app.CandidateName,
		CandidateEmail: app.CandidateEmail,
		JobTitle:       app.JobTitle,
		FromStage:      result.FromStage,
		ToStage:        result.ToStage,
		ActorID:        sc.UserID,
	})
}

// FormatNote renders the audit text for a stage change.
func FormatNote(from, to, note string) string {
	return fmt.Sprintf(`Stage changed from "%s" to "%s": %s`, from, to, note)
}
