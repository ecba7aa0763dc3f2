package transition

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"talentflow_backend/internal/applications/ports"
	"talentflow_backend/internal/applications/repository"
	"talentflow_backend/internal/events"
	"talentflow_backend/platform/apperr"

	"github.com/google/uuid"
)

var errStoreDown = errors.New("connection refused")

type memApps struct {
	mu         sync.Mutex
	apps       map[uuid.UUID]repository.Application
	stageNames map[uuid.UUID]string
	failUpdate error
	updates    int
}

func newMemApps(stages []ports.Stage) *memApps {
	names := make(map[uuid.UUID]string, len(stages))
	for _, st := range stages {
		names[st.ID] = st.Name
	}
	return &memApps{apps: map[uuid.UUID]repository.Application{}, stageNames: names}
}

func (r *memApps) put(app repository.Application) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.apps[app.ID] = app
}

func (r *memApps) GetByID(_ context.Context, orgID, id uuid.UUID) (repository.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok || app.OrganizationID != orgID {
		return repository.Application{}, apperr.NotFound("application not found")
	}
	return app, nil
}

func (r *memApps) List(_ context.Context, params repository.ListParams) ([]repository.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]repository.Application, 0)
	for _, app := range r.apps {
		if app.OrganizationID == params.OrganizationID {
			out = append(out, app)
		}
	}
	return out, nil
}

func (r *memApps) Exists(context.Context, uuid.UUID, uuid.UUID, uuid.UUID) (bool, error) {
	return false, nil
}

func (r *memApps) Create(context.Context, repository.CreateParams) (repository.Application, error) {
	return repository.Application{}, errors.New("not used")
}

func (r *memApps) Update(_ context.Context, params repository.UpdateParams) (repository.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates++
	if r.failUpdate != nil {
		return repository.Application{}, r.failUpdate
	}
	app, ok := r.apps[params.ID]
	if !ok || app.OrganizationID != params.OrganizationID {
		return repository.Application{}, apperr.NotFound("application not found")
	}
	if params.StageID != nil {
		app.StageID = *params.StageID
		app.StageName = r.stageNames[*params.StageID]
	}
	if params.Status != nil {
		app.Status = *params.Status
	}
	if params.ScreeningScoreSet {
		app.ScreeningScore = params.ScreeningScore
	}
	app.UpdatedAt = time.Now()
	r.apps[app.ID] = app
	return app, nil
}

func (r *memApps) Delete(context.Context, uuid.UUID, uuid.UUID) error {
	return errors.New("not used")
}

type stubStages struct {
	stages []ports.Stage
}

func (s stubStages) ResolveStage(_ context.Context, _ uuid.UUID, name string) (ports.Stage, error) {
	for _, st := range s.stages {
		if st.Name == name {
			return st, nil
		}
	}
	for _, st := range s.stages {
		if strings.EqualFold(st.Name, name) {
			return st, nil
		}
	}
	return ports.Stage{}, apperr.NotFound("stage not found")
}

type recordingNotes struct {
	mu    sync.Mutex
	notes []ports.TransitionNote
	err   error
}

func (n *recordingNotes) AppendTransitionNote(_ context.Context, note ports.TransitionNote) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.notes = append(n.notes, note)
	return nil
}

type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}
