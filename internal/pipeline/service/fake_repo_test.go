package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"talentflow_backend/internal/pipeline/repository"
	"talentflow_backend/platform/apperr"

	"github.com/google/uuid"
)

// memRepo mirrors the Postgres repository's guarantees in memory.
type memRepo struct {
	mu         sync.Mutex
	stages     map[uuid.UUID]repository.Stage
	apps       map[uuid.UUID]uuid.UUID // application id -> stage id
	seedCalls  int
	failCreate error
}

func newMemRepo() *memRepo {
	return &memRepo{stages: map[uuid.UUID]repository.Stage{}, apps: map[uuid.UUID]uuid.UUID{}}
}

func (r *memRepo) put(orgID uuid.UUID, name string, order int) repository.Stage {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := repository.Stage{ID: uuid.New(), OrganizationID: orgID, Name: name, SortOrder: order, CreatedAt: time.Now()}
	r.stages[st.ID] = st
	return st
}

func (r *memRepo) attach(stageID uuid.UUID) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New()
	r.apps[id] = stageID
	return id
}

func (r *memRepo) List(_ context.Context, orgID uuid.UUID) ([]repository.Stage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]repository.Stage, 0)
	for _, st := range r.stages {
		if st.OrganizationID == orgID {
			out = append(out, st)
		}
	}
	return out, nil
}

func (r *memRepo) GetByID(_ context.Context, orgID, id uuid.UUID) (repository.Stage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.stages[id]
	if !ok || st.OrganizationID != orgID {
		return repository.Stage{}, apperr.NotFound("stage not found")
	}
	return st, nil
}

func (r *memRepo) find(orgID uuid.UUID, match func(string) bool) (repository.Stage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, st := range r.stages {
		if st.OrganizationID == orgID && match(st.Name) {
			return st, nil
		}
	}
	return repository.Stage{}, apperr.NotFound("stage not found")
}

func (r *memRepo) FindByName(_ context.Context, orgID uuid.UUID, name string) (repository.Stage, error) {
	return r.find(orgID, func(n string) bool { return n == name })
}

func (r *memRepo) FindByNameFold(_ context.Context, orgID uuid.UUID, name string) (repository.Stage, error) {
	return r.find(orgID, func(n string) bool { return strings.EqualFold(n, name) })
}

func (r *memRepo) SeedDefaults(_ context.Context, orgID uuid.UUID, defaults []repository.DefaultStage) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seedCalls++
	for _, st := range r.stages {
		if st.OrganizationID == orgID {
			return 0, nil
		}
	}
	for _, d := range defaults {
		st := repository.Stage{ID: uuid.New(), OrganizationID: orgID, Name: d.Name, SortOrder: d.SortOrder, CreatedAt: time.Now()}
		r.stages[st.ID] = st
	}
	return len(defaults), nil
}

func (r *memRepo) Create(_ context.Context, params repository.CreateParams) (repository.Stage, error) {
	if r.failCreate != nil {
		return repository.Stage{}, r.failCreate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	maxOrder := 0
	for _, st := range r.stages {
		if st.OrganizationID != params.OrganizationID {
			continue
		}
		if strings.EqualFold(st.Name, params.Name) {
			return repository.Stage{}, apperr.Conflict("a stage with this name already exists")
		}
		if st.SortOrder > maxOrder {
			maxOrder = st.SortOrder
		}
	}
	order := maxOrder + 1
	if params.SortOrder != nil {
		order = *params.SortOrder
	}
	st := repository.Stage{ID: uuid.New(), OrganizationID: params.OrganizationID, Name: params.Name, SortOrder: order, CreatedAt: time.Now()}
	r.stages[st.ID] = st
	return st, nil
}

func (r *memRepo) Update(_ context.Context, params repository.UpdateParams) (repository.Stage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.stages[params.ID]
	if !ok || st.OrganizationID != params.OrganizationID {
		return repository.Stage{}, apperr.NotFound("stage not found")
	}
	if params.Name != nil {
		st.Name = *params.Name
	}
	if params.SortOrder != nil {
		st.SortOrder = *params.SortOrder
	}
	r.stages[st.ID] = st
	return st, nil
}

func (r *memRepo) Delete(_ context.Context, orgID, id uuid.UUID, fallbackName string) (repository.DeleteResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.stages[id]
	if !ok || st.OrganizationID != orgID {
		return repository.DeleteResult{}, apperr.NotFound("stage not found")
	}

	var attached []uuid.UUID
	for appID, stageID := range r.apps {
		if stageID == id {
			attached = append(attached, appID)
		}
	}

	if len(attached) > 0 {
		var fallback *repository.Stage
		for _, candidate := range r.stages {
			if candidate.OrganizationID == orgID && candidate.Name == fallbackName {
				c := candidate
				fallback = &c
			}
		}
		if fallback == nil || fallback.ID == id {
			return repository.DeleteResult{}, apperr.Conflict(fmt.Sprintf("cannot reassign to %q", fallbackName))
		}
		for _, appID := range attached {
			r.apps[appID] = fallback.ID
		}
	}

	delete(r.stages, id)
	return repository.DeleteResult{Stage: st, Reassigned: int64(len(attached))}, nil
}

func (r *memRepo) Reorder(_ context.Context, orgID uuid.UUID, items []repository.ReorderItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range items {
		st, ok := r.stages[item.ID]
		if !ok || st.OrganizationID != orgID {
			return apperr.NotFound("stage not found")
		}
	}
	for _, item := range items {
		st := r.stages[item.ID]
		st.SortOrder = item.SortOrder
		r.stages[item.ID] = st
	}
	return nil
}

var errStoreDown = errors.New("store unavailable")
