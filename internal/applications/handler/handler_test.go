package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"talentflow_backend/internal/applications/ports"
	"talentflow_backend/internal/applications/repository"
	"talentflow_backend/internal/applications/service"
	"talentflow_backend/internal/applications/transition"
	"talentflow_backend/internal/applications/transport"
	"talentflow_backend/internal/tenancy/scope"
	"talentflow_backend/platform/apperr"
	"talentflow_backend/platform/logger"
	"talentflow_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type memRepo struct {
	repository.Repository
	mu         sync.Mutex
	apps       map[uuid.UUID]repository.Application
	names      map[uuid.UUID]string
	failUpdate error
}

func (r *memRepo) GetByID(_ context.Context, orgID, id uuid.UUID) (repository.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok || app.OrganizationID != orgID {
		return repository.Application{}, apperr.NotFound("application not found")
	}
	return app, nil
}

func (r *memRepo) List(_ context.Context, params repository.ListParams) ([]repository.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]repository.Application, 0)
	for _, app := range r.apps {
		if app.OrganizationID == params.OrganizationID && (params.JobID == nil || app.JobID == *params.JobID) {
			out = append(out, app)
		}
	}
	return out, nil
}

func (r *memRepo) Update(_ context.Context, params repository.UpdateParams) (repository.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpdate != nil {
		return repository.Application{}, r.failUpdate
	}
	app := r.apps[params.ID]
	if params.StageID != nil {
		app.StageID = *params.StageID
		app.StageName = r.names[*params.StageID]
	}
	r.apps[params.ID] = app
	return app, nil
}

type stageSource struct {
	stages []ports.Stage
}

func (s stageSource) ResolveStage(_ context.Context, _ uuid.UUID, name string) (ports.Stage, error) {
	for _, st := range s.stages {
		if strings.EqualFold(st.Name, name) {
			return st, nil
		}
	}
	return ports.Stage{}, apperr.NotFound("stage not found")
}

func (s stageSource) ListStages(context.Context, uuid.UUID) ([]ports.Stage, error) {
	return s.stages, nil
}

type env struct {
	engine *gin.Engine
	repo   *memRepo
	app    repository.Application
	jobID  uuid.UUID
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	stages := stageSource{stages: []ports.Stage{
		{ID: uuid.New(), Name: "New", SortOrder: 1},
		{ID: uuid.New(), Name: "Screening", SortOrder: 2},
	}}
	names := map[uuid.UUID]string{}
	for _, st := range stages.stages {
		names[st.ID] = st.Name
	}

	sc := scope.Scope{TenantID: uuid.New(), UserID: "user_1"}
	jobID := uuid.New()
	app := repository.Application{
		ID:             uuid.New(),
		OrganizationID: sc.TenantID,
		JobID:          jobID,
		StageID:        stages.stages[0].ID,
		StageName:      "New",
		Status:         "active",
		CandidateName:  "Ada Lovelace",
		JobTitle:       "Engineer",
	}
	repo := &memRepo{apps: map[uuid.UUID]repository.Application{app.ID: app}, names: names}

	log := logger.New("test")
	svc := service.New(repo, stages, log)
	coord := transition.New(repo, stages, nil, nil, log)
	h := New(svc, coord, stages, validator.New(), log)

	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		scope.Set(c, sc)
		c.Next()
	})
	engine.PATCH("/applications/:id", h.Update)
	engine.GET("/jobs/:jobId/board", h.Board)
	engine.POST("/jobs/:jobId/board/moves", h.MoveOnBoard)

	return &env{engine: engine, repo: repo, app: app, jobID: jobID}
}

func (e *env) do(method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	e.engine.ServeHTTP(rec, req)
	return rec
}

func TestPatchMovesApplication(t *testing.T) {
	e := newEnv(t)

	rec := e.do(http.MethodPatch, "/applications/"+e.app.ID.String(), `{"stage":"Screening","stageChangeNote":"looks good"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp transport.ApplicationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Stage != "Screening" {
		t.Fatalf("expected stage Screening, got %s", resp.Stage)
	}
}

func TestPatchUnknownStageIsBadRequest(t *testing.T) {
	e := newEnv(t)

	rec := e.do(http.MethodPatch, "/applications/"+e.app.ID.String(), `{"stage":"Limbo"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPatchInvalidIDIsBadRequest(t *testing.T) {
	e := newEnv(t)

	rec := e.do(http.MethodPatch, "/applications/not-a-uuid", `{"stage":"Screening"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestBoardGroupsCardsByStage(t *testing.T) {
	e := newEnv(t)

	rec := e.do(http.MethodGet, "/jobs/"+e.jobID.String()+"/board", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp transport.BoardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Columns) != 2 || resp.Columns[0].Name != "New" || len(resp.Columns[0].Cards) != 1 {
		t.Fatalf("unexpected columns %+v", resp.Columns)
	}
}

func TestBoardMoveCommits(t *testing.T) {
	e := newEnv(t)

	body := `{"applicationId":"` + e.app.ID.String() + `","overId":"Screening"}`
	rec := e.do(http.MethodPost, "/jobs/"+e.jobID.String()+"/board/moves", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp transport.BoardMoveResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Moved || len(resp.Columns[1].Cards) != 1 {
		t.Fatalf("expected card under Screening, got %+v", resp)
	}
	if e.repo.apps[e.app.ID].StageName != "Screening" {
		t.Fatal("expected move to be persisted")
	}
}

func TestBoardMoveFailureReturnsRestoredColumns(t *testing.T) {
	e := newEnv(t)
	e.repo.failUpdate = errors.New("write timeout")

	body := `{"applicationId":"` + e.app.ID.String() + `","overId":"Screening"}`
	rec := e.do(http.MethodPost, "/jobs/"+e.jobID.String()+"/board/moves", body)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var resp transport.BoardMoveResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Moved || resp.Error == "" {
		t.Fatalf("expected failed move with error, got %+v", resp)
	}
	if len(resp.Columns[0].Cards) != 1 || len(resp.Columns[1].Cards) != 0 {
		t.Fatalf("expected card restored under New, got %+v", resp.Columns)
	}
}
