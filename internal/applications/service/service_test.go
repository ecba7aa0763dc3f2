package service

import (
	"context"
	"errors"
	"testing"

	"talentflow_backend/internal/applications/ports"
	"talentflow_backend/internal/applications/repository"
	"talentflow_backend/internal/applications/transport"
	"talentflow_backend/internal/tenancy/scope"
	"talentflow_backend/platform/apperr"
	"talentflow_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	repository.Repository
	exists  bool
	created []repository.CreateParams
	listed  []repository.ListParams
}

func (r *fakeRepo) Exists(context.Context, uuid.UUID, uuid.UUID, uuid.UUID) (bool, error) {
	return r.exists, nil
}

func (r *fakeRepo) Create(_ context.Context, params repository.CreateParams) (repository.Application, error) {
	r.created = append(r.created, params)
	return repository.Application{
		ID:             uuid.New(),
		OrganizationID: params.OrganizationID,
		CandidateID:    params.CandidateID,
		JobID:          params.JobID,
		StageID:        params.StageID,
		StageName:      "New",
		Status:         params.Status,
		AppliedAt:      params.AppliedAt,
	}, nil
}

func (r *fakeRepo) List(_ context.Context, params repository.ListParams) ([]repository.Application, error) {
	r.listed = append(r.listed, params)
	return nil, nil
}

type fakeStages struct {
	known map[string]ports.Stage
	err   error
}

func (s fakeStages) ResolveStage(_ context.Context, _ uuid.UUID, name string) (ports.Stage, error) {
	if s.err != nil {
		return ports.Stage{}, s.err
	}
	st, ok := s.known[name]
	if !ok {
		return ports.Stage{}, apperr.NotFound("stage not found")
	}
	return st, nil
}

func newStages() fakeStages {
	return fakeStages{known: map[string]ports.Stage{
		"New":       {ID: uuid.New(), Name: "New", SortOrder: 1},
		"Screening": {ID: uuid.New(), Name: "Screening", SortOrder: 2},
	}}
}

func testScope() scope.Scope {
	return scope.Scope{TenantID: uuid.New(), UserID: "user_1"}
}

func TestCreateDefaultsToNewAndActive(t *testing.T) {
	repo := &fakeRepo{}
	stages := newStages()
	svc := New(repo, stages, logger.New("test"))
	sc := testScope()

	resp, err := svc.Create(context.Background(), sc, transport.CreateApplicationRequest{
		CandidateID: uuid.New(),
		JobID:       uuid.New(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one insert, got %d", len(repo.created))
	}
	params := repo.created[0]
	if params.StageID != stages.known["New"].ID || params.Status != "active" {
		t.Fatalf("unexpected defaults %+v", params)
	}
	if params.OrganizationID != sc.TenantID {
		t.Fatal("expected insert scoped to tenant")
	}
	if params.AppliedAt.IsZero() {
		t.Fatal("expected applied_at to default to now")
	}
	if resp.Stage != "New" || resp.Status != "active" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestCreateRejectsDuplicatePair(t *testing.T) {
	repo := &fakeRepo{exists: true}
	svc := New(repo, newStages(), logger.New("test"))

	_, err := svc.Create(context.Background(), testScope(), transport.CreateApplicationRequest{
		CandidateID: uuid.New(),
		JobID:       uuid.New(),
	})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatal("expected no insert for a duplicate")
	}
}

func TestCreateRejectsUnknownStage(t *testing.T) {
	repo := &fakeRepo{}
	svc := New(repo, newStages(), logger.New("test"))
	stage := "Limbo"

	_, err := svc.Create(context.Background(), testScope(), transport.CreateApplicationRequest{
		CandidateID: uuid.New(),
		JobID:       uuid.New(),
		Stage:       &stage,
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateSurfacesStageLookupFailure(t *testing.T) {
	boom := errors.New("pool closed")
	svc := New(&fakeRepo{}, fakeStages{err: boom}, logger.New("test"))

	_, err := svc.Create(context.Background(), testScope(), transport.CreateApplicationRequest{
		CandidateID: uuid.New(),
		JobID:       uuid.New(),
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected lookup error, got %v", err)
	}
}

func TestListParsesFilters(t *testing.T) {
	repo := &fakeRepo{}
	svc := New(repo, newStages(), logger.New("test"))
	sc := testScope()
	jobID := uuid.New()

	_, err := svc.List(context.Background(), sc, transport.ListApplicationsRequest{
		JobID:  jobID.String(),
		Stage:  " Screening ",
		Status: "",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := repo.listed[0]
	if got.OrganizationID != sc.TenantID || got.JobID == nil || *got.JobID != jobID {
		t.Fatalf("unexpected params %+v", got)
	}
	if got.StageName == nil || *got.StageName != "Screening" {
		t.Fatal("expected trimmed stage filter")
	}
	if got.CandidateID != nil || got.Status != nil {
		t.Fatal("expected empty filters to stay nil")
	}
}

func TestListRejectsMalformedID(t *testing.T) {
	svc := New(&fakeRepo{}, newStages(), logger.New("test"))

	_, err := svc.List(context.Background(), testScope(), transport.ListApplicationsRequest{CandidateID: "nope"})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
