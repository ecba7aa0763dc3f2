package repository

import (
	"context"
	"errors"
	"fmt"

	"talentflow_backend/platform/apperr"
	"talentflow_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	applicationNotFoundMessage = "application not found"
	applicationExistsMessage   = "Application already exists"
)

const applicationSelect = `
	SELECT a.id, a.organization_id, a.candidate_id, a.job_id, a.stage_id, s.name,
		a.status, a.screening_score, a.applied_at, a.created_at, a.updated_at,
		c.full_name, c.email, j.title
	FROM TF_applications a
	JOIN TF_pipeline_stages s ON s.id = a.stage_id AND s.organization_id = a.organization_id
	JOIN TF_candidates c ON c.id = a.candidate_id AND c.organization_id = a.organization_id
	JOIN TF_jobs j ON j.id = a.job_id AND j.organization_id = a.organization_id`

const getApplicationQuery = applicationSelect + `
	WHERE a.id = $1 AND a.organization_id = $2`

const listApplicationsQuery = applicationSelect + `
	WHERE a.organization_id = $1
		AND ($2::uuid IS NULL OR a.job_id = $2)
		AND ($3::uuid IS NULL OR a.candidate_id = $3)
		AND ($4::text IS NULL OR s.name = $4)
		AND ($5::text IS NULL OR a.status = $5)
	ORDER BY a.applied_at DESC, a.created_at DESC`

const applicationExistsQuery = `
	SELECT EXISTS (
		SELECT 1 FROM TF_applications
		WHERE organization_id = $1 AND candidate_id = $2 AND job_id = $3
	)`

// Candidate, job and stage must all belong to the tenant or nothing is inserted.
const createApplicationQuery = `
	INSERT INTO TF_applications (id, organization_id, candidate_id, job_id, stage_id, status, applied_at)
	SELECT $1, $2, $3, $4, $5, $6, $7
	WHERE EXISTS (SELECT 1 FROM TF_candidates WHERE id = $3 AND organization_id = $2)
		AND EXISTS (SELECT 1 FROM TF_jobs WHERE id = $4 AND organization_id = $2)
		AND EXISTS (SELECT 1 FROM TF_pipeline_stages WHERE id = $5 AND organization_id = $2)
	RETURNING id`

const updateApplicationQuery = `
	UPDATE TF_applications
	SET stage_id = COALESCE($3, stage_id),
		status = COALESCE($4, status),
		screening_score = CASE WHEN $5::bool THEN $6::int ELSE screening_score END,
		updated_at = now()
	WHERE id = $1 AND organization_id = $2
		AND ($3::uuid IS NULL OR EXISTS (
			SELECT 1 FROM TF_pipeline_stages WHERE id = $3 AND organization_id = $2
		))
	RETURNING id`

const deleteApplicationQuery = `
	DELETE FROM TF_applications
	WHERE id = $1 AND organization_id = $2`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new application repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetByID retrieves an application with its joined display fields.
func (r *Repo) GetByID(ctx context.Context, organizationID, id uuid.UUID) (Application, error) {
	app, err := scanApplication(r.pool.QueryRow(ctx, getApplicationQuery, id, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Application{}, apperr.NotFound(applicationNotFoundMessage)
		}
		return Application{}, fmt.Errorf("get application by id: %w", err)
	}
	return app, nil
}

// List retrieves applications newest first, applying the optional filters.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Application, error) {
	rows, err := r.pool.Query(ctx, listApplicationsQuery,
		params.OrganizationID, params.JobID, params.CandidateID, params.StageName, params.Status,
	)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	apps := make([]Application, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applications: %w", err)
	}
	return apps, nil
}

// Exists reports whether the candidate already applied to the job.
func (r *Repo) Exists(ctx context.Context, organizationID, candidateID, jobID uuid.UUID) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, applicationExistsQuery, organizationID, candidateID, jobID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check application exists: %w", err)
	}
	return exists, nil
}

// Create inserts an application. A duplicate candidate/job pair is a Conflict.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Application, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, createApplicationQuery,
		uuid.New(), params.OrganizationID, params.CandidateID, params.JobID,
		params.StageID, params.Status, params.AppliedAt,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Application{}, apperr.NotFound("candidate or job not found")
		}
		if db.IsUniqueViolation(err) {
			return Application{}, apperr.Conflict(applicationExistsMessage)
		}
		return Application{}, fmt.Errorf("create application: %w", err)
	}
	return r.GetByID(ctx, params.OrganizationID, id)
}

// Update applies a sparse update and refreshes updated_at.
func (r *Repo) Update(ctx context.Context, params UpdateParams) (Application, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, updateApplicationQuery,
		params.ID, params.OrganizationID, params.StageID, params.Status,
		params.ScreeningScoreSet, params.ScreeningScore,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Application{}, apperr.NotFound(applicationNotFoundMessage)
		}
		if db.IsForeignKeyViolation(err) {
			return Application{}, apperr.Validation("unknown stage")
		}
		return Application{}, fmt.Errorf("update application: %w", err)
	}
	return r.GetByID(ctx, params.OrganizationID, id)
}

// Delete removes an application.
func (r *Repo) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, deleteApplicationQuery, id, organizationID)
	if err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(applicationNotFoundMessage)
	}
	return nil
}

func scanApplication(row pgx.Row) (Application, error) {
	var app Application
	err := row.Scan(
		&app.ID, &app.OrganizationID, &app.CandidateID, &app.JobID, &app.StageID, &app.StageName,
		&app.Status, &app.ScreeningScore, &app.AppliedAt, &app.CreatedAt, &app.UpdatedAt,
		&app.CandidateName, &app.CandidateEmail, &app.JobTitle,
	)
	return app, err
}
