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
	stageNotFoundMessage  = "stage not found"
	stageNameTakenMessage = "a stage with this name already exists"
)

const stageColumns = `id, organization_id, name, sort_order, created_at`

const listStagesQuery = `
	SELECT ` + stageColumns + `
	FROM TF_pipeline_stages
	WHERE organization_id = $1
	ORDER BY sort_order ASC, created_at ASC`

const getStageByIDQuery = `
	SELECT ` + stageColumns + `
	FROM TF_pipeline_stages
	WHERE id = $1 AND organization_id = $2`

const findStageByNameQuery = `
	SELECT ` + stageColumns + `
	FROM TF_pipeline_stages
	WHERE organization_id = $1 AND name = $2`

const findStageByNameFoldQuery = `
	SELECT ` + stageColumns + `
	FROM TF_pipeline_stages
	WHERE organization_id = $1 AND lower(name) = lower($2)`

// Serializes bootstrap and auto-ordered inserts per tenant.
const lockTenantStagesQuery = `SELECT pg_advisory_xact_lock(hashtextextended('tf_pipeline_stages:' || $1::text, 0))`

const countStagesQuery = `SELECT COUNT(*) FROM TF_pipeline_stages WHERE organization_id = $1`

const seedStagesQuery = `
	INSERT INTO TF_pipeline_stages (id, organization_id, name, sort_order)
	SELECT d.id, $1, d.name, d.sort_order
	FROM unnest($2::uuid[], $3::text[], $4::int[]) AS d(id, name, sort_order)
	ON CONFLICT DO NOTHING`

const createStageQuery = `
	INSERT INTO TF_pipeline_stages (id, organization_id, name, sort_order)
	SELECT $1, $2, $3, COALESCE($4::int, (
		SELECT COALESCE(MAX(sort_order), 0) + 1
		FROM TF_pipeline_stages
		WHERE organization_id = $2
	))
	RETURNING ` + stageColumns

const updateStageQuery = `
	UPDATE TF_pipeline_stages
	SET name = COALESCE($3, name),
		sort_order = COALESCE($4, sort_order)
	WHERE id = $1 AND organization_id = $2
	RETURNING ` + stageColumns

const lockStageForDeleteQuery = `
	SELECT ` + stageColumns + `
	FROM TF_pipeline_stages
	WHERE id = $1 AND organization_id = $2
	FOR UPDATE`

const countApplicationsOnStageQuery = `
	SELECT COUNT(*) FROM TF_applications
	WHERE organization_id = $1 AND stage_id = $2`

const findFallbackStageQuery = `
	SELECT id FROM TF_pipeline_stages
	WHERE organization_id = $1 AND name = $2`

const reassignApplicationsQuery = `
	UPDATE TF_applications
	SET stage_id = $3, updated_at = now()
	WHERE organization_id = $1 AND stage_id = $2`

const deleteStageQuery = `
	DELETE FROM TF_pipeline_stages
	WHERE id = $1 AND organization_id = $2`

const reorderStageQuery = `
	UPDATE TF_pipeline_stages
	SET sort_order = $3
	WHERE id = $1 AND organization_id = $2`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new stage repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// List retrieves all stages ordered by sort order.
func (r *Repo) List(ctx context.Context, organizationID uuid.UUID) ([]Stage, error) {
	rows, err := r.pool.Query(ctx, listStagesQuery, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list stages: %w", err)
	}
	defer rows.Close()

	return scanStages(rows)
}

// GetByID retrieves a stage by its ID.
func (r *Repo) GetByID(ctx context.Context, organizationID, id uuid.UUID) (Stage, error) {
	return r.getOne(ctx, "get stage by id", getStageByIDQuery, id, organizationID)
}

// FindByName retrieves a stage by its exact name.
func (r *Repo) FindByName(ctx context.Context, organizationID uuid.UUID, name string) (Stage, error) {
	return r.getOne(ctx, "find stage by name", findStageByNameQuery, organizationID, name)
}

// FindByNameFold retrieves a stage by case-insensitive name.
func (r *Repo) FindByNameFold(ctx context.Context, organizationID uuid.UUID, name string) (Stage, error) {
	return r.getOne(ctx, "find stage by name fold", findStageByNameFoldQuery, organizationID, name)
}

func (r *Repo) getOne(ctx context.Context, op, query string, args ...any) (Stage, error) {
	var st Stage
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&st.ID, &st.OrganizationID, &st.Name, &st.SortOrder, &st.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Stage{}, apperr.NotFound(stageNotFoundMessage)
		}
		return Stage{}, fmt.Errorf("%s: %w", op, err)
	}
	return st, nil
}

// SeedDefaults inserts the default stages for a tenant that has none.
func (r *Repo) SeedDefaults(ctx context.Context, organizationID uuid.UUID, defaults []DefaultStage) (int, error) {
	if len(defaults) == 0 {
		return 0, nil
	}

	ids := make([]uuid.UUID, len(defaults))
	names := make([]string, len(defaults))
	orders := make([]int32, len(defaults))
	for i, d := range defaults {
		ids[i] = uuid.New()
		names[i] = d.Name
		orders[i] = int32(d.SortOrder)
	}

	var inserted int
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, lockTenantStagesQuery, organizationID); err != nil {
			return fmt.Errorf("lock tenant stages: %w", err)
		}

		var count int
		if err := tx.QueryRow(ctx, countStagesQuery, organizationID).Scan(&count); err != nil {
			return fmt.Errorf("count stages: %w", err)
		}
		if count > 0 {
			return nil
		}

		tag, err := tx.Exec(ctx, seedStagesQuery, organizationID, ids, names, orders)
		if err != nil {
			return fmt.Errorf("seed stages: %w", err)
		}
		inserted = int(tag.RowsAffected())
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// Create inserts a stage, computing the sort order when none is given.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Stage, error) {
	var st Stage
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, lockTenantStagesQuery, params.OrganizationID); err != nil {
			return fmt.Errorf("lock tenant stages: %w", err)
		}
		return tx.QueryRow(ctx, createStageQuery,
			uuid.New(), params.OrganizationID, params.Name, params.SortOrder,
		).Scan(&st.ID, &st.OrganizationID, &st.Name, &st.SortOrder, &st.CreatedAt)
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Stage{}, apperr.Conflict(stageNameTakenMessage)
		}
		return Stage{}, fmt.Errorf("create stage: %w", err)
	}
	return st, nil
}

// Update applies a sparse name/sort order change.
func (r *Repo) Update(ctx context.Context, params UpdateParams) (Stage, error) {
	var st Stage
	err := r.pool.QueryRow(ctx, updateStageQuery,
		params.ID, params.OrganizationID, params.Name, params.SortOrder,
	).Scan(&st.ID, &st.OrganizationID, &st.Name, &st.SortOrder, &st.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Stage{}, apperr.NotFound(stageNotFoundMessage)
		}
		if db.IsUniqueViolation(err) {
			return Stage{}, apperr.Conflict(stageNameTakenMessage)
		}
		return Stage{}, fmt.Errorf("update stage: %w", err)
	}
	return st, nil
}

// Delete reassigns the stage's applications to the fallback stage and removes it.
// With applications attached and no usable fallback the delete is refused.
func (r *Repo) Delete(ctx context.Context, organizationID, id uuid.UUID, fallbackName string) (DeleteResult, error) {
	var result DeleteResult
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		st := &result.Stage
		err := tx.QueryRow(ctx, lockStageForDeleteQuery, id, organizationID).Scan(
			&st.ID, &st.OrganizationID, &st.Name, &st.SortOrder, &st.CreatedAt,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperr.NotFound(stageNotFoundMessage)
			}
			return fmt.Errorf("lock stage: %w", err)
		}

		var attached int64
		if err := tx.QueryRow(ctx, countApplicationsOnStageQuery, organizationID, id).Scan(&attached); err != nil {
			return fmt.Errorf("count applications on stage: %w", err)
		}

		if attached > 0 {
			var fallbackID uuid.UUID
			err := tx.QueryRow(ctx, findFallbackStageQuery, organizationID, fallbackName).Scan(&fallbackID)
			if errors.Is(err, pgx.ErrNoRows) {
				return apperr.Conflict(fmt.Sprintf("cannot delete stage with applications: no %q stage to reassign them to", fallbackName))
			}
			if err != nil {
				return fmt.Errorf("find fallback stage: %w", err)
			}
			if fallbackID == id {
				return apperr.Conflict(fmt.Sprintf("cannot delete the %q stage while applications are assigned to it", fallbackName))
			}

			tag, err := tx.Exec(ctx, reassignApplicationsQuery, organizationID, id, fallbackID)
			if err != nil {
				return fmt.Errorf("reassign applications: %w", err)
			}
			result.Reassigned = tag.RowsAffected()
		}

		if _, err := tx.Exec(ctx, deleteStageQuery, id, organizationID); err != nil {
			return fmt.Errorf("delete stage: %w", err)
		}
		return nil
	})
	if err != nil {
		return DeleteResult{}, err
	}
	return result, nil
}

// Reorder updates every stage's sort order inside one transaction.
func (r *Repo) Reorder(ctx context.Context, organizationID uuid.UUID, items []ReorderItem) error {
	if len(items) == 0 {
		return nil
	}

	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, item := range items {
			batch.Queue(reorderStageQuery, item.ID, organizationID, item.SortOrder)
		}

		results := tx.SendBatch(ctx, batch)
		for range items {
			tag, err := results.Exec()
			if err != nil {
				_ = results.Close()
				return fmt.Errorf("reorder stages: %w", err)
			}
			if tag.RowsAffected() == 0 {
				_ = results.Close()
				return apperr.NotFound(stageNotFoundMessage)
			}
		}
		return results.Close()
	})
}

func scanStages(rows pgx.Rows) ([]Stage, error) {
	stages := make([]Stage, 0)
	for rows.Next() {
		var st Stage
		if err := rows.Scan(&st.ID, &st.OrganizationID, &st.Name, &st.SortOrder, &st.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stage: %w", err)
		}
		stages = append(stages, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stages: %w", err)
	}
	return stages, nil
}
