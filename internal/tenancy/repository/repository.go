// Package repository persists tenants keyed by their external organization id.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"talentflow_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Organization is the internal tenant record.
type Organization struct {
	ID            uuid.UUID
	ExternalOrgID string
	Name          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Repository is the tenant store used by the resolver.
type Repository interface {
	FindByExternalID(ctx context.Context, externalOrgID string) (Organization, error)
	// Upsert creates the tenant or refreshes its name. created reports whether
	// a new row was inserted.
	Upsert(ctx context.Context, externalOrgID, name string) (org Organization, created bool, err error)
}

const findByExternalIDQuery = `
	SELECT id, external_org_id, name, created_at, updated_at
	FROM TF_organizations
	WHERE external_org_id = $1`

// xmax = 0 only for rows inserted by this statement.
const upsertOrganizationQuery = `
	INSERT INTO TF_organizations (id, external_org_id, name)
	VALUES ($1, $2, $3)
	ON CONFLICT (external_org_id) DO UPDATE
	SET name = EXCLUDED.name, updated_at = now()
	RETURNING id, external_org_id, name, created_at, updated_at, (xmax = 0) AS inserted`

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new tenant repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// FindByExternalID looks up a tenant by external organization id.
func (r *Repo) FindByExternalID(ctx context.Context, externalOrgID string) (Organization, error) {
	var org Organization
	err := r.pool.QueryRow(ctx, findByExternalIDQuery, externalOrgID).Scan(
		&org.ID, &org.ExternalOrgID, &org.Name, &org.CreatedAt, &org.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Organization{}, apperr.TenantNotFound("Organization not found")
		}
		return Organization{}, fmt.Errorf("find organization by external id: %w", err)
	}
	return org, nil
}

// Upsert inserts or updates a tenant in one statement.
func (r *Repo) Upsert(ctx context.Context, externalOrgID, name string) (Organization, bool, error) {
	var org Organization
	var inserted bool
	err := r.pool.QueryRow(ctx, upsertOrganizationQuery, uuid.New(), externalOrgID, name).Scan(
		&org.ID, &org.ExternalOrgID, &org.Name, &org.CreatedAt, &org.UpdatedAt, &inserted,
	)
	if err != nil {
		return Organization{}, false, fmt.Errorf("upsert organization: %w", err)
	}
	return org, inserted, nil
}
