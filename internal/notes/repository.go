package notes

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Note is an audit entry attached to a tenant entity.
type Note struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	EntityType     string
	EntityID       uuid.UUID
	Content        string
	AuthorID       string
	AuthorName     string
	CreatedAt      time.Time
}

// CreateParams contains parameters for appending a note.
type CreateParams struct {
	OrganizationID uuid.UUID
	EntityType     string
	EntityID       uuid.UUID
	Content        string
	AuthorID       string
	AuthorName     string
}

// Store is the notes persistence interface.
type Store interface {
	Create(ctx context.Context, params CreateParams) (Note, error)
	ListByEntity(ctx context.Context, organizationID uuid.UUID, entityType string, entityID uuid.UUID) ([]Note, error)
}

const createNoteQuery = `
	INSERT INTO TF_notes (id, organization_id, entity_type, entity_id, content, author_id, author_name)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, organization_id, entity_type, entity_id, content, author_id, author_name, created_at`

const listNotesByEntityQuery = `
	SELECT id, organization_id, entity_type, entity_id, content, author_id, author_name, created_at
	FROM TF_notes
	WHERE organization_id = $1 AND entity_type = $2 AND entity_id = $3
	ORDER BY created_at DESC`

// Repository implements Store with PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a notes repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ Store = (*Repository)(nil)

func (r *Repository) Create(ctx context.Context, params CreateParams) (Note, error) {
	var n Note
	err := r.pool.QueryRow(ctx, createNoteQuery,
		uuid.New(), params.OrganizationID, params.EntityType, params.EntityID,
		params.Content, params.AuthorID, params.AuthorName,
	).Scan(&n.ID, &n.OrganizationID, &n.EntityType, &n.EntityID, &n.Content, &n.AuthorID, &n.AuthorName, &n.CreatedAt)
	if err != nil {
		return Note{}, fmt.Errorf("create note: %w", err)
	}
	return n, nil
}

func (r *Repository) ListByEntity(ctx context.Context, organizationID uuid.UUID, entityType string, entityID uuid.UUID) ([]Note, error) {
	rows, err := r.pool.Query(ctx, listNotesByEntityQuery, organizationID, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	out := make([]Note, 0)
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.OrganizationID, &n.EntityType, &n.EntityID, &n.Content, &n.AuthorID, &n.AuthorName, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}
	return out, nil
}
