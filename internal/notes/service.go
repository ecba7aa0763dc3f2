// Package notes stores audit notes attached to applications.
// Only appending and listing are supported.
package notes

import (
	"context"
	"strings"
	"time"

	"talentflow_backend/platform/apperr"
	"talentflow_backend/platform/sanitize"

	"github.com/google/uuid"
)

// EntityApplication is the entity type for notes on applications.
const EntityApplication = "application"

const maxContentLength = 5000

// NoteResponse is the API shape of a note.
type NoteResponse struct {
	ID         uuid.UUID `json:"id"`
	EntityType string    `json:"entityType"`
	EntityID   uuid.UUID `json:"entityId"`
	Content    string    `json:"content"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	CreatedAt  string    `json:"createdAt"`
}

// Service validates and records notes.
type Service struct {
	store Store
}

// NewService creates a notes service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Append records a note on an entity.
func (s *Service) Append(ctx context.Context, params CreateParams) (Note, error) {
	params.Content = sanitize.Text(params.Content)
	if params.Content == "" || len(params.Content) > maxContentLength {
		return Note{}, apperr.Validation("note content must be between 1 and 5000 characters")
	}
	if strings.TrimSpace(params.EntityType) == "" {
		return Note{}, apperr.Validation("entity type is required")
	}
	if strings.TrimSpace(params.AuthorName) == "" {
		params.AuthorName = "Unknown"
	}
	return s.store.Create(ctx, params)
}

// ListForApplication returns an application's notes, newest first.
func (s *Service) ListForApplication(ctx context.Context, tenantID, applicationID uuid.UUID) ([]NoteResponse, error) {
	items, err := s.store.ListByEntity(ctx, tenantID, EntityApplication, applicationID)
	if err != nil {
		return nil, err
	}
	out := make([]NoteResponse, len(items))
	for i, n := range items {
		out[i] = NoteResponse{
			ID:         n.ID,
			EntityType: n.EntityType,
			EntityID:   n.EntityID,
			Content:    n.Content,
			AuthorID:   n.AuthorID,
			AuthorName: n.AuthorName,
			CreatedAt:  n.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	return out, nil
}
