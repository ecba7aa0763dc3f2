package adapters

import (
	"context"

	"talentflow_backend/internal/applications/ports"
	"talentflow_backend/internal/notes"
)

// ApplicationNoteWriter adapts the notes service for transition audit notes.
type ApplicationNoteWriter struct {
	svc *notes.Service
}

// NewApplicationNoteWriter creates a new note writer adapter.
func NewApplicationNoteWriter(svc *notes.Service) *ApplicationNoteWriter {
	return &ApplicationNoteWriter{svc: svc}
}

// AppendTransitionNote records a stage change note on the application.
func (a *ApplicationNoteWriter) AppendTransitionNote(ctx context.Context, note ports.TransitionNote) error {
	_, err := a.svc.Append(ctx, notes.CreateParams{
		OrganizationID: note.TenantID,
		EntityType:     notes.EntityApplication,
		EntityID:       note.ApplicationID,
		Content:        note.Content,
		AuthorID:       note.AuthorID,
		AuthorName:     note.AuthorName,
	})
	return err
}

// Compile-time check.
var _ ports.NoteWriter = (*ApplicationNoteWriter)(nil)
