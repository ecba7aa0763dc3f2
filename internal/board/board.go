// Package board holds an optimistic, in-memory view of a job's pipeline.
//
// A drop is applied locally first and committed asynchronously through a
// Committer. If the commit fails the board restores the snapshot taken when
// the drag started. The package has no storage or HTTP dependencies, so the
// protocol can be exercised on its own.
package board

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"talentflow_backend/platform/apperr"
	"talentflow_backend/platform/logger"

	"github.com/google/uuid"
)

// Stage is a column header.
type Stage struct {
	ID        uuid.UUID
	Name      string
	SortOrder int
}

// Card is one application on the board.
type Card struct {
	ApplicationID  uuid.UUID
	StageID        uuid.UUID
	Stage          string
	CandidateName  string
	CandidateEmail *string
	JobTitle       string
	Status         string
	ScreeningScore *int
	AppliedAt      time.Time
}

// Column is a stage with the cards grouped under it.
type Column struct {
	Stage Stage
	Cards []Card
}

// Transition describes a committed move.
type Transition struct {
	Card       Card
	FromStage  string
	ToStage    string
	OccurredAt time.Time
}

// Committer persists a move. A non-nil error rolls the board back.
type Committer interface {
	CommitMove(ctx context.Context, applicationID uuid.UUID, targetStage string) error
}

// CommitFunc adapts a function to Committer.
type CommitFunc func(ctx context.Context, applicationID uuid.UUID, targetStage string) error

// CommitMove calls f.
func (f CommitFunc) CommitMove(ctx context.Context, applicationID uuid.UUID, targetStage string) error {
	return f(ctx, applicationID, targetStage)
}

// Notifier is told about moves that committed. It is never consulted on failure.
type Notifier interface {
	StageChanged(ctx context.Context, t Transition)
}

// Snapshot is an opaque copy of the board's cards.
type Snapshot struct {
	cards []Card
}

// Option configures a Board.
type Option func(*Board)

// WithNotifier sets the post-commit notifier.
func WithNotifier(n Notifier) Option {
	return func(b *Board) { b.notifier = n }
}

// WithLogger sets the logger used for grouping warnings and rollbacks.
func WithLogger(log *logger.Logger) Option {
	return func(b *Board) { b.log = log }
}

// Board is safe for concurrent use.
type Board struct {
	mu        sync.Mutex
	stages    []Stage
	cards     []Card
	dragging  uuid.UUID
	snapshot  *Snapshot
	committer Committer
	notifier  Notifier
	log       *logger.Logger
}

// New builds a board. Stages are kept in ascending sort order.
func New(stages []Stage, cards []Card, committer Committer, opts ...Option) *Board {
	sorted := slices.Clone(stages)
	slices.SortStableFunc(sorted, func(a, b Stage) int { return cmp.Compare(a.SortOrder, b.SortOrder) })

	b := &Board{
		stages:    sorted,
		cards:     slices.Clone(cards),
		committer: committer,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Columns groups cards by stage. A card matches its stage by id first, then by
// exact name, then case-insensitively. Cards matching no stage are left out.
func (b *Board) Columns() []Column {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.columnsLocked()
}

func (b *Board) columnsLocked() []Column {
	columns := make([]Column, len(b.stages))
	for i, st := range b.stages {
		columns[i] = Column{Stage: st, Cards: make([]Card, 0)}
	}

	for _, card := range b.cards {
		idx := b.stageIndex(card)
		if idx < 0 {
			b.warn("card has no matching stage", "applicationId", card.ApplicationID, "stage", card.Stage)
			continue
		}
		columns[idx].Cards = append(columns[idx].Cards, card)
	}
	return columns
}

func (b *Board) stageIndex(card Card) int {
	if card.StageID != uuid.Nil {
		if i := slices.IndexFunc(b.stages, func(st Stage) bool { return st.ID == card.StageID }); i >= 0 {
			return i
		}
	}
	if i := slices.IndexFunc(b.stages, func(st Stage) bool { return st.Name == card.Stage }); i >= 0 {
		return i
	}
	i := slices.IndexFunc(b.stages, func(st Stage) bool { return strings.EqualFold(st.Name, card.Stage) })
	if i >= 0 {
		b.warn("card matched stage case-insensitively", "applicationId", card.ApplicationID, "stage", card.Stage, "matched", b.stages[i].Name)
	}
	return i
}

// Snapshot captures the current cards.
func (b *Board) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Snapshot{cards: slices.Clone(b.cards)}
}

// Restore replaces the cards with a previously captured snapshot.
func (b *Board) Restore(s Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cards = slices.Clone(s.cards)
}

// DragStart remembers the dragged card and captures the pre-drag snapshot.
func (b *Board) DragStart(applicationID uuid.UUID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cardIndex(applicationID) < 0 {
		return apperr.NotFound("application not on board")
	}
	b.dragging = applicationID
	b.snapshot = &Snapshot{cards: slices.Clone(b.cards)}
	return nil
}

// DragEnd drops the dragged card over overID, which may be a stage id, a stage
// name, or another card's application id. It returns nil when the drop is a
// no-op. Otherwise the move is applied immediately and committed in the
// background; the returned PendingMove reports the outcome.
func (b *Board) DragEnd(ctx context.Context, overID string) (*PendingMove, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	appID := b.dragging
	snap := b.snapshot
	b.dragging = uuid.Nil
	b.snapshot = nil
	if appID == uuid.Nil || snap == nil {
		return nil, apperr.BadRequest("no drag in progress")
	}

	target, ok := b.resolveTarget(overID)
	if !ok {
		return nil, nil
	}

	idx := b.cardIndex(appID)
	if idx < 0 {
		return nil, apperr.NotFound("application not on board")
	}
	card := b.cards[idx]
	from := b.stageIndex(card)
	if from >= 0 && b.stages[from].ID == target.ID {
		return nil, nil
	}

	fromName := card.Stage
	if from >= 0 {
		fromName = b.stages[from].Name
	}
	b.cards[idx].StageID = target.ID
	b.cards[idx].Stage = target.Name

	pending := &PendingMove{
		ApplicationID: appID,
		FromStage:     fromName,
		ToStage:       target.Name,
		done:          make(chan struct{}),
	}
	go b.commit(ctx, pending, card, *snap)
	return pending, nil
}

func (b *Board) commit(ctx context.Context, pending *PendingMove, card Card, snap Snapshot) {
	defer close(pending.done)

	err := b.committer.CommitMove(ctx, pending.ApplicationID, pending.ToStage)
	if err != nil {
		b.Restore(snap)
		b.warn("board move rolled back", "applicationId", pending.ApplicationID, "from", pending.FromStage, "to", pending.ToStage, "error", err)
		pending.err = err
		return
	}

	if b.notifier != nil {
		card.Stage = pending.ToStage
		b.notifier.StageChanged(context.WithoutCancel(ctx), Transition{
			Card:       card,
			FromStage:  pending.FromStage,
			ToStage:    pending.ToStage,
			OccurredAt: time.Now().UTC(),
		})
	}
}

func (b *Board) resolveTarget(overID string) (Stage, bool) {
	overID = strings.TrimSpace(overID)
	if overID == "" {
		return Stage{}, false
	}

	if id, err := uuid.Parse(overID); err == nil {
		if i := slices.IndexFunc(b.stages, func(st Stage) bool { return st.ID == id }); i >= 0 {
			return b.stages[i], true
		}
		if i := b.cardIndex(id); i >= 0 {
			if s := b.stageIndex(b.cards[i]); s >= 0 {
				return b.stages[s], true
			}
		}
		return Stage{}, false
	}

	if i := slices.IndexFunc(b.stages, func(st Stage) bool { return st.Name == overID }); i >= 0 {
		return b.stages[i], true
	}
	if i := slices.IndexFunc(b.stages, func(st Stage) bool { return strings.EqualFold(st.Name, overID) }); i >= 0 {
		return b.stages[i], true
	}
	return Stage{}, false
}

func (b *Board) cardIndex(id uuid.UUID) int {
	return slices.IndexFunc(b.cards, func(c Card) bool { return c.ApplicationID == id })
}

func (b *Board) warn(msg string, args ...any) {
	if b.log != nil {
		b.log.Warn(msg, args...)
	}
}

// PendingMove is an optimistic move awaiting its commit.
type PendingMove struct {
	ApplicationID uuid.UUID
	FromStage     string
	ToStage       string

	done chan struct{}
	err  error
}

// Wait blocks until the commit finishes and returns its error. After a
// failure the board has already been restored.
func (p *PendingMove) Wait() error {
	<-p.done
	return p.err
}

// Done is closed when the commit finishes.
func (p *PendingMove) Done() <-chan struct{} {
	return p.done
}
