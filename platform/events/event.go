// Package events provides the in-process event bus that decouples a committed
// write from its follow-up work (notifications, audit).
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is implemented by every domain event.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent carries the identity and timestamp shared by all events.
// ID is stable per occurrence and doubles as a delivery dedupe key.
type BaseEvent struct {
	ID        uuid.UUID `json:"eventId"`
	Timestamp time.Time `json:"timestamp"`
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// EventID returns the occurrence id.
func (e BaseEvent) EventID() uuid.UUID {
	return e.ID
}

// NewBaseEvent stamps a fresh event id and the current UTC time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{ID: uuid.New(), Timestamp: time.Now().UTC()}
}

// Handler processes events of a specific type.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc is an adapter to allow ordinary functions to be used as handlers.
type HandlerFunc func(ctx context.Context, event Event) error

// Handle calls f(ctx, event).
func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus publishes events to subscribers registered by event name.
type Bus interface {
	// Publish runs handlers asynchronously. Handler failures are logged, not returned.
	Publish(ctx context.Context, event Event)
	// PublishSync runs handlers inline and returns their joined errors.
	PublishSync(ctx context.Context, event Event) error
	// Subscribe registers a handler for Event.EventName() == eventName.
	Subscribe(eventName string, handler Handler)
}
