package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type pingEvent struct {
	BaseEvent
}

func (pingEvent) EventName() string { return "test.ping" }

func TestPublishRunsHandlersAsynchronously(t *testing.T) {
	bus := NewInMemoryBus(nil)
	var calls atomic.Int32
	for i := 0; i < 3; i++ {
		bus.Subscribe("test.ping", HandlerFunc(func(ctx context.Context, event Event) error {
			calls.Add(1)
			return nil
		}))
	}

	bus.Publish(context.Background(), pingEvent{BaseEvent: NewBaseEvent()})
	bus.Wait()

	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 3 handler calls, got %d", got)
	}
}

func TestPublishSurvivesCancelledContext(t *testing.T) {
	bus := NewInMemoryBus(nil)
	seen := make(chan error, 1)
	bus.Subscribe("test.ping", HandlerFunc(func(ctx context.Context, event Event) error {
		seen <- ctx.Err()
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bus.Publish(ctx, pingEvent{BaseEvent: NewBaseEvent()})

	select {
	case err := <-seen:
		if err != nil {
			t.Fatalf("expected handler context to be detached, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("handler was not called")
	}
}

func TestPublishSyncJoinsErrors(t *testing.T) {
	bus := NewInMemoryBus(nil)
	boom := errors.New("boom")
	bus.Subscribe("test.ping", HandlerFunc(func(ctx context.Context, event Event) error { return boom }))
	bus.Subscribe("test.ping", HandlerFunc(func(ctx context.Context, event Event) error { return nil }))

	err := bus.PublishSync(context.Background(), pingEvent{BaseEvent: NewBaseEvent()})
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined error to contain handler failure, got %v", err)
	}
}

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	bus := NewInMemoryBus(nil)
	bus.Publish(context.Background(), pingEvent{BaseEvent: NewBaseEvent()})
	if err := bus.PublishSync(context.Background(), pingEvent{BaseEvent: NewBaseEvent()}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
