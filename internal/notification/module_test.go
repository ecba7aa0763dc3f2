package notification

import (
	"context"
	"sync"
	"testing"

	"talentflow_backend/internal/events"
	"talentflow_backend/internal/notification/webhook"
	"talentflow_backend/platform/logger"

	"github.com/google/uuid"
)

type recordingDispatcher struct {
	mu       sync.Mutex
	payloads []webhook.TransitionPayload
	keys     []string
}

func (d *recordingDispatcher) Dispatch(_ context.Context, payload webhook.TransitionPayload, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.payloads = append(d.payloads, payload)
	d.keys = append(d.keys, key)
}

func stageChanged() events.ApplicationStageChanged {
	return events.ApplicationStageChanged{
		BaseEvent:     events.NewBaseEvent(),
		TenantID:      uuid.New(),
		ApplicationID: uuid.New(),
		CandidateName: "Ada Lovelace",
		JobTitle:      "Engineer",
		FromStage:     "New",
		ToStage:       "Interview 1",
	}
}

func TestStageChangeIsDispatchedThroughBus(t *testing.T) {
	log := logger.New("test")
	bus := events.NewInMemoryBus(log)
	dispatcher := &recordingDispatcher{}
	New(dispatcher, log).RegisterHandlers(bus)

	evt := stageChanged()
	bus.Publish(context.Background(), evt)
	bus.Wait()

	if len(dispatcher.payloads) != 1 {
		t.Fatalf("expected one dispatch, got %d", len(dispatcher.payloads))
	}
	p := dispatcher.payloads[0]
	if p.ApplicationID != evt.ApplicationID.String() || p.FromStage != "New" || p.ToStage != "Interview 1" {
		t.Fatalf("unexpected payload %+v", p)
	}
	if dispatcher.keys[0] != evt.ID.String() {
		t.Fatal("expected event id as dedupe key")
	}
}

func TestNilDispatcherIsNoop(t *testing.T) {
	m := New(nil, logger.New("test"))
	if err := m.Handle(context.Background(), stageChanged()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestActivityEventsAreLoggedOnly(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	m := New(dispatcher, logger.New("test"))

	evts := []events.Event{
		events.PipelineStagesSeeded{BaseEvent: events.NewBaseEvent(), TenantID: uuid.New(), Count: 7},
		events.PipelineStageDeleted{BaseEvent: events.NewBaseEvent(), TenantID: uuid.New(), StageName: "Offer"},
		events.OrganizationSynced{BaseEvent: events.NewBaseEvent(), TenantID: uuid.New(), ExternalOrgID: "org_1"},
	}
	for _, evt := range evts {
		if err := m.Handle(context.Background(), evt); err != nil {
			t.Fatalf("%s: unexpected error: %v", evt.EventName(), err)
		}
	}
	if len(dispatcher.payloads) != 0 {
		t.Fatal("only stage changes reach the webhook")
	}
}
