package realtime

import (
	"testing"

	"github.com/mgiordano-dev/presupuestador-backend/pkg/enums"
)

func TestHubBroadcastRespectsFilters(t *testing.T) {
	hub := NewHub()

	all, cancelAll := hub.Subscribe(Filter{})
	defer cancelAll()
	products, cancelProducts := hub.Subscribe(Filter{Table: TableProducts})
	defer cancelProducts()
	project, cancelProject := hub.Subscribe(Filter{Table: TableLineItems, ProjectID: "p1"})
	defer cancelProject()

	hub.Broadcast(NewEvent(TableProducts, enums.ChangeEventInsert, "", map[string]string{"name": "x"}, nil))
	hub.Broadcast(NewEvent(TableLineItems, enums.ChangeEventUpdate, "p2", nil, nil))
	hub.Broadcast(NewEvent(TableLineItems, enums.ChangeEventUpdate, "p1", nil, nil))

	if got := len(all); got != 3 {
		t.Fatalf("unfiltered subscriber expected 3 events, got %d", got)
	}
	if got := len(products); got != 1 {
		t.Fatalf("products subscriber expected 1 event, got %d", got)
	}
	if got := len(project); got != 1 {
		t.Fatalf("project-scoped subscriber expected 1 event, got %d", got)
	}
	evt := <-project
	if evt.ProjectID != "p1" || evt.Table != TableLineItems {
		t.Fatalf("unexpected event %+v", evt)
	}
}

func TestHubCancelRemovesSubscriber(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe(Filter{})

	if hub.SubscriberCount() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", hub.SubscriberCount())
	}

	cancel()
	cancel() // idempotent

	if hub.SubscriberCount() != 0 {
		t.Fatalf("expected 0 subscribers, got %d", hub.SubscriberCount())
	}
	if _, open := <-ch; open {
		t.Fatal("expected channel closed after cancel")
	}
}

func TestHubSlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub()
	_, cancel := hub.Subscribe(Filter{})
	defer cancel()

	// Overflow the buffer; Broadcast must not block.
	for i := 0; i < subscriberBuffer*2; i++ {
		hub.Broadcast(NewEvent(TableProjects, enums.ChangeEventUpdate, "", nil, nil))
	}
}

func TestEventEncodeDecode(t *testing.T) {
	evt := NewEvent(TableMilestones, enums.ChangeEventDelete, "p9", nil, map[string]string{"id": "m1"})
	data, err := evt.Encode()
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	back, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if back.ID != evt.ID || back.Table != evt.Table || back.Type != evt.Type || back.ProjectID != evt.ProjectID {
		t.Fatalf("round trip mismatch: %+v vs %+v", back, evt)
	}

	if _, err := DecodeEvent([]byte("{")); err == nil {
		t.Fatal("expected decode error for malformed payload")
	}
}
