package realtime

import (
	"sync"
)

// Filter narrows which events a subscriber receives. Empty fields match
// everything.
type Filter struct {
	Table     string
	ProjectID string
}

func (f Filter) matches(evt Event) bool {
	if f.Table != "" && f.Table != evt.Table {
		return false
	}
	if f.ProjectID != "" && f.ProjectID != evt.ProjectID {
		return false
	}
	return true
}

// subscriberBuffer bounds how far a slow SSE client may lag before events are
// dropped for it.
const subscriberBuffer = 64

type subscriber struct {
	filter Filter
	ch     chan Event
}

// Hub fans change events out to in-process subscribers.
type Hub struct {
	mu   sync.RWMutex
	subs map[*subscriber]struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[*subscriber]struct{})}
}

// Subscribe registers a filtered subscriber. The returned cancel function
// must be called when the client disconnects; it closes the event channel.
func (h *Hub) Subscribe(filter Filter) (<-chan Event, func()) {
	sub := &subscriber{filter: filter, ch: make(chan Event, subscriberBuffer)}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, sub)
			h.mu.Unlock()
			close(sub.ch)
		})
	}
	return sub.ch, cancel
}

// Broadcast delivers the event to every matching subscriber. Subscribers
// whose buffer is full miss the event rather than block the writer.
func (h *Hub) Broadcast(evt Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs {
		if !sub.filter.matches(evt) {
			continue
		}
		select {
		case sub.ch <- evt:
		default:
		}
	}
}

// SubscriberCount returns the number of active subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
