package realtime

import (
	"context"
	"fmt"

	pubsublib "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/mgiordano-dev/presupuestador-backend/pkg/enums"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/logger"
)

// Publisher is the write-path surface: domains emit a change event after a
// successful mutation. Implementations must never fail the caller's write.
type Publisher interface {
	PublishChange(ctx context.Context, table string, typ enums.ChangeEventType, projectID string, newRow, oldRow any)
}

// NoopPublisher discards events. Used when realtime publishing is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishChange(context.Context, string, enums.ChangeEventType, string, any, any) {
}

// Broadcaster delivers events to the local hub and, when a topic is
// configured, to Pub/Sub so other instances see them too.
type Broadcaster struct {
	hub    *Hub
	topic  *pubsublib.Publisher
	logg   *logger.Logger
	origin string
}

// NewBroadcaster wires the hub and the optional Pub/Sub topic. topic may be
// nil for single-instance deployments.
func NewBroadcaster(hub *Hub, topic *pubsublib.Publisher, logg *logger.Logger) (*Broadcaster, error) {
	if hub == nil {
		return nil, fmt.Errorf("hub is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Broadcaster{
		hub:    hub,
		topic:  topic,
		logg:   logg,
		origin: uuid.NewString(),
	}, nil
}

// Origin identifies this instance so its own Pub/Sub echoes can be skipped.
func (b *Broadcaster) Origin() string {
	return b.origin
}

// PublishChange broadcasts locally and forwards to Pub/Sub. Failures are
// logged, never returned: realtime is best-effort and must not fail the
// mutation that triggered it.
func (b *Broadcaster) PublishChange(ctx context.Context, table string, typ enums.ChangeEventType, projectID string, newRow, oldRow any) {
	evt := NewEvent(table, typ, projectID, newRow, oldRow)
	evt.Origin = b.origin

	b.hub.Broadcast(evt)

	if b.topic == nil {
		return
	}

	data, err := evt.Encode()
	if err != nil {
		b.logg.Error(ctx, "encoding change event", err)
		return
	}

	// Detach from the request so a client disconnect does not cancel the
	// publish.
	bg := context.WithoutCancel(ctx)
	result := b.topic.Publish(bg, &pubsublib.Message{
		Data: data,
		Attributes: map[string]string{
			"table":  table,
			"type":   typ.String(),
			"origin": b.origin,
		},
	})
	go func() {
		if _, err := result.Get(bg); err != nil {
			b.logg.Error(bg, "publishing change event", err)
		}
	}()
}
