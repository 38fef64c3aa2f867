package realtime

import (
	"context"
	"fmt"

	pubsublib "cloud.google.com/go/pubsub/v2"

	"github.com/mgiordano-dev/presupuestador-backend/pkg/logger"
)

// Consumer bridges remote instances' change events from Pub/Sub into the
// local hub. Each instance must own its subscription; change events fan out,
// they are not work-queue items.
type Consumer struct {
	sub        *pubsublib.Subscriber
	hub        *Hub
	logg       *logger.Logger
	skipOrigin string
}

// NewConsumer builds a consumer. skipOrigin filters out events this instance
// published itself (they already went through the hub directly).
func NewConsumer(sub *pubsublib.Subscriber, hub *Hub, logg *logger.Logger, skipOrigin string) (*Consumer, error) {
	if sub == nil {
		return nil, fmt.Errorf("subscriber is required")
	}
	if hub == nil {
		return nil, fmt.Errorf("hub is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Consumer{sub: sub, hub: hub, logg: logg, skipOrigin: skipOrigin}, nil
}

// Run blocks receiving events until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	c.logg.Info(ctx, "realtime consumer started")
	return c.sub.Receive(ctx, func(ctx context.Context, msg *pubsublib.Message) {
		defer msg.Ack()

		if c.skipOrigin != "" && msg.Attributes["origin"] == c.skipOrigin {
			return
		}

		evt, err := DecodeEvent(msg.Data)
		if err != nil {
			c.logg.Error(ctx, "decoding change event", err)
			return
		}
		if !KnownTable(evt.Table) {
			c.logg.Warn(c.logg.WithField(ctx, "table", evt.Table), "change event for unknown table")
			return
		}
		c.hub.Broadcast(evt)
	})
}
