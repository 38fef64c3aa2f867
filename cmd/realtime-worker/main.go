package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mgiordano-dev/presupuestador-backend/internal/realtime"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/config"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/logger"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/pubsub"
)

// realtime-worker tails the change event topic and logs every event. It is an
// operational tail for debugging fan-out: the API instances consume the same
// topic through their own subscriptions to feed SSE clients.
func main() {
	logg := logger.New(logger.Options{ServiceName: "realtime-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "realtime-worker"

	logg = logger.New(logger.Options{
		ServiceName: "realtime-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.PubSub.ChangesSubscription == "" {
		logg.Error(ctx, "missing changes subscription", errors.New("PRESU_PUBSUB_CHANGES_SUBSCRIPTION is required"))
		os.Exit(1)
	}

	pubsubClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap pubsub", err)
		os.Exit(1)
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing pubsub", err)
		}
	}()

	hub := realtime.NewHub()
	consumer, err := realtime.NewConsumer(pubsubClient.ChangesSubscription(), hub, logg, "")
	if err != nil {
		logg.Error(ctx, "failed to create realtime consumer", err)
		os.Exit(1)
	}

	events, cancel := hub.Subscribe(realtime.Filter{})
	defer cancel()

	go func() {
		for evt := range events {
			fields := map[string]any{
				"event_id": evt.ID,
				"table":    evt.Table,
				"type":     evt.Type.String(),
				"origin":   evt.Origin,
			}
			if evt.ProjectID != "" {
				fields["project_id"] = evt.ProjectID
			}
			logg.Info(logg.WithFields(ctx, fields), "change event")
		}
	}()

	logg.Info(logg.WithField(ctx, "env", cfg.App.Env), "realtime worker started")

	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "realtime consumer stopped unexpectedly", err)
		os.Exit(1)
	}
}
