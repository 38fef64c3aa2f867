package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	pubsublib "cloud.google.com/go/pubsub/v2"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mgiordano-dev/presupuestador-backend/api"
	"github.com/mgiordano-dev/presupuestador-backend/api/routes"
	"github.com/mgiordano-dev/presupuestador-backend/internal/auth"
	"github.com/mgiordano-dev/presupuestador-backend/internal/catalog"
	"github.com/mgiordano-dev/presupuestador-backend/internal/lineitems"
	"github.com/mgiordano-dev/presupuestador-backend/internal/milestones"
	"github.com/mgiordano-dev/presupuestador-backend/internal/projects"
	"github.com/mgiordano-dev/presupuestador-backend/internal/realtime"
	"github.com/mgiordano-dev/presupuestador-backend/internal/tracking"
	"github.com/mgiordano-dev/presupuestador-backend/internal/trash"
	"github.com/mgiordano-dev/presupuestador-backend/internal/users"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/auth/session"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/config"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/db"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/logger"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/metrics"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/migrate"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/money"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/pubsub"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(ctx, "failed to create session manager", err)
		os.Exit(1)
	}

	hub := realtime.NewHub()

	var pubsubClient *pubsub.Client
	if cfg.GCP.ProjectID != "" {
		pubsubClient, err = pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()
	}

	var events realtime.Publisher = realtime.NoopPublisher{}
	var origin string
	if cfg.FeatureFlags.RealtimePublish {
		var topic *pubsublib.Publisher
		if pubsubClient != nil {
			topic = pubsubClient.ChangesPublisher()
		}
		broadcaster, err := realtime.NewBroadcaster(hub, topic, logg)
		if err != nil {
			logg.Error(ctx, "failed to create broadcaster", err)
			os.Exit(1)
		}
		events = broadcaster
		origin = broadcaster.Origin()
	}

	if pubsubClient != nil && cfg.PubSub.ChangesSubscription != "" {
		consumer, err := realtime.NewConsumer(pubsubClient.ChangesSubscription(), hub, logg, origin)
		if err != nil {
			logg.Error(ctx, "failed to create realtime consumer", err)
			os.Exit(1)
		}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logg.Error(ctx, "realtime consumer stopped", err)
			}
		}()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(reg)
	budgetMetrics := metrics.NewBudgetMetrics(reg)

	userRepo := users.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())
	projectRepo := projects.NewRepository(dbClient.DB())
	lineItemRepo := lineitems.NewRepository(dbClient.DB())
	trackingRepo := tracking.NewRepository(dbClient.DB())
	milestoneRepo := milestones.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		Users:    userRepo,
		Sessions: sessionManager,
		JWT:      cfg.JWT,
		Password: cfg.Password,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create auth service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		Repo:   catalogRepo,
		Events: events,
	})
	if err != nil {
		logg.Error(ctx, "failed to create catalog service", err)
		os.Exit(1)
	}

	projectService, err := projects.NewService(projects.ServiceParams{
		Repo:   projectRepo,
		Events: events,
	})
	if err != nil {
		logg.Error(ctx, "failed to create project service", err)
		os.Exit(1)
	}

	budgetService, err := lineitems.NewService(lineitems.ServiceParams{
		Repo:     lineItemRepo,
		Projects: projectRepo,
		Products: catalogRepo,
		Locks:    redisClient,
		Events:   events,
		Metrics:  budgetMetrics,
		Logger:   logg,
		Locale:   money.NewLocale(cfg.Money.BudgetCurrency, cfg.Money.BudgetLocale),
	})
	if err != nil {
		logg.Error(ctx, "failed to create budget service", err)
		os.Exit(1)
	}

	trackingService, err := tracking.NewService(tracking.ServiceParams{
		Repo:     trackingRepo,
		Projects: projectRepo,
		Events:   events,
		Locale:   money.NewLocale(cfg.Money.TrackingCurrency, cfg.Money.TrackingLocale),
	})
	if err != nil {
		logg.Error(ctx, "failed to create tracking service", err)
		os.Exit(1)
	}

	milestoneService, err := milestones.NewService(milestones.ServiceParams{
		Repo:     milestoneRepo,
		Projects: projectRepo,
		Events:   events,
	})
	if err != nil {
		logg.Error(ctx, "failed to create milestone service", err)
		os.Exit(1)
	}

	trashService, err := trash.NewService(trash.ServiceParams{
		Catalog:  catalogRepo,
		Projects: projectRepo,
		Events:   events,
	})
	if err != nil {
		logg.Error(ctx, "failed to create trash service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port != "" {
		cfg.App.Port = port
	}
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}

	router := routes.NewRouter(routes.Deps{
		Config:     cfg,
		Logger:     logg,
		DB:         dbClient,
		Redis:      redisClient,
		Sessions:   sessionManager,
		Metrics:    httpMetrics,
		MetricsH:   promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Hub:        hub,
		Auth:       authService,
		Catalog:    catalogService,
		Projects:   projectService,
		Budget:     budgetService,
		Tracking:   trackingService,
		Milestones: milestoneService,
		Trash:      trashService,
	})

	server := api.NewServer(cfg, router)

	startCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     server.Addr,
		"instance": id,
	})
	logg.Info(startCtx, "starting api server")

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(startCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(startCtx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(startCtx, "graceful shutdown failed", err)
		}
	}
}
