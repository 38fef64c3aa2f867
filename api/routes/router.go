package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mgiordano-dev/presupuestador-backend/api/controllers"
	"github.com/mgiordano-dev/presupuestador-backend/api/middleware"
	"github.com/mgiordano-dev/presupuestador-backend/internal/auth"
	"github.com/mgiordano-dev/presupuestador-backend/internal/catalog"
	"github.com/mgiordano-dev/presupuestador-backend/internal/lineitems"
	"github.com/mgiordano-dev/presupuestador-backend/internal/milestones"
	projectsvc "github.com/mgiordano-dev/presupuestador-backend/internal/projects"
	"github.com/mgiordano-dev/presupuestador-backend/internal/realtime"
	"github.com/mgiordano-dev/presupuestador-backend/internal/tracking"
	"github.com/mgiordano-dev/presupuestador-backend/internal/trash"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/auth/session"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/config"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/db"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/logger"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/metrics"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/redis"
)

// Deps bundles everything the router mounts.
type Deps struct {
	Config     *config.Config
	Logger     *logger.Logger
	DB         db.Pinger
	Redis      *redis.Client
	Sessions   session.AccessSessionChecker
	Metrics    *metrics.HTTPMetrics
	MetricsH   http.Handler
	Hub        *realtime.Hub
	Auth       auth.Service
	Catalog    catalog.Service
	Projects   projectsvc.Service
	Budget     lineitems.Service
	Tracking   tracking.Service
	Milestones milestones.Service
	Trash      trash.Service
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(d.Metrics),
		middleware.CORS(cfg.CORS),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRL.LoginWindow,
		cfg.AuthRL.LoginIPLimit,
		cfg.AuthRL.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRL.RegisterWindow,
		cfg.AuthRL.RegisterIPLimit,
		cfg.AuthRL.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.DB, d.Redis))
	})

	if d.MetricsH != nil {
		r.Method(http.MethodGet, "/metrics", d.MetricsH)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, d.Redis, logg)).Post("/register", controllers.AuthRegister(d.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/login", controllers.AuthLogin(d.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(d.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
			r.Post("/logout", controllers.AuthLogout(d.Auth, logg))
			r.Get("/me", controllers.AuthMe(d.Auth, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(d.Catalog, logg))
			r.Post("/", controllers.ProductCreate(d.Catalog, logg))
			r.Get("/{productId}", controllers.ProductGet(d.Catalog, logg))
			r.Put("/{productId}", controllers.ProductUpdate(d.Catalog, logg))
			r.Delete("/{productId}", controllers.ProductDelete(d.Catalog, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.CategoryList(d.Catalog, logg))
			r.Post("/", controllers.CategoryCreate(d.Catalog, logg))
			r.Put("/{categoryId}", controllers.CategoryUpdate(d.Catalog, logg))
			r.Delete("/{categoryId}", controllers.CategoryDelete(d.Catalog, logg))
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", controllers.ProjectList(d.Projects, logg))
			r.Post("/", controllers.ProjectCreate(d.Projects, logg))

			r.Route("/{projectId}", func(r chi.Router) {
				r.Get("/", controllers.ProjectGet(d.Projects, logg))
				r.Put("/", controllers.ProjectUpdate(d.Projects, logg))
				r.Delete("/", controllers.ProjectDelete(d.Projects, logg))

				r.Get("/budget", controllers.BudgetFetch(d.Budget, logg))
				r.Put("/budget", controllers.BudgetSave(d.Budget, logg))

				r.Route("/line-items", func(r chi.Router) {
					r.Get("/", controllers.RowList(d.Budget, logg))
					r.Post("/", controllers.RowCreate(d.Budget, logg))
					r.Put("/{rowId}", controllers.RowUpdate(d.Budget, logg))
					r.Delete("/{rowId}", controllers.RowDelete(d.Budget, logg))
				})

				r.Route("/tracking", func(r chi.Router) {
					r.Get("/", controllers.TrackingRollup(d.Tracking, logg))
					r.Post("/categories", controllers.TrackingCategoryCreate(d.Tracking, logg))
					r.Put("/categories/{categoryId}", controllers.TrackingCategoryUpdate(d.Tracking, logg))
					r.Delete("/categories/{categoryId}", controllers.TrackingCategoryDelete(d.Tracking, logg))
				})

				r.Route("/milestones", func(r chi.Router) {
					r.Get("/", controllers.MilestoneList(d.Milestones, logg))
					r.Post("/", controllers.MilestoneCreate(d.Milestones, logg))
					r.Put("/{milestoneId}", controllers.MilestoneUpdate(d.Milestones, logg))
					r.Delete("/{milestoneId}", controllers.MilestoneDelete(d.Milestones, logg))
					r.Post("/{milestoneId}/tasks", controllers.MilestoneTaskAdd(d.Milestones, logg))
					r.Put("/{milestoneId}/tasks/{taskId}", controllers.MilestoneTaskUpdate(d.Milestones, logg))
					r.Delete("/{milestoneId}/tasks/{taskId}", controllers.MilestoneTaskDelete(d.Milestones, logg))
				})
			})
		})

		r.Post("/budget/quote", controllers.BudgetQuote(d.Budget, logg))

		r.Route("/trash", func(r chi.Router) {
			r.Get("/", controllers.TrashList(d.Trash, logg))
			r.Get("/stats", controllers.TrashStats(d.Trash, logg))
			r.Delete("/", controllers.TrashEmpty(d.Trash, logg))
			r.Post("/{kind}/{itemId}/restore", controllers.TrashRestore(d.Trash, logg))
			r.Delete("/{kind}/{itemId}", controllers.TrashPurge(d.Trash, logg))
		})

		r.Get("/events", controllers.EventsStream(d.Hub, logg))
	})

	return r
}
