package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/mgiordano-dev/presupuestador-backend/api/responses"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/config"
	pkgerrors "github.com/mgiordano-dev/presupuestador-backend/pkg/errors"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/logger"
)

const readinessTimeout = 3 * time.Second

// Pinger is the probe surface shared by the database and Redis clients.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Presu-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when every backing dependency answers.
func HealthReady(cfg *config.Config, logg *logger.Logger, db, cache Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Presu-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		probe := func(name string, p Pinger) {
			if p == nil {
				checks[name] = "skipped"
				return
			}
			if err := p.Ping(ctx); err != nil {
				checks[name] = "down"
				healthy = false
				if logg != nil {
					logg.Error(ctx, "health."+name+".down", err)
				}
				return
			}
			checks[name] = "up"
		}

		probe("db", db)
		probe("redis", cache)

		if !healthy {
			responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeDependency, "dependencies unavailable").WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
