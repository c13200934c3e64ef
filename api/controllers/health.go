package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/miguelantunes/partnerflow-backend/api/responses"
	"github.com/miguelantunes/partnerflow-backend/pkg/config"
	pkgerrors "github.com/miguelantunes/partnerflow-backend/pkg/errors"
	"github.com/miguelantunes/partnerflow-backend/pkg/logger"
)

const readinessTimeout = 3 * time.Second

// Pinger is the readiness surface a dependency must expose.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-PartnerFlow-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-PartnerFlow-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				checks[name] = "down"
				logCtx := logg.WithField(ctx, "dependency", name)
				logg.Error(logCtx, "readiness check failed", err)
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable").WithDetails(checks))
				return
			}
			checks[name] = "up"
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
