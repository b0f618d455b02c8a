package controllers

import (
	"net/http"

	"github.com/velvetrow/velvetrow-backend/api/responses"
	"github.com/velvetrow/velvetrow-backend/pkg/config"
	"github.com/velvetrow/velvetrow-backend/pkg/db"
	"github.com/velvetrow/velvetrow-backend/pkg/errors"
	"github.com/velvetrow/velvetrow-backend/pkg/logger"
	"github.com/velvetrow/velvetrow-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-VR-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when both Postgres and Redis answer a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, database db.Pinger, cache redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-VR-Env", cfg.App.Env)

		if database != nil {
			if err := database.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, errors.Wrap(errors.CodeDependency, err, "postgres unavailable"))
				return
			}
		}
		if cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, errors.Wrap(errors.CodeDependency, err, "redis unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
