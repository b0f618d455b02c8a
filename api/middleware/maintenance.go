package middleware

import (
	"context"
	"net/http"

	"github.com/velvetrow/velvetrow-backend/api/responses"
	"github.com/velvetrow/velvetrow-backend/internal/settings"
	pkgerrors "github.com/velvetrow/velvetrow-backend/pkg/errors"
	"github.com/velvetrow/velvetrow-backend/pkg/logger"
)

type maintenanceReader interface {
	Maintenance(ctx context.Context) (settings.MaintenanceState, error)
}

// Maintenance blocks non-admin write requests while maintenance mode is
// enabled. Reads stay available so the storefront can render the notice.
func Maintenance(reader maintenanceReader, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if reader == nil || r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			if RoleFromContext(r.Context()) == "admin" {
				next.ServeHTTP(w, r)
				return
			}

			state, err := reader.Maintenance(r.Context())
			if err != nil {
				// A settings outage must not take the storefront down with it.
				if logg != nil {
					logg.Warn(r.Context(), "maintenance check failed")
				}
				next.ServeHTTP(w, r)
				return
			}
			if !state.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			msg := state.Message
			if msg == "" {
				msg = "store is under maintenance"
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeMaintenance, msg))
		})
	}
}
