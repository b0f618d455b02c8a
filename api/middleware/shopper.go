package middleware

import (
	"net/http"
	"strings"

	"github.com/velvetrow/velvetrow-backend/api/responses"
	"github.com/velvetrow/velvetrow-backend/pkg/auth/session"
	"github.com/velvetrow/velvetrow-backend/pkg/config"
	pkgerrors "github.com/velvetrow/velvetrow-backend/pkg/errors"
	"github.com/velvetrow/velvetrow-backend/pkg/logger"
)

// GuestSessionHeader carries the anonymous shopper's session id on
// cart and checkout requests made without an account.
const GuestSessionHeader = "X-Guest-Session"

// Shopper admits either an authenticated user (bearer token) or an
// anonymous guest identified by the guest session header. One of the
// two must be present.
func Shopper(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if bearerToken(r) != "" {
				ctx, err := authenticate(r, cfg, verifier, logg)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, err)
					return
				}
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			guest := strings.TrimSpace(r.Header.Get(GuestSessionHeader))
			if guest == "" {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials or guest session"))
				return
			}

			ctx := WithGuestSession(r.Context(), guest)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{"guest_session": guest})
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
