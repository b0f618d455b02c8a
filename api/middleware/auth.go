package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/velvetrow/velvetrow-backend/api/responses"
	pkgAuth "github.com/velvetrow/velvetrow-backend/pkg/auth"
	"github.com/velvetrow/velvetrow-backend/pkg/auth/session"
	"github.com/velvetrow/velvetrow-backend/pkg/config"
	pkgerrors "github.com/velvetrow/velvetrow-backend/pkg/errors"
	"github.com/velvetrow/velvetrow-backend/pkg/logger"
)

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	token := raw
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	return token
}

func authenticate(r *http.Request, cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) (context.Context, error) {
	token := bearerToken(r)
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if claims.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}

	if verifier != nil {
		ok, err := verifier.HasSession(r.Context(), claims.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session")
		}
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable")
		}
	}

	ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID.String())
	ctx = context.WithValue(ctx, ctxRole, string(claims.Role))

	if logg != nil {
		ctx = logg.WithFields(ctx, map[string]any{
			"user_id":    claims.UserID.String(),
			"actor_role": string(claims.Role),
		})
	}
	return ctx, nil
}

// Auth validates a bearer token and seeds the request context with the claims.
func Auth(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, err := authenticate(r, cfg, verifier, logg)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
