package controllers

import (
	"net/http"

	"github.com/velvetrow/velvetrow-backend/api/responses"
	"github.com/velvetrow/velvetrow-backend/api/validators"
	"github.com/velvetrow/velvetrow-backend/internal/auth"
	pkgerrors "github.com/velvetrow/velvetrow-backend/pkg/errors"
	"github.com/velvetrow/velvetrow-backend/pkg/logger"
)

// AuthLogin wires the login endpoint into the HTTP layer.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set(accessTokenHeader, result.AccessToken)
		responses.WriteSuccess(w, result)
	}
}

// AdminAuthLogin is the back-office login, restricted to admin accounts.
func AdminAuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.AdminLogin(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set(accessTokenHeader, result.AccessToken)
		responses.WriteSuccess(w, result)
	}
}
