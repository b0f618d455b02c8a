package controllers

import (
	"net/http"
	"strings"

	"github.com/velvetrow/velvetrow-backend/api/responses"
	"github.com/velvetrow/velvetrow-backend/api/validators"
	"github.com/velvetrow/velvetrow-backend/internal/users"
	"github.com/velvetrow/velvetrow-backend/pkg/enums"
	pkgerrors "github.com/velvetrow/velvetrow-backend/pkg/errors"
	"github.com/velvetrow/velvetrow-backend/pkg/logger"
)

// AdminUserList lists accounts with optional query and role filters.
func AdminUserList(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		params, err := paginationFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := users.ListFilters{Query: strings.TrimSpace(r.URL.Query().Get("q"))}
		if raw := strings.TrimSpace(r.URL.Query().Get("role")); raw != "" {
			role, err := enums.ParseUserRole(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role"))
				return
			}
			filters.Role = &role
		}

		list, err := svc.ListUsers(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

type setUserRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// AdminUserSetRole grants or revokes admin access on an account.
func AdminUserSetRole(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		targetID, err := urlUUID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body setUserRoleRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role, err := enums.ParseUserRole(body.Role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role"))
			return
		}

		actorID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.SetRole(r.Context(), actorID, targetID, role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// AdminUserDelete removes an account.
func AdminUserDelete(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		targetID, err := urlUUID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actorID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteUser(r.Context(), actorID, targetID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
