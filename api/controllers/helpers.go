package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/velvetrow/velvetrow-backend/api/middleware"
	"github.com/velvetrow/velvetrow-backend/internal/cart"
	pkgerrors "github.com/velvetrow/velvetrow-backend/pkg/errors"
	"github.com/velvetrow/velvetrow-backend/pkg/pagination"
)

// accessTokenHeader mirrors the freshly minted access token on auth
// responses so web clients can pick it up without parsing the body.
const accessTokenHeader = "X-VR-Token"

func userIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}

// shopperSession resolves the cart session for the request, preferring
// the authenticated user over an anonymous guest session.
func shopperSession(r *http.Request) (cart.Session, error) {
	if raw := middleware.UserIDFromContext(r.Context()); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return cart.Session{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
		}
		return cart.Session{UserID: &id}, nil
	}
	if guest := middleware.GuestSessionFromContext(r.Context()); guest != "" {
		return cart.Session{GuestSessionID: guest}, nil
	}
	return cart.Session{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials or guest session")
}

func urlUUID(r *http.Request, param string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, param))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+param)
	}
	return id, nil
}

func paginationFromQuery(r *http.Request) (pagination.Params, error) {
	params := pagination.Params{Cursor: strings.TrimSpace(r.URL.Query().Get("cursor"))}
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			return pagination.Params{}, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a positive integer")
		}
		params.Limit = value
	}
	return params, nil
}
