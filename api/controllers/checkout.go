package controllers

import (
	"net/http"

	"github.com/velvetrow/velvetrow-backend/api/responses"
	"github.com/velvetrow/velvetrow-backend/api/validators"
	checkoutsvc "github.com/velvetrow/velvetrow-backend/internal/checkout"
	pkgerrors "github.com/velvetrow/velvetrow-backend/pkg/errors"
	"github.com/velvetrow/velvetrow-backend/pkg/logger"
)

// CheckoutBegin validates the cart, initializes the payment and returns
// the gateway authorization URL alongside the order reference.
func CheckoutBegin(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		session, err := shopperSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body checkoutsvc.BeginInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Begin(r.Context(), session, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

type confirmRequest struct {
	Reference string `json:"reference" validate:"required"`
}

// CheckoutConfirm verifies payment with the gateway and records the order.
func CheckoutConfirm(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var body confirmRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Confirm(r.Context(), body.Reference)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}
