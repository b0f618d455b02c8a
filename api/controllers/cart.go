package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/velvetrow/velvetrow-backend/api/responses"
	"github.com/velvetrow/velvetrow-backend/api/validators"
	"github.com/velvetrow/velvetrow-backend/internal/cart"
	pkgerrors "github.com/velvetrow/velvetrow-backend/pkg/errors"
	"github.com/velvetrow/velvetrow-backend/pkg/logger"
)

// CartFetch returns the shopper's current cart.
func CartFetch(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		session, err := shopperSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetCart(r.Context(), session)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// CartAddItem adds a line, merging quantities when the variant already exists.
func CartAddItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		session, err := shopperSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body cart.AddLineInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.AddLine(r.Context(), session, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

type cartLineKeyRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Size      string    `json:"size,omitempty"`
	Color     string    `json:"color,omitempty"`
}

func (c cartLineKeyRequest) key() cart.LineKey {
	return cart.LineKey{ProductID: c.ProductID, Size: c.Size, Color: c.Color}
}

type setQuantityRequest struct {
	cartLineKeyRequest
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// CartSetQuantity replaces the quantity of an existing line.
func CartSetQuantity(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		session, err := shopperSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body setQuantityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.SetQuantity(r.Context(), session, body.key(), body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// CartRemoveItem drops a line from the cart. Removing an absent line
// returns the unchanged cart.
func CartRemoveItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		session, err := shopperSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body cartLineKeyRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.RemoveLine(r.Context(), session, body.key())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// CartClear empties the cart and deletes its durable record.
func CartClear(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		session, err := shopperSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Clear(r.Context(), session); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}

type mergeCartRequest struct {
	GuestSessionID string `json:"guest_session_id" validate:"required"`
}

// CartMerge folds a guest cart into the authenticated user's cart.
func CartMerge(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body mergeCartRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.MergeGuestCart(r.Context(), userID, body.GuestSessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}
