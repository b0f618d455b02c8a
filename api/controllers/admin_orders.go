package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/velvetrow/velvetrow-backend/api/middleware"
	"github.com/velvetrow/velvetrow-backend/api/responses"
	"github.com/velvetrow/velvetrow-backend/api/validators"
	"github.com/velvetrow/velvetrow-backend/internal/orders"
	"github.com/velvetrow/velvetrow-backend/pkg/enums"
	pkgerrors "github.com/velvetrow/velvetrow-backend/pkg/errors"
	"github.com/velvetrow/velvetrow-backend/pkg/logger"
)

// AdminOrderList lists all orders with the full filter set.
func AdminOrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		params, err := paginationFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters, err := orderFiltersFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListOrders(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// AdminOrderDetail returns any order by id.
func AdminOrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID, err := urlUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdminOrderUpdateStatus advances an order along the fulfilment lifecycle.
func AdminOrderUpdateStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID, err := urlUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseOrderStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		actorID := uuid.Nil
		if raw := middleware.UserIDFromContext(r.Context()); raw != "" {
			if parsed, parseErr := uuid.Parse(raw); parseErr == nil {
				actorID = parsed
			}
		}

		dto, err := svc.UpdateStatus(r.Context(), orders.UpdateStatusInput{
			OrderID:     orderID,
			Status:      status,
			ActorUserID: actorID,
			ActorRole:   middleware.RoleFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}
