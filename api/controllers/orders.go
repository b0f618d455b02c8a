package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/velvetrow/velvetrow-backend/api/responses"
	"github.com/velvetrow/velvetrow-backend/api/validators"
	"github.com/velvetrow/velvetrow-backend/internal/orders"
	"github.com/velvetrow/velvetrow-backend/pkg/enums"
	pkgerrors "github.com/velvetrow/velvetrow-backend/pkg/errors"
	"github.com/velvetrow/velvetrow-backend/pkg/logger"
)

// MyOrders lists the authenticated user's orders, newest first.
func MyOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
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

		list, err := svc.ListUserOrders(r.Context(), userID, params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// MyOrderDetail returns one of the authenticated user's orders.
func MyOrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := urlUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetUserOrder(r.Context(), userID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

func orderFiltersFromQuery(r *http.Request) (orders.ListFilters, error) {
	filters := orders.ListFilters{
		Query: validators.SanitizeString(r.URL.Query().Get("q"), 120),
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := enums.ParseOrderStatus(raw)
		if err != nil {
			return orders.ListFilters{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		filters.Status = &status
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("payment_status")); raw != "" {
		status, err := enums.ParsePaymentStatus(raw)
		if err != nil {
			return orders.ListFilters{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment_status")
		}
		filters.PaymentStatus = &status
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("date_from")); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return orders.ListFilters{}, pkgerrors.New(pkgerrors.CodeValidation, "date_from must be RFC3339")
		}
		filters.DateFrom = &from
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("date_to")); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return orders.ListFilters{}, pkgerrors.New(pkgerrors.CodeValidation, "date_to must be RFC3339")
		}
		filters.DateTo = &to
	}
	return filters, nil
}
