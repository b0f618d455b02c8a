package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velvetrow/velvetrow-backend/pkg/db/models"
	"github.com/velvetrow/velvetrow-backend/pkg/enums"
	pkgerrors "github.com/velvetrow/velvetrow-backend/pkg/errors"
	"github.com/velvetrow/velvetrow-backend/pkg/outbox"
	"github.com/velvetrow/velvetrow-backend/pkg/outbox/payloads"
	"github.com/velvetrow/velvetrow-backend/pkg/pagination"
	"github.com/velvetrow/velvetrow-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
	EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service exposes order recording, queries, and fulfillment transitions.
type Service interface {
	RecordOrder(ctx context.Context, input RecordOrderInput) (*OrderDTO, error)
	GetUserOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	ListUserOrders(ctx context.Context, userID uuid.UUID, params pagination.Params, filters ListFilters) (*OrderList, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	ListOrders(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*OrderDTO, error)
}

// RecordOrderLine is one cart line at the moment of recording.
type RecordOrderLine struct {
	ProductID     *uuid.UUID
	Name          string
	Size          string
	Color         string
	ImageURL      string
	UnitPriceKobo int64
	Quantity      int
}

// RecordOrderInput carries everything needed to persist a paid checkout.
type RecordOrderInput struct {
	Reference       string
	UserID          *uuid.UUID
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   *string
	ShippingAddress types.Address
	ShippingMethod  enums.ShippingMethod
	ShippingKobo    int64
	Lines           []RecordOrderLine
	PaidAt          time.Time
}

// UpdateStatusInput captures an admin-driven fulfillment transition.
type UpdateStatusInput struct {
	OrderID     uuid.UUID
	Status      enums.OrderStatus
	ActorUserID uuid.UUID
	ActorRole   string
}

// ServiceParams wires the order service dependencies.
type ServiceParams struct {
	Repo   Repository
	Tx     txRunner
	Outbox outboxPublisher
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
}

// NewService builds the orders service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{repo: params.Repo, tx: params.Tx, outbox: params.Outbox}, nil
}

// RecordOrder persists the order snapshot and emits order_created in the
// same transaction. Recording the same reference twice is a no-op that
// returns the existing order.
func (s *service) RecordOrder(ctx context.Context, input RecordOrderInput) (*OrderDTO, error) {
	if err := validateRecordInput(input); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByReference(ctx, input.Reference)
	if err == nil {
		return FromModel(existing), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup order by reference")
	}

	order := buildOrder(input)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		created, err := repo.Create(ctx, order)
		if err != nil {
			return err
		}
		order = created

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Actor:         actorFor(input.UserID),
			Data: payloads.OrderCreatedEvent{
				OrderID:      order.ID,
				Reference:    order.Reference,
				UserID:       order.UserID,
				TotalKobo:    order.TotalKobo,
				LineCount:    len(order.Items),
				PaymentRef:   order.PaymentReference,
				CustomerMail: order.CustomerEmail,
			},
		}
		return s.outbox.EmitIfNotExists(ctx, tx, event)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: record order")
	}
	return FromModel(order), nil
}

// GetUserOrder loads one of the user's own orders.
func (s *service) GetUserOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID == nil || *order.UserID != userID {
		// Hide other users' orders entirely.
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return FromModel(order), nil
}

// ListUserOrders pages through the user's orders newest first.
func (s *service) ListUserOrders(ctx context.Context, userID uuid.UUID, params pagination.Params, filters ListFilters) (*OrderList, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	list, err := s.repo.ListByUser(ctx, userID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}
	return list, nil
}

// GetOrder loads any order by id. Admin use.
func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return FromModel(order), nil
}

// ListOrders pages through all orders. Admin use.
func (s *service) ListOrders(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error) {
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}
	return list, nil
}

// UpdateStatus moves an order along its lifecycle and emits
// order_status_changed in the same transaction.
func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*OrderDTO, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", input.Status))
	}
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
		}
		if order.Status == input.Status {
			updated = order
			return nil
		}
		if !order.Status.CanTransitionTo(input.Status) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot move order from %s to %s", order.Status, input.Status))
		}

		now := time.Now().UTC()
		updates := map[string]any{"status": input.Status}
		switch input.Status {
		case enums.OrderStatusShipped:
			updates["shipped_at"] = now
			order.ShippedAt = &now
		case enums.OrderStatusDelivered:
			updates["delivered_at"] = now
			order.DeliveredAt = &now
		case enums.OrderStatusCancelled:
			updates["cancelled_at"] = now
			order.CancelledAt = &now
		}
		if err := repo.UpdateStatus(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order status")
		}

		previous := order.Status
		order.Status = input.Status
		updated = order

		actorID := input.ActorUserID
		event := outbox.DomainEvent{
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: actorID, Role: input.ActorRole},
			Data: payloads.OrderStatusChangedEvent{
				OrderID:   order.ID,
				Reference: order.Reference,
				From:      previous,
				To:        input.Status,
				ChangedAt: now,
			},
		}
		return s.outbox.Emit(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}
	return FromModel(updated), nil
}

func (s *service) loadOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}
	return order, nil
}

func validateRecordInput(input RecordOrderInput) error {
	if strings.TrimSpace(input.Reference) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment reference required")
	}
	if strings.TrimSpace(input.CustomerEmail) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer email required")
	}
	if len(input.Lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one line")
	}
	if !input.ShippingMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid shipping method %q", input.ShippingMethod))
	}
	for _, line := range input.Lines {
		if line.Quantity < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line %q has invalid quantity", line.Name))
		}
	}
	return nil
}

func buildOrder(input RecordOrderInput) *models.Order {
	items := make([]models.OrderLineItem, 0, len(input.Lines))
	var subtotal int64
	for _, line := range input.Lines {
		lineTotal := line.UnitPriceKobo * int64(line.Quantity)
		subtotal += lineTotal
		items = append(items, models.OrderLineItem{
			ProductID:     line.ProductID,
			Name:          line.Name,
			Size:          line.Size,
			Color:         line.Color,
			ImageURL:      line.ImageURL,
			UnitPriceKobo: line.UnitPriceKobo,
			Quantity:      line.Quantity,
			TotalKobo:     lineTotal,
		})
	}

	paidAt := input.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now().UTC()
	}

	return &models.Order{
		Reference:        input.Reference,
		UserID:           input.UserID,
		CustomerName:     strings.TrimSpace(input.CustomerName),
		CustomerEmail:    strings.ToLower(strings.TrimSpace(input.CustomerEmail)),
		CustomerPhone:    input.CustomerPhone,
		ShippingAddress:  input.ShippingAddress,
		ShippingMethod:   input.ShippingMethod,
		SubtotalKobo:     subtotal,
		ShippingKobo:     input.ShippingKobo,
		TotalKobo:        subtotal + input.ShippingKobo,
		Currency:         enums.CurrencyNGN,
		Status:           enums.OrderStatusProcessing,
		PaymentStatus:    enums.PaymentStatusPaid,
		PaymentReference: input.Reference,
		PaidAt:           &paidAt,
	}
}

func actorFor(userID *uuid.UUID) *outbox.ActorRef {
	if userID == nil {
		return nil
	}
	return &outbox.ActorRef{UserID: *userID, Role: string(enums.RoleCustomer)}
}
