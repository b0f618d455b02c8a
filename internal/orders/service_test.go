package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/velvetrow/velvetrow-backend/pkg/db/models"
	"github.com/velvetrow/velvetrow-backend/pkg/enums"
	pkgerrors "github.com/velvetrow/velvetrow-backend/pkg/errors"
	"github.com/velvetrow/velvetrow-backend/pkg/outbox"
	"github.com/velvetrow/velvetrow-backend/pkg/outbox/payloads"
	"github.com/velvetrow/velvetrow-backend/pkg/pagination"
	"github.com/velvetrow/velvetrow-backend/pkg/types"
)

type stubOrderRepo struct {
	orders map[uuid.UUID]*models.Order
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: map[uuid.UUID]*models.Order{}}
}

func (s *stubOrderRepo) WithTx(*gorm.DB) Repository { return s }

func (s *stubOrderRepo) Create(_ context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	for i := range order.Items {
		if order.Items[i].ID == uuid.Nil {
			order.Items[i].ID = uuid.New()
		}
		order.Items[i].OrderID = order.ID
	}
	order.CreatedAt = time.Now().UTC()
	s.orders[order.ID] = order
	return order, nil
}

func (s *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (s *stubOrderRepo) FindByReference(_ context.Context, reference string) (*models.Order, error) {
	for _, order := range s.orders {
		if order.Reference == reference {
			return order, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrderRepo) ExistsByReference(ctx context.Context, reference string) (bool, error) {
	_, err := s.FindByReference(ctx, reference)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (s *stubOrderRepo) ListByUser(_ context.Context, userID uuid.UUID, _ pagination.Params, _ ListFilters) (*OrderList, error) {
	list := &OrderList{Orders: []OrderSummaryDTO{}}
	for _, order := range s.orders {
		if order.UserID != nil && *order.UserID == userID {
			list.Orders = append(list.Orders, summaryFromModel(order))
		}
	}
	return list, nil
}

func (s *stubOrderRepo) List(_ context.Context, _ pagination.Params, _ ListFilters) (*OrderList, error) {
	list := &OrderList{Orders: []OrderSummaryDTO{}}
	for _, order := range s.orders {
		list.Orders = append(list.Orders, summaryFromModel(order))
	}
	return list, nil
}

func (s *stubOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, updates map[string]any) error {
	order, ok := s.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if status, ok := updates["status"].(enums.OrderStatus); ok {
		order.Status = status
	}
	return nil
}

type stubOrderTxRunner struct{}

func (stubOrderTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type stubOrderOutbox struct {
	events []outbox.DomainEvent
}

func (s *stubOrderOutbox) Emit(_ context.Context, _ *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

func (s *stubOrderOutbox) EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	for _, existing := range s.events {
		if existing.EventType == event.EventType && existing.AggregateID == event.AggregateID {
			return nil
		}
	}
	return s.Emit(ctx, tx, event)
}

func buildOrderService(t *testing.T) (Service, *stubOrderRepo, *stubOrderOutbox) {
	t.Helper()
	repo := newStubOrderRepo()
	emitter := &stubOrderOutbox{}
	svc, err := NewService(ServiceParams{Repo: repo, Tx: stubOrderTxRunner{}, Outbox: emitter})
	require.NoError(t, err)
	return svc, repo, emitter
}

func recordInput(userID *uuid.UUID) RecordOrderInput {
	productID := uuid.New()
	return RecordOrderInput{
		Reference:     "order_1723280000000",
		UserID:        userID,
		CustomerName:  "Adaeze Obi",
		CustomerEmail: "Adaeze@Example.com",
		ShippingAddress: types.Address{
			Street:     "14 Awolowo Road",
			City:       "Ikoyi",
			State:      "Lagos",
			PostalCode: "101233",
			Country:    "NG",
		},
		ShippingMethod: enums.ShippingStandard,
		ShippingKobo:   150000,
		Lines: []RecordOrderLine{
			{ProductID: &productID, Name: "silk-wrap-dress", Size: "M", UnitPriceKobo: 4550000, Quantity: 2},
			{Name: "satin-scarf", UnitPriceKobo: 250000, Quantity: 1},
		},
	}
}

func TestRecordOrderSnapshotsTotals(t *testing.T) {
	svc, _, emitter := buildOrderService(t)
	userID := uuid.New()

	dto, err := svc.RecordOrder(context.Background(), recordInput(&userID))
	require.NoError(t, err)

	assert.Equal(t, int64(9350000), dto.SubtotalKobo)
	assert.Equal(t, int64(9500000), dto.TotalKobo)
	assert.Equal(t, enums.OrderStatusProcessing, dto.Status)
	assert.Equal(t, enums.PaymentStatusPaid, dto.PaymentStatus)
	assert.Equal(t, "adaeze@example.com", dto.CustomerEmail)
	require.NotNil(t, dto.PaidAt)
	require.Len(t, dto.Items, 2)
	assert.Equal(t, int64(9100000), dto.Items[0].TotalKobo)

	require.Len(t, emitter.events, 1)
	event := emitter.events[0]
	assert.Equal(t, enums.EventOrderCreated, event.EventType)
	assert.Equal(t, enums.AggregateOrder, event.AggregateType)
	payload, ok := event.Data.(payloads.OrderCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, dto.ID, payload.OrderID)
	assert.Equal(t, int64(9500000), payload.TotalKobo)
	assert.Equal(t, 2, payload.LineCount)
}

func TestRecordOrderSameReferenceIsIdempotent(t *testing.T) {
	svc, repo, emitter := buildOrderService(t)

	first, err := svc.RecordOrder(context.Background(), recordInput(nil))
	require.NoError(t, err)
	second, err := svc.RecordOrder(context.Background(), recordInput(nil))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.orders, 1)
	assert.Len(t, emitter.events, 1)
}

func TestRecordOrderValidation(t *testing.T) {
	svc, _, _ := buildOrderService(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*RecordOrderInput)
	}{
		{"missing reference", func(in *RecordOrderInput) { in.Reference = " " }},
		{"missing email", func(in *RecordOrderInput) { in.CustomerEmail = "" }},
		{"no lines", func(in *RecordOrderInput) { in.Lines = nil }},
		{"bad shipping method", func(in *RecordOrderInput) { in.ShippingMethod = "overnight" }},
		{"zero quantity", func(in *RecordOrderInput) { in.Lines[0].Quantity = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := recordInput(nil)
			tc.mutate(&input)
			_, err := svc.RecordOrder(ctx, input)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}

func TestGetUserOrderHidesOtherUsers(t *testing.T) {
	svc, _, _ := buildOrderService(t)
	ctx := context.Background()
	owner := uuid.New()

	dto, err := svc.RecordOrder(ctx, recordInput(&owner))
	require.NoError(t, err)

	got, err := svc.GetUserOrder(ctx, owner, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.ID, got.ID)

	_, err = svc.GetUserOrder(ctx, uuid.New(), dto.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestUpdateStatusValidTransition(t *testing.T) {
	svc, _, emitter := buildOrderService(t)
	ctx := context.Background()
	admin := uuid.New()

	dto, err := svc.RecordOrder(ctx, recordInput(nil))
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, UpdateStatusInput{
		OrderID:     dto.ID,
		Status:      enums.OrderStatusShipped,
		ActorUserID: admin,
		ActorRole:   string(enums.RoleAdmin),
	})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, updated.Status)
	assert.NotNil(t, updated.ShippedAt)

	require.Len(t, emitter.events, 2)
	event := emitter.events[1]
	assert.Equal(t, enums.EventOrderStatusChanged, event.EventType)
	payload, ok := event.Data.(payloads.OrderStatusChangedEvent)
	require.True(t, ok)
	assert.Equal(t, enums.OrderStatusProcessing, payload.From)
	assert.Equal(t, enums.OrderStatusShipped, payload.To)
}

func TestUpdateStatusRejectsIllegalTransition(t *testing.T) {
	svc, _, _ := buildOrderService(t)
	ctx := context.Background()

	dto, err := svc.RecordOrder(ctx, recordInput(nil))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, UpdateStatusInput{
		OrderID:     dto.ID,
		Status:      enums.OrderStatusDelivered,
		ActorUserID: uuid.New(),
		ActorRole:   string(enums.RoleAdmin),
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestUpdateStatusSameStatusIsNoop(t *testing.T) {
	svc, _, emitter := buildOrderService(t)
	ctx := context.Background()

	dto, err := svc.RecordOrder(ctx, recordInput(nil))
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, UpdateStatusInput{
		OrderID:     dto.ID,
		Status:      enums.OrderStatusProcessing,
		ActorUserID: uuid.New(),
		ActorRole:   string(enums.RoleAdmin),
	})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusProcessing, updated.Status)
	assert.Len(t, emitter.events, 1)
}

func TestCancelledOnlyFromProcessing(t *testing.T) {
	svc, _, _ := buildOrderService(t)
	ctx := context.Background()
	admin := uuid.New()

	dto, err := svc.RecordOrder(ctx, recordInput(nil))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, UpdateStatusInput{
		OrderID: dto.ID, Status: enums.OrderStatusShipped, ActorUserID: admin,
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, UpdateStatusInput{
		OrderID: dto.ID, Status: enums.OrderStatusCancelled, ActorUserID: admin,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}
