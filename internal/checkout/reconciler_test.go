package checkout

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/velvetrow/velvetrow-backend/pkg/db/models"
	"github.com/velvetrow/velvetrow-backend/pkg/enums"
	"github.com/velvetrow/velvetrow-backend/pkg/logger"
	"github.com/velvetrow/velvetrow-backend/pkg/outbox"
	"github.com/velvetrow/velvetrow-backend/pkg/outbox/payloads"
)

type stubStockRepo struct {
	byID   map[uuid.UUID]*models.Product
	byName map[string]*models.Product
}

func newStubStockRepo(products ...*models.Product) *stubStockRepo {
	repo := &stubStockRepo{
		byID:   map[uuid.UUID]*models.Product{},
		byName: map[string]*models.Product{},
	}
	for _, p := range products {
		repo.byID[p.ID] = p
		repo.byName[p.Name] = p
	}
	return repo
}

func (s *stubStockRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (s *stubStockRepo) FindByName(_ context.Context, name string) (*models.Product, error) {
	p, ok := s.byName[name]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (s *stubStockRepo) DecrementStock(_ context.Context, id uuid.UUID, qty int) (bool, error) {
	p, ok := s.byID[id]
	if !ok || p.StockQty < qty {
		return false, nil
	}
	p.StockQty -= qty
	p.InStock = p.StockQty > 0
	return true, nil
}

type stubCheckoutTxRunner struct{}

func (stubCheckoutTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type stubCheckoutOutbox struct {
	events []outbox.DomainEvent
}

func (s *stubCheckoutOutbox) Emit(_ context.Context, _ *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

func (s *stubCheckoutOutbox) EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	for _, existing := range s.events {
		if existing.EventType == event.EventType && existing.AggregateID == event.AggregateID {
			return nil
		}
	}
	return s.Emit(ctx, tx, event)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "checkout-test", Level: zerolog.ErrorLevel, Output: io.Discard})
}

func buildReconciler(t *testing.T, repo *stubStockRepo) (*Reconciler, *stubCheckoutOutbox) {
	t.Helper()
	emitter := &stubCheckoutOutbox{}
	rec, err := NewReconciler(ReconcilerParams{
		Tx:               stubCheckoutTxRunner{},
		StockRepoFactory: func(*gorm.DB) stockRepository { return repo },
		Outbox:           emitter,
		Logger:           testLogger(),
	})
	require.NoError(t, err)
	return rec, emitter
}

func stockProduct(name string, qty int) *models.Product {
	return &models.Product{
		ID:       uuid.New(),
		Name:     name,
		Category: enums.CategoryDresses,
		StockQty: qty,
		InStock:  qty > 0,
		IsActive: true,
	}
}

func TestReconcileDecrementsEveryLine(t *testing.T) {
	dress := stockProduct("silk-wrap-dress", 5)
	scarf := stockProduct("satin-scarf", 3)
	repo := newStubStockRepo(dress, scarf)
	rec, emitter := buildReconciler(t, repo)

	dressID, scarfID := dress.ID, scarf.ID
	result := rec.Reconcile(context.Background(), uuid.New(), "order_1", []ReconcileLine{
		{ProductID: &dressID, Name: dress.Name, Quantity: 2},
		{ProductID: &scarfID, Name: scarf.Name, Quantity: 1},
	})

	require.NoError(t, result.Err)
	assert.Empty(t, result.Skipped())
	assert.Equal(t, 3, dress.StockQty)
	assert.Equal(t, 2, scarf.StockQty)
	assert.Empty(t, emitter.events)
}

func TestReconcileSkipsOversoldLine(t *testing.T) {
	dress := stockProduct("silk-wrap-dress", 1)
	scarf := stockProduct("satin-scarf", 5)
	repo := newStubStockRepo(dress, scarf)
	rec, emitter := buildReconciler(t, repo)
	orderID := uuid.New()

	dressID, scarfID := dress.ID, scarf.ID
	result := rec.Reconcile(context.Background(), orderID, "order_2", []ReconcileLine{
		{ProductID: &dressID, Name: dress.Name, Quantity: 3},
		{ProductID: &scarfID, Name: scarf.Name, Quantity: 2},
	})

	require.Error(t, result.Err)
	skipped := result.Skipped()
	require.Len(t, skipped, 1)
	assert.Equal(t, dress.ID, skipped[0].ProductID)
	assert.Equal(t, 1, dress.StockQty)
	assert.Equal(t, 3, scarf.StockQty)

	require.Len(t, emitter.events, 1)
	event := emitter.events[0]
	assert.Equal(t, enums.EventStockReconciliationFailed, event.EventType)
	payload, ok := event.Data.(payloads.StockReconciliationFailedEvent)
	require.True(t, ok)
	assert.Equal(t, orderID, payload.OrderID)
	require.Len(t, payload.SkippedLines, 1)
	assert.Equal(t, dress.Name, payload.SkippedLines[0].Name)
}

func TestReconcileFallsBackToNameLookup(t *testing.T) {
	dress := stockProduct("silk-wrap-dress", 4)
	repo := newStubStockRepo(dress)
	rec, _ := buildReconciler(t, repo)

	staleID := uuid.New()
	result := rec.Reconcile(context.Background(), uuid.New(), "order_3", []ReconcileLine{
		{ProductID: &staleID, Name: dress.Name, Quantity: 2},
	})

	require.NoError(t, result.Err)
	assert.Empty(t, result.Skipped())
	assert.Equal(t, 2, dress.StockQty)
}

func TestReconcileMissingProductSkips(t *testing.T) {
	repo := newStubStockRepo()
	rec, emitter := buildReconciler(t, repo)

	missingID := uuid.New()
	result := rec.Reconcile(context.Background(), uuid.New(), "order_4", []ReconcileLine{
		{ProductID: &missingID, Name: "retired-coat", Quantity: 1},
	})

	require.Error(t, result.Err)
	require.Len(t, result.Skipped(), 1)
	assert.Contains(t, result.Skipped()[0].Reason, "not found")
	require.Len(t, emitter.events, 1)
	assert.Equal(t, enums.EventStockReconciliationFailed, emitter.events[0].EventType)
}

func TestReconcileEmitsOutOfStock(t *testing.T) {
	dress := stockProduct("silk-wrap-dress", 2)
	repo := newStubStockRepo(dress)
	rec, emitter := buildReconciler(t, repo)

	dressID := dress.ID
	result := rec.Reconcile(context.Background(), uuid.New(), "order_5", []ReconcileLine{
		{ProductID: &dressID, Name: dress.Name, Quantity: 2},
	})

	require.NoError(t, result.Err)
	assert.Equal(t, 0, dress.StockQty)
	assert.False(t, dress.InStock)

	require.Len(t, emitter.events, 1)
	event := emitter.events[0]
	assert.Equal(t, enums.EventProductOutOfStock, event.EventType)
	payload, ok := event.Data.(payloads.ProductOutOfStockEvent)
	require.True(t, ok)
	assert.Equal(t, dress.ID, payload.ProductID)
}

func TestReconcileIsRepeatSafe(t *testing.T) {
	dress := stockProduct("silk-wrap-dress", 2)
	repo := newStubStockRepo(dress)
	rec, _ := buildReconciler(t, repo)
	orderID := uuid.New()

	dressID := dress.ID
	lines := []ReconcileLine{{ProductID: &dressID, Name: dress.Name, Quantity: 2}}

	first := rec.Reconcile(context.Background(), orderID, "order_6", lines)
	require.NoError(t, first.Err)

	second := rec.Reconcile(context.Background(), orderID, "order_6", lines)
	require.Error(t, second.Err)
	require.Len(t, second.Skipped(), 1)
	assert.Equal(t, 0, dress.StockQty)
}
