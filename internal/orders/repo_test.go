package orders

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/velvetrow/velvetrow-backend/pkg/db/models"
	"github.com/velvetrow/velvetrow-backend/pkg/enums"
	"github.com/velvetrow/velvetrow-backend/pkg/pagination"
	"github.com/velvetrow/velvetrow-backend/pkg/types"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("VELVETROW_DB_DSN")
	if dsn == "" {
		t.Skip("VELVETROW_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

func mustCreateTestOrder(t *testing.T, tx *gorm.DB, userID *uuid.UUID) *models.Order {
	t.Helper()
	now := time.Now().UTC()
	order := &models.Order{
		Reference:     fmt.Sprintf("order_%d_%s", now.UnixMilli(), uuid.NewString()[:8]),
		UserID:        userID,
		CustomerName:  "Adaeze Obi",
		CustomerEmail: "adaeze@example.com",
		ShippingAddress: types.Address{
			Street: "14 Awolowo Road", City: "Ikoyi", State: "Lagos",
			PostalCode: "101233", Country: "NG",
		},
		ShippingMethod:   enums.ShippingStandard,
		SubtotalKobo:     4550000,
		ShippingKobo:     150000,
		TotalKobo:        4700000,
		Currency:         enums.CurrencyNGN,
		Status:           enums.OrderStatusProcessing,
		PaymentStatus:    enums.PaymentStatusPaid,
		PaymentReference: fmt.Sprintf("ref_%s", uuid.NewString()[:8]),
		PaidAt:           &now,
		Items: []models.OrderLineItem{
			{Name: "silk-wrap-dress", Size: "M", UnitPriceKobo: 4550000, Quantity: 1, TotalKobo: 4550000},
		},
	}
	if err := tx.Create(order).Error; err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order
}

func TestOrderRoundTripWithItems(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	err := conn.Transaction(func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		userID := uuid.New()
		created := mustCreateTestOrder(t, tx, &userID)

		loaded, err := repo.FindByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("find by id: %v", err)
		}
		if len(loaded.Items) != 1 {
			t.Fatalf("expected 1 item got %d", len(loaded.Items))
		}
		if loaded.Items[0].OrderID != created.ID {
			t.Fatalf("item not bound to order")
		}

		byRef, err := repo.FindByReference(ctx, created.Reference)
		if err != nil {
			t.Fatalf("find by reference: %v", err)
		}
		if byRef.ID != created.ID {
			t.Fatalf("reference lookup returned wrong order")
		}

		exists, err := repo.ExistsByReference(ctx, created.Reference)
		if err != nil || !exists {
			t.Fatalf("expected reference to exist, err=%v", err)
		}

		return gorm.ErrRecordNotFound
	})
	if err != gorm.ErrRecordNotFound {
		t.Fatalf("expected rollback sentinel got %v", err)
	}
}

func TestListByUserScopesAndPaginates(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	err := conn.Transaction(func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		userID := uuid.New()
		otherID := uuid.New()
		for i := 0; i < 3; i++ {
			mustCreateTestOrder(t, tx, &userID)
		}
		mustCreateTestOrder(t, tx, &otherID)

		page, err := repo.ListByUser(ctx, userID, pagination.Params{Limit: 2}, ListFilters{})
		if err != nil {
			t.Fatalf("list by user: %v", err)
		}
		if len(page.Orders) != 2 {
			t.Fatalf("expected 2 orders got %d", len(page.Orders))
		}
		if page.NextCursor == "" {
			t.Fatalf("expected next cursor")
		}

		rest, err := repo.ListByUser(ctx, userID, pagination.Params{Limit: 2, Cursor: page.NextCursor}, ListFilters{})
		if err != nil {
			t.Fatalf("list next page: %v", err)
		}
		if len(rest.Orders) != 1 {
			t.Fatalf("expected 1 order on last page got %d", len(rest.Orders))
		}
		if rest.NextCursor != "" {
			t.Fatalf("expected no cursor on last page")
		}

		return gorm.ErrRecordNotFound
	})
	if err != gorm.ErrRecordNotFound {
		t.Fatalf("expected rollback sentinel got %v", err)
	}
}

func TestListFiltersByStatusAndQuery(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	err := conn.Transaction(func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		shipped := mustCreateTestOrder(t, tx, nil)
		mustCreateTestOrder(t, tx, nil)
		if err := tx.Model(&models.Order{}).Where("id = ?", shipped.ID).
			Update("status", enums.OrderStatusShipped).Error; err != nil {
			t.Fatalf("mark shipped: %v", err)
		}

		status := enums.OrderStatusShipped
		page, err := repo.List(ctx, pagination.Params{}, ListFilters{Status: &status})
		if err != nil {
			t.Fatalf("list filtered: %v", err)
		}
		for _, summary := range page.Orders {
			if summary.Status != enums.OrderStatusShipped {
				t.Fatalf("filter leaked status %s", summary.Status)
			}
		}

		byRef, err := repo.List(ctx, pagination.Params{}, ListFilters{Query: shipped.Reference})
		if err != nil {
			t.Fatalf("list by query: %v", err)
		}
		if len(byRef.Orders) != 1 || byRef.Orders[0].ID != shipped.ID {
			t.Fatalf("query filter did not isolate order")
		}

		return gorm.ErrRecordNotFound
	})
	if err != gorm.ErrRecordNotFound {
		t.Fatalf("expected rollback sentinel got %v", err)
	}
}

func TestUpdateStatusMissingOrder(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	err := conn.Transaction(func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		err := repo.UpdateStatus(ctx, uuid.New(), map[string]any{"status": enums.OrderStatusShipped})
		if err != gorm.ErrRecordNotFound {
			t.Fatalf("expected not found got %v", err)
		}
		return gorm.ErrRecordNotFound
	})
	if err != gorm.ErrRecordNotFound {
		t.Fatalf("expected rollback sentinel got %v", err)
	}
}
