package product

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/velvetrow/velvetrow-backend/pkg/db/models"
	"github.com/velvetrow/velvetrow-backend/pkg/enums"
)

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:      fmt.Sprintf("Test Dress %s", uuid.NewString()),
		Category:  enums.CategoryDresses,
		Sizes:     pq.StringArray{"S", "M"},
		Colors:    pq.StringArray{"black"},
		PriceKobo: 2500000,
		StockQty:  stock,
		InStock:   stock > 0,
		IsActive:  true,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func TestDecrementStockGuard(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	err := conn.Transaction(func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		product := mustCreateTestProduct(t, tx, 5)

		applied, err := repo.DecrementStock(ctx, product.ID, 2)
		if err != nil {
			t.Fatalf("decrement: %v", err)
		}
		if !applied {
			t.Fatalf("expected decrement to apply")
		}

		reloaded, err := repo.FindByID(ctx, product.ID)
		if err != nil {
			t.Fatalf("reload: %v", err)
		}
		if reloaded.StockQty != 3 {
			t.Fatalf("expected stock 3, got %d", reloaded.StockQty)
		}
		if !reloaded.InStock {
			t.Fatalf("expected in_stock true")
		}

		// Guard blocks an oversell and leaves the row untouched.
		applied, err = repo.DecrementStock(ctx, product.ID, 4)
		if err != nil {
			t.Fatalf("decrement: %v", err)
		}
		if applied {
			t.Fatalf("expected guard to skip oversized decrement")
		}
		reloaded, err = repo.FindByID(ctx, product.ID)
		if err != nil {
			t.Fatalf("reload: %v", err)
		}
		if reloaded.StockQty != 3 {
			t.Fatalf("stock mutated despite guard, got %d", reloaded.StockQty)
		}

		// Draining the last units flips in_stock off.
		applied, err = repo.DecrementStock(ctx, product.ID, 3)
		if err != nil {
			t.Fatalf("decrement: %v", err)
		}
		if !applied {
			t.Fatalf("expected decrement to apply")
		}
		reloaded, err = repo.FindByID(ctx, product.ID)
		if err != nil {
			t.Fatalf("reload: %v", err)
		}
		if reloaded.StockQty != 0 || reloaded.InStock {
			t.Fatalf("expected sold out, got qty=%d in_stock=%v", reloaded.StockQty, reloaded.InStock)
		}

		return gorm.ErrRecordNotFound // roll back test data
	})
	if err != gorm.ErrRecordNotFound {
		t.Fatalf("transaction: %v", err)
	}
}

func TestFindByNameOldestWins(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	err := conn.Transaction(func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		first := mustCreateTestProduct(t, tx, 1)

		dup := &models.Product{
			Name:      first.Name,
			Category:  enums.CategoryDresses,
			PriceKobo: 100,
			IsActive:  true,
		}
		if err := tx.Create(dup).Error; err != nil {
			t.Fatalf("create duplicate: %v", err)
		}

		found, err := repo.FindByName(ctx, first.Name)
		if err != nil {
			t.Fatalf("find by name: %v", err)
		}
		if found.ID != first.ID {
			t.Fatalf("expected oldest row, got %s", found.ID)
		}
		return gorm.ErrRecordNotFound
	})
	if err != gorm.ErrRecordNotFound {
		t.Fatalf("transaction: %v", err)
	}
}

func TestListProductsFiltersAndPagination(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	err := conn.Transaction(func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		for i := 0; i < 3; i++ {
			mustCreateTestProduct(t, tx, i)
		}
		hidden := mustCreateTestProduct(t, tx, 1)
		hidden.IsActive = false
		if err := tx.Save(hidden).Error; err != nil {
			t.Fatalf("hide product: %v", err)
		}

		inStock := true
		result, err := repo.ListProducts(ctx, ListProductsInput{
			Filters: ProductListFilters{InStock: &inStock},
		})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		for _, p := range result.Products {
			if !p.InStock {
				t.Fatalf("filter leaked out-of-stock product %s", p.ID)
			}
			if p.ID == hidden.ID {
				t.Fatalf("hidden product leaked into public list")
			}
		}
		return gorm.ErrRecordNotFound
	})
	if err != gorm.ErrRecordNotFound {
		t.Fatalf("transaction: %v", err)
	}
}
