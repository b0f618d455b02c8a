package product

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velvetrow/velvetrow-backend/pkg/db/models"
	"github.com/velvetrow/velvetrow-backend/pkg/enums"
	pkgerrors "github.com/velvetrow/velvetrow-backend/pkg/errors"
)

type stubProductRepo struct {
	products map[uuid.UUID]*models.Product
	created  *models.Product
	deleted  []uuid.UUID
	stockSet map[uuid.UUID]int
	listErr  error
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{
		products: map[uuid.UUID]*models.Product{},
		stockSet: map[uuid.UUID]int{},
	}
}

func (s *stubProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := s.products[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProductRepo) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	product.ID = uuid.New()
	s.products[product.ID] = product
	s.created = product
	return product, nil
}

func (s *stubProductRepo) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	s.products[product.ID] = product
	return product, nil
}

func (s *stubProductRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	delete(s.products, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubProductRepo) SetStock(ctx context.Context, id uuid.UUID, qty int) error {
	s.stockSet[id] = qty
	if p, ok := s.products[id]; ok {
		p.StockQty = qty
		p.InStock = qty > 0
	}
	return nil
}

func (s *stubProductRepo) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	result := &ProductListResult{}
	for _, p := range s.products {
		result.Products = append(result.Products, *NewProductDTO(p))
	}
	return result, nil
}

func newTestService(t *testing.T) (Service, *stubProductRepo) {
	t.Helper()
	repo := newStubProductRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func sampleCreateInput() CreateProductInput {
	return CreateProductInput{
		Name:      "Silk Slip Dress",
		Category:  enums.CategoryDresses,
		Sizes:     []string{"S", "M", "L"},
		Colors:    []string{"champagne", "black"},
		PriceKobo: 4500000,
		StockQty:  12,
		IsActive:  true,
	}
}

func TestCreateProductDerivesInStock(t *testing.T) {
	svc, repo := newTestService(t)

	dto, err := svc.CreateProduct(context.Background(), sampleCreateInput())
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if !dto.InStock {
		t.Fatalf("expected in_stock true for positive stock")
	}
	if repo.created == nil || repo.created.Name != "Silk Slip Dress" {
		t.Fatalf("product not persisted")
	}

	input := sampleCreateInput()
	input.StockQty = 0
	dto, err = svc.CreateProduct(context.Background(), input)
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if dto.InStock {
		t.Fatalf("expected in_stock false for zero stock")
	}
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := newTestService(t)

	cases := []struct {
		name   string
		mutate func(*CreateProductInput)
	}{
		{"empty name", func(in *CreateProductInput) { in.Name = "  " }},
		{"bad category", func(in *CreateProductInput) { in.Category = "furniture" }},
		{"negative price", func(in *CreateProductInput) { in.PriceKobo = -1 }},
		{"negative stock", func(in *CreateProductInput) { in.StockQty = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := sampleCreateInput()
			tc.mutate(&input)
			_, err := svc.CreateProduct(context.Background(), input)
			if err == nil {
				t.Fatalf("expected validation error")
			}
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUpdateProductAppliesFields(t *testing.T) {
	svc, repo := newTestService(t)
	created, err := svc.CreateProduct(context.Background(), sampleCreateInput())
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	newPrice := int64(3900000)
	zero := 0
	dto, err := svc.UpdateProduct(context.Background(), created.ID, UpdateProductInput{
		PriceKobo: &newPrice,
		StockQty:  &zero,
	})
	if err != nil {
		t.Fatalf("update product: %v", err)
	}
	if dto.PriceKobo != newPrice {
		t.Fatalf("price not applied, got %d", dto.PriceKobo)
	}
	if dto.InStock {
		t.Fatalf("expected in_stock recomputed to false")
	}
	if repo.products[created.ID].StockQty != 0 {
		t.Fatalf("stock not persisted")
	}
}

func TestUpdateProductNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	name := "Renamed"
	_, err := svc.UpdateProduct(context.Background(), uuid.New(), UpdateProductInput{Name: &name})
	if err == nil {
		t.Fatalf("expected not found")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestSetStockRejectsNegative(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.SetStock(context.Background(), uuid.New(), -2)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteProductNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.DeleteProduct(context.Background(), uuid.New())
	if err == nil {
		t.Fatalf("expected not found")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}
