package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/velvetrow/velvetrow-backend/pkg/db/models"
	pkgerrors "github.com/velvetrow/velvetrow-backend/pkg/errors"
)

// Service exposes catalog read paths and admin product management.
type Service interface {
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	SetStock(ctx context.Context, id uuid.UUID, qty int) (*ProductDTO, error)
}

type productRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	SetStock(ctx context.Context, id uuid.UUID, qty int) error
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
}

type service struct {
	repo productRepository
}

// NewService constructs a product service instance.
func NewService(repo productRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

// ListProducts returns one page of the catalog.
func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	result, err := s.repo.ListProducts(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	return result, nil
}

// GetProduct loads a single catalog entry.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	return NewProductDTO(product), nil
}

// CreateProduct inserts a new catalog entry.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:               strings.TrimSpace(input.Name),
		Description:        input.Description,
		Category:           input.Category,
		Tags:               pq.StringArray(input.Tags),
		Images:             pq.StringArray(input.Images),
		Sizes:              pq.StringArray(input.Sizes),
		Colors:             pq.StringArray(input.Colors),
		PriceKobo:          input.PriceKobo,
		CompareAtPriceKobo: input.CompareAtPriceKobo,
		StockQty:           input.StockQty,
		InStock:            input.StockQty > 0,
		IsFeatured:         input.IsFeatured,
		IsActive:           input.IsActive,
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	return NewProductDTO(created), nil
}

// UpdateProduct applies the provided fields to an existing catalog entry.
func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		product.Name = name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Category != nil {
		if !input.Category.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
		}
		product.Category = *input.Category
	}
	if input.Tags != nil {
		product.Tags = pq.StringArray(*input.Tags)
	}
	if input.Images != nil {
		product.Images = pq.StringArray(*input.Images)
	}
	if input.Sizes != nil {
		product.Sizes = pq.StringArray(*input.Sizes)
	}
	if input.Colors != nil {
		product.Colors = pq.StringArray(*input.Colors)
	}
	if input.PriceKobo != nil {
		if *input.PriceKobo < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		product.PriceKobo = *input.PriceKobo
	}
	if input.CompareAtPriceKobo != nil {
		product.CompareAtPriceKobo = input.CompareAtPriceKobo
	}
	if input.StockQty != nil {
		if *input.StockQty < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
		}
		product.StockQty = *input.StockQty
		product.InStock = *input.StockQty > 0
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	return NewProductDTO(updated), nil
}

// DeleteProduct removes a catalog entry. Order history keeps its snapshot
// line items, so deletion never rewrites past orders.
func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	return nil
}

// SetStock overwrites the stock count for a product.
func (s *service) SetStock(ctx context.Context, id uuid.UUID, qty int) (*ProductDTO, error) {
	if qty < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	if err := s.repo.SetStock(ctx, id, qty); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: set stock")
	}
	return s.GetProduct(ctx, id)
}

func validateCreateInput(input CreateProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !input.Category.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
	}
	if input.PriceKobo < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.StockQty < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	return nil
}
