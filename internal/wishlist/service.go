package wishlist

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	product "github.com/velvetrow/velvetrow-backend/internal/products"
	"github.com/velvetrow/velvetrow-backend/pkg/db/models"
	pkgerrors "github.com/velvetrow/velvetrow-backend/pkg/errors"
	"github.com/velvetrow/velvetrow-backend/pkg/pagination"
)

type wishlistRepository interface {
	AddItem(ctx context.Context, userID, productID uuid.UUID) error
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) error
	ListItems(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.WishlistItem, string, error)
	ListItemIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type productCatalog interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	Repo     wishlistRepository
	Products productCatalog
}

// Service exposes business rules for wishlist management.
type Service interface {
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) (PageDTO, error)
	ListIDs(ctx context.Context, userID uuid.UUID) (IDsDTO, error)
	Add(ctx context.Context, userID, productID uuid.UUID) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
}

type service struct {
	repo     wishlistRepository
	products productCatalog
}

// NewService builds a wishlist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("wishlist repo is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product catalog is required")
	}
	return &service{
		repo:     params.Repo,
		products: params.Products,
	}, nil
}

// List returns the user's saved products with full catalog details.
// Products that were removed from the catalog are dropped from the page.
func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (PageDTO, error) {
	if userID == uuid.Nil {
		return PageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	rows, nextCursor, err := s.repo.ListItems(ctx, userID, params)
	if err != nil {
		return PageDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list wishlist")
	}
	if len(rows) == 0 {
		return PageDTO{Items: []ItemDTO{}, NextCursor: nextCursor}, nil
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ProductID)
	}
	loaded, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return PageDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load wishlist products")
	}
	byID := make(map[uuid.UUID]*models.Product, len(loaded))
	for i := range loaded {
		byID[loaded[i].ID] = &loaded[i]
	}

	items := make([]ItemDTO, 0, len(rows))
	for _, row := range rows {
		prod, ok := byID[row.ProductID]
		if !ok {
			continue
		}
		items = append(items, ItemDTO{
			Product: *product.NewProductDTO(prod),
			AddedAt: row.CreatedAt,
		})
	}
	return PageDTO{Items: items, NextCursor: nextCursor}, nil
}

// ListIDs returns every saved product id for the user.
func (s *service) ListIDs(ctx context.Context, userID uuid.UUID) (IDsDTO, error) {
	if userID == uuid.Nil {
		return IDsDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	ids, err := s.repo.ListItemIDs(ctx, userID)
	if err != nil {
		return IDsDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list wishlist ids")
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return IDsDTO{ProductIDs: ids}, nil
}

// Add saves a product for the user. Saving a product twice is a no-op.
func (s *service) Add(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	prod, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if !prod.IsActive {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	if err := s.repo.AddItem(ctx, userID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add wishlist item")
	}
	return nil
}

// Remove deletes the saved product. Removing an absent entry is a no-op.
func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := s.repo.RemoveItem(ctx, userID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove wishlist item")
	}
	return nil
}
