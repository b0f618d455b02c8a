package wishlist

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/velvetrow/velvetrow-backend/pkg/db/models"
	pkgerrors "github.com/velvetrow/velvetrow-backend/pkg/errors"
	"github.com/velvetrow/velvetrow-backend/pkg/pagination"
)

type stubWishlistRepo struct {
	items      []models.WishlistItem
	nextCursor string
}

func (s *stubWishlistRepo) AddItem(_ context.Context, userID, productID uuid.UUID) error {
	for _, item := range s.items {
		if item.UserID == userID && item.ProductID == productID {
			return nil
		}
	}
	s.items = append(s.items, models.WishlistItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

func (s *stubWishlistRepo) RemoveItem(_ context.Context, userID, productID uuid.UUID) error {
	kept := s.items[:0]
	for _, item := range s.items {
		if item.UserID == userID && item.ProductID == productID {
			continue
		}
		kept = append(kept, item)
	}
	s.items = kept
	return nil
}

func (s *stubWishlistRepo) ListItems(_ context.Context, userID uuid.UUID, _ pagination.Params) ([]models.WishlistItem, string, error) {
	var rows []models.WishlistItem
	for _, item := range s.items {
		if item.UserID == userID {
			rows = append(rows, item)
		}
	}
	return rows, s.nextCursor, nil
}

func (s *stubWishlistRepo) ListItemIDs(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, item := range s.items {
		if item.UserID == userID {
			ids = append(ids, item.ProductID)
		}
	}
	return ids, nil
}

type stubCatalog struct {
	products map[uuid.UUID]*models.Product
}

func (s *stubCatalog) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	prod, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return prod, nil
}

func (s *stubCatalog) FindByIDs(_ context.Context, ids []uuid.UUID) ([]models.Product, error) {
	var loaded []models.Product
	for _, id := range ids {
		if prod, ok := s.products[id]; ok {
			loaded = append(loaded, *prod)
		}
	}
	return loaded, nil
}

func wishlistProduct(name string, active bool) *models.Product {
	return &models.Product{
		ID:        uuid.New(),
		Name:      name,
		Images:    pq.StringArray{"https://cdn.velvetrow.ng/" + name + ".jpg"},
		PriceKobo: 2500000,
		StockQty:  5,
		InStock:   true,
		IsActive:  active,
		CreatedAt: time.Now().UTC(),
	}
}

func buildWishlistService(t *testing.T, catalog *stubCatalog) (Service, *stubWishlistRepo) {
	t.Helper()
	repo := &stubWishlistRepo{}
	svc, err := NewService(ServiceParams{Repo: repo, Products: catalog})
	require.NoError(t, err)
	return svc, repo
}

func TestAddAndListReturnsProductDetails(t *testing.T) {
	prod := wishlistProduct("Silk Midi Dress", true)
	catalog := &stubCatalog{products: map[uuid.UUID]*models.Product{prod.ID: prod}}
	svc, _ := buildWishlistService(t, catalog)
	userID := uuid.New()
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, userID, prod.ID))

	page, err := svc.List(ctx, userID, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, prod.ID, page.Items[0].Product.ID)
	assert.Equal(t, "Silk Midi Dress", page.Items[0].Product.Name)
	assert.Equal(t, int64(2500000), page.Items[0].Product.PriceKobo)
	assert.False(t, page.Items[0].AddedAt.IsZero())
}

func TestAddIsIdempotent(t *testing.T) {
	prod := wishlistProduct("Linen Blazer", true)
	catalog := &stubCatalog{products: map[uuid.UUID]*models.Product{prod.ID: prod}}
	svc, repo := buildWishlistService(t, catalog)
	userID := uuid.New()
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, userID, prod.ID))
	require.NoError(t, svc.Add(ctx, userID, prod.ID))
	assert.Len(t, repo.items, 1)
}

func TestAddRejectsMissingOrInactiveProduct(t *testing.T) {
	inactive := wishlistProduct("Archived Coat", false)
	catalog := &stubCatalog{products: map[uuid.UUID]*models.Product{inactive.ID: inactive}}
	svc, _ := buildWishlistService(t, catalog)
	userID := uuid.New()
	ctx := context.Background()

	err := svc.Add(ctx, userID, uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	err = svc.Add(ctx, userID, inactive.ID)
	require.Error(t, err)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListDropsVanishedProducts(t *testing.T) {
	prod := wishlistProduct("Pleated Skirt", true)
	catalog := &stubCatalog{products: map[uuid.UUID]*models.Product{prod.ID: prod}}
	svc, repo := buildWishlistService(t, catalog)
	userID := uuid.New()
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, userID, prod.ID))
	repo.items = append(repo.items, models.WishlistItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: uuid.New(),
		CreatedAt: time.Now().UTC(),
	})

	page, err := svc.List(ctx, userID, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, prod.ID, page.Items[0].Product.ID)
}

func TestRemoveAbsentEntryIsNoOp(t *testing.T) {
	catalog := &stubCatalog{products: map[uuid.UUID]*models.Product{}}
	svc, _ := buildWishlistService(t, catalog)

	err := svc.Remove(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
}

func TestListIDsScopesToUser(t *testing.T) {
	prod := wishlistProduct("Wrap Top", true)
	other := wishlistProduct("Denim Jacket", true)
	catalog := &stubCatalog{products: map[uuid.UUID]*models.Product{
		prod.ID:  prod,
		other.ID: other,
	}}
	svc, _ := buildWishlistService(t, catalog)
	userA := uuid.New()
	userB := uuid.New()
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, userA, prod.ID))
	require.NoError(t, svc.Add(ctx, userB, other.ID))

	ids, err := svc.ListIDs(ctx, userA)
	require.NoError(t, err)
	require.Len(t, ids.ProductIDs, 1)
	assert.Equal(t, prod.ID, ids.ProductIDs[0])
}

func TestNilUserIsRejected(t *testing.T) {
	catalog := &stubCatalog{products: map[uuid.UUID]*models.Product{}}
	svc, _ := buildWishlistService(t, catalog)

	_, err := svc.List(context.Background(), uuid.Nil, pagination.Params{})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
