package product

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velvetrow/velvetrow-backend/pkg/db/models"
	"github.com/velvetrow/velvetrow-backend/pkg/pagination"
)

// Repository wires together product persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByName loads a product by exact name match. Used as a recovery path
// when an id lookup misses; name is not guaranteed unique, the oldest row
// wins.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		Order("created_at ASC").
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDs loads the products matching the given ids. Missing ids are
// silently omitted from the result.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// CreateProduct inserts a new product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct updates an existing product row.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product by ID.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// SetStock overwrites the stock count and derived in_stock flag.
func (r *Repository) SetStock(ctx context.Context, id uuid.UUID, qty int) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"stock_qty": qty,
			"in_stock":  qty > 0,
		}).Error
}

// DecrementStock applies the guarded stock decrement in a single atomic
// update. It reports whether the decrement took effect: false means the
// guard `stock_qty >= qty` did not hold and nothing was written.
func (r *Repository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	if qty <= 0 {
		return false, nil
	}
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock_qty >= ?", id, qty).
		Updates(map[string]any{
			"stock_qty": gorm.Expr("stock_qty - ?", qty),
			"in_stock":  gorm.Expr("stock_qty - ? > 0", qty),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListProducts returns one catalog page ordered by newest first.
func (r *Repository) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	pageSize := pagination.NormalizeLimit(input.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(input.Pagination.Limit)
	if limitWithBuffer <= pageSize {
		limitWithBuffer = pageSize + 1
	}

	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).Model(&models.Product{})

	filter := input.Filters
	if filter.Category != nil {
		qb = qb.Where("category = ?", *filter.Category)
	}
	if filter.Featured != nil {
		qb = qb.Where("is_featured = ?", *filter.Featured)
	}
	if filter.InStock != nil {
		qb = qb.Where("in_stock = ?", *filter.InStock)
	}
	if filter.PriceMinKobo != nil {
		qb = qb.Where("price_kobo >= ?", *filter.PriceMinKobo)
	}
	if filter.PriceMaxKobo != nil {
		qb = qb.Where("price_kobo <= ?", *filter.PriceMaxKobo)
	}
	if search := strings.TrimSpace(filter.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}
	if !input.IncludeHidden {
		qb = qb.Where("is_active = ?", true)
	}

	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Product
	err = qb.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error
	if err != nil {
		return nil, err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	products := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		products = append(products, *NewProductDTO(&rows[i]))
	}

	return &ProductListResult{
		Products:   products,
		NextCursor: nextCursor,
	}, nil
}
