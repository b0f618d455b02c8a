package orders

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velvetrow/velvetrow-backend/pkg/db/models"
	"github.com/velvetrow/velvetrow-backend/pkg/pagination"
)

// Repository defines persistence operations for orders and their line
// items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByReference(ctx context.Context, reference string) (*models.Order, error)
	ExistsByReference(ctx context.Context, reference string) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params, filters ListFilters) (*OrderList, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Create persists the order together with its line items.
func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// FindByID loads an order with its line items.
func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByReference loads an order by its payment reference.
func (r *repository) FindByReference(ctx context.Context, reference string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&order, "reference = ?", reference).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ExistsByReference reports whether an order was already recorded for the
// payment reference.
func (r *repository) ExistsByReference(ctx context.Context, reference string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("reference = ?", reference).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByUser returns the user's orders newest first with cursor pagination.
func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params, filters ListFilters) (*OrderList, error) {
	query := r.baseListQuery(ctx, filters).Where("user_id = ?", userID)
	return r.runListQuery(query, params)
}

// List returns all orders newest first with cursor pagination. Admin use.
func (r *repository) List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error) {
	return r.runListQuery(r.baseListQuery(ctx, filters), params)
}

// UpdateStatus applies the column updates produced by a status transition.
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) baseListQuery(ctx context.Context, filters ListFilters) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Preload("Items")
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.PaymentStatus != nil {
		query = query.Where("payment_status = ?", *filters.PaymentStatus)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	if q := strings.TrimSpace(filters.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(reference) LIKE ? OR LOWER(customer_email) LIKE ?", like, like)
	}
	return query
}

func (r *repository) runListQuery(query *gorm.DB, params pagination.Params) (*OrderList, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Order
	err = query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	list := &OrderList{Orders: make([]OrderSummaryDTO, 0, len(rows))}
	if len(rows) > limit {
		last := rows[limit-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
		rows = rows[:limit]
	}
	for i := range rows {
		list.Orders = append(list.Orders, summaryFromModel(&rows[i]))
	}
	return list, nil
}

// IsNotFound reports whether err is the record-missing sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
