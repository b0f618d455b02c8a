package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velvetrow/velvetrow-backend/pkg/db/models"
	"github.com/velvetrow/velvetrow-backend/pkg/enums"
)

// Repository exposes persistence operations for signed-in customer carts.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindActiveByUser loads the user's active cart with its items, or nil when
// the user has none.
func (r *Repository) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error) {
	var record models.CartRecord
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("user_id = ? AND status = ?", userID, enums.CartStatusActive).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// Create inserts a new cart record with its items.
func (r *Repository) Create(ctx context.Context, record *models.CartRecord) (*models.CartRecord, error) {
	if record.Status == "" {
		record.Status = enums.CartStatusActive
	}
	if record.Currency == "" {
		record.Currency = enums.CurrencyNGN
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// ReplaceItems swaps the cart's line set for the provided one.
func (r *Repository) ReplaceItems(ctx context.Context, cartID uuid.UUID, items []models.CartItem) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].CartID = cartID
	}
	return tx.Create(&items).Error
}

// UpdateStatus moves the cart record to the provided status.
func (r *Repository) UpdateStatus(ctx context.Context, cartID uuid.UUID, status enums.CartStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.CartRecord{}).
		Where("id = ?", cartID).
		Update("status", status).Error
}

// Delete removes the cart record; items cascade.
func (r *Repository) Delete(ctx context.Context, cartID uuid.UUID) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", cartID).Delete(&models.CartRecord{}).Error
}
