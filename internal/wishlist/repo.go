package wishlist

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/velvetrow/velvetrow-backend/pkg/db/models"
	"github.com/velvetrow/velvetrow-backend/pkg/pagination"
)

// Repository encapsulates wishlist persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a wishlist repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AddItem inserts a wishlist entry and ignores duplicates.
func (r *Repository) AddItem(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil || productID == uuid.Nil {
		return gorm.ErrInvalidValue
	}

	item := models.WishlistItem{UserID: userID, ProductID: productID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoNothing: true,
		}).
		Create(&item).
		Error
}

// RemoveItem deletes the entry if it exists.
func (r *Repository) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.WishlistItem{}).
		Error
}

// ListItems returns one page of wishlist rows for a user, newest first,
// plus the cursor for the next page when more rows remain.
func (r *Repository) ListItems(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.WishlistItem, string, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Where("user_id = ?", userID)
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.WishlistItem
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return rows, nextCursor, nil
}

// ListItemIDs returns every saved product id for the user, newest first.
func (r *Repository) ListItemIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Pluck("product_id", &ids).
		Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
