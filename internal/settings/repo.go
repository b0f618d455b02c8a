package settings

import (
	"context"

	"gorm.io/gorm"

	"github.com/velvetrow/velvetrow-backend/pkg/db/models"
)

// Repository reads and writes the singleton site settings row.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a settings repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Get loads the settings row. The row is seeded by migration; a missing
// row surfaces as gorm.ErrRecordNotFound.
func (r *Repository) Get(ctx context.Context) (*models.SiteSettings, error) {
	var row models.SiteSettings
	if err := r.db.WithContext(ctx).First(&row, "id = ?", models.SiteSettingsRowID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Save writes the mutated row back. Save applies the jsonb serializers
// that a column-map update would bypass.
func (r *Repository) Save(ctx context.Context, row *models.SiteSettings) (*models.SiteSettings, error) {
	row.ID = models.SiteSettingsRowID
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}
