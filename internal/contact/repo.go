package contact

import (
	"context"

	"gorm.io/gorm"

	"github.com/velvetrow/velvetrow-backend/pkg/db/models"
)

// Repository persists contact-form submissions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, msg *models.ContactMessage) (*models.ContactMessage, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository constructs a contact message repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, msg *models.ContactMessage) (*models.ContactMessage, error) {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}
