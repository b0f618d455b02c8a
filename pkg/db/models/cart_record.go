package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/velvetrow/velvetrow-backend/pkg/enums"
)

// CartRecord is a signed-in customer's persistent cart. Guest carts live in
// Redis until the session logs in and is merged into one of these.
type CartRecord struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID        `gorm:"column:user_id;type:uuid;not null;uniqueIndex:cart_records_user_active_key,where:status = 'active'"`
	Status    enums.CartStatus `gorm:"column:status;type:text;not null;default:'active'"`
	Currency  enums.Currency   `gorm:"column:currency;type:text;not null;default:'NGN'"`
	Items     []CartItem       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
