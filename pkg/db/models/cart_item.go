package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is a single cart line. Lines are identified by the
// (product, size, color) triple: the same product in another size or
// color is a separate line.
type CartItem struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID        uuid.UUID `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:cart_items_line_key"`
	ProductID     uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:cart_items_line_key"`
	Size          string    `gorm:"column:size;not null;default:'';uniqueIndex:cart_items_line_key"`
	Color         string    `gorm:"column:color;not null;default:'';uniqueIndex:cart_items_line_key"`
	Name          string    `gorm:"column:name;not null"`
	ImageURL      string    `gorm:"column:image_url;not null;default:''"`
	UnitPriceKobo int64     `gorm:"column:unit_price_kobo;not null"`
	Quantity      int       `gorm:"column:quantity;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
