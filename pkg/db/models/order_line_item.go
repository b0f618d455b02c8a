package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderLineItem is the immutable snapshot of one cart line at the moment
// the order was recorded. ProductID is nullable so deleting a product
// never orphans the order history.
type OrderLineItem struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID  `gorm:"column:order_id;type:uuid;not null;index:order_line_items_order_id_idx"`
	ProductID     *uuid.UUID `gorm:"column:product_id;type:uuid"`
	Name          string     `gorm:"column:name;not null"`
	Size          string     `gorm:"column:size;not null;default:''"`
	Color         string     `gorm:"column:color;not null;default:''"`
	ImageURL      string     `gorm:"column:image_url;not null;default:''"`
	UnitPriceKobo int64      `gorm:"column:unit_price_kobo;not null"`
	Quantity      int        `gorm:"column:quantity;not null"`
	TotalKobo     int64      `gorm:"column:total_kobo;not null"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
}
