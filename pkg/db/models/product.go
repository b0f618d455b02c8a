package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/velvetrow/velvetrow-backend/pkg/enums"
)

// Product represents a storefront listing. Prices are stored in kobo.
type Product struct {
	ID                 uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name               string                `gorm:"column:name;not null;index:products_name_idx"`
	Description        string                `gorm:"column:description;not null;default:''"`
	Category           enums.ProductCategory `gorm:"column:category;type:text;not null"`
	Tags               pq.StringArray        `gorm:"column:tags;type:text[];not null;default:ARRAY[]::text[]"`
	Images             pq.StringArray        `gorm:"column:images;type:text[];not null;default:ARRAY[]::text[]"`
	Sizes              pq.StringArray        `gorm:"column:sizes;type:text[];not null;default:ARRAY[]::text[]"`
	Colors             pq.StringArray        `gorm:"column:colors;type:text[];not null;default:ARRAY[]::text[]"`
	PriceKobo          int64                 `gorm:"column:price_kobo;not null"`
	CompareAtPriceKobo *int64                `gorm:"column:compare_at_price_kobo"`
	StockQty           int                   `gorm:"column:stock_qty;not null;default:0"`
	InStock            bool                  `gorm:"column:in_stock;not null;default:false"`
	IsFeatured         bool                  `gorm:"column:is_featured;not null;default:false"`
	IsActive           bool                  `gorm:"column:is_active;not null;default:true"`
	CreatedAt          time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
