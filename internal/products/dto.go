package product

import (
	"time"

	"github.com/google/uuid"

	"github.com/velvetrow/velvetrow-backend/pkg/db/models"
	"github.com/velvetrow/velvetrow-backend/pkg/enums"
	"github.com/velvetrow/velvetrow-backend/pkg/pagination"
	"github.com/velvetrow/velvetrow-backend/pkg/types"
)

// ProductDTO represents the catalog payload returned to clients.
type ProductDTO struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	Category           string    `json:"category"`
	Tags               []string  `json:"tags"`
	Images             []string  `json:"images"`
	Sizes              []string  `json:"sizes"`
	Colors             []string  `json:"colors"`
	PriceKobo          int64     `json:"price_kobo"`
	PriceNaira         string    `json:"price_naira"`
	CompareAtPriceKobo *int64    `json:"compare_at_price_kobo,omitempty"`
	StockQty           int       `json:"stock_qty"`
	InStock            bool      `json:"in_stock"`
	IsFeatured         bool      `json:"is_featured"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	if product == nil {
		return nil
	}
	return &ProductDTO{
		ID:                 product.ID,
		Name:               product.Name,
		Description:        product.Description,
		Category:           string(product.Category),
		Tags:               append([]string{}, product.Tags...),
		Images:             append([]string{}, product.Images...),
		Sizes:              append([]string{}, product.Sizes...),
		Colors:             append([]string{}, product.Colors...),
		PriceKobo:          product.PriceKobo,
		PriceNaira:         types.FormatNaira(product.PriceKobo),
		CompareAtPriceKobo: product.CompareAtPriceKobo,
		StockQty:           product.StockQty,
		InStock:            product.InStock,
		IsFeatured:         product.IsFeatured,
		IsActive:           product.IsActive,
		CreatedAt:          product.CreatedAt,
		UpdatedAt:          product.UpdatedAt,
	}
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name               string
	Description        string
	Category           enums.ProductCategory
	Tags               []string
	Images             []string
	Sizes              []string
	Colors             []string
	PriceKobo          int64
	CompareAtPriceKobo *int64
	StockQty           int
	IsFeatured         bool
	IsActive           bool
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name               *string
	Description        *string
	Category           *enums.ProductCategory
	Tags               *[]string
	Images             *[]string
	Sizes              *[]string
	Colors             *[]string
	PriceKobo          *int64
	CompareAtPriceKobo *int64
	StockQty           *int
	IsFeatured         *bool
	IsActive           *bool
}

// ProductListFilters describe the supported filter knobs for the browse endpoint.
type ProductListFilters struct {
	Category     *enums.ProductCategory `json:"category,omitempty"`
	Featured     *bool                  `json:"featured,omitempty"`
	InStock      *bool                  `json:"in_stock,omitempty"`
	PriceMinKobo *int64                 `json:"price_min_kobo,omitempty"`
	PriceMaxKobo *int64                 `json:"price_max_kobo,omitempty"`
	Query        string                 `json:"q,omitempty"`
}

// ListProductsInput captures the inputs needed to paginate/filter the catalog.
type ListProductsInput struct {
	Filters       ProductListFilters
	Pagination    pagination.Params
	IncludeHidden bool
}

// ProductListResult is one page of catalog entries plus the next cursor.
type ProductListResult struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}
