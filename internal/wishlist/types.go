package wishlist

import (
	"time"

	"github.com/google/uuid"

	product "github.com/velvetrow/velvetrow-backend/internal/products"
)

// ItemDTO is a saved product with the moment it was added.
type ItemDTO struct {
	Product product.ProductDTO `json:"product"`
	AddedAt time.Time          `json:"added_at"`
}

// PageDTO is a cursor-paginated slice of the wishlist.
type PageDTO struct {
	Items      []ItemDTO `json:"items"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// IDsDTO carries only the saved product ids, for lightweight client sync.
type IDsDTO struct {
	ProductIDs []uuid.UUID `json:"product_ids"`
}
