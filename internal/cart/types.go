package cart

import (
	"github.com/google/uuid"

	"github.com/velvetrow/velvetrow-backend/pkg/db/models"
)

// CartLine is one entry in a shopper's cart. Lines are identified by the
// (product, size, color) triple; name, image, and unit price are snapshots
// taken when the line was added.
type CartLine struct {
	ProductID     uuid.UUID `json:"product_id"`
	Name          string    `json:"name"`
	ImageURL      string    `json:"image_url,omitempty"`
	UnitPriceKobo int64     `json:"unit_price_kobo"`
	Quantity      int       `json:"quantity"`
	Size          string    `json:"size,omitempty"`
	Color         string    `json:"color,omitempty"`
}

// LineKey is the identity of a cart line.
type LineKey struct {
	ProductID uuid.UUID
	Size      string
	Color     string
}

// Key returns the line's identity triple.
func (l CartLine) Key() LineKey {
	return LineKey{ProductID: l.ProductID, Size: l.Size, Color: l.Color}
}

// CartDTO is the cart payload returned to clients.
type CartDTO struct {
	Lines        []CartLine `json:"lines"`
	SubtotalKobo int64      `json:"subtotal_kobo"`
}

// NewCartDTO assembles the response payload for a set of lines.
func NewCartDTO(lines []CartLine) *CartDTO {
	if lines == nil {
		lines = []CartLine{}
	}
	return &CartDTO{
		Lines:        lines,
		SubtotalKobo: Subtotal(lines),
	}
}

// Subtotal sums unit price times quantity over all lines.
func Subtotal(lines []CartLine) int64 {
	var total int64
	for _, line := range lines {
		total += line.UnitPriceKobo * int64(line.Quantity)
	}
	return total
}

// mergeLines folds src into dst by line key, adding quantities for
// identical keys and appending new lines in order of first appearance.
func mergeLines(dst, src []CartLine) []CartLine {
	merged := append([]CartLine(nil), dst...)
	index := make(map[LineKey]int, len(merged))
	for i, line := range merged {
		index[line.Key()] = i
	}
	for _, line := range src {
		if i, ok := index[line.Key()]; ok {
			merged[i].Quantity += line.Quantity
			continue
		}
		index[line.Key()] = len(merged)
		merged = append(merged, line)
	}
	return merged
}

func linesFromItems(items []models.CartItem) []CartLine {
	lines := make([]CartLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, CartLine{
			ProductID:     item.ProductID,
			Name:          item.Name,
			ImageURL:      item.ImageURL,
			UnitPriceKobo: item.UnitPriceKobo,
			Quantity:      item.Quantity,
			Size:          item.Size,
			Color:         item.Color,
		})
	}
	return lines
}

func itemsFromLines(cartID uuid.UUID, lines []CartLine) []models.CartItem {
	items := make([]models.CartItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.CartItem{
			CartID:        cartID,
			ProductID:     line.ProductID,
			Size:          line.Size,
			Color:         line.Color,
			Name:          line.Name,
			ImageURL:      line.ImageURL,
			UnitPriceKobo: line.UnitPriceKobo,
			Quantity:      line.Quantity,
		})
	}
	return items
}
