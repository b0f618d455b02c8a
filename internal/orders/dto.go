package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/velvetrow/velvetrow-backend/pkg/db/models"
	"github.com/velvetrow/velvetrow-backend/pkg/enums"
	"github.com/velvetrow/velvetrow-backend/pkg/types"
)

// OrderLineDTO is the API shape of one recorded order line.
type OrderLineDTO struct {
	ID            uuid.UUID  `json:"id"`
	ProductID     *uuid.UUID `json:"product_id,omitempty"`
	Name          string     `json:"name"`
	Size          string     `json:"size,omitempty"`
	Color         string     `json:"color,omitempty"`
	ImageURL      string     `json:"image_url,omitempty"`
	UnitPriceKobo int64      `json:"unit_price_kobo"`
	Quantity      int        `json:"quantity"`
	TotalKobo     int64      `json:"total_kobo"`
}

// OrderDTO is the API shape of a recorded order.
type OrderDTO struct {
	ID               uuid.UUID            `json:"id"`
	Reference        string               `json:"reference"`
	UserID           *uuid.UUID           `json:"user_id,omitempty"`
	CustomerName     string               `json:"customer_name"`
	CustomerEmail    string               `json:"customer_email"`
	CustomerPhone    *string              `json:"customer_phone,omitempty"`
	ShippingAddress  types.Address        `json:"shipping_address"`
	ShippingMethod   enums.ShippingMethod `json:"shipping_method"`
	SubtotalKobo     int64                `json:"subtotal_kobo"`
	ShippingKobo     int64                `json:"shipping_kobo"`
	TotalKobo        int64                `json:"total_kobo"`
	TotalNaira       string               `json:"total_naira"`
	Currency         enums.Currency       `json:"currency"`
	Status           enums.OrderStatus    `json:"status"`
	PaymentStatus    enums.PaymentStatus  `json:"payment_status"`
	PaymentReference string               `json:"payment_reference"`
	PaidAt           *time.Time           `json:"paid_at,omitempty"`
	ShippedAt        *time.Time           `json:"shipped_at,omitempty"`
	DeliveredAt      *time.Time           `json:"delivered_at,omitempty"`
	CancelledAt      *time.Time           `json:"cancelled_at,omitempty"`
	Items            []OrderLineDTO       `json:"items"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

// OrderSummaryDTO is the trimmed shape returned by list endpoints.
type OrderSummaryDTO struct {
	ID            uuid.UUID           `json:"id"`
	Reference     string              `json:"reference"`
	CustomerName  string              `json:"customer_name"`
	CustomerEmail string              `json:"customer_email"`
	TotalKobo     int64               `json:"total_kobo"`
	TotalNaira    string              `json:"total_naira"`
	Currency      enums.Currency      `json:"currency"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	ItemCount     int                 `json:"item_count"`
	CreatedAt     time.Time           `json:"created_at"`
}

// OrderList wraps a page of order summaries plus the next page cursor.
type OrderList struct {
	Orders     []OrderSummaryDTO `json:"orders"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

// ListFilters narrows list queries. Query matches against reference and
// customer email.
type ListFilters struct {
	Status        *enums.OrderStatus
	PaymentStatus *enums.PaymentStatus
	DateFrom      *time.Time
	DateTo        *time.Time
	Query         string
}

// FromModel converts a persisted order into its API shape.
func FromModel(order *models.Order) *OrderDTO {
	items := make([]OrderLineDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderLineDTO{
			ID:            item.ID,
			ProductID:     item.ProductID,
			Name:          item.Name,
			Size:          item.Size,
			Color:         item.Color,
			ImageURL:      item.ImageURL,
			UnitPriceKobo: item.UnitPriceKobo,
			Quantity:      item.Quantity,
			TotalKobo:     item.TotalKobo,
		})
	}
	return &OrderDTO{
		ID:               order.ID,
		Reference:        order.Reference,
		UserID:           order.UserID,
		CustomerName:     order.CustomerName,
		CustomerEmail:    order.CustomerEmail,
		CustomerPhone:    order.CustomerPhone,
		ShippingAddress:  order.ShippingAddress,
		ShippingMethod:   order.ShippingMethod,
		SubtotalKobo:     order.SubtotalKobo,
		ShippingKobo:     order.ShippingKobo,
		TotalKobo:        order.TotalKobo,
		TotalNaira:       types.FormatNaira(order.TotalKobo),
		Currency:         order.Currency,
		Status:           order.Status,
		PaymentStatus:    order.PaymentStatus,
		PaymentReference: order.PaymentReference,
		PaidAt:           order.PaidAt,
		ShippedAt:        order.ShippedAt,
		DeliveredAt:      order.DeliveredAt,
		CancelledAt:      order.CancelledAt,
		Items:            items,
		CreatedAt:        order.CreatedAt,
		UpdatedAt:        order.UpdatedAt,
	}
}

func summaryFromModel(order *models.Order) OrderSummaryDTO {
	count := 0
	for _, item := range order.Items {
		count += item.Quantity
	}
	return OrderSummaryDTO{
		ID:            order.ID,
		Reference:     order.Reference,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		TotalKobo:     order.TotalKobo,
		TotalNaira:    types.FormatNaira(order.TotalKobo),
		Currency:      order.Currency,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		ItemCount:     count,
		CreatedAt:     order.CreatedAt,
	}
}
