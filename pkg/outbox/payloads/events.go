package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/velvetrow/velvetrow-backend/pkg/enums"
)

// OrderCreatedEvent signals that a paid checkout was recorded as an order.
type OrderCreatedEvent struct {
	OrderID      uuid.UUID  `json:"order_id"`
	Reference    string     `json:"reference"`
	UserID       *uuid.UUID `json:"user_id,omitempty"`
	TotalKobo    int64      `json:"total_kobo"`
	LineCount    int        `json:"line_count"`
	PaymentRef   string     `json:"payment_ref"`
	CustomerMail string     `json:"customer_email"`
}

// OrderStatusChangedEvent is emitted when an admin moves an order along
// its fulfillment lifecycle.
type OrderStatusChangedEvent struct {
	OrderID   uuid.UUID         `json:"order_id"`
	Reference string            `json:"reference"`
	From      enums.OrderStatus `json:"from"`
	To        enums.OrderStatus `json:"to"`
	ChangedAt time.Time         `json:"changed_at"`
}

// SkippedStockLine describes one line the reconciler could not decrement.
type SkippedStockLine struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Reason    string    `json:"reason"`
}

// StockReconciliationFailedEvent reports order lines whose stock could not
// be decremented after payment.
type StockReconciliationFailedEvent struct {
	OrderID      uuid.UUID          `json:"order_id"`
	Reference    string             `json:"reference"`
	SkippedLines []SkippedStockLine `json:"skipped_lines"`
}

// ContactMessageReceivedEvent carries a stored contact-form submission so
// the notification consumer can mail the shop and acknowledge the sender.
type ContactMessageReceivedEvent struct {
	MessageID  uuid.UUID `json:"message_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Subject    string    `json:"subject"`
	ReceivedAt time.Time `json:"received_at"`
}

// ProductOutOfStockEvent is emitted when a decrement drains the last unit.
type ProductOutOfStockEvent struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	SoldOutAt time.Time `json:"sold_out_at"`
}
