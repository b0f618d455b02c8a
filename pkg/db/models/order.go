package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/velvetrow/velvetrow-backend/pkg/enums"
	"github.com/velvetrow/velvetrow-backend/pkg/types"
)

// Order is the durable record of a completed checkout. Reference is the
// payment reference handed to the gateway when the attempt was initialized.
type Order struct {
	ID               uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Reference        string               `gorm:"column:reference;not null;uniqueIndex"`
	UserID           *uuid.UUID           `gorm:"column:user_id;type:uuid;index:orders_user_id_idx"`
	CustomerName     string               `gorm:"column:customer_name;not null"`
	CustomerEmail    string               `gorm:"column:customer_email;not null"`
	CustomerPhone    *string              `gorm:"column:customer_phone"`
	ShippingAddress  types.Address        `gorm:"column:shipping_address;type:jsonb;serializer:json;not null"`
	ShippingMethod   enums.ShippingMethod `gorm:"column:shipping_method;type:text;not null;default:'standard'"`
	SubtotalKobo     int64                `gorm:"column:subtotal_kobo;not null"`
	ShippingKobo     int64                `gorm:"column:shipping_kobo;not null;default:0"`
	TotalKobo        int64                `gorm:"column:total_kobo;not null"`
	Currency         enums.Currency       `gorm:"column:currency;type:text;not null;default:'NGN'"`
	Status           enums.OrderStatus    `gorm:"column:status;type:text;not null;default:'processing'"`
	PaymentStatus    enums.PaymentStatus  `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	PaymentReference string               `gorm:"column:payment_reference;not null"`
	PaidAt           *time.Time           `gorm:"column:paid_at"`
	ShippedAt        *time.Time           `gorm:"column:shipped_at"`
	DeliveredAt      *time.Time           `gorm:"column:delivered_at"`
	CancelledAt      *time.Time           `gorm:"column:cancelled_at"`
	Items            []OrderLineItem      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
