package models

import (
	"time"

	"github.com/velvetrow/velvetrow-backend/pkg/types"
)

// SiteSettings is a single-row table holding storefront configuration.
// The row is keyed by a fixed ID so reads and updates always hit one record.
type SiteSettings struct {
	ID                       int                 `gorm:"column:id;primaryKey"`
	StoreName                string              `gorm:"column:store_name;not null"`
	StoreDescription         string              `gorm:"column:store_description;not null;default:''"`
	ContactEmail             string              `gorm:"column:contact_email;not null;default:''"`
	SupportPhone             string              `gorm:"column:support_phone;not null;default:''"`
	Address                  string              `gorm:"column:address;not null;default:''"`
	SocialLinks              types.SocialLinks   `gorm:"column:social_links;type:jsonb;serializer:json"`
	ShippingRates            types.ShippingRates `gorm:"column:shipping_rates;type:jsonb;serializer:json"`
	PaystackEnabled          bool                `gorm:"column:paystack_enabled;not null;default:true"`
	PayOnDeliveryEnabled     bool                `gorm:"column:pay_on_delivery_enabled;not null;default:false"`
	MaintenanceMode          bool                `gorm:"column:maintenance_mode;not null;default:false"`
	MaintenanceMessage       string              `gorm:"column:maintenance_message;not null;default:''"`
	TermsURL                 string              `gorm:"column:terms_url;not null;default:''"`
	PrivacyURL               string              `gorm:"column:privacy_url;not null;default:''"`
	FreeShippingMinimumKobo  *int64              `gorm:"column:free_shipping_minimum_kobo"`
	UpdatedAt                time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// SiteSettingsRowID is the fixed primary key for the singleton row.
const SiteSettingsRowID = 1
