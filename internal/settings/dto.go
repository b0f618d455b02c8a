package settings

import (
	"time"

	"github.com/velvetrow/velvetrow-backend/pkg/db/models"
	"github.com/velvetrow/velvetrow-backend/pkg/types"
)

// SettingsDTO is the API shape of the storefront configuration.
type SettingsDTO struct {
	StoreName               string              `json:"store_name"`
	StoreDescription        string              `json:"store_description,omitempty"`
	ContactEmail            string              `json:"contact_email,omitempty"`
	SupportPhone            string              `json:"support_phone,omitempty"`
	Address                 string              `json:"address,omitempty"`
	SocialLinks             types.SocialLinks   `json:"social_links"`
	ShippingRates           types.ShippingRates `json:"shipping_rates"`
	PaystackEnabled         bool                `json:"paystack_enabled"`
	PayOnDeliveryEnabled    bool                `json:"pay_on_delivery_enabled"`
	MaintenanceMode         bool                `json:"maintenance_mode"`
	MaintenanceMessage      string              `json:"maintenance_message,omitempty"`
	TermsURL                string              `json:"terms_url,omitempty"`
	PrivacyURL              string              `json:"privacy_url,omitempty"`
	FreeShippingMinimumKobo *int64              `json:"free_shipping_minimum_kobo,omitempty"`
	UpdatedAt               time.Time           `json:"updated_at"`
}

// UpdateSettingsInput applies a partial update; nil fields are untouched.
type UpdateSettingsInput struct {
	StoreName               *string              `json:"store_name,omitempty"`
	StoreDescription        *string              `json:"store_description,omitempty"`
	ContactEmail            *string              `json:"contact_email,omitempty" validate:"omitempty,email"`
	SupportPhone            *string              `json:"support_phone,omitempty"`
	Address                 *string              `json:"address,omitempty"`
	SocialLinks             *types.SocialLinks   `json:"social_links,omitempty"`
	ShippingRates           *types.ShippingRates `json:"shipping_rates,omitempty"`
	PaystackEnabled         *bool                `json:"paystack_enabled,omitempty"`
	PayOnDeliveryEnabled    *bool                `json:"pay_on_delivery_enabled,omitempty"`
	MaintenanceMode         *bool                `json:"maintenance_mode,omitempty"`
	MaintenanceMessage      *string              `json:"maintenance_message,omitempty"`
	TermsURL                *string              `json:"terms_url,omitempty"`
	PrivacyURL              *string              `json:"privacy_url,omitempty"`
	FreeShippingMinimumKobo *int64               `json:"free_shipping_minimum_kobo,omitempty"`
}

// FromModel converts the singleton row into its API shape.
func FromModel(row *models.SiteSettings) *SettingsDTO {
	return &SettingsDTO{
		StoreName:               row.StoreName,
		StoreDescription:        row.StoreDescription,
		ContactEmail:            row.ContactEmail,
		SupportPhone:            row.SupportPhone,
		Address:                 row.Address,
		SocialLinks:             row.SocialLinks,
		ShippingRates:           row.ShippingRates,
		PaystackEnabled:         row.PaystackEnabled,
		PayOnDeliveryEnabled:    row.PayOnDeliveryEnabled,
		MaintenanceMode:         row.MaintenanceMode,
		MaintenanceMessage:      row.MaintenanceMessage,
		TermsURL:                row.TermsURL,
		PrivacyURL:              row.PrivacyURL,
		FreeShippingMinimumKobo: row.FreeShippingMinimumKobo,
		UpdatedAt:               row.UpdatedAt,
	}
}
