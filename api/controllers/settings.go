package controllers

import (
	"net/http"

	"github.com/velvetrow/velvetrow-backend/api/responses"
	"github.com/velvetrow/velvetrow-backend/api/validators"
	"github.com/velvetrow/velvetrow-backend/internal/settings"
	pkgerrors "github.com/velvetrow/velvetrow-backend/pkg/errors"
	"github.com/velvetrow/velvetrow-backend/pkg/logger"
	"github.com/velvetrow/velvetrow-backend/pkg/types"
)

// publicSettingsResponse exposes the storefront-facing subset of site
// settings. Gateway toggles stay visible so clients can render payment
// options; nothing secret lives in the settings row.
type publicSettingsResponse struct {
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
}

// PublicSettings serves the storefront configuration.
func PublicSettings(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}

		dto, err := svc.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, publicSettingsResponse{
			StoreName:               dto.StoreName,
			StoreDescription:        dto.StoreDescription,
			ContactEmail:            dto.ContactEmail,
			SupportPhone:            dto.SupportPhone,
			Address:                 dto.Address,
			SocialLinks:             dto.SocialLinks,
			ShippingRates:           dto.ShippingRates,
			PaystackEnabled:         dto.PaystackEnabled,
			PayOnDeliveryEnabled:    dto.PayOnDeliveryEnabled,
			MaintenanceMode:         dto.MaintenanceMode,
			MaintenanceMessage:      dto.MaintenanceMessage,
			TermsURL:                dto.TermsURL,
			PrivacyURL:              dto.PrivacyURL,
			FreeShippingMinimumKobo: dto.FreeShippingMinimumKobo,
		})
	}
}

// AdminSettings returns the full settings document.
func AdminSettings(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}

		dto, err := svc.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// AdminSettingsUpdate applies a partial update to the settings row.
func AdminSettingsUpdate(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}

		var body settings.UpdateSettingsInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Update(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}
