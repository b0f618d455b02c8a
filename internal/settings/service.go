package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/velvetrow/velvetrow-backend/pkg/db/models"
	"github.com/velvetrow/velvetrow-backend/pkg/enums"
	pkgerrors "github.com/velvetrow/velvetrow-backend/pkg/errors"
)

type settingsRepository interface {
	Get(ctx context.Context) (*models.SiteSettings, error)
	Save(ctx context.Context, row *models.SiteSettings) (*models.SiteSettings, error)
}

// MaintenanceState is consumed by the request gate middleware.
type MaintenanceState struct {
	Enabled bool
	Message string
}

// Service exposes storefront configuration reads and admin updates.
type Service interface {
	Get(ctx context.Context) (*SettingsDTO, error)
	Update(ctx context.Context, input UpdateSettingsInput) (*SettingsDTO, error)
	RateKobo(ctx context.Context, method enums.ShippingMethod) (int64, error)
	Maintenance(ctx context.Context) (MaintenanceState, error)
}

type service struct {
	repo settingsRepository
}

// NewService builds the settings service.
func NewService(repo settingsRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	return &service{repo: repo}, nil
}

// Get returns the current storefront configuration.
func (s *service) Get(ctx context.Context) (*SettingsDTO, error) {
	row, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return FromModel(row), nil
}

// Update applies a partial update to the singleton row.
func (s *service) Update(ctx context.Context, input UpdateSettingsInput) (*SettingsDTO, error) {
	row, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	if input.StoreName != nil {
		name := strings.TrimSpace(*input.StoreName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name cannot be empty")
		}
		row.StoreName = name
	}
	if input.StoreDescription != nil {
		row.StoreDescription = *input.StoreDescription
	}
	if input.ContactEmail != nil {
		row.ContactEmail = strings.ToLower(strings.TrimSpace(*input.ContactEmail))
	}
	if input.SupportPhone != nil {
		row.SupportPhone = *input.SupportPhone
	}
	if input.Address != nil {
		row.Address = *input.Address
	}
	if input.SocialLinks != nil {
		row.SocialLinks = *input.SocialLinks
	}
	if input.ShippingRates != nil {
		if input.ShippingRates.StandardKobo < 0 || input.ShippingRates.ExpressKobo < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping rates cannot be negative")
		}
		row.ShippingRates = *input.ShippingRates
	}
	if input.PaystackEnabled != nil {
		row.PaystackEnabled = *input.PaystackEnabled
	}
	if input.PayOnDeliveryEnabled != nil {
		row.PayOnDeliveryEnabled = *input.PayOnDeliveryEnabled
	}
	if input.MaintenanceMode != nil {
		row.MaintenanceMode = *input.MaintenanceMode
	}
	if input.MaintenanceMessage != nil {
		row.MaintenanceMessage = *input.MaintenanceMessage
	}
	if input.TermsURL != nil {
		row.TermsURL = *input.TermsURL
	}
	if input.PrivacyURL != nil {
		row.PrivacyURL = *input.PrivacyURL
	}
	if input.FreeShippingMinimumKobo != nil {
		if *input.FreeShippingMinimumKobo < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "free shipping minimum cannot be negative")
		}
		row.FreeShippingMinimumKobo = input.FreeShippingMinimumKobo
	}

	saved, err := s.repo.Save(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save settings")
	}
	return FromModel(saved), nil
}

// RateKobo returns the configured cost for the shipping method.
func (s *service) RateKobo(ctx context.Context, method enums.ShippingMethod) (int64, error) {
	row, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	switch method {
	case enums.ShippingExpress:
		return row.ShippingRates.ExpressKobo, nil
	case enums.ShippingStandard:
		return row.ShippingRates.StandardKobo, nil
	default:
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid shipping method %q", method))
	}
}

// Maintenance reports the current maintenance gate state.
func (s *service) Maintenance(ctx context.Context) (MaintenanceState, error) {
	row, err := s.load(ctx)
	if err != nil {
		return MaintenanceState{}, err
	}
	return MaintenanceState{Enabled: row.MaintenanceMode, Message: row.MaintenanceMessage}, nil
}

func (s *service) load(ctx context.Context) (*models.SiteSettings, error) {
	row, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "site settings row missing")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load settings")
	}
	return row, nil
}
