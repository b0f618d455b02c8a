package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velvetrow/velvetrow-backend/internal/users"
	"github.com/velvetrow/velvetrow-backend/pkg/config"
	"github.com/velvetrow/velvetrow-backend/pkg/db/models"
	"github.com/velvetrow/velvetrow-backend/pkg/enums"
	pkgerrors "github.com/velvetrow/velvetrow-backend/pkg/errors"
	"github.com/velvetrow/velvetrow-backend/pkg/logger"
	"github.com/velvetrow/velvetrow-backend/pkg/security"
)

type bootstrapUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role enums.UserRole) (*models.User, error)
}

// EnsureAdmin seeds the configured back-office account at startup. A
// missing account is created with the admin role; an existing customer
// account with the configured email is promoted. It is a no-op when
// the admin email or password is not configured.
func EnsureAdmin(ctx context.Context, cfg config.AdminConfig, passwordCfg config.PasswordConfig, repo bootstrapUserRepository, logg *logger.Logger) error {
	if !cfg.Enabled() {
		return nil
	}
	if repo == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "user repository required")
	}

	email := strings.ToLower(strings.TrimSpace(cfg.Email))

	existing, err := repo.FindByEmail(ctx, email)
	if err == nil {
		if existing.Role == enums.RoleAdmin {
			return nil
		}
		if _, err := repo.UpdateRole(ctx, existing.ID, enums.RoleAdmin); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: promote admin")
		}
		if logg != nil {
			logg.Info(logg.WithFields(ctx, map[string]any{"email": email}), "promoted existing account to admin")
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup admin account")
	}

	passwordHash, err := security.HashPassword(cfg.Password, passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash admin password")
	}

	if _, err := repo.Create(ctx, users.CreateUserDTO{
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    "Store",
		LastName:     "Admin",
		Role:         enums.RoleAdmin,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create admin account")
	}
	if logg != nil {
		logg.Info(logg.WithFields(ctx, map[string]any{"email": email}), "seeded admin account")
	}
	return nil
}
