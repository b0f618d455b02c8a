package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velvetrow/velvetrow-backend/pkg/db/models"
	"github.com/velvetrow/velvetrow-backend/pkg/enums"
	pkgerrors "github.com/velvetrow/velvetrow-backend/pkg/errors"
	"github.com/velvetrow/velvetrow-backend/pkg/pagination"
	"github.com/velvetrow/velvetrow-backend/pkg/types"
)

type profileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, dto UpdateProfileDTO) (*models.User, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*UserList, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role enums.UserRole) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UpdateProfileInput carries the mutable profile fields from the API.
type UpdateProfileInput struct {
	FirstName *string        `json:"first_name,omitempty"`
	LastName  *string        `json:"last_name,omitempty"`
	Phone     *string        `json:"phone,omitempty"`
	Address   *types.Address `json:"address,omitempty"`
}

// Service exposes account profile reads and updates plus the admin
// back-office user operations.
type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*UserDTO, error)
	ListUsers(ctx context.Context, params pagination.Params, filters ListFilters) (*UserList, error)
	SetRole(ctx context.Context, actorID, targetID uuid.UUID, role enums.UserRole) (*UserDTO, error)
	DeleteUser(ctx context.Context, actorID, targetID uuid.UUID) error
}

type service struct {
	repo profileRepository
}

// NewService builds the profile service.
func NewService(repo profileRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load user")
	}
	return FromModel(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*UserDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.FirstName != nil && strings.TrimSpace(*input.FirstName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "first name cannot be empty")
	}
	if input.LastName != nil && strings.TrimSpace(*input.LastName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "last name cannot be empty")
	}

	user, err := s.repo.UpdateProfile(ctx, userID, UpdateProfileDTO{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		Address:   input.Address,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update profile")
	}
	return FromModel(user), nil
}

// ListUsers returns a cursor page of accounts for the back office.
func (s *service) ListUsers(ctx context.Context, params pagination.Params, filters ListFilters) (*UserList, error) {
	if filters.Role != nil && !filters.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role filter")
	}
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list users")
	}
	return list, nil
}

// SetRole grants or revokes admin access. Admins cannot change their
// own role, which keeps the last admin from locking everyone out.
func (s *service) SetRole(ctx context.Context, actorID, targetID uuid.UUID, role enums.UserRole) (*UserDTO, error) {
	if targetID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	if actorID != uuid.Nil && actorID == targetID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "you cannot change your own role")
	}

	user, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load user")
	}
	if user.Role == role {
		return FromModel(user), nil
	}

	updated, err := s.repo.UpdateRole(ctx, targetID, role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update role")
	}
	return FromModel(updated), nil
}

// DeleteUser removes an account. Admins cannot delete themselves.
func (s *service) DeleteUser(ctx context.Context, actorID, targetID uuid.UUID) error {
	if targetID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if actorID != uuid.Nil && actorID == targetID {
		return pkgerrors.New(pkgerrors.CodeValidation, "you cannot delete your own account")
	}

	if err := s.repo.Delete(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete user")
	}
	return nil
}
