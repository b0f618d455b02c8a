package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/velvetrow/velvetrow-backend/pkg/db/models"
	"github.com/velvetrow/velvetrow-backend/pkg/enums"
	"github.com/velvetrow/velvetrow-backend/pkg/types"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID          uuid.UUID      `json:"id"`
	Email       string         `json:"email"`
	FirstName   string         `json:"first_name"`
	LastName    string         `json:"last_name"`
	Phone       *string        `json:"phone,omitempty"`
	Role        enums.UserRole `json:"role"`
	Address     *types.Address `json:"address,omitempty"`
	IsActive    bool           `json:"is_active"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        *string
	Role         enums.UserRole
	Address      *types.Address
}

// UpdateProfileDTO carries the mutable profile fields.
type UpdateProfileDTO struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Address   *types.Address
}

// UserList is a cursor page of accounts for the admin back office.
type UserList struct {
	Users      []UserDTO `json:"users"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// ListFilters narrows admin user queries. Query matches against email
// and name.
type ListFilters struct {
	Query string
	Role  *enums.UserRole
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Phone:       u.Phone,
		Role:        u.Role,
		Address:     u.Address,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if role == "" {
		role = enums.RoleCustomer
	}

	return &models.User{
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		Phone:        c.Phone,
		Role:         role,
		Address:      c.Address,
		IsActive:     true,
	}
}
