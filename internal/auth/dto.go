package auth

import (
	"github.com/velvetrow/velvetrow-backend/internal/users"
	"github.com/velvetrow/velvetrow-backend/pkg/types"
)

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest contains the payload required to create a customer account.
type RegisterRequest struct {
	FirstName string         `json:"first_name" validate:"required"`
	LastName  string         `json:"last_name" validate:"required"`
	Email     string         `json:"email" validate:"required,email"`
	Password  string         `json:"password" validate:"required,min=8"`
	Phone     *string        `json:"phone,omitempty"`
	Address   *types.Address `json:"address,omitempty"`
}

// AuthResponse contains the tokens and user produced by a successful
// login or registration.
type AuthResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user"`
}
