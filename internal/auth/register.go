package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/velvetrow/velvetrow-backend/internal/users"
	pkgAuth "github.com/velvetrow/velvetrow-backend/pkg/auth"
	"github.com/velvetrow/velvetrow-backend/pkg/auth/session"
	"github.com/velvetrow/velvetrow-backend/pkg/config"
	"github.com/velvetrow/velvetrow-backend/pkg/db/models"
	"github.com/velvetrow/velvetrow-backend/pkg/enums"
	pkgerrors "github.com/velvetrow/velvetrow-backend/pkg/errors"
	"github.com/velvetrow/velvetrow-backend/pkg/security"
)

// RegisterService handles the customer signup transaction.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
}

type registerTxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type registerUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	TxRunner        registerTxRunner
	UserRepoFactory func(tx *gorm.DB) registerUserRepository
	SessionManager  sessionManager
	PasswordConfig  config.PasswordConfig
	JWTConfig       config.JWTConfig
}

type registerService struct {
	tx          registerTxRunner
	userRepo    func(tx *gorm.DB) registerUserRepository
	session     sessionManager
	passwordCfg config.PasswordConfig
	jwtCfg      config.JWTConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.UserRepoFactory == nil {
		params.UserRepoFactory = func(tx *gorm.DB) registerUserRepository {
			return users.NewRepository(tx)
		}
	}
	if params.SessionManager == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session manager required")
	}
	return &registerService{
		tx:          params.TxRunner,
		userRepo:    params.UserRepoFactory,
		session:     params.SessionManager,
		passwordCfg: params.PasswordConfig,
		jwtCfg:      params.JWTConfig,
	}, nil
}

// Register creates a customer account and signs the new user in.
func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if req.Address != nil && req.Address.IsZero() {
		req.Address = nil
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var user *models.User
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.userRepo(tx)

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}

		created, err := userRepo.Create(ctx, users.CreateUserDTO{
			Email:        email,
			PasswordHash: passwordHash,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Phone:        req.Phone,
			Role:         enums.RoleCustomer,
			Address:      req.Address,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}
		user = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	accessID := session.NewAccessID()
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	refreshToken, err := s.session.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store refresh token")
	}

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         users.FromModel(user),
	}, nil
}
