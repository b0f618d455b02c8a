package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgAuth "github.com/velvetrow/velvetrow-backend/pkg/auth"
	"github.com/velvetrow/velvetrow-backend/pkg/config"
	"github.com/velvetrow/velvetrow-backend/pkg/db/models"
	"github.com/velvetrow/velvetrow-backend/pkg/enums"
	pkgerrors "github.com/velvetrow/velvetrow-backend/pkg/errors"
	"github.com/velvetrow/velvetrow-backend/pkg/security"
)

func TestServiceLoginCustomer(t *testing.T) {
	password := "customer-secret"
	hashed := mustHashPassword(t, password)
	user := &models.User{
		ID:           uuid.New(),
		Email:        "shopper@example.com",
		PasswordHash: hashed,
		FirstName:    "Amara",
		LastName:     "Obi",
		Role:         enums.RoleCustomer,
		IsActive:     true,
	}
	cfg := testJWTConfig()

	svc, sessionMgr, err := buildTestService(user, cfg)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if claims.Role != enums.RoleCustomer {
		t.Fatalf("expected customer role claim, got %s", claims.Role)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id claim %s, got %s", user.ID, claims.UserID)
	}
	if resp.RefreshToken != sessionMgr.refreshToken {
		t.Fatalf("expected refresh token to be set")
	}
	if resp.User == nil || resp.User.LastLoginAt == nil {
		t.Fatalf("expected last login to be recorded")
	}
}

func TestServiceLoginWrongPassword(t *testing.T) {
	hashed := mustHashPassword(t, "right-password")
	user := &models.User{
		ID:           uuid.New(),
		Email:        "shopper@example.com",
		PasswordHash: hashed,
		Role:         enums.RoleCustomer,
		IsActive:     true,
	}

	svc, _, err := buildTestService(user, testJWTConfig())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "wrong-password",
	})
	if err == nil {
		t.Fatalf("expected unauthorized for wrong password")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceLoginInactiveUser(t *testing.T) {
	password := "secret-pass"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "dormant@example.com",
		PasswordHash: mustHashPassword(t, password),
		Role:         enums.RoleCustomer,
		IsActive:     false,
	}

	svc, _, err := buildTestService(user, testJWTConfig())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	if err == nil {
		t.Fatalf("expected unauthorized for inactive user")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceAdminLoginRejectsCustomer(t *testing.T) {
	password := "customer-secret"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "shopper@example.com",
		PasswordHash: mustHashPassword(t, password),
		Role:         enums.RoleCustomer,
		IsActive:     true,
	}

	svc, _, err := buildTestService(user, testJWTConfig())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.AdminLogin(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	if err == nil {
		t.Fatalf("expected unauthorized for non-admin")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceAdminLoginAdmin(t *testing.T) {
	password := "admin-secret"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "admin@example.com",
		PasswordHash: mustHashPassword(t, password),
		Role:         enums.RoleAdmin,
		IsActive:     true,
	}
	cfg := testJWTConfig()

	svc, _, err := buildTestService(user, cfg)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	resp, err := svc.AdminLogin(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Role != enums.RoleAdmin {
		t.Fatalf("expected admin role claim, got %s", claims.Role)
	}
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "velvetrow",
		ExpirationMinutes: 30,
	}
}

func buildTestService(user *models.User, jwtCfg config.JWTConfig) (Service, *stubSessionManager, error) {
	userRepo := stubUserRepo{user: user}
	sessionMgr := &stubSessionManager{refreshToken: "refresh-token"}
	svc, err := NewService(ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionMgr,
		JWTConfig:      jwtCfg,
	})
	return svc, sessionMgr, err
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

type stubUserRepo struct {
	user *models.User
	err  error
}

func (s stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func (s stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if s.user != nil && s.user.ID == id {
		s.user.LastLoginAt = &at
	}
	return nil
}

type stubSessionManager struct {
	refreshToken string
	lastAccessID string
	err          error
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.lastAccessID = accessID
	return s.refreshToken, nil
}
