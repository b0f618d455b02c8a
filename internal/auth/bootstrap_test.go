package auth

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/velvetrow/velvetrow-backend/pkg/config"
	pkgmodels "github.com/velvetrow/velvetrow-backend/pkg/db/models"
	"github.com/velvetrow/velvetrow-backend/pkg/enums"
	"github.com/velvetrow/velvetrow-backend/pkg/security"
)

type bootstrapRepo struct {
	*stubUserRepository
	roleUpdates map[uuid.UUID]enums.UserRole
}

func newBootstrapRepo() *bootstrapRepo {
	return &bootstrapRepo{
		stubUserRepository: newStubUserRepository(),
		roleUpdates:        map[uuid.UUID]enums.UserRole{},
	}
}

func (s *bootstrapRepo) UpdateRole(_ context.Context, id uuid.UUID, role enums.UserRole) (*pkgmodels.User, error) {
	for _, user := range s.data {
		if user.ID == id {
			user.Role = role
			s.roleUpdates[id] = role
			return user, nil
		}
	}
	return nil, fmt.Errorf("user %s not found", id)
}

func adminSeedConfig() config.AdminConfig {
	return config.AdminConfig{
		Email:    "owner@velvetrow.ng",
		Password: "opening-night",
	}
}

func TestEnsureAdminCreatesMissingAccount(t *testing.T) {
	repo := newBootstrapRepo()
	cfg := adminSeedConfig()
	cfg.Email = "  Owner@VelvetRow.ng "

	if err := EnsureAdmin(context.Background(), cfg, config.PasswordConfig{}, repo, nil); err != nil {
		t.Fatalf("ensure admin failed: %v", err)
	}

	created := repo.data["owner@velvetrow.ng"]
	if created == nil {
		t.Fatalf("expected admin account to be created under normalized email")
	}
	if created.Role != enums.RoleAdmin {
		t.Fatalf("expected admin role, got %s", created.Role)
	}

	valid, err := security.VerifyPassword("opening-night", created.PasswordHash)
	if err != nil || !valid {
		t.Fatalf("stored hash does not verify: valid=%v err=%v", valid, err)
	}
}

func TestEnsureAdminPromotesExistingCustomer(t *testing.T) {
	repo := newBootstrapRepo()
	existing := &pkgmodels.User{
		ID:    uuid.New(),
		Email: "owner@velvetrow.ng",
		Role:  enums.RoleCustomer,
	}
	repo.data[existing.Email] = existing

	if err := EnsureAdmin(context.Background(), adminSeedConfig(), config.PasswordConfig{}, repo, nil); err != nil {
		t.Fatalf("ensure admin failed: %v", err)
	}

	if repo.roleUpdates[existing.ID] != enums.RoleAdmin {
		t.Fatalf("expected existing account to be promoted")
	}
	if repo.created != nil {
		t.Fatalf("expected no new account for an existing email")
	}
}

func TestEnsureAdminIsIdempotentForExistingAdmin(t *testing.T) {
	repo := newBootstrapRepo()
	existing := &pkgmodels.User{
		ID:    uuid.New(),
		Email: "owner@velvetrow.ng",
		Role:  enums.RoleAdmin,
	}
	repo.data[existing.Email] = existing

	if err := EnsureAdmin(context.Background(), adminSeedConfig(), config.PasswordConfig{}, repo, nil); err != nil {
		t.Fatalf("ensure admin failed: %v", err)
	}

	if len(repo.roleUpdates) != 0 {
		t.Fatalf("expected no role change for an existing admin")
	}
	if repo.created != nil {
		t.Fatalf("expected no account creation for an existing admin")
	}
}

func TestEnsureAdminSkipsWhenUnconfigured(t *testing.T) {
	repo := newBootstrapRepo()

	for _, cfg := range []config.AdminConfig{
		{},
		{Email: "owner@velvetrow.ng"},
		{Password: "opening-night"},
	} {
		if err := EnsureAdmin(context.Background(), cfg, config.PasswordConfig{}, repo, nil); err != nil {
			t.Fatalf("expected no-op, got %v", err)
		}
	}

	if len(repo.data) != 0 {
		t.Fatalf("expected no accounts to be seeded")
	}
}
