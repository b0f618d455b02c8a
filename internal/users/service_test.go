package users

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/velvetrow/velvetrow-backend/pkg/db/models"
	"github.com/velvetrow/velvetrow-backend/pkg/enums"
	pkgerrors "github.com/velvetrow/velvetrow-backend/pkg/errors"
	"github.com/velvetrow/velvetrow-backend/pkg/pagination"
)

type stubUserRepo struct {
	users       map[uuid.UUID]*models.User
	roleUpdates int
	deleted     []uuid.UUID
	listFilters *ListFilters
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[uuid.UUID]*models.User{}}
}

func (s *stubUserRepo) add(role enums.UserRole) *models.User {
	user := &models.User{
		ID:        uuid.New(),
		Email:     uuid.NewString() + "@example.com",
		FirstName: "Ada",
		LastName:  "Obi",
		Role:      role,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	s.users[user.ID] = user
	return user
}

func (s *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUserRepo) UpdateProfile(_ context.Context, id uuid.UUID, dto UpdateProfileDTO) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if dto.FirstName != nil {
		user.FirstName = *dto.FirstName
	}
	if dto.LastName != nil {
		user.LastName = *dto.LastName
	}
	return user, nil
}

func (s *stubUserRepo) List(_ context.Context, params pagination.Params, filters ListFilters) (*UserList, error) {
	s.listFilters = &filters
	list := &UserList{}
	for _, user := range s.users {
		list.Users = append(list.Users, *FromModel(user))
	}
	return list, nil
}

func (s *stubUserRepo) UpdateRole(_ context.Context, id uuid.UUID, role enums.UserRole) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	s.roleUpdates++
	user.Role = role
	return user, nil
}

func (s *stubUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.users, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func buildUsersService(t *testing.T) (Service, *stubUserRepo) {
	t.Helper()
	repo := newStubUserRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func TestSetRoleGrantsAdmin(t *testing.T) {
	svc, repo := buildUsersService(t)
	actor := repo.add(enums.RoleAdmin)
	target := repo.add(enums.RoleCustomer)

	dto, err := svc.SetRole(context.Background(), actor.ID, target.ID, enums.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, enums.RoleAdmin, dto.Role)
	assert.Equal(t, enums.RoleAdmin, repo.users[target.ID].Role)
}

func TestSetRoleRevokesAdmin(t *testing.T) {
	svc, repo := buildUsersService(t)
	actor := repo.add(enums.RoleAdmin)
	target := repo.add(enums.RoleAdmin)

	dto, err := svc.SetRole(context.Background(), actor.ID, target.ID, enums.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, enums.RoleCustomer, dto.Role)
}

func TestSetRoleRejectsSelfChange(t *testing.T) {
	svc, repo := buildUsersService(t)
	actor := repo.add(enums.RoleAdmin)

	_, err := svc.SetRole(context.Background(), actor.ID, actor.ID, enums.RoleCustomer)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, enums.RoleAdmin, repo.users[actor.ID].Role)
}

func TestSetRoleIsNoOpWhenUnchanged(t *testing.T) {
	svc, repo := buildUsersService(t)
	actor := repo.add(enums.RoleAdmin)
	target := repo.add(enums.RoleCustomer)

	dto, err := svc.SetRole(context.Background(), actor.ID, target.ID, enums.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, enums.RoleCustomer, dto.Role)
	assert.Zero(t, repo.roleUpdates)
}

func TestSetRoleRejectsUnknownAccount(t *testing.T) {
	svc, repo := buildUsersService(t)
	actor := repo.add(enums.RoleAdmin)

	_, err := svc.SetRole(context.Background(), actor.ID, uuid.New(), enums.RoleAdmin)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestDeleteUserRemovesAccount(t *testing.T) {
	svc, repo := buildUsersService(t)
	actor := repo.add(enums.RoleAdmin)
	target := repo.add(enums.RoleCustomer)

	require.NoError(t, svc.DeleteUser(context.Background(), actor.ID, target.ID))
	assert.NotContains(t, repo.users, target.ID)
}

func TestDeleteUserRejectsSelfDeletion(t *testing.T) {
	svc, repo := buildUsersService(t)
	actor := repo.add(enums.RoleAdmin)

	err := svc.DeleteUser(context.Background(), actor.ID, actor.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Contains(t, repo.users, actor.ID)
}

func TestDeleteUserRejectsUnknownAccount(t *testing.T) {
	svc, repo := buildUsersService(t)
	actor := repo.add(enums.RoleAdmin)

	err := svc.DeleteUser(context.Background(), actor.ID, uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListUsersPassesFilters(t *testing.T) {
	svc, repo := buildUsersService(t)
	repo.add(enums.RoleCustomer)
	role := enums.RoleAdmin

	_, err := svc.ListUsers(context.Background(), pagination.Params{Limit: 10}, ListFilters{
		Query: "ada",
		Role:  &role,
	})
	require.NoError(t, err)
	require.NotNil(t, repo.listFilters)
	assert.Equal(t, "ada", repo.listFilters.Query)
	require.NotNil(t, repo.listFilters.Role)
	assert.Equal(t, enums.RoleAdmin, *repo.listFilters.Role)
}

func TestListUsersRejectsInvalidRoleFilter(t *testing.T) {
	svc, _ := buildUsersService(t)
	bad := enums.UserRole("superuser")

	_, err := svc.ListUsers(context.Background(), pagination.Params{}, ListFilters{Role: &bad})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
