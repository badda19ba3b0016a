package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/segvenc-api/internal/application/dto"
	"github.com/jhoicas/segvenc-api/internal/application/usecase"
	"github.com/jhoicas/segvenc-api/internal/domain"
	"github.com/jhoicas/segvenc-api/internal/domain/entity"
	"github.com/jhoicas/segvenc-api/internal/testutil"
)

func TestUpdateRole(t *testing.T) {
	store := testutil.NewStore()
	admin := &entity.User{ID: "a", CompanyID: companyID, Role: entity.RoleAdmin}
	plain := &entity.User{ID: "u", CompanyID: companyID, Role: entity.RoleUser}
	store.Users["a"] = admin
	store.Users["u"] = plain
	store.Users["o"] = &entity.User{ID: "o", CompanyID: "otra", Role: entity.RoleUser}
	uc := usecase.NewUserUseCase(store.UserRepo())
	ctx := context.Background()

	resp, err := uc.UpdateRole(ctx, admin, "u", entity.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, resp.Role)
	assert.Equal(t, entity.RoleAdmin, store.Users["u"].Role)

	_, err = uc.UpdateRole(ctx, admin, "a", entity.RoleUser)
	assert.ErrorIs(t, err, domain.ErrOwnRoleChange)

	_, err = uc.UpdateRole(ctx, plain, "a", entity.RoleUser)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.UpdateRole(ctx, admin, "u", "superuser")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.UpdateRole(ctx, admin, "o", entity.RoleUser)
	assert.ErrorIs(t, err, domain.ErrUserNotFound, "usuario de otra empresa")
}

func TestInvite(t *testing.T) {
	store := testutil.NewStore()
	admin := &entity.User{ID: "a", CompanyID: companyID, Role: entity.RoleAdmin, Email: "dono@alfa.com"}
	plain := &entity.User{ID: "u", CompanyID: companyID, Role: entity.RoleUser, Email: "op@alfa.com"}
	store.Users["a"] = admin
	store.Users["u"] = plain
	store.Users["o"] = &entity.User{ID: "o", CompanyID: "otra", Role: entity.RoleUser, Email: "ja@beta.com"}
	uc := usecase.NewUserUseCase(store.UserRepo())
	ctx := context.Background()

	resp, err := uc.Invite(ctx, admin, dto.InviteUserRequest{Email: "  Nova@Alfa.com "})
	require.NoError(t, err)
	assert.Equal(t, "nova@alfa.com", resp.Email)
	assert.Equal(t, "nova@alfa.com", resp.Name, "sin nombre se usa el e-mail")
	assert.Equal(t, entity.RoleUser, resp.Role)
	assert.Equal(t, companyID, resp.CompanyID)
	assert.False(t, resp.Linked)
	require.Contains(t, store.Users, resp.ID)
	assert.Empty(t, store.Users[resp.ID].AuthUserID)

	resp, err = uc.Invite(ctx, admin, dto.InviteUserRequest{Email: "gestor@alfa.com", Name: "Gestor", Role: entity.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, resp.Role)

	_, err = uc.Invite(ctx, admin, dto.InviteUserRequest{Email: "ja@beta.com"})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "e-mail de otra empresa")

	_, err = uc.Invite(ctx, admin, dto.InviteUserRequest{Email: "sem-arroba"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Invite(ctx, admin, dto.InviteUserRequest{Email: "x@alfa.com", Role: "dono"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Invite(ctx, plain, dto.InviteUserRequest{Email: "y@alfa.com"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Len(t, store.Users, 5)
}
