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
	"github.com/jhoicas/segvenc-api/pkg/logger"
)

func newSessionUseCase(store *testutil.Store) *usecase.SessionUseCase {
	return usecase.NewSessionUseCase(store.CompanyRepo(), store.UserRepo(), store.TxRunner(), logger.Nop())
}

func TestBootstrap_PrimerLoginCreaEmpresa(t *testing.T) {
	store := testutil.NewStore()
	uc := newSessionUseCase(store)

	s, err := uc.Bootstrap(context.Background(), usecase.Identity{AuthUserID: "auth-1", Email: "Ana@Empresa.com"}, dto.BootstrapRequest{Name: "Ana"})
	require.NoError(t, err)

	assert.True(t, s.Created)
	assert.Equal(t, entity.DefaultCompanyName, s.Company.Name)
	assert.Equal(t, "ana@empresa.com", s.Company.NotificationEmail)
	assert.Equal(t, entity.RoleAdmin, s.User.Role)
	assert.True(t, s.User.Linked)

	again, err := uc.Bootstrap(context.Background(), usecase.Identity{AuthUserID: "auth-1", Email: "ana@empresa.com"}, dto.BootstrapRequest{})
	require.NoError(t, err)
	assert.False(t, again.Created)
	assert.Equal(t, s.Company.ID, again.Company.ID)
	assert.Len(t, store.Companies, 1)
}

func TestBootstrap_VinculaUsuarioProvisionado(t *testing.T) {
	store := testutil.NewStore()
	store.Companies["c1"] = &entity.Company{ID: "c1", Name: "Transportes Silva"}
	store.Users["u1"] = &entity.User{ID: "u1", CompanyID: "c1", Email: "dono@silva.com", Role: entity.RoleAdmin, Active: true}
	uc := newSessionUseCase(store)

	s, err := uc.Bootstrap(context.Background(), usecase.Identity{AuthUserID: "auth-9", Email: "DONO@silva.com"}, dto.BootstrapRequest{})
	require.NoError(t, err)

	assert.False(t, s.Created)
	assert.Equal(t, "c1", s.Company.ID)
	assert.Equal(t, "auth-9", store.Users["u1"].AuthUserID)

	u, err := uc.Resolve(context.Background(), "auth-9")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
}

func TestBootstrap_EmailDeOtraIdentidadEsConflicto(t *testing.T) {
	store := testutil.NewStore()
	store.Companies["c1"] = &entity.Company{ID: "c1"}
	store.Users["u1"] = &entity.User{ID: "u1", CompanyID: "c1", AuthUserID: "auth-1", Email: "a@b.com", Active: true}
	uc := newSessionUseCase(store)

	_, err := uc.Bootstrap(context.Background(), usecase.Identity{AuthUserID: "auth-2", Email: "a@b.com"}, dto.BootstrapRequest{})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestResolve(t *testing.T) {
	store := testutil.NewStore()
	store.Users["u1"] = &entity.User{ID: "u1", CompanyID: "c1", AuthUserID: "auth-1", Active: false}
	uc := newSessionUseCase(store)

	_, err := uc.Resolve(context.Background(), "desconocido")
	assert.ErrorIs(t, err, domain.ErrTenantNotLinked)

	_, err = uc.Resolve(context.Background(), "auth-1")
	assert.ErrorIs(t, err, domain.ErrForbidden, "acceso desactivado")
}
