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

func TestCompanyUpdate(t *testing.T) {
	store := testutil.NewStore()
	store.Companies[companyID] = &entity.Company{ID: companyID, Name: "Nova Empresa"}
	uc := usecase.NewCompanyUseCase(store.CompanyRepo(), store.NotificationEmailRepo())
	ctx := context.Background()

	name, email := "Alfa Transportes", " SST@Alfa.com "
	c, err := uc.Update(ctx, companyID, dto.UpdateCompanyRequest{Name: &name, NotificationEmail: &email})
	require.NoError(t, err)
	assert.Equal(t, "Alfa Transportes", c.Name)
	assert.Equal(t, "sst@alfa.com", c.NotificationEmail)

	bad := "sem-arroba"
	_, err = uc.Update(ctx, companyID, dto.UpdateCompanyRequest{NotificationEmail: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	cnpj := "11222333000181"
	c, err = uc.Update(ctx, companyID, dto.UpdateCompanyRequest{TaxID: &cnpj})
	require.NoError(t, err)
	assert.Equal(t, "11.222.333/0001-81", c.TaxID)

	wrong := "11.222.333/0001-00"
	_, err = uc.Update(ctx, companyID, dto.UpdateCompanyRequest{TaxID: &wrong})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Get(ctx, "inexistente")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNotificationEmails(t *testing.T) {
	store := testutil.NewStore()
	uc := usecase.NewCompanyUseCase(store.CompanyRepo(), store.NotificationEmailRepo())
	ctx := context.Background()

	e, err := uc.AddNotificationEmail(ctx, companyID, dto.CreateNotificationEmailRequest{Email: "rh@alfa.com", Name: "RH"})
	require.NoError(t, err)
	assert.True(t, e.Active)

	_, err = uc.AddNotificationEmail(ctx, companyID, dto.CreateNotificationEmailRequest{Email: "RH@alfa.com"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	list, err := uc.ListNotificationEmails(ctx, companyID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.ErrorIs(t, uc.DeleteNotificationEmail(ctx, "otra", e.ID), domain.ErrNotFound)
	require.NoError(t, uc.DeleteNotificationEmail(ctx, companyID, e.ID))
}
