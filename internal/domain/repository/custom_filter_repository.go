package repository

import (
	"context"

	"github.com/jhoicas/segvenc-api/internal/domain/entity"
)

// CustomFilterRepository filtros personalizados de la empresa.
type CustomFilterRepository interface {
	Create(ctx context.Context, f *entity.CustomFilter) error
	ListByCompany(ctx context.Context, companyID string) ([]entity.CustomFilter, error)
	Update(ctx context.Context, f *entity.CustomFilter) error
	Delete(ctx context.Context, companyID, id string) error
}
