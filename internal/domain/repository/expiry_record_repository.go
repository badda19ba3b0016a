package repository

import (
	"context"

	"github.com/jhoicas/segvenc-api/internal/domain/entity"
)

// ExpiryRecordRepository persistencia de registros de vencimiento.
type ExpiryRecordRepository interface {
	Create(ctx context.Context, r *entity.ExpiryRecord) error
	GetByID(ctx context.Context, companyID, id string) (*entity.ExpiryRecord, error)
	ListByCompany(ctx context.Context, companyID string) ([]entity.ExpiryRecord, error)
	Update(ctx context.Context, r *entity.ExpiryRecord) error
	Delete(ctx context.Context, companyID, id string) error
	// ListDueOnOrBefore devuelve los registros de todas las empresas con vencimiento
	// informado y menor o igual a dateISO (YYYY-MM-DD).
	ListDueOnOrBefore(ctx context.Context, dateISO string) ([]entity.ExpiryRecord, error)
}
