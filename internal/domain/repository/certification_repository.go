package repository

import (
	"context"

	"github.com/jhoicas/segvenc-api/internal/domain/entity"
)

// CertificationRepository catálogo de exámenes/cursos de la empresa.
type CertificationRepository interface {
	Create(ctx context.Context, c *entity.CertificationType) error
	GetByID(ctx context.Context, companyID, id string) (*entity.CertificationType, error)
	ListByCompany(ctx context.Context, companyID string) ([]entity.CertificationType, error)
	Update(ctx context.Context, c *entity.CertificationType) error
	Delete(ctx context.Context, companyID, id string) error
}
