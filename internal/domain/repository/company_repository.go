package repository

import (
	"context"

	"github.com/jhoicas/segvenc-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	// GetByNotificationEmail busca por e-mail de notificación (exacto, sin distinguir mayúsculas).
	GetByNotificationEmail(ctx context.Context, email string) (*entity.Company, error)
	Update(ctx context.Context, company *entity.Company) error
}

// NotificationEmailRepository destinatarios del resumen diario por empresa.
type NotificationEmailRepository interface {
	Create(ctx context.Context, e *entity.NotificationEmail) error
	ListByCompany(ctx context.Context, companyID string) ([]*entity.NotificationEmail, error)
	// ListActive devuelve los e-mails activos de todas las empresas.
	ListActive(ctx context.Context) ([]*entity.NotificationEmail, error)
	Delete(ctx context.Context, companyID, id string) error
}
