package repository

import (
	"context"

	"github.com/jhoicas/segvenc-api/internal/domain/entity"
)

// EmployeeRepository persistencia de colaboradores (siempre acotada por empresa).
type EmployeeRepository interface {
	Create(ctx context.Context, e *entity.Employee) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Employee, error)
	GetByRegistration(ctx context.Context, companyID, registration string) (*entity.Employee, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Employee, error)
	Update(ctx context.Context, e *entity.Employee) error
	Delete(ctx context.Context, companyID, id string) error
}
