package ports

import (
	"context"

	"github.com/jhoicas/segvenc-api/internal/domain/repository"
)

// TenantTxRunner ejecuta fn dentro de una transacción con los repositorios de empresa y
// usuario atados a ella. Se usa al provisionar una empresa junto con su usuario admin:
// ambos se crean o ninguno.
type TenantTxRunner interface {
	RunTenant(ctx context.Context, fn func(
		companies repository.CompanyRepository,
		users repository.UserRepository,
	) error) error
}
