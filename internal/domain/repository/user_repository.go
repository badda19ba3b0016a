package repository

import (
	"context"

	"github.com/jhoicas/segvenc-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, companyID, id string) (*entity.User, error)
	GetByAuthUserID(ctx context.Context, authUserID string) (*entity.User, error)
	// GetByEmail busca el primer usuario con ese e-mail (sin distinguir mayúsculas), de cualquier empresa.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByEmailAndCompany(ctx context.Context, email, companyID string) (*entity.User, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
}
