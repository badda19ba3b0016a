package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/segvenc-api/internal/application/dto"
	"github.com/jhoicas/segvenc-api/internal/application/ports"
	"github.com/jhoicas/segvenc-api/internal/domain"
	"github.com/jhoicas/segvenc-api/internal/domain/entity"
	"github.com/jhoicas/segvenc-api/internal/domain/repository"
	"github.com/jhoicas/segvenc-api/pkg/logger"
)

// Identity identidad autenticada por el proveedor externo.
type Identity struct {
	AuthUserID string
	Email      string
}

// SessionUseCase vincula identidades del proveedor de autenticación con usuarios internos.
type SessionUseCase struct {
	companies repository.CompanyRepository
	users     repository.UserRepository
	tx        ports.TenantTxRunner
	log       *logger.Logger
}

// NewSessionUseCase construye el caso de uso.
func NewSessionUseCase(companies repository.CompanyRepository, users repository.UserRepository, tx ports.TenantTxRunner, log *logger.Logger) *SessionUseCase {
	return &SessionUseCase{companies: companies, users: users, tx: tx, log: log}
}

// Resolve devuelve el usuario interno de la identidad. domain.ErrTenantNotLinked si aún
// no pasó por Bootstrap.
func (uc *SessionUseCase) Resolve(ctx context.Context, authUserID string) (*entity.User, error) {
	u, err := uc.users.GetByAuthUserID(ctx, authUserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrTenantNotLinked
	}
	if !u.Active {
		return nil, domain.ErrForbidden
	}
	return u, nil
}

// Bootstrap asegura empresa y usuario interno para la identidad (primer login).
// Orden: usuario ya vinculado; usuario provisionado con el mismo e-mail (se vincula);
// si no existe, se crea la empresa con el usuario como admin en una transacción.
func (uc *SessionUseCase) Bootstrap(ctx context.Context, id Identity, in dto.BootstrapRequest) (*dto.SessionResponse, error) {
	if id.AuthUserID == "" {
		return nil, domain.ErrUnauthorized
	}
	email := strings.ToLower(strings.TrimSpace(id.Email))

	u, err := uc.users.GetByAuthUserID(ctx, id.AuthUserID)
	if err != nil {
		return nil, err
	}
	if u == nil && email != "" {
		u, err = uc.users.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if u != nil && u.AuthUserID != "" {
			// el e-mail ya pertenece a otra identidad
			return nil, domain.ErrConflict
		}
		if u != nil {
			u.AuthUserID = id.AuthUserID
			if u.Name == "" {
				u.Name = strings.TrimSpace(in.Name)
			}
			u.UpdatedAt = time.Now()
			if err := uc.users.Update(ctx, u); err != nil {
				return nil, err
			}
			uc.log.Info().Str("user_id", u.ID).Str("company_id", u.CompanyID).Msg("usuario vinculado a identidad")
		}
	}
	if u != nil {
		company, err := uc.companies.GetByID(ctx, u.CompanyID)
		if err != nil {
			return nil, err
		}
		if company == nil {
			return nil, fmt.Errorf("empresa %s del usuario %s: %w", u.CompanyID, u.ID, domain.ErrNotFound)
		}
		return &dto.SessionResponse{User: *entityToUserResponse(u), Company: *entityToCompanyResponse(company)}, nil
	}

	now := time.Now()
	name := strings.TrimSpace(in.CompanyName)
	if name == "" {
		name = entity.DefaultCompanyName
	}
	company := &entity.Company{
		ID:                uuid.New().String(),
		Name:              name,
		NotificationEmail: email,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	u = &entity.User{
		ID:         uuid.New().String(),
		CompanyID:  company.ID,
		AuthUserID: id.AuthUserID,
		Name:       strings.TrimSpace(in.Name),
		Email:      email,
		Role:       entity.RoleAdmin,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err = uc.tx.RunTenant(ctx, func(companies repository.CompanyRepository, users repository.UserRepository) error {
		if err := companies.Create(ctx, company); err != nil {
			return err
		}
		return users.Create(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", company.ID).Str("user_id", u.ID).Msg("empresa creada en el primer login")
	return &dto.SessionResponse{User: *entityToUserResponse(u), Company: *entityToCompanyResponse(company), Created: true}, nil
}
