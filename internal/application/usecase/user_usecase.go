package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/segvenc-api/internal/application/dto"
	"github.com/jhoicas/segvenc-api/internal/domain"
	"github.com/jhoicas/segvenc-api/internal/domain/entity"
	"github.com/jhoicas/segvenc-api/internal/domain/repository"
)

// UserUseCase gestión de los usuarios internos de una empresa.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// List lista los usuarios de la empresa.
func (uc *UserUseCase) List(ctx context.Context, companyID string) ([]dto.UserResponse, error) {
	users, err := uc.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *entityToUserResponse(u))
	}
	return out, nil
}

// UpdateRole cambia el rol de targetID. Solo un admin puede hacerlo y nunca sobre sí mismo.
func (uc *UserUseCase) UpdateRole(ctx context.Context, actor *entity.User, targetID, role string) (*dto.UserResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if actor.ID == targetID {
		return nil, domain.ErrOwnRoleChange
	}
	if !entity.ValidRole(role) {
		return nil, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, role)
	}
	target, err := uc.repo.GetByID(ctx, actor.CompanyID, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, domain.ErrUserNotFound
	}
	target.Role = role
	target.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, target); err != nil {
		return nil, err
	}
	return entityToUserResponse(target), nil
}

// Invite da de alta un usuario de la empresa del admin. Queda sin identidad vinculada; el primer
// login con ese e-mail lo asocia (SessionUseCase.Bootstrap). Un e-mail ya registrado en cualquier
// empresa devuelve domain.ErrDuplicate.
func (uc *UserUseCase) Invite(ctx context.Context, actor *entity.User, in dto.InviteUserRequest) (*dto.UserResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	email, err := normalizeEmail(in.Email, false)
	if err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = entity.RoleUser
	}
	if !entity.ValidRole(role) {
		return nil, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, role)
	}
	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: e-mail ya registrado", domain.ErrDuplicate)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}
	now := time.Now()
	u := &entity.User{
		ID:        uuid.New().String(),
		CompanyID: actor.CompanyID,
		Email:     email,
		Name:      name,
		Role:      role,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return entityToUserResponse(u), nil
}

func entityToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Active:    u.Active,
		Linked:    u.AuthUserID != "",
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
