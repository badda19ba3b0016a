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
	"github.com/jhoicas/segvenc-api/internal/domain/expiry"
	"github.com/jhoicas/segvenc-api/internal/domain/repository"
)

// CertificationUseCase catálogo de exámenes y cursos con su validez.
type CertificationUseCase struct {
	repo repository.CertificationRepository
}

// NewCertificationUseCase construye el caso de uso.
func NewCertificationUseCase(repo repository.CertificationRepository) *CertificationUseCase {
	return &CertificationUseCase{repo: repo}
}

// List devuelve el catálogo de la empresa.
func (uc *CertificationUseCase) List(ctx context.Context, companyID string) ([]dto.CertificationResponse, error) {
	list, err := uc.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CertificationResponse, 0, len(list))
	for i := range list {
		out = append(out, entityToCertificationResponse(&list[i]))
	}
	return out, nil
}

// Create agrega una entrada. Devuelve domain.ErrDuplicate si ya existe el mismo tipo y nombre.
func (uc *CertificationUseCase) Create(ctx context.Context, companyID string, in dto.CertificationRequest) (*dto.CertificationResponse, error) {
	now := time.Now()
	c := &entity.CertificationType{ID: uuid.New().String(), CompanyID: companyID, CreatedAt: now, UpdatedAt: now}
	if err := applyCertificationRequest(c, in); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	resp := entityToCertificationResponse(c)
	return &resp, nil
}

// Update modifica una entrada. Los registros existentes no se recalculan.
func (uc *CertificationUseCase) Update(ctx context.Context, companyID, id string, in dto.CertificationRequest) (*dto.CertificationResponse, error) {
	c, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if err := applyCertificationRequest(c, in); err != nil {
		return nil, err
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	resp := entityToCertificationResponse(c)
	return &resp, nil
}

// Delete elimina una entrada del catálogo.
func (uc *CertificationUseCase) Delete(ctx context.Context, companyID, id string) error {
	return uc.repo.Delete(ctx, companyID, id)
}

// Seed agrega las entradas que no existan aún (tipo + nombre). Devuelve cuántas creó.
func (uc *CertificationUseCase) Seed(ctx context.Context, companyID string, items []dto.CertificationRequest) (int, error) {
	existing, err := uc.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return 0, err
	}
	created := 0
	for _, in := range items {
		if _, ok := expiry.FindCertification(existing, in.Kind, strings.TrimSpace(in.Name)); ok {
			continue
		}
		c, err := uc.Create(ctx, companyID, in)
		if err != nil {
			return created, fmt.Errorf("catálogo %s/%s: %w", in.Kind, in.Name, err)
		}
		existing = append(existing, entity.CertificationType{Kind: c.Kind, Name: c.Name})
		created++
	}
	return created, nil
}

func applyCertificationRequest(c *entity.CertificationType, in dto.CertificationRequest) error {
	if !entity.ValidKind(in.Kind) {
		return fmt.Errorf("%w: tipo %q (Exame, Curso)", domain.ErrInvalidInput, in.Kind)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	if in.ValidityDays < 0 {
		return fmt.Errorf("%w: validez negativa", domain.ErrInvalidInput)
	}
	c.Kind = in.Kind
	c.Name = name
	c.ValidityDays = in.ValidityDays
	return nil
}

func entityToCertificationResponse(c *entity.CertificationType) dto.CertificationResponse {
	return dto.CertificationResponse{
		ID:           c.ID,
		Kind:         c.Kind,
		Name:         c.Name,
		ValidityDays: c.ValidityDays,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
