package usecase

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/segvenc-api/internal/application/dto"
	"github.com/jhoicas/segvenc-api/internal/domain"
	"github.com/jhoicas/segvenc-api/internal/domain/entity"
	"github.com/jhoicas/segvenc-api/internal/domain/repository"
	"github.com/jhoicas/segvenc-api/pkg/cnpj"
)

// CompanyUseCase datos de la empresa y destinatarios del resumen diario.
type CompanyUseCase struct {
	repo   repository.CompanyRepository
	emails repository.NotificationEmailRepository
}

// NewCompanyUseCase construye el caso de uso con los puertos de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository, emails repository.NotificationEmailRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo, emails: emails}
}

// Get obtiene la empresa del tenant.
func (uc *CompanyUseCase) Get(ctx context.Context, companyID string) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return entityToCompanyResponse(company), nil
}

// Update aplica los campos informados.
func (uc *CompanyUseCase) Update(ctx context.Context, companyID string, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: nombre vacío", domain.ErrInvalidInput)
		}
		company.Name = name
	}
	if in.TaxID != nil {
		taxID := strings.TrimSpace(*in.TaxID)
		if taxID != "" {
			normalized, err := cnpj.Normalize(taxID)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
			}
			taxID = normalized
		}
		company.TaxID = taxID
	}
	if in.NotificationEmail != nil {
		email, err := normalizeEmail(*in.NotificationEmail, true)
		if err != nil {
			return nil, err
		}
		company.NotificationEmail = email
	}
	company.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, company); err != nil {
		return nil, err
	}
	return entityToCompanyResponse(company), nil
}

// ListNotificationEmails lista los destinatarios del resumen.
func (uc *CompanyUseCase) ListNotificationEmails(ctx context.Context, companyID string) ([]dto.NotificationEmailResponse, error) {
	list, err := uc.emails.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NotificationEmailResponse, 0, len(list))
	for _, e := range list {
		out = append(out, entityToNotificationEmailResponse(e))
	}
	return out, nil
}

// AddNotificationEmail agrega un destinatario activo. Devuelve domain.ErrDuplicate si ya existe.
func (uc *CompanyUseCase) AddNotificationEmail(ctx context.Context, companyID string, in dto.CreateNotificationEmailRequest) (*dto.NotificationEmailResponse, error) {
	email, err := normalizeEmail(in.Email, false)
	if err != nil {
		return nil, err
	}
	e := &entity.NotificationEmail{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Email:     email,
		Name:      strings.TrimSpace(in.Name),
		Active:    true,
		CreatedAt: time.Now(),
	}
	if err := uc.emails.Create(ctx, e); err != nil {
		return nil, err
	}
	resp := entityToNotificationEmailResponse(e)
	return &resp, nil
}

// DeleteNotificationEmail elimina un destinatario del tenant.
func (uc *CompanyUseCase) DeleteNotificationEmail(ctx context.Context, companyID, id string) error {
	return uc.emails.Delete(ctx, companyID, id)
}

// normalizeEmail recorta, pasa a minúsculas y valida. Con allowEmpty, "" es válido.
func normalizeEmail(s string, allowEmpty bool) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		if allowEmpty {
			return "", nil
		}
		return "", fmt.Errorf("%w: e-mail requerido", domain.ErrInvalidInput)
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return "", fmt.Errorf("%w: e-mail inválido", domain.ErrInvalidInput)
	}
	return s, nil
}

func entityToCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	return &dto.CompanyResponse{
		ID:                c.ID,
		Name:              c.Name,
		TaxID:             c.TaxID,
		NotificationEmail: c.NotificationEmail,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

func entityToNotificationEmailResponse(e *entity.NotificationEmail) dto.NotificationEmailResponse {
	return dto.NotificationEmailResponse{
		ID:        e.ID,
		Email:     e.Email,
		Name:      e.Name,
		Active:    e.Active,
		CreatedAt: e.CreatedAt,
	}
}
