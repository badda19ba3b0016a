package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/segvenc-api/internal/domain"
	"github.com/jhoicas/segvenc-api/internal/domain/entity"
	"github.com/jhoicas/segvenc-api/internal/domain/repository"
)

var (
	_ repository.CompanyRepository           = (*CompanyRepo)(nil)
	_ repository.NotificationEmailRepository = (*NotificationEmailRepo)(nil)
)

const companyColumns = `id, nome, COALESCE(cnpj, ''), COALESCE(email_notificacao, ''), created_at, updated_at`

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador. Acepta pool o tx (Querier).
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

// Create persiste una nueva empresa.
func (r *CompanyRepo) Create(ctx context.Context, company *entity.Company) error {
	query := `
		INSERT INTO empresas (id, nome, cnpj, email_notificacao, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6)`
	_, err := r.q.Exec(ctx, query,
		company.ID, company.Name, company.TaxID, company.NotificationEmail,
		company.CreatedAt, company.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM empresas WHERE id = $1`
	c, err := scanCompany(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

// GetByNotificationEmail busca la empresa cuyo e-mail de notificación coincide (sin mayúsculas).
func (r *CompanyRepo) GetByNotificationEmail(ctx context.Context, email string) (*entity.Company, error) {
	query := `
		SELECT ` + companyColumns + `
		FROM empresas WHERE lower(email_notificacao) = lower($1)
		ORDER BY created_at LIMIT 1`
	c, err := scanCompany(r.q.QueryRow(ctx, query, email))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company by notification email: %w", err)
	}
	return c, nil
}

// Update actualiza nombre, CNPJ y e-mail de notificación.
func (r *CompanyRepo) Update(ctx context.Context, company *entity.Company) error {
	query := `
		UPDATE empresas
		SET nome = $2, cnpj = NULLIF($3, ''), email_notificacao = NULLIF($4, ''), updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		company.ID, company.Name, company.TaxID, company.NotificationEmail, company.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	return affectedOrNotFound(tag)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(row rowScanner) (*entity.Company, error) {
	var c entity.Company
	if err := row.Scan(&c.ID, &c.Name, &c.TaxID, &c.NotificationEmail, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// NotificationEmailRepo destinatarios del resumen diario (tabla empresas_emails_alerta).
type NotificationEmailRepo struct {
	q Querier
}

// NewNotificationEmailRepository construye el adaptador.
func NewNotificationEmailRepository(q Querier) *NotificationEmailRepo {
	return &NotificationEmailRepo{q: q}
}

// Create agrega un destinatario; el índice único (empresa_id, lower(email)) evita repetidos.
func (r *NotificationEmailRepo) Create(ctx context.Context, e *entity.NotificationEmail) error {
	query := `
		INSERT INTO empresas_emails_alerta (id, empresa_id, email, nome, ativo, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6)`
	_, err := r.q.Exec(ctx, query, e.ID, e.CompanyID, e.Email, e.Name, e.Active, e.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert notification email: %w", err)
	}
	return nil
}

// ListByCompany lista los destinatarios de una empresa.
func (r *NotificationEmailRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.NotificationEmail, error) {
	query := `
		SELECT id, empresa_id, email, COALESCE(nome, ''), ativo, created_at
		FROM empresas_emails_alerta WHERE empresa_id = $1
		ORDER BY email`
	return r.list(ctx, query, companyID)
}

// ListActive lista los destinatarios activos de todas las empresas.
func (r *NotificationEmailRepo) ListActive(ctx context.Context) ([]*entity.NotificationEmail, error) {
	query := `
		SELECT id, empresa_id, email, COALESCE(nome, ''), ativo, created_at
		FROM empresas_emails_alerta WHERE ativo
		ORDER BY empresa_id, email`
	return r.list(ctx, query)
}

func (r *NotificationEmailRepo) list(ctx context.Context, query string, args ...any) ([]*entity.NotificationEmail, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notification emails: %w", err)
	}
	defer rows.Close()
	var list []*entity.NotificationEmail
	for rows.Next() {
		var e entity.NotificationEmail
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.Email, &e.Name, &e.Active, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification email: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// Delete elimina un destinatario de la empresa.
func (r *NotificationEmailRepo) Delete(ctx context.Context, companyID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM empresas_emails_alerta WHERE id = $1 AND empresa_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("delete notification email: %w", err)
	}
	return affectedOrNotFound(tag)
}
