package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/segvenc-api/internal/domain"
	"github.com/jhoicas/segvenc-api/internal/domain/entity"
	"github.com/jhoicas/segvenc-api/internal/domain/repository"
)

var _ repository.CertificationRepository = (*CertificationRepo)(nil)

// CertificationRepo catálogo exames_cursos.
type CertificationRepo struct {
	q Querier
}

// NewCertificationRepository construye el adaptador.
func NewCertificationRepository(q Querier) *CertificationRepo {
	return &CertificationRepo{q: q}
}

// Create persiste una entrada; (empresa_id, tipo, lower(nome)) es único.
func (r *CertificationRepo) Create(ctx context.Context, c *entity.CertificationType) error {
	query := `
		INSERT INTO exames_cursos (id, empresa_id, tipo, nome, validade_dias, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, c.ID, c.CompanyID, c.Kind, c.Name, c.ValidityDays, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert certification: %w", err)
	}
	return nil
}

// GetByID obtiene una entrada del catálogo de la empresa.
func (r *CertificationRepo) GetByID(ctx context.Context, companyID, id string) (*entity.CertificationType, error) {
	query := `
		SELECT id, empresa_id, tipo, nome, validade_dias, created_at, updated_at
		FROM exames_cursos WHERE id = $1 AND empresa_id = $2`
	var c entity.CertificationType
	err := r.q.QueryRow(ctx, query, id, companyID).Scan(
		&c.ID, &c.CompanyID, &c.Kind, &c.Name, &c.ValidityDays, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get certification: %w", err)
	}
	return &c, nil
}

// ListByCompany lista el catálogo ordenado por tipo y nombre.
func (r *CertificationRepo) ListByCompany(ctx context.Context, companyID string) ([]entity.CertificationType, error) {
	query := `
		SELECT id, empresa_id, tipo, nome, validade_dias, created_at, updated_at
		FROM exames_cursos WHERE empresa_id = $1
		ORDER BY tipo, nome`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list certifications: %w", err)
	}
	defer rows.Close()
	var list []entity.CertificationType
	for rows.Next() {
		var c entity.CertificationType
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.Kind, &c.Name, &c.ValidityDays, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan certification: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update actualiza tipo, nombre y validez.
func (r *CertificationRepo) Update(ctx context.Context, c *entity.CertificationType) error {
	query := `
		UPDATE exames_cursos SET tipo = $3, nome = $4, validade_dias = $5, updated_at = $6
		WHERE id = $1 AND empresa_id = $2`
	tag, err := r.q.Exec(ctx, query, c.ID, c.CompanyID, c.Kind, c.Name, c.ValidityDays, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update certification: %w", err)
	}
	return affectedOrNotFound(tag)
}

// Delete elimina la entrada del catálogo.
func (r *CertificationRepo) Delete(ctx context.Context, companyID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM exames_cursos WHERE id = $1 AND empresa_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("delete certification: %w", err)
	}
	return affectedOrNotFound(tag)
}
