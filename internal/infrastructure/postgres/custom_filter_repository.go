package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/segvenc-api/internal/domain"
	"github.com/jhoicas/segvenc-api/internal/domain/entity"
	"github.com/jhoicas/segvenc-api/internal/domain/repository"
)

var _ repository.CustomFilterRepository = (*CustomFilterRepo)(nil)

// CustomFilterRepo filtros personalizados (tabla custom_filters).
type CustomFilterRepo struct {
	q Querier
}

// NewCustomFilterRepository construye el adaptador.
func NewCustomFilterRepository(q Querier) *CustomFilterRepo {
	return &CustomFilterRepo{q: q}
}

// Create persiste un filtro.
func (r *CustomFilterRepo) Create(ctx context.Context, f *entity.CustomFilter) error {
	query := `
		INSERT INTO custom_filters (id, empresa_id, nome, origem, usar_no_dashboard, usar_nos_registros, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, f.ID, f.CompanyID, f.FieldName, f.Origin, f.UseDashboard, f.UseRecords, f.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert custom filter: %w", err)
	}
	return nil
}

// ListByCompany lista los filtros de la empresa.
func (r *CustomFilterRepo) ListByCompany(ctx context.Context, companyID string) ([]entity.CustomFilter, error) {
	query := `
		SELECT id, empresa_id, nome, origem, usar_no_dashboard, usar_nos_registros, created_at
		FROM custom_filters WHERE empresa_id = $1
		ORDER BY created_at, nome`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list custom filters: %w", err)
	}
	defer rows.Close()
	var list []entity.CustomFilter
	for rows.Next() {
		var f entity.CustomFilter
		if err := rows.Scan(&f.ID, &f.CompanyID, &f.FieldName, &f.Origin, &f.UseDashboard, &f.UseRecords, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan custom filter: %w", err)
		}
		list = append(list, f)
	}
	return list, rows.Err()
}

// Update actualiza nombre, origen y flags de uso.
func (r *CustomFilterRepo) Update(ctx context.Context, f *entity.CustomFilter) error {
	query := `
		UPDATE custom_filters
		SET nome = $3, origem = $4, usar_no_dashboard = $5, usar_nos_registros = $6
		WHERE id = $1 AND empresa_id = $2`
	tag, err := r.q.Exec(ctx, query, f.ID, f.CompanyID, f.FieldName, f.Origin, f.UseDashboard, f.UseRecords)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update custom filter: %w", err)
	}
	return affectedOrNotFound(tag)
}

// Delete elimina el filtro.
func (r *CustomFilterRepo) Delete(ctx context.Context, companyID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM custom_filters WHERE id = $1 AND empresa_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("delete custom filter: %w", err)
	}
	return affectedOrNotFound(tag)
}
