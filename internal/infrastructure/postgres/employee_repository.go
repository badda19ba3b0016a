package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/segvenc-api/internal/domain"
	"github.com/jhoicas/segvenc-api/internal/domain/entity"
	"github.com/jhoicas/segvenc-api/internal/domain/repository"
)

var _ repository.EmployeeRepository = (*EmployeeRepo)(nil)

const employeeColumns = `
	id, empresa_id, COALESCE(matricula, ''), nome, COALESCE(funcao, ''), COALESCE(setor, ''),
	COALESCE(base_operacional, ''), COALESCE(to_char(data_admissao, 'YYYY-MM-DD'), ''),
	atributos, created_at, updated_at`

// EmployeeRepo colaboradores (tabla colaboradores); atributos personalizados en jsonb.
type EmployeeRepo struct {
	q Querier
}

// NewEmployeeRepository construye el adaptador. Acepta pool o tx (Querier).
func NewEmployeeRepository(q Querier) *EmployeeRepo {
	return &EmployeeRepo{q: q}
}

// Create persiste un colaborador.
func (r *EmployeeRepo) Create(ctx context.Context, e *entity.Employee) error {
	attrs, err := encodeAttributes(e.Attributes)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO colaboradores (id, empresa_id, matricula, nome, funcao, setor, base_operacional,
		                           data_admissao, atributos, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''),
		        NULLIF($8, '')::date, $9, $10, $11)`
	_, err = r.q.Exec(ctx, query,
		e.ID, e.CompanyID, e.RegistrationNumber, e.Name, e.JobRole, e.Department, e.OperatingBase,
		e.AdmissionDate, attrs, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert employee: %w", err)
	}
	return nil
}

// GetByID obtiene un colaborador de la empresa.
func (r *EmployeeRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM colaboradores WHERE id = $1 AND empresa_id = $2`
	return r.getOne(ctx, "get employee", query, id, companyID)
}

// GetByRegistration obtiene un colaborador por matrícula dentro de la empresa.
func (r *EmployeeRepo) GetByRegistration(ctx context.Context, companyID, registration string) (*entity.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM colaboradores WHERE empresa_id = $1 AND matricula = $2 LIMIT 1`
	return r.getOne(ctx, "get employee by registration", query, companyID, registration)
}

func (r *EmployeeRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.Employee, error) {
	e, err := scanEmployee(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}

// ListByCompany lista los colaboradores ordenados por nombre.
func (r *EmployeeRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM colaboradores WHERE empresa_id = $1 ORDER BY nome, matricula`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()
	var list []*entity.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// Update reescribe todos los campos del colaborador.
func (r *EmployeeRepo) Update(ctx context.Context, e *entity.Employee) error {
	attrs, err := encodeAttributes(e.Attributes)
	if err != nil {
		return err
	}
	query := `
		UPDATE colaboradores
		SET matricula = NULLIF($3, ''), nome = $4, funcao = NULLIF($5, ''), setor = NULLIF($6, ''),
		    base_operacional = NULLIF($7, ''), data_admissao = NULLIF($8, '')::date,
		    atributos = $9, updated_at = $10
		WHERE id = $1 AND empresa_id = $2`
	tag, err := r.q.Exec(ctx, query,
		e.ID, e.CompanyID, e.RegistrationNumber, e.Name, e.JobRole, e.Department, e.OperatingBase,
		e.AdmissionDate, attrs, e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update employee: %w", err)
	}
	return affectedOrNotFound(tag)
}

// Delete elimina el colaborador; los registros conservan la copia desnormalizada.
func (r *EmployeeRepo) Delete(ctx context.Context, companyID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM colaboradores WHERE id = $1 AND empresa_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	return affectedOrNotFound(tag)
}

func scanEmployee(row rowScanner) (*entity.Employee, error) {
	var e entity.Employee
	var attrs []byte
	err := row.Scan(&e.ID, &e.CompanyID, &e.RegistrationNumber, &e.Name, &e.JobRole, &e.Department,
		&e.OperatingBase, &e.AdmissionDate, &attrs, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if e.Attributes, err = decodeAttributes(attrs); err != nil {
		return nil, err
	}
	return &e, nil
}
