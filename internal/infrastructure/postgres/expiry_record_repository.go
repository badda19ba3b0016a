package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/segvenc-api/internal/domain"
	"github.com/jhoicas/segvenc-api/internal/domain/entity"
	"github.com/jhoicas/segvenc-api/internal/domain/repository"
)

var _ repository.ExpiryRecordRepository = (*ExpiryRecordRepo)(nil)

const recordColumns = `
	id, empresa_id, COALESCE(colaborador_id::text, ''), COALESCE(matricula, ''), COALESCE(colaborador_nome, ''),
	COALESCE(funcao, ''), COALESCE(setor, ''), COALESCE(base_operacional, ''), COALESCE(tipo, ''),
	COALESCE(curso_exame, ''), COALESCE(to_char(data_admissao, 'YYYY-MM-DD'), ''),
	COALESCE(to_char(data_ultimo_evento, 'YYYY-MM-DD'), ''), COALESCE(to_char(vencimento, 'YYYY-MM-DD'), ''),
	qtde_dias, COALESCE(status, ''), COALESCE(observacao, ''), atributos, created_at, updated_at`

// ExpiryRecordRepo registros de vencimiento (tabla registros). Toda consulta
// de lectura/escritura de un tenant filtra por empresa_id.
type ExpiryRecordRepo struct {
	q Querier
}

// NewExpiryRecordRepository construye el adaptador. Acepta pool o tx (Querier).
func NewExpiryRecordRepository(q Querier) *ExpiryRecordRepo {
	return &ExpiryRecordRepo{q: q}
}

// Create persiste un registro con su caché qtde_dias/status.
func (r *ExpiryRecordRepo) Create(ctx context.Context, rec *entity.ExpiryRecord) error {
	attrs, err := encodeAttributes(rec.Attributes)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO registros (id, empresa_id, colaborador_id, matricula, colaborador_nome, funcao, setor,
		                       base_operacional, tipo, curso_exame, data_admissao, data_ultimo_evento,
		                       vencimento, qtde_dias, status, observacao, atributos, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, '')::uuid, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''),
		        NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, ''), NULLIF($11, '')::date, NULLIF($12, '')::date,
		        NULLIF($13, '')::date, $14, NULLIF($15, ''), NULLIF($16, ''), $17, $18, $19)`
	_, err = r.q.Exec(ctx, query,
		rec.ID, rec.CompanyID, rec.EmployeeID, rec.RegistrationNumber, rec.EmployeeName, rec.JobRole,
		rec.Department, rec.OperatingBase, rec.Kind, rec.CertificationName, rec.AdmissionDate,
		rec.LastEventDate, rec.DueDate, rec.OffsetDays, rec.Status, rec.Note, attrs,
		rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// GetByID obtiene un registro de la empresa.
func (r *ExpiryRecordRepo) GetByID(ctx context.Context, companyID, id string) (*entity.ExpiryRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM registros WHERE id = $1 AND empresa_id = $2`
	rec, err := scanRecord(r.q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get record: %w", err)
	}
	return &rec, nil
}

// ListByCompany lista los registros de la empresa por vencimiento (sin fecha al final).
func (r *ExpiryRecordRepo) ListByCompany(ctx context.Context, companyID string) ([]entity.ExpiryRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM registros WHERE empresa_id = $1
		ORDER BY vencimento NULLS LAST, colaborador_nome`
	return r.list(ctx, query, companyID)
}

// ListDueOnOrBefore lista, de todas las empresas, los registros con vencimiento <= dateISO.
func (r *ExpiryRecordRepo) ListDueOnOrBefore(ctx context.Context, dateISO string) ([]entity.ExpiryRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM registros
		WHERE vencimento IS NOT NULL AND vencimento <= $1::date
		ORDER BY empresa_id, vencimento, colaborador_nome`
	return r.list(ctx, query, dateISO)
}

func (r *ExpiryRecordRepo) list(ctx context.Context, query string, args ...any) ([]entity.ExpiryRecord, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()
	var list []entity.ExpiryRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

// Update reescribe el registro completo, incluida la caché.
func (r *ExpiryRecordRepo) Update(ctx context.Context, rec *entity.ExpiryRecord) error {
	attrs, err := encodeAttributes(rec.Attributes)
	if err != nil {
		return err
	}
	query := `
		UPDATE registros
		SET colaborador_id = NULLIF($3, '')::uuid, matricula = NULLIF($4, ''), colaborador_nome = NULLIF($5, ''),
		    funcao = NULLIF($6, ''), setor = NULLIF($7, ''), base_operacional = NULLIF($8, ''),
		    tipo = NULLIF($9, ''), curso_exame = NULLIF($10, ''), data_admissao = NULLIF($11, '')::date,
		    data_ultimo_evento = NULLIF($12, '')::date, vencimento = NULLIF($13, '')::date,
		    qtde_dias = $14, status = NULLIF($15, ''), observacao = NULLIF($16, ''), atributos = $17,
		    updated_at = $18
		WHERE id = $1 AND empresa_id = $2`
	tag, err := r.q.Exec(ctx, query,
		rec.ID, rec.CompanyID, rec.EmployeeID, rec.RegistrationNumber, rec.EmployeeName, rec.JobRole,
		rec.Department, rec.OperatingBase, rec.Kind, rec.CertificationName, rec.AdmissionDate,
		rec.LastEventDate, rec.DueDate, rec.OffsetDays, rec.Status, rec.Note, attrs, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	return affectedOrNotFound(tag)
}

// Delete elimina un registro de la empresa.
func (r *ExpiryRecordRepo) Delete(ctx context.Context, companyID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM registros WHERE id = $1 AND empresa_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return affectedOrNotFound(tag)
}

func scanRecord(row rowScanner) (entity.ExpiryRecord, error) {
	var rec entity.ExpiryRecord
	var attrs []byte
	err := row.Scan(
		&rec.ID, &rec.CompanyID, &rec.EmployeeID, &rec.RegistrationNumber, &rec.EmployeeName,
		&rec.JobRole, &rec.Department, &rec.OperatingBase, &rec.Kind, &rec.CertificationName,
		&rec.AdmissionDate, &rec.LastEventDate, &rec.DueDate, &rec.OffsetDays, &rec.Status,
		&rec.Note, &attrs, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return rec, err
	}
	if rec.Attributes, err = decodeAttributes(attrs); err != nil {
		return rec, err
	}
	return rec, nil
}
