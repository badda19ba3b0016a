package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/segvenc-api/internal/application/dto"
	"github.com/jhoicas/segvenc-api/internal/domain"
	"github.com/jhoicas/segvenc-api/internal/domain/entity"
	"github.com/jhoicas/segvenc-api/internal/domain/expiry"
	"github.com/jhoicas/segvenc-api/internal/domain/repository"
	"github.com/jhoicas/segvenc-api/pkg/csvio"
)

// EmployeeUseCase cadastro de colaboradores.
type EmployeeUseCase struct {
	repo    repository.EmployeeRepository
	filters repository.CustomFilterRepository
}

// NewEmployeeUseCase construye el caso de uso.
func NewEmployeeUseCase(repo repository.EmployeeRepository, filters repository.CustomFilterRepository) *EmployeeUseCase {
	return &EmployeeUseCase{repo: repo, filters: filters}
}

// List lista los colaboradores; fields filtra por campo (igualdad sin distinguir mayúsculas).
func (uc *EmployeeUseCase) List(ctx context.Context, companyID, search string, fields map[string]string) (*dto.EmployeeListResponse, error) {
	list, err := uc.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	search = strings.ToLower(strings.TrimSpace(search))
	items := make([]dto.EmployeeResponse, 0, len(list))
	for _, e := range list {
		if search != "" &&
			!strings.Contains(strings.ToLower(e.Name), search) &&
			!strings.Contains(strings.ToLower(e.RegistrationNumber), search) {
			continue
		}
		if !matchFields(e.FieldValue, fields) {
			continue
		}
		items = append(items, *entityToEmployeeResponse(e))
	}
	return &dto.EmployeeListResponse{Items: items, Total: len(items)}, nil
}

// Get obtiene un colaborador.
func (uc *EmployeeUseCase) Get(ctx context.Context, companyID, id string) (*dto.EmployeeResponse, error) {
	e, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	return entityToEmployeeResponse(e), nil
}

// Create da de alta un colaborador. La matrícula, si se informa, es única en la empresa.
func (uc *EmployeeUseCase) Create(ctx context.Context, companyID string, in dto.EmployeeRequest) (*dto.EmployeeResponse, error) {
	e := &entity.Employee{ID: uuid.New().String(), CompanyID: companyID, CreatedAt: time.Now()}
	if err := applyEmployeeRequest(e, in); err != nil {
		return nil, err
	}
	if err := uc.ensureUniqueRegistration(ctx, e); err != nil {
		return nil, err
	}
	e.UpdatedAt = e.CreatedAt
	if err := uc.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return entityToEmployeeResponse(e), nil
}

// Update reemplaza los datos de un colaborador.
func (uc *EmployeeUseCase) Update(ctx context.Context, companyID, id string, in dto.EmployeeRequest) (*dto.EmployeeResponse, error) {
	e, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	if err := applyEmployeeRequest(e, in); err != nil {
		return nil, err
	}
	if err := uc.ensureUniqueRegistration(ctx, e); err != nil {
		return nil, err
	}
	e.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return entityToEmployeeResponse(e), nil
}

// Delete elimina un colaborador.
func (uc *EmployeeUseCase) Delete(ctx context.Context, companyID, id string) error {
	return uc.repo.Delete(ctx, companyID, id)
}

func (uc *EmployeeUseCase) ensureUniqueRegistration(ctx context.Context, e *entity.Employee) error {
	if e.RegistrationNumber == "" {
		return nil
	}
	other, err := uc.repo.GetByRegistration(ctx, e.CompanyID, e.RegistrationNumber)
	if err != nil {
		return err
	}
	if other != nil && other.ID != e.ID {
		return fmt.Errorf("%w: matrícula %s", domain.ErrDuplicate, e.RegistrationNumber)
	}
	return nil
}

// Import carga colaboradores desde CSV. Filas con matrícula existente actualizan al colaborador;
// el resto se crean. Las columnas personalizadas reconocidas son los filtros de origen colaboradores.
func (uc *EmployeeUseCase) Import(ctx context.Context, companyID string, r io.Reader) (*dto.ImportResult, error) {
	attrNames, err := uc.attributeNames(ctx, companyID)
	if err != nil {
		return nil, err
	}
	rows, err := csvio.Read(r, withAttributeColumns(employeeColumns, attrNames))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	res := &dto.ImportResult{Errors: []dto.ImportError{}}
	for _, row := range rows {
		v := row.Values
		in := dto.EmployeeRequest{
			RegistrationNumber: v["matricula"],
			Name:               v["nome"],
			JobRole:            v["funcao"],
			Department:         v["setor"],
			OperatingBase:      v["base_operacional"],
			AdmissionDate:      v["data_admissao"],
			Attributes:         splitAttributes(v),
		}
		if err := uc.importRow(ctx, companyID, in); err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, dto.ImportError{Line: row.Line, Message: err.Error()})
			continue
		}
		res.Imported++
	}
	return res, nil
}

func (uc *EmployeeUseCase) importRow(ctx context.Context, companyID string, in dto.EmployeeRequest) error {
	reg := strings.TrimSpace(in.RegistrationNumber)
	if reg != "" {
		existing, err := uc.repo.GetByRegistration(ctx, companyID, reg)
		if err != nil {
			return err
		}
		if existing != nil {
			if len(existing.Attributes) > 0 {
				merged := make(map[string]string, len(existing.Attributes)+len(in.Attributes))
				for k, v := range existing.Attributes {
					merged[k] = v
				}
				for k, v := range in.Attributes {
					merged[k] = v
				}
				in.Attributes = merged
			}
			_, err = uc.Update(ctx, companyID, existing.ID, in)
			return err
		}
	}
	_, err := uc.Create(ctx, companyID, in)
	return err
}

// Export arma la planilla de colaboradores con una columna por atributo personalizado.
func (uc *EmployeeUseCase) Export(ctx context.Context, companyID string) (*Sheet, error) {
	list, err := uc.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]struct{})
	rows := make([]map[string]string, 0, len(list))
	for _, e := range list {
		for k := range e.Attributes {
			names[k] = struct{}{}
		}
		rows = append(rows, employeeRow(e))
	}
	return &Sheet{Name: "Colaboradores", Columns: withAttributeColumns(employeeColumns, names), Rows: rows}, nil
}

func (uc *EmployeeUseCase) attributeNames(ctx context.Context, companyID string) (map[string]struct{}, error) {
	filters, err := uc.filters.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return filterAttributeNames(filters, entity.FilterOriginEmployees, coreEmployeeField), nil
}

func applyEmployeeRequest(e *entity.Employee, in dto.EmployeeRequest) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	admission, err := optionalDate(in.AdmissionDate, "data de admissão")
	if err != nil {
		return err
	}
	e.RegistrationNumber = strings.TrimSpace(in.RegistrationNumber)
	e.Name = name
	e.JobRole = strings.TrimSpace(in.JobRole)
	e.Department = strings.TrimSpace(in.Department)
	e.OperatingBase = strings.TrimSpace(in.OperatingBase)
	e.AdmissionDate = admission
	e.Attributes = cleanAttributes(in.Attributes)
	return nil
}

func coreEmployeeField(name string) bool {
	var probe entity.Employee
	_, ok := probe.FieldValue(name)
	return ok
}

// optionalDate normaliza una fecha opcional a YYYY-MM-DD.
func optionalDate(s, field string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	d, ok := expiry.NormalizeDate(s)
	if !ok {
		return "", fmt.Errorf("%w: %s inválida (%s)", domain.ErrInvalidInput, field, s)
	}
	return d, nil
}

func cleanAttributes(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		if k != "" && v != "" {
			out[k] = v
		}
	}
	return out
}

func entityToEmployeeResponse(e *entity.Employee) *dto.EmployeeResponse {
	attrs := e.Attributes
	if attrs == nil {
		attrs = map[string]string{}
	}
	return &dto.EmployeeResponse{
		ID:                 e.ID,
		RegistrationNumber: e.RegistrationNumber,
		Name:               e.Name,
		JobRole:            e.JobRole,
		Department:         e.Department,
		OperatingBase:      e.OperatingBase,
		AdmissionDate:      e.AdmissionDate,
		Attributes:         attrs,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}
