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

// CustomFilterUseCase filtros personalizados del tenant.
type CustomFilterUseCase struct {
	repo repository.CustomFilterRepository
}

// NewCustomFilterUseCase construye el caso de uso.
func NewCustomFilterUseCase(repo repository.CustomFilterRepository) *CustomFilterUseCase {
	return &CustomFilterUseCase{repo: repo}
}

// List lista los filtros de la empresa.
func (uc *CustomFilterUseCase) List(ctx context.Context, companyID string) ([]dto.CustomFilterResponse, error) {
	list, err := uc.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomFilterResponse, 0, len(list))
	for i := range list {
		out = append(out, entityToFilterResponse(&list[i]))
	}
	return out, nil
}

// Create da de alta un filtro.
func (uc *CustomFilterUseCase) Create(ctx context.Context, companyID string, in dto.CustomFilterRequest) (*dto.CustomFilterResponse, error) {
	f := &entity.CustomFilter{ID: uuid.New().String(), CompanyID: companyID, CreatedAt: time.Now()}
	if err := applyFilterRequest(f, in); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, f); err != nil {
		return nil, err
	}
	resp := entityToFilterResponse(f)
	return &resp, nil
}

// Update modifica un filtro existente.
func (uc *CustomFilterUseCase) Update(ctx context.Context, companyID, id string, in dto.CustomFilterRequest) (*dto.CustomFilterResponse, error) {
	f := &entity.CustomFilter{ID: id, CompanyID: companyID}
	if err := applyFilterRequest(f, in); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, f); err != nil {
		return nil, err
	}
	resp := entityToFilterResponse(f)
	return &resp, nil
}

// Delete elimina un filtro.
func (uc *CustomFilterUseCase) Delete(ctx context.Context, companyID, id string) error {
	return uc.repo.Delete(ctx, companyID, id)
}

func applyFilterRequest(f *entity.CustomFilter, in dto.CustomFilterRequest) error {
	name := strings.TrimSpace(in.FieldName)
	if name == "" {
		return fmt.Errorf("%w: nombre de campo requerido", domain.ErrInvalidInput)
	}
	if !entity.ValidFilterOrigin(in.Origin) {
		return fmt.Errorf("%w: origen %q", domain.ErrInvalidInput, in.Origin)
	}
	f.FieldName = name
	f.Origin = in.Origin
	f.UseDashboard = in.UseDashboard
	f.UseRecords = in.UseRecords
	return nil
}

// matchFields informa si todos los filtros con valor coinciden (igualdad sin distinguir
// mayúsculas ni espacios en los extremos). Un campo inexistente no coincide.
func matchFields(get func(string) (string, bool), fields map[string]string) bool {
	for name, want := range fields {
		want = strings.TrimSpace(want)
		if want == "" {
			continue
		}
		got, ok := get(name)
		if !ok || !strings.EqualFold(strings.TrimSpace(got), want) {
			return false
		}
	}
	return true
}

// filterAttributeNames nombres de atributos personalizados declarados en filtros del origen
// indicado, excluyendo los campos fijos.
func filterAttributeNames(filters []entity.CustomFilter, origin string, isCore func(string) bool) map[string]struct{} {
	names := make(map[string]struct{})
	for _, f := range filters {
		if f.Origin == origin && !isCore(f.FieldName) {
			names[f.FieldName] = struct{}{}
		}
	}
	return names
}

func entityToFilterResponse(f *entity.CustomFilter) dto.CustomFilterResponse {
	return dto.CustomFilterResponse{
		ID:           f.ID,
		FieldName:    f.FieldName,
		Origin:       f.Origin,
		UseDashboard: f.UseDashboard,
		UseRecords:   f.UseRecords,
		CreatedAt:    f.CreatedAt,
	}
}
