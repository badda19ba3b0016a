package usecase

import (
	"context"
	"fmt"
	"io"
	"sort"
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

// RecordUseCase registros de vencimiento: CRUD, recálculo del vencimiento, panel e
// importación/exportación.
type RecordUseCase struct {
	repo      repository.ExpiryRecordRepository
	employees repository.EmployeeRepository
	catalog   repository.CertificationRepository
	filters   repository.CustomFilterRepository
	clock     expiry.Clock
}

// NewRecordUseCase construye el caso de uso. clock define "hoy" en la zona de la aplicación.
func NewRecordUseCase(
	repo repository.ExpiryRecordRepository,
	employees repository.EmployeeRepository,
	catalog repository.CertificationRepository,
	filters repository.CustomFilterRepository,
	clock expiry.Clock,
) *RecordUseCase {
	return &RecordUseCase{repo: repo, employees: employees, catalog: catalog, filters: filters, clock: clock}
}

// List devuelve los registros enriquecidos para hoy, filtrados y ordenados por días restantes
// (los sin vencimiento al final).
func (uc *RecordUseCase) List(ctx context.Context, companyID string, q dto.RecordQuery) (*dto.RecordListResponse, error) {
	enriched, err := uc.listEnriched(ctx, companyID, q)
	if err != nil {
		return nil, err
	}
	items := make([]dto.RecordResponse, 0, len(enriched))
	for _, r := range enriched {
		items = append(items, enrichedToRecordResponse(r))
	}
	return &dto.RecordListResponse{Items: items, Total: len(items)}, nil
}

func (uc *RecordUseCase) listEnriched(ctx context.Context, companyID string, q dto.RecordQuery) ([]expiry.EnrichedRecord, error) {
	list, err := uc.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	today := uc.clock()
	search := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]expiry.EnrichedRecord, 0, len(list))
	for _, rec := range list {
		e := expiry.Enrich(rec, today)
		if q.Kind != "" && e.Kind != q.Kind {
			continue
		}
		if q.Tier != "" && (e.DueDate == "" || string(e.Tier) != q.Tier) {
			continue
		}
		if search != "" && !containsAny(search, e.EmployeeName, e.RegistrationNumber, e.CertificationName) {
			continue
		}
		if !matchFields(e.ExpiryRecord.FieldValue, q.Fields) {
			continue
		}
		out = append(out, e)
	}
	sortByUrgency(out)
	return out, nil
}

// Get obtiene un registro enriquecido.
func (uc *RecordUseCase) Get(ctx context.Context, companyID, id string) (*dto.RecordResponse, error) {
	rec, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	resp := enrichedToRecordResponse(expiry.Enrich(*rec, uc.clock()))
	return &resp, nil
}

// Create da de alta un registro. Con matrícula conocida completa los datos del colaborador;
// con último evento y tipo/nombre en el catálogo calcula el vencimiento.
func (uc *RecordUseCase) Create(ctx context.Context, companyID string, in dto.RecordRequest) (*dto.RecordResponse, error) {
	now := time.Now()
	rec := entity.ExpiryRecord{ID: uuid.New().String(), CompanyID: companyID, CreatedAt: now, UpdatedAt: now}
	if err := applyRecordRequest(&rec, in); err != nil {
		return nil, err
	}
	rec, err := uc.derive(ctx, entity.ExpiryRecord{}, rec)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, &rec); err != nil {
		return nil, err
	}
	resp := enrichedToRecordResponse(expiry.Enrich(rec, uc.clock()))
	return &resp, nil
}

// Update reemplaza los campos editables. El vencimiento se recalcula solo si cambió la
// fecha del último evento, el tipo o el nombre del examen/curso.
func (uc *RecordUseCase) Update(ctx context.Context, companyID, id string, in dto.RecordRequest) (*dto.RecordResponse, error) {
	before, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if before == nil {
		return nil, domain.ErrNotFound
	}
	after := *before
	if err := applyRecordRequest(&after, in); err != nil {
		return nil, err
	}
	after, err = uc.derive(ctx, *before, after)
	if err != nil {
		return nil, err
	}
	after.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, &after); err != nil {
		return nil, err
	}
	resp := enrichedToRecordResponse(expiry.Enrich(after, uc.clock()))
	return &resp, nil
}

// Delete elimina un registro.
func (uc *RecordUseCase) Delete(ctx context.Context, companyID, id string) error {
	return uc.repo.Delete(ctx, companyID, id)
}

// derive aplica autocompletado por matrícula, recálculo del vencimiento y caché.
func (uc *RecordUseCase) derive(ctx context.Context, before, after entity.ExpiryRecord) (entity.ExpiryRecord, error) {
	today := uc.clock()
	if after.RegistrationNumber != before.RegistrationNumber {
		// Sin colaborador para la nueva matrícula el vínculo anterior deja de valer.
		after.EmployeeID = ""
		if after.RegistrationNumber != "" {
			emp, err := uc.employees.GetByRegistration(ctx, after.CompanyID, after.RegistrationNumber)
			if err != nil {
				return after, err
			}
			if emp != nil {
				after = expiry.ApplyEmployee(after, *emp)
			}
		}
	}
	if expiry.DueDateTriggersChanged(before, after) {
		catalog, err := uc.catalog.ListByCompany(ctx, after.CompanyID)
		if err != nil {
			return after, err
		}
		after = expiry.RecomputeDueDate(after, catalog, today)
	}
	return expiry.RefreshCache(after, today), nil
}

// Dashboard cuenta los registros por nivel (seis niveles y esquema legado) y lista los que
// tienen vencimiento, ordenados por días restantes.
func (uc *RecordUseCase) Dashboard(ctx context.Context, companyID string, fields map[string]string) (*dto.DashboardResponse, error) {
	enriched, err := uc.listEnriched(ctx, companyID, dto.RecordQuery{Fields: fields})
	if err != nil {
		return nil, err
	}
	counts := make(map[expiry.Tier]int, len(expiry.Tiers))
	resp := &dto.DashboardResponse{
		Today: expiry.Today(uc.clock()),
		LegacyCounts: map[string]int{
			string(expiry.LegacyOverdue):  0,
			string(expiry.LegacyWithin30): 0,
			string(expiry.LegacyOK):       0,
		},
		Upcoming: []dto.RecordResponse{},
	}
	for _, r := range enriched {
		resp.Total++
		if r.DueDate == "" {
			resp.WithoutDate++
			continue
		}
		counts[r.Tier]++
		resp.LegacyCounts[string(r.LegacyStatus)]++
		resp.Upcoming = append(resp.Upcoming, enrichedToRecordResponse(r))
	}
	for _, t := range expiry.Tiers {
		resp.Tiers = append(resp.Tiers, dto.TierCount{Tier: string(t), Label: t.Label(), Count: counts[t]})
	}
	return resp, nil
}

// Import crea registros desde CSV. Filas con vencimiento reciben días restantes y nivel;
// filas sin vencimiento pero con último evento y examen del catálogo lo calculan.
func (uc *RecordUseCase) Import(ctx context.Context, companyID string, r io.Reader) (*dto.ImportResult, error) {
	filters, err := uc.filters.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	attrNames := filterAttributeNames(filters, entity.FilterOriginRecords, coreRecordField)
	rows, err := csvio.Read(r, withAttributeColumns(recordColumns, attrNames))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	res := &dto.ImportResult{Errors: []dto.ImportError{}}
	for _, row := range rows {
		v := row.Values
		in := dto.RecordRequest{
			RegistrationNumber: v["matricula"],
			EmployeeName:       v["colaborador_nome"],
			JobRole:            v["funcao"],
			Department:         v["setor"],
			OperatingBase:      v["base_operacional"],
			Kind:               v["tipo"],
			CertificationName:  v["curso_exame"],
			AdmissionDate:      v["data_admissao"],
			LastEventDate:      v["data_ultimo_evento"],
			DueDate:            v["vencimento"],
			Note:               v["observacao"],
			Attributes:         splitAttributes(v),
		}
		if in.DueDate != "" {
			// vencimiento informado en la planilla: no se recalcula
			if _, err := uc.createImported(ctx, companyID, in); err != nil {
				res.Skipped++
				res.Errors = append(res.Errors, dto.ImportError{Line: row.Line, Message: err.Error()})
				continue
			}
		} else if _, err := uc.Create(ctx, companyID, in); err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, dto.ImportError{Line: row.Line, Message: err.Error()})
			continue
		}
		res.Imported++
	}
	return res, nil
}

func (uc *RecordUseCase) createImported(ctx context.Context, companyID string, in dto.RecordRequest) (*entity.ExpiryRecord, error) {
	now := time.Now()
	rec := entity.ExpiryRecord{ID: uuid.New().String(), CompanyID: companyID, CreatedAt: now, UpdatedAt: now}
	if err := applyRecordRequest(&rec, in); err != nil {
		return nil, err
	}
	if rec.RegistrationNumber != "" && rec.EmployeeName == "" {
		emp, err := uc.employees.GetByRegistration(ctx, companyID, rec.RegistrationNumber)
		if err != nil {
			return nil, err
		}
		if emp != nil {
			rec = expiry.ApplyEmployee(rec, *emp)
		}
	}
	rec = expiry.RefreshCache(rec, uc.clock())
	if err := uc.repo.Create(ctx, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Export arma la planilla de registros filtrada igual que List.
func (uc *RecordUseCase) Export(ctx context.Context, companyID string, q dto.RecordQuery) (*Sheet, error) {
	enriched, err := uc.listEnriched(ctx, companyID, q)
	if err != nil {
		return nil, err
	}
	names := make(map[string]struct{})
	rows := make([]map[string]string, 0, len(enriched))
	for _, r := range enriched {
		for k := range r.Attributes {
			names[k] = struct{}{}
		}
		rows = append(rows, recordRow(r))
	}
	return &Sheet{Name: "Registros", Columns: withAttributeColumns(recordColumns, names), Rows: rows}, nil
}

// Report devuelve los registros con vencimiento, enriquecidos y ordenados, para el informe PDF.
func (uc *RecordUseCase) Report(ctx context.Context, companyID string, q dto.RecordQuery) ([]expiry.EnrichedRecord, error) {
	enriched, err := uc.listEnriched(ctx, companyID, q)
	if err != nil {
		return nil, err
	}
	out := enriched[:0]
	for _, r := range enriched {
		if r.DueDate != "" {
			out = append(out, r)
		}
	}
	return out, nil
}

// Today fecha de hoy según el reloj de la aplicación.
func (uc *RecordUseCase) Today() time.Time { return uc.clock() }

func applyRecordRequest(rec *entity.ExpiryRecord, in dto.RecordRequest) error {
	kind := strings.TrimSpace(in.Kind)
	if kind == "" {
		kind = entity.KindExam
	}
	if !entity.ValidKind(kind) {
		return fmt.Errorf("%w: tipo %q (Exame, Curso)", domain.ErrInvalidInput, kind)
	}
	admission, err := optionalDate(in.AdmissionDate, "data de admissão")
	if err != nil {
		return err
	}
	lastEvent, err := optionalDate(in.LastEventDate, "data do último evento")
	if err != nil {
		return err
	}
	due, err := optionalDate(in.DueDate, "vencimento")
	if err != nil {
		return err
	}
	rec.RegistrationNumber = strings.TrimSpace(in.RegistrationNumber)
	rec.EmployeeName = strings.TrimSpace(in.EmployeeName)
	rec.JobRole = strings.TrimSpace(in.JobRole)
	rec.Department = strings.TrimSpace(in.Department)
	rec.OperatingBase = strings.TrimSpace(in.OperatingBase)
	rec.Kind = kind
	rec.CertificationName = strings.TrimSpace(in.CertificationName)
	rec.AdmissionDate = admission
	rec.LastEventDate = lastEvent
	rec.DueDate = due
	rec.Note = strings.TrimSpace(in.Note)
	rec.Attributes = cleanAttributes(in.Attributes)
	return nil
}

func coreRecordField(name string) bool {
	var probe entity.ExpiryRecord
	_, ok := probe.FieldValue(name)
	return ok
}

func containsAny(needle string, haystack ...string) bool {
	for _, h := range haystack {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

func sortByUrgency(list []expiry.EnrichedRecord) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if (a.DueDate == "") != (b.DueDate == "") {
			return b.DueDate == ""
		}
		if a.Offset != b.Offset {
			return a.Offset < b.Offset
		}
		return a.EmployeeName < b.EmployeeName
	})
}

func enrichedToRecordResponse(r expiry.EnrichedRecord) dto.RecordResponse {
	resp := dto.RecordResponse{
		ID:                 r.ID,
		EmployeeID:         r.EmployeeID,
		RegistrationNumber: r.RegistrationNumber,
		EmployeeName:       r.EmployeeName,
		JobRole:            r.JobRole,
		Department:         r.Department,
		OperatingBase:      r.OperatingBase,
		Kind:               r.Kind,
		CertificationName:  r.CertificationName,
		AdmissionDate:      r.AdmissionDate,
		LastEventDate:      r.LastEventDate,
		DueDate:            r.DueDate,
		Note:               r.Note,
		Attributes:         r.Attributes,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
	if resp.Attributes == nil {
		resp.Attributes = map[string]string{}
	}
	if r.DueDate != "" {
		offset := r.Offset
		resp.OffsetDays = &offset
		resp.Tier = string(r.Tier)
		resp.TierLabel = r.Tier.Label()
		resp.LegacyStatus = string(r.LegacyStatus)
	}
	return resp
}
