package usecase_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/segvenc-api/internal/application/dto"
	"github.com/jhoicas/segvenc-api/internal/application/usecase"
	"github.com/jhoicas/segvenc-api/internal/domain"
	"github.com/jhoicas/segvenc-api/internal/domain/entity"
	"github.com/jhoicas/segvenc-api/internal/domain/expiry"
	"github.com/jhoicas/segvenc-api/internal/testutil"
	"github.com/jhoicas/segvenc-api/pkg/csvio"
)

const companyID = "c1"

var today = time.Date(2025, 1, 3, 9, 0, 0, 0, time.FixedZone("BRT", -3*60*60))

func newRecordUseCase(store *testutil.Store) *usecase.RecordUseCase {
	return usecase.NewRecordUseCase(
		store.RecordRepo(),
		store.EmployeeRepo(),
		store.CertificationRepo(),
		store.FilterRepo(),
		expiry.FixedClock(today),
	)
}

func seedCatalog(store *testutil.Store) {
	store.Certifications["ct1"] = &entity.CertificationType{ID: "ct1", CompanyID: companyID, Kind: entity.KindExam, Name: "ASO", ValidityDays: 366}
	store.Certifications["ct2"] = &entity.CertificationType{ID: "ct2", CompanyID: companyID, Kind: entity.KindCourse, Name: "NR-35", ValidityDays: 730}
	store.Employees["e1"] = &entity.Employee{
		ID: "e1", CompanyID: companyID, RegistrationNumber: "001", Name: "Jane Doe",
		JobRole: "Eletricista", Department: "Manutenção", OperatingBase: "Santos", AdmissionDate: "2020-02-01",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create / Update
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordCreate_AutocompletaYCalculaVencimiento(t *testing.T) {
	store := testutil.NewStore()
	seedCatalog(store)
	uc := newRecordUseCase(store)

	resp, err := uc.Create(context.Background(), companyID, dto.RecordRequest{
		RegistrationNumber: "001",
		Kind:               entity.KindExam,
		CertificationName:  "ASO",
		LastEventDate:      "10/01/2024",
	})
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", resp.EmployeeName)
	assert.Equal(t, "e1", resp.EmployeeID)
	assert.Equal(t, "Santos", resp.OperatingBase)
	assert.Equal(t, "2024-01-10", resp.LastEventDate)
	assert.Equal(t, "2025-01-10", resp.DueDate)
	require.NotNil(t, resp.OffsetDays)
	assert.Equal(t, 7, *resp.OffsetDays)
	assert.Equal(t, string(expiry.TierHighRisk), resp.Tier)

	stored := store.Records[resp.ID]
	require.NotNil(t, stored.OffsetDays)
	assert.Equal(t, 7, *stored.OffsetDays)
	assert.Equal(t, string(expiry.TierHighRisk), stored.Status)
}

func TestRecordCreate_SinCoincidenciaNoTocaVencimiento(t *testing.T) {
	store := testutil.NewStore()
	seedCatalog(store)
	uc := newRecordUseCase(store)

	resp, err := uc.Create(context.Background(), companyID, dto.RecordRequest{
		EmployeeName:      "Avulso",
		CertificationName: "aso", // distinto por mayúsculas: sin coincidencia
		LastEventDate:     "2024-01-10",
		DueDate:           "2024-12-31",
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-12-31", resp.DueDate)
	assert.Equal(t, entity.KindExam, resp.Kind, "tipo por defecto")
	assert.Equal(t, string(expiry.TierOverdue), resp.Tier)
}

func TestRecordCreate_FechaInvalida(t *testing.T) {
	store := testutil.NewStore()
	uc := newRecordUseCase(store)

	_, err := uc.Create(context.Background(), companyID, dto.RecordRequest{DueDate: "31/31/2024"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(context.Background(), companyID, dto.RecordRequest{Kind: "Treinamento"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, store.Records)
}

func TestRecordUpdate_RecalculaSoloSiCambianDisparadores(t *testing.T) {
	store := testutil.NewStore()
	seedCatalog(store)
	uc := newRecordUseCase(store)
	ctx := context.Background()

	created, err := uc.Create(ctx, companyID, dto.RecordRequest{
		RegistrationNumber: "001", Kind: entity.KindExam, CertificationName: "ASO", LastEventDate: "2024-01-10",
	})
	require.NoError(t, err)

	// solo cambia la observación y el vencimiento manual: se respeta
	upd, err := uc.Update(ctx, companyID, created.ID, dto.RecordRequest{
		RegistrationNumber: "001", EmployeeName: "Jane Doe", Kind: entity.KindExam, CertificationName: "ASO",
		LastEventDate: "2024-01-10", DueDate: "2025-02-01", Note: "Agendado",
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-02-01", upd.DueDate)
	assert.Equal(t, "Agendado", upd.Note)

	// cambia el curso: se recalcula con la validez del nuevo tipo
	upd, err = uc.Update(ctx, companyID, created.ID, dto.RecordRequest{
		RegistrationNumber: "001", EmployeeName: "Jane Doe", Kind: entity.KindCourse, CertificationName: "NR-35",
		LastEventDate: "2024-01-10", DueDate: "2025-02-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-01-09", upd.DueDate)
	assert.Equal(t, string(expiry.TierOK), upd.Tier)
}

func TestRecordUpdate_MatriculaSinColaboradorDesvincula(t *testing.T) {
	store := testutil.NewStore()
	seedCatalog(store)
	uc := newRecordUseCase(store)
	ctx := context.Background()

	created, err := uc.Create(ctx, companyID, dto.RecordRequest{
		RegistrationNumber: "001", Kind: entity.KindExam, CertificationName: "ASO", LastEventDate: "2024-01-10",
	})
	require.NoError(t, err)
	require.Equal(t, "e1", created.EmployeeID)

	upd, err := uc.Update(ctx, companyID, created.ID, dto.RecordRequest{
		RegistrationNumber: "999", EmployeeName: "Jane Doe", Kind: entity.KindExam, CertificationName: "ASO",
		LastEventDate: "2024-01-10",
	})
	require.NoError(t, err)

	assert.Empty(t, upd.EmployeeID)
	assert.Empty(t, store.Records[created.ID].EmployeeID)
	assert.Equal(t, "999", upd.RegistrationNumber)
}

func TestRecordUpdate_OtraEmpresaEsNotFound(t *testing.T) {
	store := testutil.NewStore()
	store.Records["r1"] = &entity.ExpiryRecord{ID: "r1", CompanyID: "otra"}
	uc := newRecordUseCase(store)

	_, err := uc.Update(context.Background(), companyID, "r1", dto.RecordRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.Get(context.Background(), companyID, "r1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// List / Dashboard
// ──────────────────────────────────────────────────────────────────────────────

func seedRecords(store *testutil.Store) {
	add := func(id, name, due string, attrs map[string]string) {
		store.Records[id] = &entity.ExpiryRecord{
			ID: id, CompanyID: companyID, EmployeeName: name, Kind: entity.KindExam,
			CertificationName: "ASO", DueDate: due, Attributes: attrs,
		}
	}
	add("r1", "Ana", "2024-12-30", map[string]string{"Turno": "Noite"})   // -4
	add("r2", "Bruno", "2025-01-03", map[string]string{"Turno": "Dia"})   // 0
	add("r3", "Carla", "2025-01-13", nil)                                 // 10
	add("r4", "Davi", "2025-03-01", map[string]string{"Turno": "noite "}) // 57
	add("r5", "Eva", "", nil)
	store.Records["x"] = &entity.ExpiryRecord{ID: "x", CompanyID: "otra", DueDate: "2024-01-01"}
}

func TestRecordList_OrdenaYFiltra(t *testing.T) {
	store := testutil.NewStore()
	seedRecords(store)
	uc := newRecordUseCase(store)
	ctx := context.Background()

	all, err := uc.List(ctx, companyID, dto.RecordQuery{})
	require.NoError(t, err)
	require.Equal(t, 5, all.Total)
	names := make([]string, 0, 5)
	for _, r := range all.Items {
		names = append(names, r.EmployeeName)
	}
	assert.Equal(t, []string{"Ana", "Bruno", "Carla", "Davi", "Eva"}, names)
	assert.Nil(t, all.Items[4].OffsetDays)

	night, err := uc.List(ctx, companyID, dto.RecordQuery{Fields: map[string]string{"turno": "NOITE"}})
	require.NoError(t, err)
	assert.Equal(t, 2, night.Total, "filtro personalizado sin distinguir mayúsculas")

	overdue, err := uc.List(ctx, companyID, dto.RecordQuery{Tier: string(expiry.TierOverdue)})
	require.NoError(t, err)
	require.Equal(t, 1, overdue.Total)
	assert.Equal(t, "Ana", overdue.Items[0].EmployeeName)
}

func TestDashboard_Conteos(t *testing.T) {
	store := testutil.NewStore()
	seedRecords(store)
	uc := newRecordUseCase(store)

	d, err := uc.Dashboard(context.Background(), companyID, nil)
	require.NoError(t, err)

	assert.Equal(t, "2025-01-03", d.Today)
	assert.Equal(t, 5, d.Total)
	assert.Equal(t, 1, d.WithoutDate)
	require.Len(t, d.Tiers, 6)
	byTier := map[string]int{}
	sum := 0
	for _, tc := range d.Tiers {
		byTier[tc.Tier] = tc.Count
		sum += tc.Count
	}
	assert.Equal(t, 4, sum, "cada registro con vencimiento cae en exactamente un nivel")
	assert.Equal(t, 1, byTier["overdue"])
	assert.Equal(t, 1, byTier["due_today"])
	assert.Equal(t, 1, byTier["medium_risk"])
	assert.Equal(t, 1, byTier["ok"])
	assert.Equal(t, 1, d.LegacyCounts["Vencido"])
	assert.Equal(t, 2, d.LegacyCounts["Vence em 30 dias"])
	assert.Equal(t, 1, d.LegacyCounts["Ok"])
	assert.Len(t, d.Upcoming, 4)
}

// ──────────────────────────────────────────────────────────────────────────────
// Import / Export
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordImport(t *testing.T) {
	store := testutil.NewStore()
	seedCatalog(store)
	store.Filters["f1"] = &entity.CustomFilter{ID: "f1", CompanyID: companyID, FieldName: "Turno", Origin: entity.FilterOriginRecords}
	uc := newRecordUseCase(store)

	csv := "Matrícula;Curso/Exame;Tipo;Data Último Evento;Vencimento;Turno;Ignorada\r\n" +
		"001;ASO;Exame;2024-01-10;;Noite;x\r\n" +
		";NR-10;Curso;;05/01/2025;;\r\n" +
		";;;;;;\r\n" +
		";ASO;Treinamento;;;;\r\n"

	res, err := uc.Import(context.Background(), companyID, strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 5, res.Errors[0].Line)

	list, err := uc.List(context.Background(), companyID, dto.RecordQuery{})
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	first := list.Items[0]
	assert.Equal(t, "NR-10", first.CertificationName)
	assert.Equal(t, "2025-01-05", first.DueDate)
	require.NotNil(t, first.OffsetDays)
	assert.Equal(t, 2, *first.OffsetDays)
	second := list.Items[1]
	assert.Equal(t, "Jane Doe", second.EmployeeName)
	assert.Equal(t, "2025-01-10", second.DueDate)
	assert.Equal(t, "Noite", second.Attributes["Turno"])
}

func TestRecordExport(t *testing.T) {
	store := testutil.NewStore()
	seedRecords(store)
	uc := newRecordUseCase(store)

	sheet, err := uc.Export(context.Background(), companyID, dto.RecordQuery{})
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 5)

	var buf bytes.Buffer
	require.NoError(t, csvio.Write(&buf, sheet.Columns, sheet.Rows))
	out := buf.String()
	header := out[:strings.Index(out, "\r\n")]
	assert.True(t, strings.HasPrefix(header, `"Matrícula";"Colaborador"`))
	assert.True(t, strings.HasSuffix(header, `"Observação";"Turno"`))
	assert.Contains(t, out, `"Ana";"";"";"";"ASO";"Exame";"";"";"2024-12-30";"-4";"Vencido";"Vencido";"";"Noite"`)
}
