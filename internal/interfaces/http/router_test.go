package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/segvenc-api/internal/application/digest"
	"github.com/jhoicas/segvenc-api/internal/application/dto"
	"github.com/jhoicas/segvenc-api/internal/application/subscription"
	"github.com/jhoicas/segvenc-api/internal/application/usecase"
	"github.com/jhoicas/segvenc-api/internal/domain/entity"
	"github.com/jhoicas/segvenc-api/internal/domain/expiry"
	apphttp "github.com/jhoicas/segvenc-api/internal/interfaces/http"
	"github.com/jhoicas/segvenc-api/internal/testutil"
	"github.com/jhoicas/segvenc-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const webhookSecret = "kiwify-test-secret"

var routerToday = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

type fakeReport struct{}

func (fakeReport) GenerateExpiryReport(_ context.Context, _ *entity.Company, _ time.Time, _ []expiry.EnrichedRecord) ([]byte, error) {
	return []byte("%PDF-fake"), nil
}

type routerOpts struct {
	webhookSecret string
	enforce       bool
	sender        *testutil.Sender
}

// buildRouter arma la API completa sobre el Store en memoria.
func buildRouter(store *testutil.Store, opts routerOpts) *fiber.App {
	clock := expiry.FixedClock(routerToday)
	sender := opts.sender
	if sender == nil {
		sender = &testutil.Sender{}
	}
	session := usecase.NewSessionUseCase(store.CompanyRepo(), store.UserRepo(), store.TxRunner(), logger.Nop())
	records := usecase.NewRecordUseCase(store.RecordRepo(), store.EmployeeRepo(), store.CertificationRepo(), store.FilterRepo(), clock)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		SessionUC:       session,
		CompanyUC:       usecase.NewCompanyUseCase(store.CompanyRepo(), store.NotificationEmailRepo()),
		UserUC:          usecase.NewUserUseCase(store.UserRepo()),
		EmployeeUC:      usecase.NewEmployeeUseCase(store.EmployeeRepo(), store.FilterRepo()),
		CertificationUC: usecase.NewCertificationUseCase(store.CertificationRepo()),
		RecordUC:        records,
		ReportUC:        usecase.NewReportUseCase(records, store.CompanyRepo(), fakeReport{}),
		FilterUC:        usecase.NewCustomFilterUseCase(store.FilterRepo()),
		ActiveUC:        subscription.NewActiveUseCase(store.SubscriptionRepo(), clock),
		Reconciler: subscription.NewReconciler(
			subscription.NewKiwifyGateway(),
			store.WebhookEventRepo(), store.SubscriptionRepo(), store.CompanyRepo(), store.UserRepo(),
			store.TxRunner(), logger.Nop(),
		),
		Composer: digest.NewComposer(
			store.RecordRepo(), store.NotificationEmailRepo(), store.CompanyRepo(),
			sender, digest.NewRenderer("https://app.segvenc.com.br", ""), clock, logger.Nop(), nil,
		),
		JWTSecret:           testJWTSecret,
		JWTAudience:         testAudience,
		WebhookSecret:       opts.webhookSecret,
		SubscriptionEnforce: opts.enforce,
	})
	return app
}

// seedTenant crea empresa c1 con un usuario vinculado del rol indicado.
func seedTenant(store *testutil.Store, authUserID, role string) {
	store.Companies["c1"] = &entity.Company{ID: "c1", Name: "Transportes Silva"}
	store.Users["u-"+authUserID] = &entity.User{
		ID: "u-" + authUserID, CompanyID: "c1", AuthUserID: authUserID,
		Email: authUserID + "@silva.com", Role: role, Active: true,
	}
}

func seedActiveSubscription(store *testutil.Store) {
	store.Subscriptions["s1"] = &entity.Subscription{
		ID: "s1", CompanyID: "c1", Plan: "Plano Mensal", Status: entity.SubscriptionActive,
		StartDate: routerToday.AddDate(0, 0, -5), EndDate: routerToday.AddDate(0, 0, 25), Gateway: "kiwify",
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

const routerPaidPayload = `{"order":{"order_id":"sale-1","order_status":"paid","subscription_id":"sub-1",
"buyer":{"email":"dono@silva.com","name":"Transportes Silva"},
"subscription":{"status":"active","start_date":"2025-03-01T10:00:00.000Z","next_payment":"2025-04-01T10:00:00.000Z","plan":{"name":"Plano Mensal"}},
"Commissions":{"charge_amount":9700}}}`

// ──────────────────────────────────────────────────────────────────────────────
// Webhook
// ──────────────────────────────────────────────────────────────────────────────

func TestWebhook_SecretVacioRechazaTodo(t *testing.T) {
	store := testutil.NewStore()
	app := buildRouter(store, routerOpts{})

	resp := doRequest(t, app, http.MethodPost, "/api/webhooks/kiwify?secret=", "", strings.NewReader(routerPaidPayload))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, store.Events, "sin autorización no se registra el evento")
}

func TestWebhook_SecretIncorrecto(t *testing.T) {
	store := testutil.NewStore()
	app := buildRouter(store, routerOpts{webhookSecret: webhookSecret})

	resp := doRequest(t, app, http.MethodPost, "/api/webhooks/kiwify?secret=otro", "", strings.NewReader(routerPaidPayload))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWebhook_PagoProvisiona(t *testing.T) {
	store := testutil.NewStore()
	app := buildRouter(store, routerOpts{webhookSecret: webhookSecret})

	resp := doRequest(t, app, http.MethodPost, "/api/webhooks/kiwify?secret="+webhookSecret, "", strings.NewReader(routerPaidPayload))
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res subscription.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, subscription.ActionCreated, res.Action)
	assert.True(t, res.Provisioned)
	assert.Len(t, store.Events, 1)
	assert.Len(t, store.Companies, 1)
}

func TestWebhook_JSONInvalido_Retorna400(t *testing.T) {
	store := testutil.NewStore()
	app := buildRouter(store, routerOpts{webhookSecret: webhookSecret})

	resp := doRequest(t, app, http.MethodPost, "/api/webhooks/kiwify?secret="+webhookSecret, "", strings.NewReader("{no-json"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_PAYLOAD", errorCode(t, resp))
}

func TestWebhook_FalloDelLog_Retorna500(t *testing.T) {
	store := testutil.NewStore()
	store.FailEventLog = testutil.ErrFake
	app := buildRouter(store, routerOpts{webhookSecret: webhookSecret})

	resp := doRequest(t, app, http.MethodPost, "/api/webhooks/kiwify?secret="+webhookSecret, "", strings.NewReader(routerPaidPayload))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Empty(t, store.Companies)
}

// ──────────────────────────────────────────────────────────────────────────────
// Sesión y tenant
// ──────────────────────────────────────────────────────────────────────────────

func TestTenant_IdentidadSinVincular_Retorna403(t *testing.T) {
	app := buildRouter(testutil.NewStore(), routerOpts{})

	resp := doRequest(t, app, http.MethodGet, "/api/company", bearer(t, testAuthUserID, testEmail), nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "TENANT_NOT_LINKED", errorCode(t, resp))
}

func TestSession_BootstrapCreaEmpresaYHabilitaTenant(t *testing.T) {
	store := testutil.NewStore()
	app := buildRouter(store, routerOpts{})
	auth := bearer(t, testAuthUserID, testEmail)

	resp := doRequest(t, app, http.MethodPost, "/api/session/bootstrap", auth, strings.NewReader(`{"name":"Ana"}`))
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var s dto.SessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&s))
	assert.Equal(t, entity.RoleAdmin, s.User.Role)

	again := doRequest(t, app, http.MethodPost, "/api/session/bootstrap", auth, nil)
	defer again.Body.Close()
	assert.Equal(t, http.StatusOK, again.StatusCode)

	company := doRequest(t, app, http.MethodGet, "/api/company", auth, nil)
	defer company.Body.Close()
	require.Equal(t, http.StatusOK, company.StatusCode)
	var c dto.CompanyResponse
	require.NoError(t, json.NewDecoder(company.Body).Decode(&c))
	assert.Equal(t, s.Company.ID, c.ID)
}

func TestUsers_CambioDeRolSoloAdmin(t *testing.T) {
	store := testutil.NewStore()
	seedTenant(store, "admin-1", entity.RoleAdmin)
	seedTenant(store, "user-1", entity.RoleUser)
	app := buildRouter(store, routerOpts{})

	resp := doRequest(t, app, http.MethodPut, "/api/users/u-admin-1/role", bearer(t, "user-1", "user-1@silva.com"), strings.NewReader(`{"role":"user"}`))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	ok := doRequest(t, app, http.MethodPut, "/api/users/u-user-1/role", bearer(t, "admin-1", "admin-1@silva.com"), strings.NewReader(`{"role":"admin"}`))
	defer ok.Body.Close()
	assert.Equal(t, http.StatusOK, ok.StatusCode)
	assert.Equal(t, entity.RoleAdmin, store.Users["u-user-1"].Role)

	self := doRequest(t, app, http.MethodPut, "/api/users/u-admin-1/role", bearer(t, "admin-1", "admin-1@silva.com"), strings.NewReader(`{"role":"user"}`))
	defer self.Body.Close()
	assert.Equal(t, http.StatusForbidden, self.StatusCode)
	assert.Equal(t, "OWN_ROLE_CHANGE", errorCode(t, self))
}

func TestUsers_InvitacionYPrimerLogin(t *testing.T) {
	store := testutil.NewStore()
	seedTenant(store, "admin-1", entity.RoleAdmin)
	seedTenant(store, "user-1", entity.RoleUser)
	app := buildRouter(store, routerOpts{})
	body := `{"email":"Nova@Silva.com","name":"Nova"}`

	denied := doRequest(t, app, http.MethodPost, "/api/users", bearer(t, "user-1", "user-1@silva.com"), strings.NewReader(body))
	defer denied.Body.Close()
	assert.Equal(t, http.StatusForbidden, denied.StatusCode)

	resp := doRequest(t, app, http.MethodPost, "/api/users", bearer(t, "admin-1", "admin-1@silva.com"), strings.NewReader(body))
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var invited dto.UserResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&invited))
	assert.Equal(t, "nova@silva.com", invited.Email)
	assert.Equal(t, entity.RoleUser, invited.Role)
	assert.False(t, invited.Linked)

	dup := doRequest(t, app, http.MethodPost, "/api/users", bearer(t, "admin-1", "admin-1@silva.com"), strings.NewReader(body))
	defer dup.Body.Close()
	assert.Equal(t, http.StatusConflict, dup.StatusCode)

	login := doRequest(t, app, http.MethodPost, "/api/session/bootstrap", bearer(t, "auth-nova", "nova@silva.com"), nil)
	defer login.Body.Close()
	require.Equal(t, http.StatusOK, login.StatusCode)
	var s dto.SessionResponse
	require.NoError(t, json.NewDecoder(login.Body).Decode(&s))
	assert.Equal(t, invited.ID, s.User.ID)
	assert.Equal(t, "c1", s.Company.ID)
	assert.Equal(t, "auth-nova", store.Users[invited.ID].AuthUserID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Correo de prueba
// ──────────────────────────────────────────────────────────────────────────────

func TestCompany_CorreoDePrueba(t *testing.T) {
	store := testutil.NewStore()
	seedTenant(store, "admin-1", entity.RoleAdmin)
	seedTenant(store, "user-1", entity.RoleUser)
	sender := &testutil.Sender{}
	app := buildRouter(store, routerOpts{sender: sender, enforce: true})
	admin := bearer(t, "admin-1", "admin-1@silva.com")

	empty := doRequest(t, app, http.MethodPost, "/api/company/notification-emails/test", admin, nil)
	defer empty.Body.Close()
	assert.Equal(t, http.StatusBadRequest, empty.StatusCode, "sin e-mails activos")

	store.NotifyEmails["n1"] = &entity.NotificationEmail{ID: "n1", CompanyID: "c1", Email: "sst@silva.com", Active: true}
	resp := doRequest(t, app, http.MethodPost, "/api/company/notification-emails/test", admin, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, "no requiere suscripción activa")
	var out dto.TestEmailResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.True(t, out.Sent)
	assert.Equal(t, []string{"sst@silva.com"}, out.Recipients)
	require.Len(t, sender.Sent, 1)
	assert.Equal(t, digest.TestSubject, sender.Sent[0].Subject)
	assert.Contains(t, sender.Sent[0].HTML, "Transportes Silva")

	explicit := doRequest(t, app, http.MethodPost, "/api/company/notification-emails/test", admin, strings.NewReader(`{"to":"outro@silva.com"}`))
	defer explicit.Body.Close()
	require.Equal(t, http.StatusOK, explicit.StatusCode)
	require.Len(t, sender.Sent, 2)
	assert.Equal(t, []string{"outro@silva.com"}, sender.Sent[1].To)

	user := doRequest(t, app, http.MethodPost, "/api/company/notification-emails/test", bearer(t, "user-1", "user-1@silva.com"), nil)
	defer user.Body.Close()
	assert.Equal(t, http.StatusForbidden, user.StatusCode)
	assert.Len(t, sender.Sent, 2)
}

// ──────────────────────────────────────────────────────────────────────────────
// Suscripción
// ──────────────────────────────────────────────────────────────────────────────

func TestSubscription_SinSuscripcionBloqueaNegocio(t *testing.T) {
	store := testutil.NewStore()
	seedTenant(store, "admin-1", entity.RoleAdmin)
	app := buildRouter(store, routerOpts{enforce: true})
	auth := bearer(t, "admin-1", "admin-1@silva.com")

	blocked := doRequest(t, app, http.MethodGet, "/api/records", auth, nil)
	defer blocked.Body.Close()
	assert.Equal(t, http.StatusPaymentRequired, blocked.StatusCode)
	assert.Equal(t, "SUBSCRIPTION_REQUIRED", errorCode(t, blocked))

	status := doRequest(t, app, http.MethodGet, "/api/subscription", auth, nil)
	defer status.Body.Close()
	require.Equal(t, http.StatusOK, status.StatusCode)
	var s dto.SubscriptionResponse
	require.NoError(t, json.NewDecoder(status.Body).Decode(&s))
	assert.False(t, s.Active)

	seedActiveSubscription(store)
	allowed := doRequest(t, app, http.MethodGet, "/api/records", auth, nil)
	defer allowed.Body.Close()
	assert.Equal(t, http.StatusOK, allowed.StatusCode)
}

func TestSubscription_SinEnforceDejaPasar(t *testing.T) {
	store := testutil.NewStore()
	seedTenant(store, "admin-1", entity.RoleAdmin)
	app := buildRouter(store, routerOpts{enforce: false})

	resp := doRequest(t, app, http.MethodGet, "/api/dashboard", bearer(t, "admin-1", "admin-1@silva.com"), nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Registros
// ──────────────────────────────────────────────────────────────────────────────

func TestRecords_CrearListarYExportar(t *testing.T) {
	store := testutil.NewStore()
	seedTenant(store, "admin-1", entity.RoleAdmin)
	seedActiveSubscription(store)
	store.Certifications["ct1"] = &entity.CertificationType{ID: "ct1", CompanyID: "c1", Kind: entity.KindExam, Name: "ASO", ValidityDays: 365}
	app := buildRouter(store, routerOpts{enforce: true})
	auth := bearer(t, "admin-1", "admin-1@silva.com")

	created := doRequest(t, app, http.MethodPost, "/api/records", auth, strings.NewReader(
		`{"registration_number":"001","employee_name":"Jane Doe","kind":"Exame","certification_name":"ASO","last_event_date":"2024-03-20"}`))
	defer created.Body.Close()
	require.Equal(t, http.StatusCreated, created.StatusCode)
	var rec dto.RecordResponse
	require.NoError(t, json.NewDecoder(created.Body).Decode(&rec))
	assert.Equal(t, "2025-03-20", rec.DueDate)
	require.NotNil(t, rec.OffsetDays)
	assert.Equal(t, 10, *rec.OffsetDays)

	list := doRequest(t, app, http.MethodGet, "/api/records?kind=Exame&search=jane", auth, nil)
	defer list.Body.Close()
	require.Equal(t, http.StatusOK, list.StatusCode)
	var out dto.RecordListResponse
	require.NoError(t, json.NewDecoder(list.Body).Decode(&out))
	assert.Equal(t, 1, out.Total)

	none := doRequest(t, app, http.MethodGet, "/api/records?kind=Curso", auth, nil)
	defer none.Body.Close()
	require.NoError(t, json.NewDecoder(none.Body).Decode(&out))
	assert.Equal(t, 0, out.Total)

	csv := doRequest(t, app, http.MethodGet, "/api/records/export.csv", auth, nil)
	defer csv.Body.Close()
	require.Equal(t, http.StatusOK, csv.StatusCode)
	assert.Contains(t, csv.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, csv.Header.Get("Content-Disposition"), ".csv")
	assert.Contains(t, readBody(t, csv), "Jane Doe")

	pdf := doRequest(t, app, http.MethodGet, "/api/records/report.pdf", auth, nil)
	defer pdf.Body.Close()
	require.Equal(t, http.StatusOK, pdf.StatusCode)
	assert.Equal(t, "application/pdf", pdf.Header.Get("Content-Type"))
}

func TestRecords_OtroTenantNoVe(t *testing.T) {
	store := testutil.NewStore()
	seedTenant(store, "admin-1", entity.RoleAdmin)
	store.Records["r-x"] = &entity.ExpiryRecord{ID: "r-x", CompanyID: "c2", EmployeeName: "Ajeno"}
	app := buildRouter(store, routerOpts{})

	resp := doRequest(t, app, http.MethodGet, "/api/records/r-x", bearer(t, "admin-1", "admin-1@silva.com"), nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEmployees_ImportarCSVEnCuerpo(t *testing.T) {
	store := testutil.NewStore()
	seedTenant(store, "admin-1", entity.RoleAdmin)
	app := buildRouter(store, routerOpts{})

	csvBody := "Matrícula;Colaborador;Função\n001;Jane Doe;Eletricista\n"
	req := strings.NewReader(csvBody)
	resp := doRequest(t, app, http.MethodPost, "/api/employees/import", bearer(t, "admin-1", "admin-1@silva.com"), req)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res dto.ImportResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, 1, res.Imported)
	assert.Len(t, store.Employees, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Resumen diario y métricas
// ──────────────────────────────────────────────────────────────────────────────

func TestDigestPreview_SinItemsRetorna404(t *testing.T) {
	store := testutil.NewStore()
	seedTenant(store, "admin-1", entity.RoleAdmin)
	app := buildRouter(store, routerOpts{})

	resp := doRequest(t, app, http.MethodPost, "/api/digest/preview", bearer(t, "admin-1", "admin-1@silva.com"), nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDigestPreview_DevuelveHTML(t *testing.T) {
	store := testutil.NewStore()
	seedTenant(store, "admin-1", entity.RoleAdmin)
	store.Records["r1"] = &entity.ExpiryRecord{
		ID: "r1", CompanyID: "c1", EmployeeName: "Jane Doe", Kind: entity.KindExam,
		CertificationName: "ASO", DueDate: "2025-03-08",
	}
	app := buildRouter(store, routerOpts{})

	resp := doRequest(t, app, http.MethodPost, "/api/digest/preview", bearer(t, "admin-1", "admin-1@silva.com"), nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Equal(t, "1", resp.Header.Get("X-Digest-Items"))
	assert.Contains(t, readBody(t, resp), "Jane Doe")
}

func TestMetrics_Expuesto(t *testing.T) {
	app := buildRouter(testutil.NewStore(), routerOpts{})

	resp := doRequest(t, app, http.MethodGet, "/metrics", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
