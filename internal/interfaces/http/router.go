package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jhoicas/segvenc-api/internal/application/digest"
	"github.com/jhoicas/segvenc-api/internal/application/subscription"
	"github.com/jhoicas/segvenc-api/internal/application/usecase"
	"github.com/jhoicas/segvenc-api/internal/domain/entity"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SessionUC       *usecase.SessionUseCase
	CompanyUC       *usecase.CompanyUseCase
	UserUC          *usecase.UserUseCase
	EmployeeUC      *usecase.EmployeeUseCase
	CertificationUC *usecase.CertificationUseCase
	RecordUC        *usecase.RecordUseCase
	ReportUC        *usecase.ReportUseCase
	FilterUC        *usecase.CustomFilterUseCase
	ActiveUC        *subscription.ActiveUseCase
	Reconciler      *subscription.Reconciler
	Composer        *digest.Composer

	JWTSecret     string
	JWTAudience   string
	WebhookSecret string
	// SubscriptionEnforce en false deja pasar las rutas de negocio sin suscripción activa.
	SubscriptionEnforce bool
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// Webhooks (público, autenticado por secret)
	webhookHandler := NewWebhookHandler(deps.Reconciler, deps.WebhookSecret)
	api.Post("/webhooks/kiwify", webhookHandler.Kiwify)

	// Rutas protegidas (requieren Bearer Token)
	authMW := AuthMiddleware(deps.JWTSecret, deps.JWTAudience)

	// Primer login: todavía no hay usuario interno, solo identidad.
	sessionHandler := NewSessionHandler(deps.SessionUC)
	api.Post("/session/bootstrap", authMW, sessionHandler.Bootstrap)

	tenant := api.Group("/", authMW, TenantMiddleware(deps.SessionUC))
	adminOnly := RequireRole(entity.RoleAdmin)

	// Suscripción: consultable aunque no esté vigente.
	subscriptionHandler := NewSubscriptionHandler(deps.ActiveUC)
	tenant.Get("/subscription", subscriptionHandler.Get)

	// Empresa
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	digestHandler := NewDigestHandler(deps.Composer)
	tenant.Get("/company", companyHandler.Get)
	tenant.Put("/company", adminOnly, companyHandler.Update)
	tenant.Get("/company/notification-emails", companyHandler.ListNotificationEmails)
	tenant.Post("/company/notification-emails", adminOnly, companyHandler.AddNotificationEmail)
	tenant.Post("/company/notification-emails/test", adminOnly, digestHandler.SendTest)
	tenant.Delete("/company/notification-emails/:id", adminOnly, companyHandler.DeleteNotificationEmail)

	// Usuarios
	userHandler := NewUserHandler(deps.UserUC)
	tenant.Get("/users", userHandler.List)
	tenant.Post("/users", adminOnly, userHandler.Invite)
	tenant.Put("/users/:id/role", adminOnly, userHandler.UpdateRole)

	// Negocio (requiere suscripción activa)
	paid := tenant.Group("/", RequireActiveSubscription(deps.ActiveUC, deps.SubscriptionEnforce))

	employees := paid.Group("/employees")
	employeeHandler := NewEmployeeHandler(deps.EmployeeUC)
	employees.Get("/", employeeHandler.List)
	employees.Post("/", employeeHandler.Create)
	employees.Post("/import", employeeHandler.Import)
	employees.Get("/export.csv", employeeHandler.ExportCSV)
	employees.Get("/export.xls", employeeHandler.ExportXLS)
	employees.Get("/:id", employeeHandler.Get)
	employees.Put("/:id", employeeHandler.Update)
	employees.Delete("/:id", employeeHandler.Delete)

	certifications := paid.Group("/certifications")
	certificationHandler := NewCertificationHandler(deps.CertificationUC)
	certifications.Get("/", certificationHandler.List)
	certifications.Post("/", certificationHandler.Create)
	certifications.Put("/:id", certificationHandler.Update)
	certifications.Delete("/:id", certificationHandler.Delete)

	records := paid.Group("/records")
	recordHandler := NewRecordHandler(deps.RecordUC, deps.ReportUC)
	records.Get("/", recordHandler.List)
	records.Post("/", recordHandler.Create)
	records.Post("/import", recordHandler.Import)
	records.Get("/export.csv", recordHandler.ExportCSV)
	records.Get("/export.xls", recordHandler.ExportXLS)
	records.Get("/report.pdf", recordHandler.ReportPDF)
	records.Get("/:id", recordHandler.Get)
	records.Put("/:id", recordHandler.Update)
	records.Delete("/:id", recordHandler.Delete)
	paid.Get("/dashboard", recordHandler.Dashboard)

	filters := paid.Group("/custom-filters")
	filterHandler := NewFilterHandler(deps.FilterUC)
	filters.Get("/", filterHandler.List)
	filters.Post("/", filterHandler.Create)
	filters.Put("/:id", filterHandler.Update)
	filters.Delete("/:id", filterHandler.Delete)

	paid.Post("/digest/preview", adminOnly, digestHandler.Preview)
}
