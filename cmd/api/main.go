package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/segvenc-api/internal/application/digest"
	"github.com/jhoicas/segvenc-api/internal/application/subscription"
	"github.com/jhoicas/segvenc-api/internal/application/usecase"
	"github.com/jhoicas/segvenc-api/internal/domain/expiry"
	infraemail "github.com/jhoicas/segvenc-api/internal/infrastructure/email"
	inframetrics "github.com/jhoicas/segvenc-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/segvenc-api/internal/infrastructure/pdf"
	"github.com/jhoicas/segvenc-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/segvenc-api/internal/interfaces/http"
	"github.com/jhoicas/segvenc-api/pkg/config"
	"github.com/jhoicas/segvenc-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.App.Timezone).Msg("zona horaria inválida")
	}
	clock := expiry.NewClock(loc)

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	notifyRepo := postgres.NewNotificationEmailRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	employeeRepo := postgres.NewEmployeeRepository(pool)
	catalogRepo := postgres.NewCertificationRepository(pool)
	recordRepo := postgres.NewExpiryRecordRepository(pool)
	filterRepo := postgres.NewCustomFilterRepository(pool)
	subscriptionRepo := postgres.NewSubscriptionRepository(pool)
	webhookRepo := postgres.NewWebhookEventRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	metrics := inframetrics.New(prometheus.DefaultRegisterer, cfg.Metrics.Prefix)

	sender, err := infraemail.NewSender(cfg.Email, log.Component("email"))
	if err != nil {
		log.Fatal().Err(err).Msg("proveedor de e-mail")
	}

	sessionUC := usecase.NewSessionUseCase(companyRepo, userRepo, txRunner, log.Component("session"))
	companyUC := usecase.NewCompanyUseCase(companyRepo, notifyRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	employeeUC := usecase.NewEmployeeUseCase(employeeRepo, filterRepo)
	certificationUC := usecase.NewCertificationUseCase(catalogRepo)
	recordUC := usecase.NewRecordUseCase(recordRepo, employeeRepo, catalogRepo, filterRepo, clock)
	reportUC := usecase.NewReportUseCase(recordUC, companyRepo, infrapdf.NewMarotoReportGenerator())
	filterUC := usecase.NewCustomFilterUseCase(filterRepo)
	activeUC := subscription.NewActiveUseCase(subscriptionRepo, clock)

	reconciler := subscription.NewReconciler(
		subscription.NewKiwifyGateway(),
		webhookRepo, subscriptionRepo, companyRepo, userRepo, txRunner,
		log.Component("webhook"),
		subscription.WithRecorder(metrics),
	)
	composer := digest.NewComposer(
		recordRepo, notifyRepo, companyRepo, sender,
		digest.NewRenderer(cfg.App.URL, cfg.App.LogoURL),
		clock, log.Component("digest"), metrics,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    cfg.HTTP.BodyLimitMB * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestID())
	app.Use(httpRouter.RequestLogger(log.Component("http"), metrics))
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.HTTP.AllowedOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, " + httpRouter.RequestIDHeader,
		ExposeHeaders: "Content-Disposition, " + httpRouter.RequestIDHeader,
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "SegVenc API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		SessionUC:           sessionUC,
		CompanyUC:           companyUC,
		UserUC:              userUC,
		EmployeeUC:          employeeUC,
		CertificationUC:     certificationUC,
		RecordUC:            recordUC,
		ReportUC:            reportUC,
		FilterUC:            filterUC,
		ActiveUC:            activeUC,
		Reconciler:          reconciler,
		Composer:            composer,
		JWTSecret:           cfg.JWT.Secret,
		JWTAudience:         cfg.JWT.Audience,
		WebhookSecret:       cfg.Webhook.KiwifySecret,
		SubscriptionEnforce: cfg.Subscription.Enforce,
	})

	if cfg.Webhook.KiwifySecret == "" {
		log.Warn().Msg("KIWIFY_WEBHOOK_SECRET vacío: el webhook rechazará todas las peticiones")
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
