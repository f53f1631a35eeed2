package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"

	appanalytics "github.com/jhoicas/SalesERP-api/internal/application/analytics"
	"github.com/jhoicas/SalesERP-api/internal/application/audit"
	"github.com/jhoicas/SalesERP-api/internal/application/auth"
	"github.com/jhoicas/SalesERP-api/internal/application/billing"
	"github.com/jhoicas/SalesERP-api/internal/application/sales"
	"github.com/jhoicas/SalesERP-api/internal/application/usecase"
	"github.com/jhoicas/SalesERP-api/internal/infrastructure/cache"
	"github.com/jhoicas/SalesERP-api/internal/infrastructure/mail"
	infrapdf "github.com/jhoicas/SalesERP-api/internal/infrastructure/pdf"
	"github.com/jhoicas/SalesERP-api/internal/infrastructure/postgres"
	"github.com/jhoicas/SalesERP-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/SalesERP-api/internal/interfaces/http"
	"github.com/jhoicas/SalesERP-api/pkg/config"
	"github.com/jhoicas/SalesERP-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "api",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("base_domain", cfg.App.BaseDomain).
		Msg("iniciando aplicación")
	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	store := postgres.NewStore(pool)
	txRunner := postgres.NewTxRunner(pool)
	recorder := audit.NewRecorder(store.AuditLogs, log)
	mailer := mail.New(cfg.SMTP, log)

	cacheStore := cache.NewStore(cfg.Redis, log)
	defer cacheStore.Close()
	snapshots := appanalytics.NewSnapshotCache(cacheStore, cfg.Cache.DashboardTTL, log)
	dashboardUC := appanalytics.NewDashboardUseCase(postgres.NewAnalyticsRepository(pool), snapshots, log)

	// PDF de cotizaciones y facturas
	pdfUC := billing.NewPDFUseCase(store, infrapdf.NewMarotoPDFGenerator())

	authUC := auth.NewAuthUseCase(store, txRunner, recorder, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := httpRouter.NewApp(cfg.App.Name)

	// Swagger UI en local: http://localhost:<port>/docs (generado con swag init)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "SalesERP API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AppName:      cfg.App.Name,
		Companies:    store.Companies,
		Users:        store.Users,
		AuthUC:       authUC,
		LeadUC:       sales.NewLeadUseCase(store, txRunner),
		CustomerUC:   sales.NewCustomerUseCase(store, txRunner),
		TaskUC:       sales.NewTaskUseCase(store, txRunner),
		SearchUC:     sales.NewSearchUseCase(store),
		ProductUC:    usecase.NewProductUseCase(store, txRunner),
		QuotationUC:  billing.NewQuotationUseCase(store, txRunner, pdfUC, mailer, log),
		InvoiceUC:    billing.NewInvoiceUseCase(store, txRunner),
		PDFUC:        pdfUC,
		Subscription: billing.NewSubscriptionUseCase(store, txRunner, storage.NewDiskMeter(cfg.Storage.UploadDir)),
		DashboardUC:  dashboardUC,
		CompanyUC:    usecase.NewCompanyUseCase(store, txRunner),
		UserUC:       usecase.NewUserUseCase(store, txRunner, mailer, log),
		Audit:        recorder,
		JWTSecret:    cfg.JWT.Secret,
		Log:          log,
	})

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
