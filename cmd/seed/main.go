// seed crea una empresa de demostración con usuarios, productos, leads y clientes.
//
// Uso: go run ./cmd/seed [-company "Acme Demo"] [-email admin@acme.io] [-password secreto123]
// Si el email ya existe no hace nada.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/SalesERP-api/internal/application/audit"
	"github.com/jhoicas/SalesERP-api/internal/application/auth"
	"github.com/jhoicas/SalesERP-api/internal/application/dto"
	"github.com/jhoicas/SalesERP-api/internal/application/sales"
	"github.com/jhoicas/SalesERP-api/internal/application/usecase"
	"github.com/jhoicas/SalesERP-api/internal/domain"
	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
	"github.com/jhoicas/SalesERP-api/internal/domain/repository"
	"github.com/jhoicas/SalesERP-api/internal/domain/tenant"
	"github.com/jhoicas/SalesERP-api/internal/infrastructure/mail"
	"github.com/jhoicas/SalesERP-api/internal/infrastructure/postgres"
	"github.com/jhoicas/SalesERP-api/pkg/config"
	"github.com/jhoicas/SalesERP-api/pkg/logger"
)

func main() {
	companyName := flag.String("company", "Acme Demo", "nombre de la empresa")
	email := flag.String("email", "admin@acme-demo.io", "email del admin")
	password := flag.String("password", "demo12345", "contraseña del admin")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = "seed-only"
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

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
	tx := postgres.NewTxRunner(pool)
	authUC := auth.NewAuthUseCase(store, tx, audit.NewRecorder(store.AuditLogs, log), auth.JWTConfig{
		Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer,
	})

	reg, err := authUC.RegisterCompany(ctx, dto.RegisterCompanyRequest{
		CompanyName: *companyName, Email: *email, Password: *password, FirstName: "Admin",
	})
	if errors.Is(err, domain.ErrEmailAlreadyExists) {
		log.Info().Str("email", *email).Msg("la empresa demo ya existe, nada que hacer")
		return
	}
	if err != nil {
		log.Fatal().Err(err).Msg("registrar empresa")
	}
	scope := tenant.Scope{CompanyID: reg.Company.ID, UserID: reg.User.ID, Email: reg.User.Email, Role: entity.RoleAdmin}
	ctx = tenant.NewContext(ctx, scope)

	if err := seed(ctx, scope, reg.Company.Subdomain+".demo", store, tx, log, *password); err != nil {
		log.Fatal().Err(err).Msg("seed")
	}
	log.Info().
		Str("company_id", reg.Company.ID).
		Str("subdomain", reg.Company.Subdomain).
		Str("admin", reg.User.Email).
		Msg("empresa demo creada")
}

func seed(ctx context.Context, scope tenant.Scope, domainName string, store repository.Store, tx repository.TxRunner, log *logger.Logger, password string) error {
	users := usecase.NewUserUseCase(store, tx, mail.NewLogMailer(log), log)
	var seller string
	for _, u := range []dto.CreateUserRequest{
		{Email: "manager@" + domainName, Password: password, FirstName: "Marta", Role: string(entity.RoleManager)},
		{Email: "ventas@" + domainName, Password: password, FirstName: "Carlos", Role: string(entity.RoleSalesExecutive)},
	} {
		out, err := users.Create(ctx, scope, u)
		if err != nil {
			return fmt.Errorf("usuario %s: %w", u.Email, err)
		}
		if u.Role == string(entity.RoleSalesExecutive) {
			seller = out.User.ID
		}
	}

	products := usecase.NewProductUseCase(store, tx)
	for _, p := range []dto.ProductRequest{
		{SKU: "CRM-BASIC", Name: "Licencia CRM básica", UnitPrice: decimal.NewFromInt(49), TaxRate: decimal.NewFromInt(19), Unit: "mes"},
		{SKU: "CRM-PRO", Name: "Licencia CRM pro", UnitPrice: decimal.NewFromInt(99), TaxRate: decimal.NewFromInt(19), Unit: "mes"},
		{SKU: "ONBOARD", Name: "Implementación", UnitPrice: decimal.NewFromInt(1200), TaxRate: decimal.NewFromInt(19), Unit: "servicio"},
	} {
		if _, err := products.Create(ctx, scope, p); err != nil {
			return fmt.Errorf("producto %s: %w", p.SKU, err)
		}
	}

	leads := sales.NewLeadUseCase(store, tx)
	for i, l := range []dto.LeadRequest{
		{FirstName: "Jane", LastName: "Doe", Email: "jane@globex.io", CompanyName: "Globex", Source: "website", Status: "prospect"},
		{FirstName: "Luis", LastName: "Pérez", Email: "luis@initech.co", CompanyName: "Initech", Source: "referral", Status: "qualified"},
		{FirstName: "Ana", LastName: "Gómez", Email: "ana@umbrella.co", CompanyName: "Umbrella", Source: "event", Status: "proposal"},
		{FirstName: "Tom", LastName: "Ruiz", Email: "tom@hooli.io", CompanyName: "Hooli", Source: "social_media", Status: "negotiation"},
	} {
		if i%2 == 0 {
			l.AssignedTo = seller
		}
		if _, err := leads.Create(ctx, scope, l); err != nil {
			return fmt.Errorf("lead %s: %w", l.Email, err)
		}
	}

	customers := sales.NewCustomerUseCase(store, tx)
	for _, c := range []dto.CustomerRequest{
		{FirstName: "Pedro", LastName: "Martínez", Email: "pedro@vandelay.co", CompanyName: "Vandelay", TaxID: "900123456-7"},
		{FirstName: "Sofía", LastName: "Ríos", Email: "sofia@wonka.co", CompanyName: "Wonka"},
	} {
		if _, err := customers.Create(ctx, scope, c); err != nil {
			return fmt.Errorf("cliente %s: %w", c.Email, err)
		}
	}
	return nil
}
