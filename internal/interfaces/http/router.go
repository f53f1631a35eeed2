package http

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/jhoicas/SalesERP-api/internal/application/analytics"
	"github.com/jhoicas/SalesERP-api/internal/application/audit"
	"github.com/jhoicas/SalesERP-api/internal/application/auth"
	"github.com/jhoicas/SalesERP-api/internal/application/billing"
	"github.com/jhoicas/SalesERP-api/internal/application/dto"
	"github.com/jhoicas/SalesERP-api/internal/application/sales"
	"github.com/jhoicas/SalesERP-api/internal/application/usecase"
	"github.com/jhoicas/SalesERP-api/internal/domain/authz"
	"github.com/jhoicas/SalesERP-api/internal/domain/repository"
	"github.com/jhoicas/SalesERP-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName      string
	Companies    repository.CompanyRepository // resolución del tenant por subdominio
	Users        repository.UserRepository    // recarga del usuario autenticado
	AuthUC       *auth.AuthUseCase
	LeadUC       *sales.LeadUseCase
	CustomerUC   *sales.CustomerUseCase
	TaskUC       *sales.TaskUseCase
	SearchUC     *sales.SearchUseCase
	ProductUC    *usecase.ProductUseCase
	QuotationUC  *billing.QuotationUseCase
	InvoiceUC    *billing.InvoiceUseCase
	PDFUC        *billing.PDFUseCase
	Subscription *billing.SubscriptionUseCase
	DashboardUC  *appanalytics.DashboardUseCase
	CompanyUC    *usecase.CompanyUseCase
	UserUC       *usecase.UserUseCase
	Audit        *audit.Recorder
	JWTSecret    string
	Log          *logger.Logger
}

// NewApp construye la aplicación Fiber con los middlewares globales.
func NewApp(name string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
			return c.Status(status).JSON(dto.ErrorResponse{Code: "HTTP_" + strconv.Itoa(status), Message: err.Error()})
		},
	})
	app.Use(recover.New())
	return app
}

// Router registra las rutas de la aplicación.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	app.Use(RequestLogger(log))
	app.Use(TenantMiddleware(deps.Companies))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"service": deps.AppName, "tenant": GetTenantSubdomain(c)})
	})

	authed := AuthMiddleware(deps.JWTSecret, deps.Users, deps.Companies)
	can := Authorize

	authHandler := NewAuthHandler(deps.AuthUC)
	leadHandler := NewLeadHandler(deps.LeadUC)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)

	// Auth
	authGroup := app.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", authed, authHandler.Me)

	// Sales
	salesGroup := app.Group("/sales", authed)
	salesGroup.Get("/dashboard", can(authz.DashboardRead), dashboardHandler.Get)
	salesGroup.Get("/search", can(authz.Search), NewSearchHandler(deps.SearchUC).Search)

	customerHandler := NewCustomerHandler(deps.CustomerUC)
	productHandler := NewProductHandler(deps.ProductUC)

	leads := salesGroup.Group("/leads")
	leads.Get("/", can(authz.LeadRead), leadHandler.List)
	leads.Post("/", can(authz.LeadWrite), leadHandler.Create)
	leads.Get("/:id", can(authz.LeadRead), leadHandler.Get)
	leads.Put("/:id", can(authz.LeadWrite), leadHandler.Update)
	leads.Delete("/:id", can(authz.LeadDelete), leadHandler.Delete)
	leads.Patch("/:id/status", can(authz.LeadWrite), leadHandler.UpdateStatus)
	leads.Post("/:id/assign", can(authz.LeadAssign), leadHandler.Assign)
	leads.Get("/:id/activities", can(authz.LeadRead), leadHandler.Activities)
	leads.Post("/:id/activities", can(authz.LeadWrite), leadHandler.AddActivity)
	leads.Post("/:id/convert", can(authz.LeadConvert), leadHandler.Convert)

	customers := salesGroup.Group("/customers")
	customers.Get("/", can(authz.CustomerRead), customerHandler.List)
	customers.Post("/", can(authz.CustomerWrite), customerHandler.Create)
	customers.Get("/:id", can(authz.CustomerRead), customerHandler.Get)
	customers.Put("/:id", can(authz.CustomerWrite), customerHandler.Update)
	customers.Delete("/:id", can(authz.CustomerDelete), customerHandler.Delete)

	tasks := salesGroup.Group("/tasks")
	taskHandler := NewTaskHandler(deps.TaskUC)
	tasks.Get("/", can(authz.TaskRead), taskHandler.List)
	tasks.Post("/", can(authz.TaskWrite), taskHandler.Create)
	tasks.Post("/:id/complete", can(authz.TaskWrite), taskHandler.Complete)

	// Billing
	billingGroup := app.Group("/billing", authed)

	products := billingGroup.Group("/products")
	products.Get("/", can(authz.ProductRead), productHandler.List)
	products.Post("/", can(authz.ProductWrite), productHandler.Create)
	products.Get("/:id", can(authz.ProductRead), productHandler.GetByID)
	products.Put("/:id", can(authz.ProductWrite), productHandler.Update)

	quotations := billingGroup.Group("/quotations")
	quotationHandler := NewQuotationHandler(deps.QuotationUC, deps.PDFUC)
	quotations.Get("/", can(authz.QuotationRead), quotationHandler.List)
	quotations.Post("/", can(authz.QuotationWrite), quotationHandler.Create)
	quotations.Get("/:id", can(authz.QuotationRead), quotationHandler.Get)
	quotations.Put("/:id", can(authz.QuotationWrite), quotationHandler.Update)
	quotations.Delete("/:id", can(authz.QuotationDelete), quotationHandler.Delete)
	quotations.Patch("/:id/status", can(authz.QuotationWrite), quotationHandler.UpdateStatus)
	quotations.Post("/:id/recompute", can(authz.QuotationWrite), quotationHandler.Recompute)
	quotations.Post("/:id/duplicate", can(authz.QuotationWrite), quotationHandler.Duplicate)
	quotations.Post("/:id/convert", can(authz.QuotationConvert), quotationHandler.Convert)
	quotations.Post("/:id/send", can(authz.QuotationWrite), quotationHandler.Send)
	quotations.Get("/:id/pdf", can(authz.QuotationRead), quotationHandler.PDF)

	invoices := billingGroup.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.PDFUC)
	invoices.Get("/", can(authz.InvoiceRead), invoiceHandler.List)
	invoices.Post("/", can(authz.InvoiceWrite), invoiceHandler.Create)
	invoices.Get("/:id", can(authz.InvoiceRead), invoiceHandler.GetByID)
	invoices.Put("/:id", can(authz.InvoiceWrite), invoiceHandler.Update)
	invoices.Post("/:id/pay", can(authz.InvoiceMarkPaid), invoiceHandler.MarkPaid)
	invoices.Post("/:id/duplicate", can(authz.InvoiceWrite), invoiceHandler.Duplicate)
	invoices.Get("/:id/pdf", can(authz.InvoiceRead), invoiceHandler.PDF)

	subscription := billingGroup.Group("/subscription")
	subscriptionHandler := NewSubscriptionHandler(deps.Subscription)
	subscription.Get("/", can(authz.SubscriptionRead), subscriptionHandler.Get)
	subscription.Post("/upgrade", can(authz.SubscriptionManage), subscriptionHandler.Upgrade)
	subscription.Post("/cancel", can(authz.SubscriptionManage), subscriptionHandler.Cancel)
	billingGroup.Get("/usage", can(authz.UsageRead), subscriptionHandler.Usage)

	// Admin
	adminGroup := app.Group("/admin", authed)
	adminHandler := NewAdminHandler(deps.UserUC, deps.Audit)
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	adminGroup.Get("/users", can(authz.UserManage), adminHandler.ListUsers)
	adminGroup.Post("/users", can(authz.UserManage), adminHandler.CreateUser)
	adminGroup.Patch("/users/:id", can(authz.UserManage), adminHandler.UpdateUser)
	adminGroup.Delete("/users/:id", can(authz.UserManage), adminHandler.DeactivateUser)
	adminGroup.Get("/company", can(authz.CompanyManage), companyHandler.Get)
	adminGroup.Put("/company", can(authz.CompanyManage), companyHandler.Update)
	adminGroup.Get("/audit-logs", can(authz.AuditRead), adminHandler.AuditLogs)

	// API v1 (integraciones con token)
	v1 := app.Group("/api/v1")
	v1.Post("/auth/token", authHandler.Token)
	v1.Post("/auth/refresh", authed, authHandler.Refresh)
	v1.Get("/leads", authed, can(authz.LeadRead), leadHandler.List)
	v1.Post("/leads", authed, can(authz.LeadWrite), leadHandler.Create)
	v1.Get("/leads/:id", authed, can(authz.LeadRead), leadHandler.Get)
	v1.Put("/leads/:id", authed, can(authz.LeadWrite), leadHandler.Update)
	v1.Patch("/leads/:id/status", authed, can(authz.LeadWrite), leadHandler.UpdateStatus)
	v1.Get("/customers", authed, can(authz.CustomerRead), customerHandler.List)
	v1.Post("/customers", authed, can(authz.CustomerWrite), customerHandler.Create)
	v1.Get("/products", authed, can(authz.ProductRead), productHandler.List)
	v1.Get("/dashboard", authed, can(authz.DashboardRead), dashboardHandler.Get)
	v1.Post("/dashboard/refresh", authed, can(authz.DashboardRead), dashboardHandler.Refresh)
}
