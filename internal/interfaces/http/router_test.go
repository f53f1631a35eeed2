package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/SalesERP-api/internal/application/analytics"
	"github.com/jhoicas/SalesERP-api/internal/application/audit"
	"github.com/jhoicas/SalesERP-api/internal/application/auth"
	"github.com/jhoicas/SalesERP-api/internal/application/billing"
	"github.com/jhoicas/SalesERP-api/internal/application/dto"
	"github.com/jhoicas/SalesERP-api/internal/application/sales"
	"github.com/jhoicas/SalesERP-api/internal/application/usecase"
	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
	"github.com/jhoicas/SalesERP-api/internal/domain/tenant"
	"github.com/jhoicas/SalesERP-api/internal/infrastructure/cache"
	"github.com/jhoicas/SalesERP-api/internal/infrastructure/mail"
	"github.com/jhoicas/SalesERP-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/SalesERP-api/internal/interfaces/http"
	"github.com/jhoicas/SalesERP-api/internal/testutil/memstore"
	"github.com/jhoicas/SalesERP-api/pkg/logger"
)

// buildApp arma la aplicación completa sobre memstore.
func buildApp(db *memstore.DB) *fiber.App {
	log := logger.Nop()
	store := db.Store()
	recorder := audit.NewRecorder(store.AuditLogs, log)
	mailer := mail.NewLogMailer(log)
	pdfUC := billing.NewPDFUseCase(store, pdf.NewMarotoPDFGenerator())

	app := apphttp.NewApp("sales-erp-test")
	apphttp.Router(app, apphttp.RouterDeps{
		AppName:      "sales-erp-test",
		Companies:    store.Companies,
		Users:        store.Users,
		AuthUC:       auth.NewAuthUseCase(store, db, recorder, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		LeadUC:       sales.NewLeadUseCase(store, db),
		CustomerUC:   sales.NewCustomerUseCase(store, db),
		TaskUC:       sales.NewTaskUseCase(store, db),
		SearchUC:     sales.NewSearchUseCase(store),
		ProductUC:    usecase.NewProductUseCase(store, db),
		QuotationUC:  billing.NewQuotationUseCase(store, db, pdfUC, mailer, log),
		InvoiceUC:    billing.NewInvoiceUseCase(store, db),
		PDFUC:        pdfUC,
		Subscription: billing.NewSubscriptionUseCase(store, db, nil),
		DashboardUC:  appanalytics.NewDashboardUseCase(db.Analytics(), appanalytics.NewSnapshotCache(cache.NewMemoryStore(), 0, log), log),
		CompanyUC:    usecase.NewCompanyUseCase(store, db),
		UserUC:       usecase.NewUserUseCase(store, db, mailer, log),
		Audit:        recorder,
		JWTSecret:    testJWTSecret,
		Log:          log,
	})
	return app
}

func seedLeads(t *testing.T, db *memstore.DB, companyID string, n int) []string {
	t.Helper()
	uc := sales.NewLeadUseCase(db.Store(), db)
	scope := tenant.Scope{CompanyID: companyID, UserID: "u-" + companyID, Role: entity.RoleAdmin}
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		l, err := uc.Create(context.Background(), scope, dto.LeadRequest{
			FirstName: fmt.Sprintf("Lead%02d", i), Email: fmt.Sprintf("lead%d@%s.io", i, companyID),
		})
		require.NoError(t, err)
		ids = append(ids, l.ID)
	}
	return ids
}

func TestRouter_Health(t *testing.T) {
	app := buildApp(memstore.New())
	resp, err := app.Test(newRequest(http.MethodGet, "localhost", "/health", ""))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestRouter_RaizMuestraTenant(t *testing.T) {
	db := memstore.New()
	seedCompany(t, db, "c-acme", "acme", true)
	app := buildApp(db)

	resp, err := app.Test(newRequest(http.MethodGet, "acme.example.com", "/", ""))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "acme", body["tenant"])
	assert.Equal(t, "sales-erp-test", body["service"])
}

func TestRouter_ListaLeadsPaginada(t *testing.T) {
	db := memstore.New()
	seedCompany(t, db, "c-acme", "acme", true)
	seedUser(t, db, "c-acme", "u-c-acme", entity.RoleSalesExecutive, true)
	seedLeads(t, db, "c-acme", 25)
	app := buildApp(db)
	tok := makeToken(t, "c-acme", "u-c-acme", entity.RoleSalesExecutive)

	resp, err := app.Test(newRequest(http.MethodGet, "acme.example.com", "/api/v1/leads?page=2&per_page=10", tok))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out dto.LeadListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Len(t, out.Leads, 10)
	assert.Equal(t, 25, out.Pagination.Total)
	assert.Equal(t, 3, out.Pagination.Pages)
	assert.True(t, out.Pagination.HasNext)
	assert.True(t, out.Pagination.HasPrev)
}

func TestRouter_LeadDeOtraEmpresaEs404(t *testing.T) {
	db := memstore.New()
	seedCompany(t, db, "c-acme", "acme", true)
	seedCompany(t, db, "c-globex", "globex", true)
	seedUser(t, db, "c-acme", "u-c-acme", entity.RoleAdmin, true)
	globexIDs := seedLeads(t, db, "c-globex", 1)
	app := buildApp(db)
	tok := makeToken(t, "c-acme", "u-c-acme", entity.RoleAdmin)

	resp, err := app.Test(newRequest(http.MethodGet, "acme.example.com", "/sales/leads/"+globexIDs[0], tok))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestRouter_CrearLeadValidaCuerpo(t *testing.T) {
	db := memstore.New()
	seedCompany(t, db, "c-acme", "acme", true)
	seedUser(t, db, "c-acme", "u-c-acme", entity.RoleAdmin, true)
	app := buildApp(db)
	tok := makeToken(t, "c-acme", "u-c-acme", entity.RoleAdmin)

	req := newJSONRequest(t, http.MethodPost, "acme.example.com", "/sales/leads", tok, dto.LeadRequest{FirstName: "Jane", Email: "no-es-email"})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeError(t, resp).Code)
}

func TestRouter_EjecutivoNoGestionaUsuarios(t *testing.T) {
	db := memstore.New()
	seedCompany(t, db, "c-acme", "acme", true)
	seedUser(t, db, "c-acme", "u-c-acme", entity.RoleSalesExecutive, true)
	app := buildApp(db)
	tok := makeToken(t, "c-acme", "u-c-acme", entity.RoleSalesExecutive)

	resp, err := app.Test(newRequest(http.MethodGet, "acme.example.com", "/admin/users", tok))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRouter_RegistroYLogin(t *testing.T) {
	db := memstore.New()
	app := buildApp(db)

	reg := newJSONRequest(t, http.MethodPost, "localhost", "/auth/register", "", dto.RegisterCompanyRequest{
		CompanyName: "Acme", Email: "ana@acme.io", Password: "supersecreto", FirstName: "Ana",
	})
	resp, err := app.Test(reg)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	login := newJSONRequest(t, http.MethodPost, "acme.example.com", "/auth/login", "", dto.LoginRequest{
		Email: "ana@acme.io", Password: "supersecreto",
	})
	resp, err = app.Test(login)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out dto.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.NotEmpty(t, out.Token)

	me, err := app.Test(newRequest(http.MethodGet, "acme.example.com", "/auth/me", out.Token))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, me.StatusCode)

	bad := newJSONRequest(t, http.MethodPost, "acme.example.com", "/auth/login", "", dto.LoginRequest{
		Email: "ana@acme.io", Password: "incorrecta",
	})
	resp, err = app.Test(bad)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func newJSONRequest(t *testing.T, method, host, path, token string, body any) *http.Request {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := newRequest(method, host, path, token)
	req.Body = io.NopCloser(bytes.NewReader(payload))
	req.ContentLength = int64(len(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestRouter_UsuarioDesactivadoPierdeAcceso(t *testing.T) {
	db := memstore.New()
	seedCompany(t, db, "c-acme", "acme", true)
	seedUser(t, db, "c-acme", "u-admin", entity.RoleAdmin, true)
	seedUser(t, db, "c-acme", "u-sales", entity.RoleSalesExecutive, true)
	app := buildApp(db)
	admin := makeToken(t, "c-acme", "u-admin", entity.RoleAdmin)
	seller := makeToken(t, "c-acme", "u-sales", entity.RoleSalesExecutive)

	resp, err := app.Test(newRequest(http.MethodGet, "acme.example.com", "/sales/leads", seller))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(newRequest(http.MethodDelete, "acme.example.com", "/admin/users/u-sales", admin))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(newRequest(http.MethodGet, "acme.example.com", "/sales/leads", seller))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func decodeJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestRouter_APIv1ClientesProductosLeadsYRefresh(t *testing.T) {
	db := memstore.New()
	seedCompany(t, db, "c-acme", "acme", true)
	seedUser(t, db, "c-acme", "u-c-acme", entity.RoleSalesExecutive, true)
	ids := seedLeads(t, db, "c-acme", 1)
	app := buildApp(db)
	tok := makeToken(t, "c-acme", "u-c-acme", entity.RoleSalesExecutive)
	const host = "acme.example.com"

	resp, err := app.Test(newJSONRequest(t, http.MethodPost, host, "/api/v1/customers", tok,
		dto.CustomerRequest{FirstName: "Jane", LastName: "Doe", Email: "jane@client.io"}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, err = app.Test(newRequest(http.MethodGet, host, "/api/v1/customers?search=jane", tok))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var customers dto.CustomerListResponse
	decodeJSON(t, resp, &customers)
	assert.Equal(t, 1, customers.Pagination.Total)

	resp, err = app.Test(newRequest(http.MethodGet, host, "/api/v1/products", tok))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(newJSONRequest(t, http.MethodPut, host, "/api/v1/leads/"+ids[0], tok,
		dto.LeadRequest{FirstName: "Jane", Email: "jane@lead.io", Status: "qualified"}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(newJSONRequest(t, http.MethodPatch, host, "/api/v1/leads/"+ids[0]+"/status", tok,
		dto.UpdateLeadStatusRequest{Status: "proposal"}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var lead dto.LeadResponse
	decodeJSON(t, resp, &lead)
	assert.Equal(t, "proposal", lead.Status)
	assert.Equal(t, "Jane", lead.FirstName)

	resp, err = app.Test(newRequest(http.MethodPost, host, "/api/v1/auth/refresh", tok))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var refreshed struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	decodeJSON(t, resp, &refreshed)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, "Bearer", refreshed.TokenType)

	actions := db.AuditActions("c-acme")
	for _, want := range []string{entity.AuditCustomerCreated, entity.AuditLeadUpdated, entity.AuditLeadStatusUpdated, entity.AuditTokenRefreshed} {
		assert.Contains(t, actions, want)
	}

	resp, err = app.Test(newRequest(http.MethodPost, host, "/api/v1/auth/refresh", ""))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_CotizacionEditarYBorrar(t *testing.T) {
	db := memstore.New()
	seedCompany(t, db, "c-acme", "acme", true)
	seedUser(t, db, "c-acme", "u-admin", entity.RoleAdmin, true)
	seedUser(t, db, "c-acme", "u-sales", entity.RoleSalesExecutive, true)
	require.NoError(t, db.Store().Customers.Create(context.Background(), &entity.Customer{
		ID: "cu-1", CompanyID: "c-acme", FirstName: "Jane", Email: "jane@client.io",
	}))
	app := buildApp(db)
	admin := makeToken(t, "c-acme", "u-admin", entity.RoleAdmin)
	seller := makeToken(t, "c-acme", "u-sales", entity.RoleSalesExecutive)
	const host = "acme.example.com"

	price := decimal.NewFromInt(100)
	resp, err := app.Test(newJSONRequest(t, http.MethodPost, host, "/billing/quotations", seller, dto.CreateQuotationRequest{
		CustomerID: "cu-1", Subject: "Propuesta",
		Items: []dto.LineItemRequest{{Description: "Consultoría", Quantity: decimal.NewFromInt(2), UnitPrice: &price}},
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var q dto.QuotationResponse
	decodeJSON(t, resp, &q)

	resp, err = app.Test(newJSONRequest(t, http.MethodPut, host, "/billing/quotations/"+q.ID, seller,
		dto.UpdateQuotationRequest{Subject: "Propuesta v2", Notes: "net 30"}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var upd dto.QuotationResponse
	decodeJSON(t, resp, &upd)
	assert.Equal(t, "Propuesta v2", upd.Subject)
	assert.True(t, q.Totals.Total.Equal(upd.Totals.Total), "sin items conserva los totales")

	resp, err = app.Test(newRequest(http.MethodDelete, host, "/billing/quotations/"+q.ID, seller))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, err = app.Test(newRequest(http.MethodDelete, host, "/billing/quotations/"+q.ID, admin))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(newRequest(http.MethodGet, host, "/billing/quotations/"+q.ID, admin))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	actions := db.AuditActions("c-acme")
	assert.Contains(t, actions, entity.AuditQuotationUpdated)
	assert.Contains(t, actions, entity.AuditQuotationDeleted)
}

func TestRouter_BusquedaYUsoDelPlan(t *testing.T) {
	db := memstore.New()
	seedCompany(t, db, "c-acme", "acme", true)
	seedUser(t, db, "c-acme", "u-admin", entity.RoleAdmin, true)
	seedUser(t, db, "c-acme", "u-sales", entity.RoleSalesExecutive, true)
	seedLeads(t, db, "c-acme", 3)
	app := buildApp(db)
	admin := makeToken(t, "c-acme", "u-admin", entity.RoleAdmin)
	seller := makeToken(t, "c-acme", "u-sales", entity.RoleSalesExecutive)
	const host = "acme.example.com"

	resp, err := app.Test(newRequest(http.MethodGet, host, "/sales/search?q=lead01", seller))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var found dto.SearchResponse
	decodeJSON(t, resp, &found)
	assert.Len(t, found.Leads, 1)

	resp, err = app.Test(newRequest(http.MethodGet, host, "/sales/search", seller))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(newRequest(http.MethodGet, host, "/billing/usage", seller))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, err = app.Test(newRequest(http.MethodGet, host, "/billing/usage", admin))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var usage dto.UsageResponse
	decodeJSON(t, resp, &usage)
	assert.Equal(t, "starter", usage.Plan)
	assert.Equal(t, 2.0, usage.Users.Current)
	assert.Equal(t, 5.0, usage.Users.Limit)
	assert.Equal(t, 40.0, usage.Users.Percent)
	assert.Zero(t, usage.Storage.Current)
}
