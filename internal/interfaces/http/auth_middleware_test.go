package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/SalesERP-api/internal/application/dto"
	"github.com/jhoicas/SalesERP-api/internal/domain/authz"
	"github.com/jhoicas/SalesERP-api/internal/domain/entity"
	"github.com/jhoicas/SalesERP-api/internal/domain/tenant"
	apphttp "github.com/jhoicas/SalesERP-api/internal/interfaces/http"
	"github.com/jhoicas/SalesERP-api/internal/testutil/memstore"
	pkgjwt "github.com/jhoicas/SalesERP-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "sales-erp-test"
	testExpMin    = 60
)

func seedCompany(t *testing.T, db *memstore.DB, id, subdomain string, active bool) {
	t.Helper()
	c := &entity.Company{ID: id, Name: subdomain, Subdomain: subdomain, IsActive: active, CreatedAt: time.Now()}
	c.ApplyPlan(entity.PlanStarter)
	require.NoError(t, db.Store().Companies.Create(context.Background(), c))
}

func seedUser(t *testing.T, db *memstore.DB, companyID, userID string, role entity.Role, active bool) {
	t.Helper()
	u := &entity.User{
		ID: userID, CompanyID: companyID, Email: userID + "@test.io", FirstName: "Test",
		Role: role, IsActive: active, CreatedAt: time.Now(),
	}
	require.NoError(t, db.Store().Users.Create(context.Background(), u))
}

func makeToken(t *testing.T, companyID, userID string, role entity.Role) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, pkgjwt.Subject{
		UserID: userID, CompanyID: companyID, Email: userID + "@test.io", Role: string(role),
	}, testIssuer, testExpMin)
	require.NoError(t, err)
	return tok
}

func newRequest(method, host, path, token string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	req.Host = host
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out
}

// buildMiddlewareApp monta tenant + JWT + autorización delante de un handler que devuelve el scope.
func buildMiddlewareApp(db *memstore.DB, action authz.Action) *fiber.App {
	app := fiber.New()
	app.Use(apphttp.TenantMiddleware(db.Store().Companies))
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret, db.Store().Users, db.Store().Companies),
		apphttp.Authorize(action),
		func(c *fiber.Ctx) error {
			scope, ok := tenant.FromContext(c.UserContext())
			if !ok {
				return c.SendStatus(fiber.StatusInternalServerError)
			}
			return c.JSON(fiber.Map{"company_id": scope.CompanyID, "role": string(scope.Role)})
		},
	)
	return app
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinToken(t *testing.T) {
	db := memstore.New()
	seedCompany(t, db, "c-acme", "acme", true)
	app := buildMiddlewareApp(db, authz.LeadRead)

	resp, err := app.Test(newRequest(http.MethodGet, "acme.example.com", "/protected", ""))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", decodeError(t, resp).Code)
}

func TestAuthMiddleware_TokenInvalido(t *testing.T) {
	db := memstore.New()
	seedCompany(t, db, "c-acme", "acme", true)
	app := buildMiddlewareApp(db, authz.LeadRead)

	resp, err := app.Test(newRequest(http.MethodGet, "acme.example.com", "/protected", "no.es.jwt"))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", decodeError(t, resp).Code)
}

func TestAuthMiddleware_FirmadoConOtroSecret(t *testing.T) {
	db := memstore.New()
	seedCompany(t, db, "c-acme", "acme", true)
	app := buildMiddlewareApp(db, authz.LeadRead)

	tok, err := pkgjwt.Generate("otro-secret", pkgjwt.Subject{UserID: "u1", CompanyID: "c-acme", Role: "admin"}, testIssuer, testExpMin)
	require.NoError(t, err)
	resp, err := app.Test(newRequest(http.MethodGet, "acme.example.com", "/protected", tok))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenDeOtraEmpresa(t *testing.T) {
	db := memstore.New()
	seedCompany(t, db, "c-acme", "acme", true)
	seedCompany(t, db, "c-globex", "globex", true)
	app := buildMiddlewareApp(db, authz.LeadRead)

	tok := makeToken(t, "c-globex", "u-globex", entity.RoleAdmin)
	resp, err := app.Test(newRequest(http.MethodGet, "acme.example.com", "/protected", tok))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "TENANT_MISMATCH", decodeError(t, resp).Code)
}

func TestAuthMiddleware_ContextoPlataformaAceptaCualquierEmpresa(t *testing.T) {
	db := memstore.New()
	seedCompany(t, db, "c-globex", "globex", true)
	seedUser(t, db, "c-globex", "u-globex", entity.RoleSalesExecutive, true)
	app := buildMiddlewareApp(db, authz.LeadRead)

	tok := makeToken(t, "c-globex", "u-globex", entity.RoleSalesExecutive)
	resp, err := app.Test(newRequest(http.MethodGet, "localhost", "/protected", tok))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "c-globex", body["company_id"])
	assert.Equal(t, "sales_executive", body["role"])
}

func TestAuthorize_RolSinPermiso(t *testing.T) {
	db := memstore.New()
	seedCompany(t, db, "c-acme", "acme", true)
	seedUser(t, db, "c-acme", "u-acme", entity.RoleManager, true)
	app := buildMiddlewareApp(db, authz.UserManage)

	tok := makeToken(t, "c-acme", "u-acme", entity.RoleManager)
	resp, err := app.Test(newRequest(http.MethodGet, "acme.example.com", "/protected", tok))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", decodeError(t, resp).Code)
}

func TestAuthorize_AdminPasa(t *testing.T) {
	db := memstore.New()
	seedCompany(t, db, "c-acme", "acme", true)
	seedUser(t, db, "c-acme", "u-acme", entity.RoleAdmin, true)
	app := buildMiddlewareApp(db, authz.UserManage)

	tok := makeToken(t, "c-acme", "u-acme", entity.RoleAdmin)
	resp, err := app.Test(newRequest(http.MethodGet, "acme.example.com", "/protected", tok))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestTenantMiddleware_SubdominioDesconocido(t *testing.T) {
	db := memstore.New()
	app := buildMiddlewareApp(db, authz.LeadRead)

	resp, err := app.Test(newRequest(http.MethodGet, "nadie.example.com", "/protected", ""))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "TENANT_NOT_FOUND", decodeError(t, resp).Code)
}

func TestTenantMiddleware_EmpresaInactiva(t *testing.T) {
	db := memstore.New()
	seedCompany(t, db, "c-acme", "acme", false)
	app := buildMiddlewareApp(db, authz.LeadRead)

	resp, err := app.Test(newRequest(http.MethodGet, "acme.example.com", "/protected", ""))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "TENANT_INACTIVE", decodeError(t, resp).Code)
}

func TestAuthMiddleware_UsuarioInactivoOInexistente(t *testing.T) {
	db := memstore.New()
	seedCompany(t, db, "c-acme", "acme", true)
	seedUser(t, db, "c-acme", "u-baja", entity.RoleAdmin, false)
	app := buildMiddlewareApp(db, authz.LeadRead)

	for _, host := range []string{"acme.example.com", "localhost"} {
		for _, userID := range []string{"u-baja", "no-existe"} {
			tok := makeToken(t, "c-acme", userID, entity.RoleAdmin)
			resp, err := app.Test(newRequest(http.MethodGet, host, "/protected", tok))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, host+"/"+userID)
			assert.Equal(t, "INVALID_USER", decodeError(t, resp).Code)
		}
	}
}

func TestAuthMiddleware_RolSaleDeLaFilaNoDelToken(t *testing.T) {
	db := memstore.New()
	seedCompany(t, db, "c-acme", "acme", true)
	seedUser(t, db, "c-acme", "u-acme", entity.RoleSalesExecutive, true)
	app := buildMiddlewareApp(db, authz.UserManage)

	// token emitido cuando el usuario era admin
	tok := makeToken(t, "c-acme", "u-acme", entity.RoleAdmin)
	resp, err := app.Test(newRequest(http.MethodGet, "acme.example.com", "/protected", tok))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", decodeError(t, resp).Code)
}

func TestAuthMiddleware_EmpresaInactivaSinHostDeTenant(t *testing.T) {
	db := memstore.New()
	seedCompany(t, db, "c-acme", "acme", false)
	seedUser(t, db, "c-acme", "u-acme", entity.RoleAdmin, true)
	app := buildMiddlewareApp(db, authz.LeadRead)

	tok := makeToken(t, "c-acme", "u-acme", entity.RoleAdmin)
	resp, err := app.Test(newRequest(http.MethodGet, "localhost", "/protected", tok))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "TENANT_INACTIVE", decodeError(t, resp).Code)
}
