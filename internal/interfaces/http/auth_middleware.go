package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/SalesERP-api/internal/application/audit"
	"github.com/jhoicas/SalesERP-api/internal/application/dto"
	"github.com/jhoicas/SalesERP-api/internal/domain/authz"
	"github.com/jhoicas/SalesERP-api/internal/domain/repository"
	"github.com/jhoicas/SalesERP-api/internal/domain/tenant"
	"github.com/jhoicas/SalesERP-api/pkg/jwt"
	"github.com/jhoicas/SalesERP-api/pkg/logger"
)

// Locals keys.
const (
	LocalScope           = "scope"
	LocalTenantCompanyID = "tenant_company_id"
	LocalTenantSubdomain = "tenant_subdomain"
	localLogger          = "logger"
)

// TenantMiddleware resuelve la empresa a partir del subdominio del host.
// Sin subdominio (localhost, IP, reservados) la petición sigue en contexto de plataforma.
func TenantMiddleware(companies repository.CompanyRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sub, ok := tenant.ResolveSubdomain(c.Hostname())
		if !ok {
			return c.Next()
		}
		company, err := companies.GetBySubdomain(c.UserContext(), sub)
		if err != nil {
			return respondError(c, err)
		}
		if company == nil {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "TENANT_NOT_FOUND", Message: "empresa no encontrada: " + sub})
		}
		if !company.IsActive {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "TENANT_INACTIVE", Message: "empresa inactiva"})
		}
		c.Locals(LocalTenantCompanyID, company.ID)
		c.Locals(LocalTenantSubdomain, company.Subdomain)
		return c.Next()
	}
}

// AuthMiddleware valida el Bearer Token JWT y arma el tenant.Scope de la petición.
// El usuario y su empresa se recargan en cada petición: el rol sale de la fila, no del token,
// y un usuario o empresa desactivados dejan de tener acceso aunque el token siga vigente.
// Si el host resolvió una empresa, el token debe pertenecer a ella.
func AuthMiddleware(jwtSecret string, users repository.UserRepository, companies repository.CompanyRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		if tid := GetTenantCompanyID(c); tid != "" && tid != claims.CompanyID {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "TENANT_MISMATCH", Message: "el token no pertenece a esta empresa"})
		}

		user, err := users.GetByID(c.UserContext(), claims.CompanyID, claims.UserID)
		if err != nil {
			return respondError(c, err)
		}
		if user == nil || !user.IsActive {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_USER", Message: "usuario inválido o inactivo"})
		}
		// Con host de empresa TenantMiddleware ya verificó que está activa.
		if GetTenantCompanyID(c) == "" {
			company, err := companies.GetByID(c.UserContext(), user.CompanyID)
			if err != nil {
				return respondError(c, err)
			}
			if company == nil || !company.IsActive {
				return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "TENANT_INACTIVE", Message: "empresa inactiva"})
			}
		}

		scope := tenant.Scope{
			CompanyID: user.CompanyID,
			UserID:    user.ID,
			Email:     user.Email,
			Role:      user.Role,
		}
		c.Locals(LocalScope, scope)
		ctx := audit.WithRequestMeta(c.UserContext(), audit.RequestMeta{IP: c.IP(), UserAgent: c.Get(fiber.HeaderUserAgent)})
		c.SetUserContext(tenant.NewContext(ctx, scope))
		return c.Next()
	}
}

// Authorize consulta la tabla (rol, acción). Debe ir después de AuthMiddleware.
func Authorize(action authz.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope := GetScope(c)
		if !scope.Valid() {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "autenticación requerida"})
		}
		if !authz.Allowed(scope.Role, action) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "el rol " + string(scope.Role) + " no puede " + string(action),
			})
		}
		return c.Next()
	}
}

// RequestLogger registra cada petición con su latencia y deja un sublogger en Locals.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		c.Locals(localLogger, log)
		err := c.Next()

		scope := GetScope(c)
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		log.Info().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("tenant", GetTenantSubdomain(c)).
			Str("company_id", scope.CompanyID).
			Str("user_id", scope.UserID).
			Msg("request")
		return err
	}
}

func requestLog(c *fiber.Ctx) *logger.Logger {
	if l, ok := c.Locals(localLogger).(*logger.Logger); ok {
		return l
	}
	return logger.Nop()
}

// GetScope devuelve el scope de la petición (vacío si no pasó por AuthMiddleware).
func GetScope(c *fiber.Ctx) tenant.Scope {
	s, _ := c.Locals(LocalScope).(tenant.Scope)
	return s
}

// GetTenantCompanyID empresa resuelta del host; vacío en contexto de plataforma.
func GetTenantCompanyID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalTenantCompanyID).(string)
	return s
}

// GetTenantSubdomain subdominio resuelto del host.
func GetTenantSubdomain(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalTenantSubdomain).(string)
	return s
}
