package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/SalesERP-api/internal/application/audit"
	"github.com/jhoicas/SalesERP-api/internal/application/dto"
	"github.com/jhoicas/SalesERP-api/internal/application/usecase"
)

// AdminHandler usuarios y auditoría de la empresa.
type AdminHandler struct {
	users *usecase.UserUseCase
	audit *audit.Recorder
}

func NewAdminHandler(users *usecase.UserUseCase, recorder *audit.Recorder) *AdminHandler {
	return &AdminHandler{users: users, audit: recorder}
}

// ListUsers GET /admin/users
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	out, err := h.users.List(c.UserContext(), GetScope(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"users": out})
}

// CreateUser godoc
// @Summary      Crear usuario
// @Description  Respeta max_users del plan. Si el correo de bienvenida falla el usuario se crea igual y la respuesta trae warning.
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUserRequest  true  "datos del usuario"
// @Success      201   {object}  dto.CreateUserResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /admin/users [post]
func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.users.Create(c.UserContext(), GetScope(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateUser PATCH /admin/users/:id
func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	var in dto.UpdateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.users.Update(c.UserContext(), GetScope(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeactivateUser DELETE /admin/users/:id. Desactiva, no borra.
func (h *AdminHandler) DeactivateUser(c *fiber.Ctx) error {
	if err := h.users.Deactivate(c.UserContext(), GetScope(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AuditLogs GET /admin/audit-logs?page=&per_page=
func (h *AdminHandler) AuditLogs(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badQuery(c)
	}
	out, err := h.audit.List(c.UserContext(), GetScope(c).CompanyID, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
