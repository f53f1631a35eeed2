package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/SalesERP-api/internal/application/dto"
	"github.com/jhoicas/SalesERP-api/internal/application/sales"
)

// LeadHandler pipeline comercial. Lo montan /sales/leads y /api/v1/leads.
type LeadHandler struct {
	uc *sales.LeadUseCase
}

func NewLeadHandler(uc *sales.LeadUseCase) *LeadHandler {
	return &LeadHandler{uc: uc}
}

// List godoc
// @Summary      Listar leads
// @Tags         leads
// @Security     Bearer
// @Produce      json
// @Param        page         query  int     false  "página (1-based)"
// @Param        per_page     query  int     false  "tamaño de página (máx 100)"
// @Param        status       query  string  false  "etapa"
// @Param        source       query  string  false  "origen"
// @Param        assigned_to  query  string  false  "usuario asignado"
// @Param        search       query  string  false  "nombre, email o empresa"
// @Success      200  {object}  dto.LeadListResponse
// @Router       /api/v1/leads [get]
func (h *LeadHandler) List(c *fiber.Ctx) error {
	var q dto.LeadListQuery
	if err := c.QueryParser(&q); err != nil {
		return badQuery(c)
	}
	out, err := h.uc.List(c.UserContext(), GetScope(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener lead
// @Tags         leads
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lead"
// @Success      200  {object}  dto.LeadResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/leads/{id} [get]
func (h *LeadHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetScope(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear lead
// @Tags         leads
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LeadRequest  true  "datos del lead"
// @Success      201   {object}  dto.LeadResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/v1/leads [post]
func (h *LeadHandler) Create(c *fiber.Ctx) error {
	var in dto.LeadRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetScope(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *LeadHandler) Update(c *fiber.Ctx) error {
	var in dto.LeadRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetScope(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus PATCH /sales/leads/:id/status
func (h *LeadHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateLeadStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), GetScope(c), c.Params("id"), in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Assign POST /sales/leads/:id/assign
func (h *LeadHandler) Assign(c *fiber.Ctx) error {
	var in dto.AssignLeadRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Assign(c.UserContext(), GetScope(c), c.Params("id"), in.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *LeadHandler) AddActivity(c *fiber.Ctx) error {
	var in dto.AddActivityRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.AddActivity(c.UserContext(), GetScope(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *LeadHandler) Activities(c *fiber.Ctx) error {
	out, err := h.uc.Activities(c.UserContext(), GetScope(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"activities": out})
}

// Convert godoc
// @Summary      Convertir lead en cliente
// @Description  Pasa el lead a closed_won y crea un cliente con sus datos. Cada conversión crea un cliente nuevo.
// @Tags         leads
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lead"
// @Success      201  {object}  dto.ConvertLeadResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /sales/leads/{id}/convert [post]
func (h *LeadHandler) Convert(c *fiber.Ctx) error {
	out, err := h.uc.Convert(c.UserContext(), GetScope(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *LeadHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetScope(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
