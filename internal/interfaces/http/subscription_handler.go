package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/SalesERP-api/internal/application/billing"
	"github.com/jhoicas/SalesERP-api/internal/application/dto"
)

// SubscriptionHandler plan de la empresa.
type SubscriptionHandler struct {
	uc *billing.SubscriptionUseCase
}

func NewSubscriptionHandler(uc *billing.SubscriptionUseCase) *SubscriptionHandler {
	return &SubscriptionHandler{uc: uc}
}

func (h *SubscriptionHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetScope(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Upgrade godoc
// @Summary      Subir de plan
// @Description  Solo hacia adelante: starter → pro → enterprise. Actualiza los límites de la empresa.
// @Tags         subscription
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpgradeSubscriptionRequest  true  "plan destino"
// @Success      200   {object}  dto.SubscriptionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /billing/subscription/upgrade [post]
func (h *SubscriptionHandler) Upgrade(c *fiber.Ctx) error {
	var in dto.UpgradeSubscriptionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Upgrade(c.UserContext(), GetScope(c), in.Plan)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Usage godoc
// @Summary      Uso del plan
// @Description  Usuarios activos y almacenamiento frente a los cupos de la empresa.
// @Tags         subscription
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UsageResponse
// @Router       /billing/usage [get]
func (h *SubscriptionHandler) Usage(c *fiber.Ctx) error {
	out, err := h.uc.Usage(c.UserContext(), GetScope(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *SubscriptionHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.UserContext(), GetScope(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
