package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/SalesERP-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del dashboard comercial.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Get godoc
// @Summary      Dashboard de la empresa
// @Description  Lee de la cache (TTL 5 min) o recalcula. Un widget que falla queda en cero y la respuesta sigue siendo 200.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardSnapshot
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/v1/dashboard [get]
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	snap, err := h.uc.Get(c.UserContext(), GetScope(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(snap)
}

// Refresh godoc
// @Summary      Invalidar la cache del dashboard
// @Tags         dashboard
// @Security     Bearer
// @Success      204
// @Router       /api/v1/dashboard/refresh [post]
func (h *DashboardHandler) Refresh(c *fiber.Ctx) error {
	if err := h.uc.Refresh(c.UserContext(), GetScope(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
