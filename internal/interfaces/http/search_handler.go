package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/SalesERP-api/internal/application/sales"
)

// SearchHandler búsqueda global.
type SearchHandler struct {
	uc *sales.SearchUseCase
}

func NewSearchHandler(uc *sales.SearchUseCase) *SearchHandler {
	return &SearchHandler{uc: uc}
}

// Search godoc
// @Summary      Búsqueda global
// @Description  Hasta 10 resultados por tipo: leads, clientes, productos, cotizaciones y facturas.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        q    query  string  true  "término"
// @Success      200  {object}  dto.SearchResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /sales/search [get]
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	out, err := h.uc.Search(c.UserContext(), GetScope(c), c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
