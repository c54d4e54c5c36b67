package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Produccion-api/internal/application/planning"
)

// PlanningHandler expone las sugerencias de producción.
type PlanningHandler struct {
	uc *planning.SuggestionUseCase
}

// NewPlanningHandler construye el handler.
func NewPlanningHandler(uc *planning.SuggestionUseCase) *PlanningHandler {
	return &PlanningHandler{uc: uc}
}

// Suggestions godoc
// @Summary      Sugerencia de producción
// @Description  Calcula cuántas unidades de cada producto fabricar con el stock actual, priorizando los de mayor valor.
// @Tags         production-planning
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ProductionSuggestionResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/production-planning/suggestions [get]
func (h *PlanningHandler) Suggestions(c *fiber.Ctx) error {
	out, err := h.uc.Suggest(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SuggestionsPDF godoc
// @Summary      Sugerencia de producción en PDF
// @Tags         production-planning
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/production-planning/suggestions/pdf [get]
func (h *PlanningHandler) SuggestionsPDF(c *fiber.Ctx) error {
	body, filename, err := h.uc.SuggestPDF(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(body)
}
