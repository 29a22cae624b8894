package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Carnet-api/internal/application/card"
)

// CardHandler genera la tarjeta de visita de un empleado en PDF.
type CardHandler struct {
	uc *card.UseCase
}

// NewCardHandler construye el handler de tarjetas.
func NewCardHandler(uc *card.UseCase) *CardHandler {
	return &CardHandler{uc: uc}
}

// Generate godoc
// @Summary      Generar la tarjeta de visita de un empleado (PDF)
// @Tags         cards
// @Produce      application/pdf
// @Param        employeeID  path  string  true  "ID del empleado"
// @Success      200  {file}    file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cards/{employeeID} [post]
func (h *CardHandler) Generate(c *fiber.Ctx) error {
	pdf, err := h.uc.Generate(c.Context(), Actor(c), c.Params("employeeID"))
	if err != nil {
		return domainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="visiting-card.pdf"`)
	return c.Send(pdf)
}
