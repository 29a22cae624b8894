package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Carnet-api/internal/application/audit"
	"github.com/jhoicas/Carnet-api/internal/application/dto"
)

// ActivityHandler expone el wrapper logActivity para eventos disparados desde
// la UI (ej. generación de tarjetas del lado cliente). El actor y la IP se
// completan desde la sesión, nunca desde el cuerpo del request.
type ActivityHandler struct {
	audit *audit.Logger
}

// NewActivityHandler construye el handler de actividad.
func NewActivityHandler(auditLog *audit.Logger) *ActivityHandler {
	return &ActivityHandler{audit: auditLog}
}

// Log godoc
// @Summary      Registrar un evento de actividad con el actor de la sesión
// @Tags         activity
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LogActivityRequest  true  "action, details"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/activity [post]
func (h *ActivityHandler) Log(c *fiber.Ctx) error {
	var in dto.LogActivityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	// Síncrono a propósito: el cliente pidió registrar, el registro ES la
	// operación primaria y su fallo sí debe reportarse.
	err := h.audit.Record(c.Context(), audit.Entry{
		Action:    in.Action,
		UserID:    GetUserID(c),
		UserEmail: GetEmail(c),
		Details:   in.Details,
		IPAddress: c.IP(),
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.MessageResponse{Success: true})
}
