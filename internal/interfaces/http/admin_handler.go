package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Carnet-api/internal/application/audit"
	"github.com/jhoicas/Carnet-api/internal/application/authz"
	"github.com/jhoicas/Carnet-api/internal/application/dto"
	"github.com/jhoicas/Carnet-api/internal/domain/repository"
)

// AdminHandler maneja las mutaciones administrativas sobre cuentas y el
// listado del registro de actividad.
type AdminHandler struct {
	authz *authz.Service
	audit *audit.Logger
}

// NewAdminHandler construye el handler de administración.
func NewAdminHandler(authzSvc *authz.Service, auditLog *audit.Logger) *AdminHandler {
	return &AdminHandler{authz: authzSvc, audit: auditLog}
}

// SetRole godoc
// @Summary      Cambiar el rol de un usuario (solo admin por perfil)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID del usuario target"
// @Param        body  body  dto.SetRoleRequest  true  "role: admin | employee"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/admin/users/{id}/role [put]
func (h *AdminHandler) SetRole(c *fiber.Ctx) error {
	var in dto.SetRoleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	msg, err := h.authz.SetRole(c.Context(), Actor(c), c.Params("id"), in.Role)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: msg})
}

// SetBlocked godoc
// @Summary      Bloquear o desbloquear una cuenta (solo admin)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del usuario target"
// @Param        body  body  dto.SetBlockedRequest  true  "blocked"
// @Success      200   {object}  dto.MessageResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/admin/users/{id}/blocked [put]
func (h *AdminHandler) SetBlocked(c *fiber.Ctx) error {
	var in dto.SetBlockedRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.authz.SetBlocked(c.Context(), Actor(c), c.Params("id"), in.Blocked); err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.MessageResponse{Success: true})
}

// ListUsers godoc
// @Summary      Listar usuarios con su perfil (solo admin)
// @Tags         admin
// @Produce      json
// @Param        limit   query  int  false  "máximo de filas"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}   dto.UserSummary
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/users [get]
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err == nil {
		page.DefaultPage()
	} else {
		page = dto.PageRequest{Limit: 20}
	}
	users, profiles, err := h.authz.ListUsers(c.Context(), Actor(c), page.Limit, page.Offset)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.UserSummary, 0, len(users))
	for _, u := range users {
		row := dto.UserSummary{
			ID:          u.ID,
			Email:       u.Email,
			DisplayName: u.DisplayName,
			ClaimRole:   u.ClaimRole,
			UpdatedAt:   u.UpdatedAt,
		}
		if p, ok := profiles[u.ID]; ok {
			row.Role = p.Role
			row.Blocked = p.Blocked
			row.UpdatedAt = p.UpdatedAt
		}
		out = append(out, row)
	}
	return c.JSON(out)
}

// ListActivity godoc
// @Summary      Listar el registro de actividad (solo admin)
// @Tags         admin
// @Produce      json
// @Param        action  query  string  false  "filtrar por acción"
// @Param        user_id query  string  false  "filtrar por actor"
// @Param        limit   query  int     false  "máximo de filas"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {array}   dto.ActivityResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/activity [get]
func (h *AdminHandler) ListActivity(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		page = dto.PageRequest{}
	}
	page.DefaultPage()
	entries, err := h.audit.List(c.Context(), repository.ActivityFilter{
		Action: c.Query("action"),
		UserID: c.Query("user_id"),
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.ActivityResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.ActivityResponse{
			ID:        e.ID,
			Action:    e.Action,
			UserID:    e.UserID,
			UserEmail: e.UserEmail,
			Details:   e.Details,
			IPAddress: e.IPAddress,
			Timestamp: e.CreatedAt,
		})
	}
	return c.JSON(out)
}
