package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Carnet-api/internal/application/dto"
	"github.com/jhoicas/Carnet-api/internal/domain"
)

// domainError traduce los errores de dominio a respuestas HTTP. El detalle de
// un ErrInternal se queda en el log del servidor: al cliente solo le llega un
// fallo genérico reintentable.
func domainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHENTICATED", Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrPermissionDenied):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "PERMISSION_DENIED", Message: "privilegios insuficientes para esta operación"})
	case errors.Is(err, domain.ErrBlocked):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "BLOCKED", Message: "Tu cuenta ha sido bloqueada. Contacta al administrador."})
	case errors.Is(err, domain.ErrInvalidArgument):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ARGUMENT", Message: err.Error()})
	case errors.Is(err, domain.ErrEmailExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "el email ya está registrado"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno, intente más tarde"})
	}
}
