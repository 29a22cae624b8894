package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Carnet-api/internal/application/auth"
	"github.com/jhoicas/Carnet-api/internal/application/dto"
	"github.com/jhoicas/Carnet-api/internal/domain"
	pkgjwt "github.com/jhoicas/Carnet-api/pkg/jwt"
)

// Local key para el rol efectivo ya resuelto.
const LocalEffectiveRole = "effective_role"

// sessionResolver es el contrato mínimo que necesita el middleware para
// resolver el rol efectivo. Lo implementa *auth.AuthUseCase; la interfaz
// mantiene el middleware testeable sin DB.
type sessionResolver interface {
	Resolve(ctx context.Context, claims *pkgjwt.Claims) (*auth.Snapshot, error)
}

// RequireRole devuelve un middleware Fiber que resuelve el rol efectivo de la
// sesión (claim del token primero, perfil como respaldo, bloqueo por encima
// de todo) y lo compara contra los roles permitidos. Sin argumentos exige
// cualquier rol efectivo no vacío. Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 401 Unauthorized → sin claims en el contexto (falta AuthMiddleware).
//   - 403 BLOCKED      → cuenta bloqueada; la sesión se considera terminada
//     y ningún rol se expone, ni siquiera transitoriamente.
//   - 403 PERMISSION_DENIED → rol efectivo vacío o fuera del conjunto
//     permitido (mensaje distinto de "no autenticado").
func RequireRole(resolver sessionResolver, roles ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *fiber.Ctx) error {
		claims := GetClaims(c)
		if claims == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHENTICATED",
				Message: "se requiere sesión activa",
			})
		}
		snap, err := resolver.Resolve(c.Context(), claims)
		if err != nil {
			if errors.Is(err, domain.ErrBlocked) {
				return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
					Code:    "BLOCKED",
					Message: "Tu cuenta ha sido bloqueada. Contacta al administrador.",
				})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHENTICATED",
				Message: "se requiere sesión activa",
			})
		}
		if snap.EffectiveRole == "" || (len(allowed) > 0 && !allowed[snap.EffectiveRole]) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "PERMISSION_DENIED",
				Message: "privilegios insuficientes para esta operación",
			})
		}
		c.Locals(LocalEffectiveRole, snap.EffectiveRole)
		return c.Next()
	}
}

// GetEffectiveRole devuelve el rol efectivo resuelto por RequireRole.
func GetEffectiveRole(c *fiber.Ctx) string {
	return localString(c, LocalEffectiveRole)
}
