package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Carnet-api/internal/application/authz"
	"github.com/jhoicas/Carnet-api/internal/application/dto"
	pkgjwt "github.com/jhoicas/Carnet-api/pkg/jwt"
)

// Locals keys para los claims del token en Fiber.
const (
	LocalUserID    = "user_id"
	LocalEmail     = "email"
	LocalClaimRole = "claim_role"
	LocalClaims    = "claims"
)

// AuthMiddleware valida el Bearer Token JWT y carga sus claims a c.Locals.
// Solo autentica: la resolución de rol efectivo la hace RequireRole.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := pkgjwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalEmail, claims.Email)
		c.Locals(LocalClaimRole, claims.Role)
		c.Locals(LocalClaims, claims)
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	return localString(c, LocalUserID)
}

// GetEmail devuelve el email del contexto (después del middleware de auth).
func GetEmail(c *fiber.Ctx) string {
	return localString(c, LocalEmail)
}

// GetClaimRole devuelve el claim de rol del token (puede ser vacío). No es el
// rol efectivo: ese lo calcula RequireRole.
func GetClaimRole(c *fiber.Ctx) string {
	return localString(c, LocalClaimRole)
}

// GetClaims devuelve los claims completos del token, o nil si no hay sesión.
func GetClaims(c *fiber.Ctx) *pkgjwt.Claims {
	v := c.Locals(LocalClaims)
	if v == nil {
		return nil
	}
	claims, _ := v.(*pkgjwt.Claims)
	return claims
}

// Actor construye el actor de una mutación privilegiada desde la sesión
// actual, incluyendo la dirección de origen best-effort.
func Actor(c *fiber.Ctx) authz.Actor {
	return authz.Actor{
		UserID: GetUserID(c),
		Email:  GetEmail(c),
		IP:     c.IP(),
	}
}

func localString(c *fiber.Ctx, key string) string {
	v := c.Locals(key)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
