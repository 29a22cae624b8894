package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Carnet-api/internal/application/audit"
	"github.com/jhoicas/Carnet-api/internal/application/auth"
	"github.com/jhoicas/Carnet-api/internal/application/authz"
	"github.com/jhoicas/Carnet-api/internal/application/card"
	"github.com/jhoicas/Carnet-api/internal/application/employee"
	"github.com/jhoicas/Carnet-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	AuthzSvc   *authz.Service
	AuditLog   *audit.Logger
	EmployeeUC *employee.UseCase
	CardUC     *card.UseCase
	JWTSecret  string
}

// Router registra las rutas de la API. Dos niveles de gating: cualquier rol
// efectivo autenticado, y solo admin. El rol efectivo lo resuelve RequireRole
// en cada request (claim del token primero, perfil como respaldo, bloqueo por
// encima de todo).
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Sesión (requiere Bearer Token, sin exigir rol: un usuario recién
	// registrado aún no tiene rol efectivo y debe poder ver su estado,
	// refrescar y cerrar sesión)
	session := authGroup.Group("/", AuthMiddleware(deps.JWTSecret))
	session.Post("/refresh", authHandler.Refresh)
	session.Post("/logout", authHandler.Logout)
	session.Get("/me", authHandler.Me)

	// Rutas protegidas: cualquier rol efectivo
	anyRole := api.Group("/", AuthMiddleware(deps.JWTSecret), RequireRole(deps.AuthUC))

	activityHandler := NewActivityHandler(deps.AuditLog)
	anyRole.Post("/activity", activityHandler.Log)

	employeeHandler := NewEmployeeHandler(deps.EmployeeUC)
	anyRole.Get("/employees", employeeHandler.List)
	anyRole.Get("/employees/:id", employeeHandler.GetByID)

	cardHandler := NewCardHandler(deps.CardUC)
	anyRole.Post("/cards/:employeeID", cardHandler.Generate)

	// Rutas admin: el middleware corta por rol efectivo; la autoridad de
	// claims vuelve a verificar el privilegio leyendo el perfil del
	// invocador (el token puede traer un claim viejo).
	adminOnly := api.Group("/", AuthMiddleware(deps.JWTSecret), RequireRole(deps.AuthUC, entity.RoleAdmin))

	adminHandler := NewAdminHandler(deps.AuthzSvc, deps.AuditLog)
	adminOnly.Get("/admin/users", adminHandler.ListUsers)
	adminOnly.Put("/admin/users/:id/role", adminHandler.SetRole)
	adminOnly.Put("/admin/users/:id/blocked", adminHandler.SetBlocked)
	adminOnly.Get("/admin/activity", adminHandler.ListActivity)

	adminOnly.Post("/employees", employeeHandler.Create)
	adminOnly.Put("/employees/:id", employeeHandler.Update)
	adminOnly.Delete("/employees/:id", employeeHandler.Delete)
}
