package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Carnet-api/internal/application/audit"
	"github.com/jhoicas/Carnet-api/internal/application/auth"
	"github.com/jhoicas/Carnet-api/internal/application/authz"
	"github.com/jhoicas/Carnet-api/internal/application/card"
	"github.com/jhoicas/Carnet-api/internal/application/employee"
	infrapdf "github.com/jhoicas/Carnet-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Carnet-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Carnet-api/internal/infrastructure/rediscache"
	httpRouter "github.com/jhoicas/Carnet-api/internal/interfaces/http"
	"github.com/jhoicas/Carnet-api/pkg/config"
	"github.com/jhoicas/Carnet-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	profileRepo := postgres.NewProfileRepository(pool)
	activityRepo := postgres.NewActivityRepository(pool)
	employeeRepo := postgres.NewEmployeeRepository(pool)

	auditLog := audit.New(activityRepo, log)

	// Cache de snapshots de sesión: opcional, la app funciona sin Redis.
	var cache auth.SessionCache
	if c := rediscache.New(cfg.Redis, log); c != nil {
		cache = c
	}

	authUC := auth.NewAuthUseCase(userRepo, profileRepo, auditLog, cache, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)
	authzSvc := authz.NewService(userRepo, profileRepo, auditLog, cache)
	employeeUC := employee.NewUseCase(employeeRepo, auditLog)

	cardRenderer := infrapdf.NewMarotoCardRenderer(cfg.App.Name)
	cardUC := card.NewUseCase(employeeRepo, cardRenderer, auditLog)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Carnet API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		AuthzSvc:   authzSvc,
		AuditLog:   auditLog,
		EmployeeUC: employeeUC,
		CardUC:     cardUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("apagando servidor")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("shutdown HTTP")
	}
	// Drenar escrituras de actividad en vuelo antes de cerrar el pool.
	auditLog.Drain()
	log.Info().Msg("servidor detenido")
}
