package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sheet-analytics/internal/api/http/handlers"
	"github.com/spec-kit/sheet-analytics/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	Datasets *handlers.DatasetsHandler
	Admin    *handlers.AdminHandler
	Guard    *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	upload := app.Group("/upload", cfg.Guard.RequireUser())
	upload.Post("/excel", cfg.Datasets.Upload)

	history := app.Group("/history", cfg.Guard.RequireUser())
	history.Get("/", cfg.Datasets.History)
	history.Get("/:id", cfg.Datasets.Get)
	history.Delete("/:id", cfg.Datasets.Delete)

	admin := app.Group("/admin", cfg.Guard.RequireAdmin())
	admin.Get("/stats", cfg.Admin.Stats)
	admin.Get("/metrics", cfg.Admin.Metrics)
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Patch("/users/:id", cfg.Admin.ModerateUser)
}
