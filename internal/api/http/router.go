package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/department-service/internal/api/http/handlers"
	"github.com/spec-kit/department-service/internal/auth"
	"github.com/spec-kit/department-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Departments *handlers.DepartmentHandler
	Metrics     *observability.Metrics
	// AuthMiddleware is optional; when nil the department API is open.
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	departments := app.Group("/api/departments")
	read := []fiber.Handler{}
	write := []fiber.Handler{}
	if cfg.AuthMiddleware != nil {
		departments.Use(cfg.AuthMiddleware.Handle)
		read = append(read, auth.RequireAnyRole())
		write = append(write, auth.RequireRole(auth.RoleAdmin, auth.RoleEditor))
	}

	departments.Post("", append(write, cfg.Departments.Create)...)
	departments.Get("", append(read, cfg.Departments.GetAll)...)
	departments.Get("/:id", append(read, cfg.Departments.GetByID)...)
	departments.Put("/:id", append(write, cfg.Departments.Update)...)
	departments.Delete("/:id", append(write, cfg.Departments.Delete)...)
}
