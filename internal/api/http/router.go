package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-service/internal/api/http/handlers"
	"github.com/spec-kit/crm-service/internal/auth"
	"github.com/spec-kit/crm-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Customers      *handlers.CustomersHandler
	Metrics        *handlers.MetricsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Each protected route carries an
// explicit ordered guard chain; the first denial short-circuits it.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	elevated := auth.Chain{auth.RequireRole(domain.RoleAdmin, domain.RoleStaff)}
	adminOnly := auth.Chain{auth.RequireRole(domain.RoleAdmin)}
	selfOrElevated := auth.Chain{auth.RequireSelfOrElevated()}

	app.Get("/metrics", cfg.AuthMiddleware.Handle, adminOnly.Handler(), cfg.Metrics.Snapshot)

	customers := app.Group("/customers", cfg.AuthMiddleware.Handle)
	customers.Post("/", elevated.Handler(), cfg.Customers.Create)
	customers.Get("/", elevated.Handler(), cfg.Customers.List)
	customers.Get("/:customerID", selfOrElevated.Handler(), cfg.Customers.Get)
	customers.Put("/:customerID", elevated.Handler(), cfg.Customers.Update)
	customers.Delete("/:customerID", adminOnly.Handler(), cfg.Customers.Delete)
	customers.Put("/:customerID/follow-up", elevated.Handler(), cfg.Customers.SetFollowUp)
	customers.Post("/:customerID/follow-up/done", elevated.Handler(), cfg.Customers.MarkFollowUpDone)
	customers.Get("/:customerID/history", selfOrElevated.Handler(), cfg.Customers.History)
}
