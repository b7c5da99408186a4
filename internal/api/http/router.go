package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-core/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-core/internal/auth"
	"github.com/spec-kit/helpdesk-core/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Complaints     *handlers.ComplaintsHandler
	Reports        *handlers.ReportsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	api := app.Group("/api", cfg.AuthMiddleware.Handle)
	api.Get("/auth/me", cfg.Auth.Me)

	api.Get("/catalog", cfg.Tickets.Catalog)
	api.Get("/technicians", cfg.Tickets.Technicians)

	tickets := api.Group("/tickets")
	tickets.Post("", auth.RequireRole(domain.RoleWorker, domain.RoleAdmin), cfg.Tickets.Create)
	tickets.Get("", cfg.Tickets.List)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Get("/:id/history", cfg.Tickets.History)
	tickets.Post("/:id/assign", auth.RequireRole(domain.RoleTechnician, domain.RoleAdmin), cfg.Tickets.Assign)
	tickets.Post("/:id/transition", auth.RequireRole(domain.RoleTechnician, domain.RoleAdmin), cfg.Tickets.Transition)
	tickets.Put("/:id/state", auth.RequireAdmin(), cfg.Tickets.AdminSetState)
	tickets.Post("/:id/cancel", cfg.Tickets.Cancel)
	tickets.Post("/:id/rating", auth.RequireRole(domain.RoleWorker), cfg.Tickets.Rate)
	tickets.Put("/:id/solution", auth.RequireRole(domain.RoleTechnician, domain.RoleAdmin), cfg.Tickets.SaveSolution)
	tickets.Post("/:id/complaints", auth.RequireRole(domain.RoleWorker), cfg.Complaints.File)

	api.Get("/complaints", cfg.Complaints.List)
	api.Post("/complaints/:id/resolve", auth.RequireAdmin(), cfg.Complaints.Resolve)

	stats := api.Group("/stats")
	stats.Get("", cfg.Reports.Stats)
	stats.Get("/dashboard", cfg.Reports.Dashboard)
	stats.Get("/satisfaction", cfg.Reports.Satisfaction)
	stats.Get("/complaints", cfg.Reports.ComplaintStats)

	api.Get("/reports/export", cfg.Reports.Export)
	api.Get("/diagnostics", auth.RequireAdmin(), cfg.Reports.Diagnostics)
}
