package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/it-helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/it-helpdesk/internal/auth"
	"github.com/spec-kit/it-helpdesk/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	Auth           *handlers.AuthHandler
	Manager        *handlers.ManagerHandler
	Staff          *handlers.StaffHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	// Public requester surface: no authentication.
	app.Post("/tickets", cfg.Tickets.Submit)
	app.Get("/tickets/status", cfg.Tickets.CheckStatus)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Auth.Logout)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	manager := app.Group("/manager", cfg.AuthMiddleware.Handle, cfg.AuthMiddleware.RequireRole(domain.RoleManager))
	manager.Get("/tickets", cfg.Manager.ListTickets)
	manager.Get("/tickets/stats", cfg.Manager.TicketStats)
	manager.Post("/tickets/:ticketID/assign", cfg.Manager.AssignTicket)

	staff := app.Group("/staff", cfg.AuthMiddleware.Handle, cfg.AuthMiddleware.RequireRole(domain.RoleStaff))
	staff.Get("/tickets", cfg.Staff.ListTickets)
	staff.Post("/tickets/:ticketID/start", cfg.Staff.StartTicket)
	staff.Post("/tickets/:ticketID/resolve", cfg.Staff.ResolveTicket)
}
