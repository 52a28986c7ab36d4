package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/DavidK2709/dcbot/internal/api/handlers"
	"github.com/DavidK2709/dcbot/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Everything below /tickets is
// read-only; mutations happen exclusively through the chat platform.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	protected := app.Group("/tickets", cfg.AuthMiddleware.Handle,
		auth.RequireRole(auth.RoleAdmin, auth.RoleViewer))
	protected.Get("/", cfg.Tickets.List)
	protected.Get("/:channelId", cfg.Tickets.Get)
}
