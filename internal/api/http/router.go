package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/http/handlers"
	"github.com/spec-kit/support-desk/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Tickets   *handlers.TicketsHandler
	Agents    *handlers.AgentsHandler
	Customers *handlers.CustomersHandler
	Metrics   *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	tickets := app.Group("/tickets")
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Put("/:id/status", cfg.Tickets.UpdateStatus)
	tickets.Put("/:id/reassign", cfg.Tickets.Reassign)

	agents := app.Group("/agents")
	agents.Post("/", cfg.Agents.CreateAgent)
	agents.Get("/", cfg.Agents.ListAgents)
	agents.Get("/:id", cfg.Agents.GetAgent)
	agents.Get("/:id/tickets", cfg.Tickets.ListByAgent)
	agents.Get("/:id/tickets/resolved", cfg.Tickets.ListResolvedByAgent)
	agents.Get("/:id/tickets/assigned", cfg.Tickets.ListAssignedBetween)

	customers := app.Group("/customers")
	customers.Post("/", cfg.Customers.CreateCustomer)
	customers.Get("/:id", cfg.Customers.GetCustomer)
	customers.Get("/:id/tickets", cfg.Tickets.ListByCustomer)

	if cfg.Metrics != nil {
		app.Get("/metrics", func(c *fiber.Ctx) error {
			requests, errs := cfg.Metrics.Snapshot()
			return c.JSON(fiber.Map{"requests": requests, "errors": errs})
		})
	}
}
