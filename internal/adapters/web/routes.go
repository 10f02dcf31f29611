package web

import (
	"github.com/gofiber/fiber/v2"

	"domain-metrics/internal/adapters/session"
)

// SetupRoutes configures the application routes.
func SetupRoutes(app *fiber.App, handlers *Handlers, sessions *session.Store) {
	app.Static("/static", "./static")

	app.Get("/healthz", handlers.Healthz)

	// Stateless: every call gets its own engine.
	app.Get("/api/metrics/:domain", handlers.APIGetMetrics)

	// Pages and htmx partials share the visitor's engine.
	withSession := SessionMiddleware(sessions)
	app.Get("/", withSession, handlers.Home)
	app.Post("/analyze", withSession, handlers.Analyze)
	app.Post("/selection", withSession, handlers.Selection)
	app.Get("/results", withSession, handlers.Results)
}
