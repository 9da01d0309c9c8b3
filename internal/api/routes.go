package api

import (
	"github.com/bilgisen/haxsite/internal/metrics"
	"github.com/bilgisen/haxsite/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(app *fiber.App, handlers *Handlers, m *metrics.Metrics) {
	// Page and form trigger
	app.Get("/", handlers.Page)
	app.Post("/analyze", handlers.AnalyzeForm)

	// API group with versioning
	api := app.Group("/api/v1")

	// Health check endpoint
	api.Get("/health", handlers.HealthCheck)

	// Site endpoints
	api.Get("/site", handlers.GetSite)
	api.Post("/analyze", middleware.ValidateBody[AnalyzeRequest](), handlers.Analyze)

	if m != nil {
		app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	}

	// 404 Handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
		})
	})
}
