package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"newsarchive/internal/config"
	"newsarchive/internal/middleware"
)

// SetupRoutes configures all the routes for the preview server
func SetupRoutes(app *fiber.App, cfg *config.Config) error {
	handlers, err := NewHandlers(cfg)
	if err != nil {
		return err
	}

	// Middleware
	app.Use(recover.New())
	app.Use(middleware.RequestLogger())

	// Generated site data is also browsable directly
	app.Static("/", cfg.OutputDir)

	// API group with versioning
	api := app.Group("/api/v1")

	api.Get("/health", handlers.HealthCheck)

	api.Get("/archive", handlers.GetArchive)
	api.Get("/recent", handlers.GetRecent)
	api.Get("/search", handlers.GetSearch)
	api.Get("/day/:date", handlers.GetDay)

	// Admin endpoints (key-protected)
	admin := api.Group("/admin", middleware.AdminOnly(cfg.AdminAPIKey))
	{
		admin.Post("/rebuild", handlers.Rebuild)
	}

	// 404 Handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
		})
	})

	return nil
}
