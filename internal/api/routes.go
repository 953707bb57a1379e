package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/verdantpress/blogapi/internal/middleware"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(app *fiber.App, handlers *Handlers, adminAPIKey string) {
	// API group with versioning
	api := app.Group("/api/v1")

	// Health check endpoint
	api.Get("/health", handlers.HealthCheck)

	// Article endpoints
	articles := api.Group("/articles")
	{
		articles.Get("", handlers.ListArticles)
		articles.Get("/:id", handlers.GetArticle)
		articles.Post("", middleware.RequireIdentity(), handlers.CreateArticle)
		articles.Put("/:id", middleware.RequireIdentity(), handlers.UpdateArticle)
		articles.Delete("/:id", middleware.RequireIdentity(), handlers.DeleteArticle)
	}

	// Facet enumeration for category filters
	api.Get("/categories", handlers.ListCategories)

	// The principal's own articles
	api.Get("/my/articles", middleware.RequireIdentity(), handlers.MyArticles)

	// Admin endpoints (identity-provisioning boundary)
	admin := api.Group("/admin", middleware.AdminOnly(adminAPIKey))
	{
		admin.Post("/authors", handlers.UpsertAuthor)
	}

	// 404 Handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
		})
	})
}
