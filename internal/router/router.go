package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/escolarhq/escolar-api/internal/config"
	"github.com/escolarhq/escolar-api/internal/handler"
	"github.com/escolarhq/escolar-api/internal/middleware"
	"github.com/escolarhq/escolar-api/internal/models"
	"github.com/escolarhq/escolar-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AccountHandler      *handler.AccountHandler
	CatalogHandler      *handler.CatalogHandler
	EnrollmentHandler   *handler.EnrollmentHandler
	GradingHandler      *handler.GradingHandler
	MoodHandler         *handler.MoodHandler
	DocumentHandler     *handler.DocumentHandler
	OfferingHandler     *handler.OfferingHandler
	NotificationHandler *handler.NotificationHandler
	JWTMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Public authentication routes
	if deps.AccountHandler != nil {
		auth := api.Group("/auth")
		deps.AccountHandler.RegisterAuth(auth)
	}

	// Catalog is public: the registration form lists programs before any
	// session exists.
	if deps.CatalogHandler != nil {
		catalog := api.Group("/catalog")
		deps.CatalogHandler.Register(catalog)
	}

	// Student-facing routes
	student := api.Group("/students/me", jwtMiddleware, middleware.RequireRole(models.RoleStudent))
	if deps.AccountHandler != nil {
		deps.AccountHandler.RegisterProfile(student)
	}
	if deps.EnrollmentHandler != nil {
		deps.EnrollmentHandler.Register(student)
	}
	if deps.MoodHandler != nil {
		deps.MoodHandler.Register(student)
	}
	if deps.DocumentHandler != nil {
		deps.DocumentHandler.Register(student)
	}

	// Teacher-facing routes
	teacher := api.Group("/teachers/me", jwtMiddleware, middleware.RequireRole(models.RoleTeacher))
	if deps.OfferingHandler != nil {
		deps.OfferingHandler.Register(teacher)
	}
	if deps.GradingHandler != nil {
		deps.GradingHandler.Register(teacher)
	}

	// Notifications for any authenticated user
	if deps.NotificationHandler != nil {
		notifications := api.Group("/notifications", jwtMiddleware)
		deps.NotificationHandler.Register(notifications)
	}
}
