package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	metaHandler *handlers.MetaHandler,
	reportHandler *handlers.ReportHandler,
	contactHandler *handlers.ContactHandler,
	userHandler *handlers.UserHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)
	api.Get("/meta", metaHandler.Get)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	// JWT middleware is attached per group so public routes stay public.
	jwt := middleware.JWTProtected(cfg)
	api.Post("/auth/logout", jwt, authHandler.Logout)
	api.Get("/me", jwt, middleware.RequireRole(db), authHandler.Me)

	// Citizens: submit and track their own reports
	reports := api.Group("/reports", jwt, middleware.RequireRole(db))
	reports.Post("/", reportHandler.Submit)
	reports.Get("/mine", reportHandler.ListMine)
	reports.Get("/:id", reportHandler.Get)
	reports.Get("/:id/proof", reportHandler.Proof)

	contact := api.Group("/contact", jwt, middleware.RequireRole(db))
	contact.Post("/", contactHandler.Submit)

	// Dashboards shared by both reviewer roles
	review := api.Group("/review", jwt, middleware.RequireRole(db, models.RoleAdmin, models.RoleExternal))
	review.Get("/reports", reportHandler.List)
	review.Get("/reports/stats", reportHandler.Stats)
	review.Get("/contact", contactHandler.List)
	review.Get("/contact/:id/attachment", contactHandler.Attachment)

	// Internal reviewer surface
	admin := api.Group("/admin", jwt, middleware.RequireRole(db, models.RoleAdmin))
	admin.Put("/reports/:id/status", reportHandler.UpdateStatusInternal)
	admin.Put("/users/:id/status", userHandler.SetStatus)

	// External reviewer surface
	external := api.Group("/external", jwt, middleware.RequireRole(db, models.RoleExternal))
	external.Put("/reports/:id/status", reportHandler.UpdateStatusExternal)
}
