package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/vpa-project/vpa-backend/internal/config"
	"github.com/vpa-project/vpa-backend/internal/handlers"
	"github.com/vpa-project/vpa-backend/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	lotHandler *handlers.LotHandler,
	healthHandler *handlers.HealthHandler,
) {
	// Landing page
	app.Get("/", healthHandler.Landing)

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/", healthHandler.Landing)
	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter limit: 10 req/min per IP
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

	// Protected routes (JWT required)
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)

	api.Get("/dashboard", middleware.JWTProtected(cfg), lotHandler.Dashboard)

	lots := api.Group("/lots", middleware.JWTProtected(cfg))
	lots.Post("/", lotHandler.CreateLot)
	lots.Post("/import", lotHandler.ImportLots)
	lots.Get("/:id", lotHandler.GetLot)
	lots.Put("/:id", lotHandler.UpdateLot)
	lots.Delete("/:id", lotHandler.DeleteLot)
	lots.Get("/:id/spots", lotHandler.ListSpots)

	// Admin panel (JWT + admin role)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Get("/lots", lotHandler.AdminListLots)
}
