package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/roomfinder-bot/internal/config"
	"github.com/noah-isme/roomfinder-bot/internal/handler"
	"github.com/noah-isme/roomfinder-bot/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	BotHandler *handler.BotHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	// The webhook route is only exposed when updates arrive over HTTP.
	if deps.BotHandler != nil && cfg.Telegram.Mode == config.ModeWebhook {
		deps.BotHandler.Register(api.Group("/telegram"))
	}
}
