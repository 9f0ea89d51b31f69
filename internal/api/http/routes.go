package httpapi

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/comfort-ranking/internal/weather"
)

// RequestTimeout bounds how long a handler waits on its user context. Fiber
// does not cancel the user context when a client goes away, so this deadline
// is the only thing that stops a request from waiting on a slow ranking.
func RequestTimeout(d time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), d)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	api := app.Group("/api")

	// Ranked cities, most comfortable first. Cities that could not be
	// fetched are simply absent.
	api.Get("/weather", func(c *fiber.Ctx) error {
		ranked, err := service.Ranking(c.UserContext())
		if err != nil {
			// Deadline passed; the ranking keeps building and lands in the cache.
			return fiber.NewError(fiber.StatusServiceUnavailable, "ranking unavailable, retry shortly")
		}
		return c.JSON(ranked)
	})

	api.Get("/cache-status", func(c *fiber.Ctx) error {
		return c.JSON(service.CacheStatus())
	})
}
