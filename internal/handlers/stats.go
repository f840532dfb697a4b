package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/mreeves/fosterhub/internal/cache"
	"github.com/mreeves/fosterhub/internal/service"
)

// StatsHandler serves the current directory metrics
func StatsHandler(metrics *service.MetricsService, c2 *cache.Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		key := cache.Key("stats", "current")
		if cached, ok := c2.GetStats(key); ok {
			return c.JSON(cached)
		}

		m, err := metrics.Calculate(ctx)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error loading stats"})
		}

		c2.SetStats(key, m)
		return c.JSON(m)
	}
}

// StatsHistoryHandler serves stored metrics snapshots, newest first
func StatsHistoryHandler(metrics *service.MetricsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		limit := c.QueryInt("limit", 30)
		if limit < 1 || limit > 365 {
			limit = 30
		}

		snapshots, err := metrics.History(ctx, limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error loading stats history"})
		}
		return c.JSON(fiber.Map{"snapshots": snapshots})
	}
}
