package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/DavidK2709/dcbot/internal/registry"
)

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	registry    *registry.Registry
	redis       *redis.Client
}

// NewHealthHandler returns a new handler instance. The redis client may
// be nil when the member cache is disabled.
func NewHealthHandler(serviceName, version string, reg *registry.Registry, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, registry: reg, redis: redisClient}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports readiness. Redis is optional, so an unreachable cache is
// reported but never fails the probe.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	depStatus := fiber.Map{
		"tickets": h.registry.Len(),
	}
	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			depStatus["redis"] = err.Error()
		} else {
			depStatus["redis"] = "ok"
		}
	} else {
		depStatus["redis"] = "disabled"
	}

	return c.JSON(fiber.Map{
		"status":       "ready",
		"dependencies": depStatus,
	})
}
