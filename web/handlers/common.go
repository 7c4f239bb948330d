package handlers

import (
	"strconv"

	"github.com/cargotrack/config"
	"github.com/cargotrack/database"
	"github.com/gofiber/fiber/v2"
)

var cfg *config.Config

// Init wires the loaded configuration into the handler package
func Init(c *config.Config) {
	cfg = c
}

func capacityThreshold() float64 {
	if cfg == nil {
		return database.DefaultCapacityThresholdPct
	}
	return cfg.Alerts.CapacityThresholdPct
}

// actor identifies who performs a mutation for the audit columns. There is
// no auth layer; callers identify themselves with a header.
func actor(c *fiber.Ctx) string {
	if a := c.Get("X-Actor"); a != "" {
		return a
	}
	return "system"
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}
