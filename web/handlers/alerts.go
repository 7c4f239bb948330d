package handlers

import (
	"errors"

	"github.com/cargotrack/database"
	"github.com/cargotrack/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AlertList returns alerts, newest first, with optional filters
func AlertList(c *fiber.Ctx) error {
	db := database.GetDB()

	query := db.Model(&models.Alert{})
	if alertType := c.Query("type"); alertType != "" {
		query = query.Where("alert_type = ?", alertType)
	}
	if severity := c.Query("severity"); severity != "" {
		query = query.Where("severity = ?", severity)
	}
	if c.Query("unresolved") == "true" {
		query = query.Where("is_resolved = ?", false)
	}
	if c.Query("unread") == "true" {
		query = query.Where("is_read = ?", false)
	}

	var alerts []models.Alert
	if err := query.Order("created_at DESC").Find(&alerts).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load alerts: "+err.Error())
	}
	return c.JSON(fiber.Map{
		"count":  len(alerts),
		"alerts": alerts,
	})
}

// AlertEvaluate runs the alerting rules on demand
func AlertEvaluate(c *fiber.Ctx) error {
	summary, err := database.EvaluateAlerts(database.GetDB(), capacityThreshold(), actor(c))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "alert evaluation failed: "+err.Error())
	}
	return c.JSON(summary)
}

// AlertMarkRead flips an alert's read flag
func AlertMarkRead(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := database.MarkAlertRead(database.GetDB(), id, actor(c)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "alert not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"message": "alert marked read"})
}

type resolveRequest struct {
	Notes *string `json:"notes"`
}

// AlertResolve marks an alert resolved
func AlertResolve(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req resolveRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
		}
	}

	alert, err := database.ResolveAlert(database.GetDB(), id, actor(c), req.Notes)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "alert not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(alert)
}
