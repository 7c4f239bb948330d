package handlers

import (
	"github.com/cargotrack/database"
	"github.com/cargotrack/models"
	"github.com/gofiber/fiber/v2"
)

// Dashboard returns the operational overview: headline counts, the latest
// shipments and the supplier leaderboard
func Dashboard(c *fiber.Ctx) error {
	db := database.GetDB()

	var stats struct {
		TotalSuppliers   int64 `json:"total_suppliers"`
		ActiveSuppliers  int64 `json:"active_suppliers"`
		TotalWarehouses  int64 `json:"total_warehouses"`
		TotalCargos      int64 `json:"total_cargos"`
		InTransit        int64 `json:"in_transit"`
		Delayed          int64 `json:"delayed"`
		Stored           int64 `json:"stored"`
		UnresolvedAlerts int64 `json:"unresolved_alerts"`
	}

	db.Model(&models.Supplier{}).Count(&stats.TotalSuppliers)
	db.Model(&models.Supplier{}).Where("status = ?", models.SupplierActive).Count(&stats.ActiveSuppliers)
	db.Model(&models.Warehouse{}).Where("is_active = ?", true).Count(&stats.TotalWarehouses)
	db.Model(&models.Cargo{}).Count(&stats.TotalCargos)
	db.Model(&models.Cargo{}).Where("status = ?", models.CargoInTransit).Count(&stats.InTransit)
	db.Model(&models.Cargo{}).Where("is_delayed = ?", true).Count(&stats.Delayed)
	db.Model(&models.Cargo{}).Where("status = ?", models.CargoStored).Count(&stats.Stored)
	db.Model(&models.Alert{}).Where("is_resolved = ?", false).Count(&stats.UnresolvedAlerts)

	var recentCargos []models.Cargo
	if err := db.Preload("Supplier").Preload("Warehouse").
		Order("dispatch_date DESC").
		Limit(10).
		Find(&recentCargos).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load recent cargo: "+err.Error())
	}

	var topSuppliers []models.Supplier
	if err := db.Where("status = ?", models.SupplierActive).
		Order("reliability_score DESC").
		Limit(5).
		Find(&topSuppliers).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load top suppliers: "+err.Error())
	}

	var warehouses []models.Warehouse
	if err := db.Where("is_active = ?", true).Order("warehouse_code").Find(&warehouses).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load warehouses: "+err.Error())
	}
	utilization := make([]fiber.Map, 0, len(warehouses))
	for i := range warehouses {
		wh := &warehouses[i]
		utilization = append(utilization, fiber.Map{
			"warehouse_id":           wh.WarehouseID,
			"warehouse_code":         wh.WarehouseCode,
			"name":                   wh.Name,
			"utilization_percentage": wh.UtilizationPercentage(),
		})
	}

	return c.JSON(fiber.Map{
		"stats":                 stats,
		"recent_cargos":         recentCargos,
		"top_suppliers":         topSuppliers,
		"warehouse_utilization": utilization,
	})
}

// GetSQLLogs returns the recent captured SQL statements
func GetSQLLogs(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"count":   database.SQLLogger.Count(),
		"queries": database.SQLLogger.Queries(),
	})
}

// ClearSQLLogs empties the SQL capture buffer
func ClearSQLLogs(c *fiber.Ctx) error {
	database.SQLLogger.Clear()
	return c.JSON(fiber.Map{"message": "SQL logs cleared"})
}
