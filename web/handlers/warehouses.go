package handlers

import (
	"errors"

	"github.com/cargotrack/database"
	"github.com/cargotrack/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// WarehouseList returns warehouses with their computed utilization
func WarehouseList(c *fiber.Ctx) error {
	db := database.GetDB()

	query := db.Model(&models.Warehouse{}).Preload("County")
	if c.Query("active") == "true" {
		query = query.Where("is_active = ?", true)
	}
	if whType := c.Query("type"); whType != "" {
		query = query.Where("warehouse_type = ?", whType)
	}

	var warehouses []models.Warehouse
	if err := query.Order("warehouse_code").Find(&warehouses).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load warehouses: "+err.Error())
	}

	list := make([]fiber.Map, 0, len(warehouses))
	for i := range warehouses {
		wh := &warehouses[i]
		list = append(list, fiber.Map{
			"warehouse":              wh,
			"utilization_percentage": wh.UtilizationPercentage(),
		})
	}
	return c.JSON(fiber.Map{
		"count":      len(list),
		"warehouses": list,
	})
}

// WarehouseView returns one warehouse and its current cargo counts
func WarehouseView(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	db := database.GetDB()

	var warehouse models.Warehouse
	if err := db.Preload("County").First(&warehouse, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "warehouse not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var heldCount, inboundCount int64
	db.Model(&models.Cargo{}).
		Where("warehouse_id = ? AND status IN ?", id,
			[]models.CargoStatus{models.CargoArrived, models.CargoReceived, models.CargoStored}).
		Count(&heldCount)
	db.Model(&models.Cargo{}).
		Where("warehouse_id = ? AND status IN ?", id,
			[]models.CargoStatus{models.CargoDispatched, models.CargoInTransit}).
		Count(&inboundCount)

	return c.JSON(fiber.Map{
		"warehouse":              warehouse,
		"utilization_percentage": warehouse.UtilizationPercentage(),
		"held_cargo":             heldCount,
		"inbound_cargo":          inboundCount,
	})
}

// WarehouseCreate registers a new warehouse. The WH code is allocated by the
// database layer.
func WarehouseCreate(c *fiber.Ctx) error {
	var warehouse models.Warehouse
	if err := c.BodyParser(&warehouse); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	if warehouse.Name == "" || warehouse.CountyID == 0 || warehouse.TotalCapacitySqm <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "name, county_id and a positive total_capacity_sqm are required")
	}
	warehouse.WarehouseID = 0

	if err := database.CreateWarehouse(database.GetDB(), &warehouse, actor(c)); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create warehouse: "+err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(warehouse)
}

// WarehouseUpdate edits a warehouse. Utilization above capacity is accepted;
// the capacity alert rule reports it.
func WarehouseUpdate(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	db := database.GetDB()

	var warehouse models.Warehouse
	if err := db.First(&warehouse, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "warehouse not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	keep := warehouse
	if err := c.BodyParser(&warehouse); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	warehouse.WarehouseID = keep.WarehouseID
	warehouse.WarehouseCode = keep.WarehouseCode
	warehouse.CreatedAt = keep.CreatedAt
	warehouse.CreatedBy = keep.CreatedBy
	who := actor(c)
	warehouse.UpdatedBy = &who

	if err := db.Save(&warehouse).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to update warehouse: "+err.Error())
	}
	return c.JSON(warehouse)
}

// WarehouseDelete removes a warehouse unless cargo still references it
func WarehouseDelete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	err = database.DeleteWarehouse(database.GetDB(), id)
	switch {
	case errors.Is(err, database.ErrWarehouseInUse):
		return fiber.NewError(fiber.StatusConflict, "warehouse has cargo records and cannot be deleted")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.NewError(fiber.StatusNotFound, "warehouse not found")
	case err != nil:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"message": "warehouse deleted"})
}
