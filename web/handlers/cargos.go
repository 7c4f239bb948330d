package handlers

import (
	"errors"
	"time"

	"github.com/cargotrack/database"
	"github.com/cargotrack/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CargoList returns cargo shipments, filtered by status, supplier, warehouse
// or the delayed flag
func CargoList(c *fiber.Ctx) error {
	db := database.GetDB()

	query := db.Model(&models.Cargo{}).Preload("Supplier").Preload("Warehouse").Preload("Category")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if supplierID := c.QueryInt("supplier_id"); supplierID > 0 {
		query = query.Where("supplier_id = ?", supplierID)
	}
	if warehouseID := c.QueryInt("warehouse_id"); warehouseID > 0 {
		query = query.Where("warehouse_id = ?", warehouseID)
	}
	if c.Query("delayed") == "true" {
		query = query.Where("is_delayed = ?", true)
	}

	var cargos []models.Cargo
	if err := query.Order("dispatch_date DESC").Find(&cargos).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load cargo: "+err.Error())
	}
	return c.JSON(fiber.Map{
		"count":  len(cargos),
		"cargos": cargos,
	})
}

// CargoView returns one cargo with its relationships and status history
func CargoView(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	db := database.GetDB()

	var cargo models.Cargo
	if err := db.Preload("Supplier").Preload("Warehouse").Preload("Category").First(&cargo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "cargo not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var history []models.CargoStatusHistory
	if err := db.Where("cargo_id = ?", id).Order("created_at DESC").Find(&history).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load history: "+err.Error())
	}

	return c.JSON(fiber.Map{
		"cargo":                 cargo,
		"history":               history,
		"estimated_delay_hours": cargo.EstimatedDelayHours(),
	})
}

// CargoTrack looks a cargo up by its public tracking number
func CargoTrack(c *fiber.Ctx) error {
	tracking := c.Params("tracking")
	if tracking == "" {
		return fiber.NewError(fiber.StatusBadRequest, "tracking number required")
	}
	db := database.GetDB()

	var cargo models.Cargo
	err := db.Preload("Supplier").Preload("Warehouse").
		Where("tracking_number = ?", tracking).
		First(&cargo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "no cargo with that tracking number")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var history []models.CargoStatusHistory
	if err := db.Where("cargo_id = ?", cargo.CargoID).Order("created_at DESC").Find(&history).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load history: "+err.Error())
	}

	return c.JSON(fiber.Map{
		"cargo":                 cargo,
		"history":               history,
		"estimated_delay_hours": cargo.EstimatedDelayHours(),
	})
}

// CargoCreate registers a new shipment. The CRG code and tracking number are
// allocated on creation; the delivery metrics derive from the timestamps.
func CargoCreate(c *fiber.Ctx) error {
	var cargo models.Cargo
	if err := c.BodyParser(&cargo); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	if cargo.SupplierID == 0 || cargo.WarehouseID == 0 || cargo.CategoryID == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "supplier_id, warehouse_id and category_id are required")
	}
	if cargo.DispatchDate.IsZero() || cargo.ExpectedArrivalDate.IsZero() {
		return fiber.NewError(fiber.StatusBadRequest, "dispatch_date and expected_arrival_date are required")
	}
	if cargo.Status == "" {
		cargo.Status = models.CargoDispatched
	}
	cargo.CargoID = 0

	if err := database.CreateCargo(database.GetDB(), &cargo, actor(c)); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create cargo: "+err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(cargo)
}

// CargoUpdate edits a cargo's details. The code, tracking number, references
// and status are immutable here; status moves through the status endpoint so
// every change lands in the history.
func CargoUpdate(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	db := database.GetDB()

	var cargo models.Cargo
	if err := db.First(&cargo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "cargo not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	keep := cargo
	if err := c.BodyParser(&cargo); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	cargo.CargoID = keep.CargoID
	cargo.CargoCode = keep.CargoCode
	cargo.TrackingNumber = keep.TrackingNumber
	cargo.SupplierID = keep.SupplierID
	cargo.WarehouseID = keep.WarehouseID
	cargo.CategoryID = keep.CategoryID
	cargo.Status = keep.Status
	cargo.CreatedAt = keep.CreatedAt
	cargo.CreatedBy = keep.CreatedBy
	who := actor(c)
	cargo.UpdatedBy = &who

	if err := db.Save(&cargo).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to update cargo: "+err.Error())
	}
	return c.JSON(cargo)
}

// CargoHistory returns the full status trail of a cargo
func CargoHistory(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	db := database.GetDB()

	var cargo models.Cargo
	if err := db.Select("cargo_id").First(&cargo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "cargo not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var history []models.CargoStatusHistory
	if err := db.Where("cargo_id = ?", id).Order("created_at").Find(&history).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load history: "+err.Error())
	}
	return c.JSON(fiber.Map{
		"count":   len(history),
		"history": history,
	})
}

type statusChangeRequest struct {
	Status   models.CargoStatus `json:"status"`
	Reason   *string            `json:"reason"`
	Location *string            `json:"location"`
	Remarks  *string            `json:"remarks"`
}

// CargoChangeStatus moves a cargo to a new status, recording the transition
func CargoChangeStatus(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req statusChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	if req.Status == "" {
		return fiber.NewError(fiber.StatusBadRequest, "status is required")
	}

	change := database.StatusChange{Reason: req.Reason, Location: req.Location, Remarks: req.Remarks}
	cargo, err := database.ChangeCargoStatus(database.GetDB(), id, req.Status, change, actor(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "cargo not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "status change failed: "+err.Error())
	}
	return c.JSON(cargo)
}

type arrivalRequest struct {
	ArrivedAt time.Time               `json:"arrived_at"`
	Condition models.ArrivalCondition `json:"condition"`
}

// CargoRecordArrival stamps a cargo's actual arrival and condition
func CargoRecordArrival(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req arrivalRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	if req.ArrivedAt.IsZero() {
		req.ArrivedAt = time.Now()
	}
	if req.Condition == "" {
		req.Condition = models.ConditionGood
	}

	cargo, err := database.RecordCargoArrival(database.GetDB(), id, req.ArrivedAt, req.Condition, actor(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "cargo not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "arrival recording failed: "+err.Error())
	}
	return c.JSON(fiber.Map{
		"cargo":                 cargo,
		"estimated_delay_hours": cargo.EstimatedDelayHours(),
	})
}

// CargoDelete removes a cargo shipment along with its history and alerts
func CargoDelete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	err = database.DeleteCargo(database.GetDB(), id)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.NewError(fiber.StatusNotFound, "cargo not found")
	case err != nil:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"message": "cargo deleted"})
}
