package handlers

import (
	"errors"

	"github.com/cargotrack/database"
	"github.com/cargotrack/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SupplierList returns suppliers, optionally filtered by status, type,
// county or a name search
func SupplierList(c *fiber.Ctx) error {
	db := database.GetDB()

	query := db.Model(&models.Supplier{}).Preload("County")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if supplierType := c.Query("type"); supplierType != "" {
		query = query.Where("supplier_type = ?", supplierType)
	}
	if countyID := c.QueryInt("county_id"); countyID > 0 {
		query = query.Where("county_id = ?", countyID)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	var suppliers []models.Supplier
	if err := query.Order("supplier_code").Find(&suppliers).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load suppliers: "+err.Error())
	}

	return c.JSON(fiber.Map{
		"count":     len(suppliers),
		"suppliers": suppliers,
	})
}

// SupplierView returns one supplier with its performance row
func SupplierView(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	db := database.GetDB()

	var supplier models.Supplier
	if err := db.Preload("County").First(&supplier, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "supplier not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	response := fiber.Map{"supplier": supplier}

	var perf models.SupplierPerformance
	err = db.Where("supplier_id = ?", id).First(&perf).Error
	switch {
	case err == nil:
		response["performance"] = perf
	case errors.Is(err, gorm.ErrRecordNotFound):
		response["performance"] = nil
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(response)
}

// SupplierCreate registers a new supplier. The SUP code is allocated by the
// database layer; a code in the request body is kept as-is.
func SupplierCreate(c *fiber.Ctx) error {
	var supplier models.Supplier
	if err := c.BodyParser(&supplier); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	if supplier.Name == "" || supplier.KraPin == "" || supplier.CountyID == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "name, kra_pin and county_id are required")
	}
	if supplier.Status == "" {
		supplier.Status = models.SupplierActive
	}
	supplier.SupplierID = 0
	supplier.ReliabilityScore = 0

	if err := database.CreateSupplier(database.GetDB(), &supplier, actor(c)); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create supplier: "+err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(supplier)
}

// SupplierUpdate edits a supplier's mutable fields. The code, the id and the
// derived reliability score never change here.
func SupplierUpdate(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	db := database.GetDB()

	var supplier models.Supplier
	if err := db.First(&supplier, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "supplier not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	keep := supplier
	if err := c.BodyParser(&supplier); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	supplier.SupplierID = keep.SupplierID
	supplier.SupplierCode = keep.SupplierCode
	supplier.ReliabilityScore = keep.ReliabilityScore
	supplier.CreatedAt = keep.CreatedAt
	supplier.CreatedBy = keep.CreatedBy
	who := actor(c)
	supplier.UpdatedBy = &who

	if err := db.Save(&supplier).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to update supplier: "+err.Error())
	}
	return c.JSON(supplier)
}

// SupplierDelete removes a supplier unless cargo still references it
func SupplierDelete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	err = database.DeleteSupplier(database.GetDB(), id)
	switch {
	case errors.Is(err, database.ErrSupplierInUse):
		return fiber.NewError(fiber.StatusConflict, "supplier has cargo records and cannot be deleted")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.NewError(fiber.StatusNotFound, "supplier not found")
	case err != nil:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"message": "supplier deleted"})
}

// SupplierPerformanceView returns just the performance row for a supplier
func SupplierPerformanceView(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	db := database.GetDB()

	var perf models.SupplierPerformance
	if err := db.Preload("Supplier").Where("supplier_id = ?", id).First(&perf).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "no performance record for supplier")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(perf)
}

// SupplierRecalculate rebuilds one supplier's performance metrics
func SupplierRecalculate(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	perf, err := database.RecalculateSupplierPerformance(database.GetDB(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "supplier not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "recalculation failed: "+err.Error())
	}
	return c.JSON(perf)
}

// SupplierRecalculateAll rebuilds performance metrics for every supplier
func SupplierRecalculateAll(c *fiber.Ctx) error {
	updated, err := database.RecalculateAllSupplierPerformance(database.GetDB())
	if err != nil {
		return c.Status(fiber.StatusMultiStatus).JSON(fiber.Map{
			"updated": updated,
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"updated": updated})
}
