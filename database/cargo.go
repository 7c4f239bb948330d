package database

import (
	"fmt"
	"time"

	"github.com/cargotrack/models"
	"gorm.io/gorm"
)

// CreateSupplier persists a new supplier, allocating its SUP-YYYY-NNNNN code.
// The code is generated exactly once: a supplier that already carries a code
// keeps it.
func CreateSupplier(db *gorm.DB, supplier *models.Supplier, actor string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if supplier.SupplierCode == "" {
			code, err := NextSequentialID(tx, SupplierIDSpec, time.Now())
			if err != nil {
				return err
			}
			supplier.SupplierCode = code
		}
		supplier.CreatedBy = actor
		return tx.Create(supplier).Error
	})
}

// CreateWarehouse persists a new warehouse, allocating its WH-YYYY-NNNN code
func CreateWarehouse(db *gorm.DB, warehouse *models.Warehouse, actor string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if warehouse.WarehouseCode == "" {
			code, err := NextSequentialID(tx, WarehouseIDSpec, time.Now())
			if err != nil {
				return err
			}
			warehouse.WarehouseCode = code
		}
		warehouse.CreatedBy = actor
		return tx.Create(warehouse).Error
	})
}

// CreateCargo persists a new cargo shipment, allocating its CRG-YYYYMM-NNNNNN
// code. The tracking number and the derived delivery fields are filled in by
// the model hooks.
func CreateCargo(db *gorm.DB, cargo *models.Cargo, actor string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if cargo.CargoCode == "" {
			code, err := NextSequentialID(tx, CargoIDSpec, time.Now())
			if err != nil {
				return err
			}
			cargo.CargoCode = code
		}
		cargo.CreatedBy = actor
		return tx.Create(cargo).Error
	})
}

// DeleteCargo removes a cargo shipment together with its status history and
// alerts. History rows follow their cargo; they are immutable, not orphanable.
func DeleteCargo(db *gorm.DB, cargoID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cargo_id = ?", cargoID).Delete(&models.CargoStatusHistory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("cargo_id = ?", cargoID).Delete(&models.Alert{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Cargo{}, cargoID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// StatusChange carries the optional context recorded with a cargo status
// transition
type StatusChange struct {
	Reason   *string
	Location *string
	Remarks  *string
}

// ChangeCargoStatus moves a cargo to a new status and appends the transition
// to cargo_status_history in the same transaction. Statuses form no enforced
// graph; any status may follow any other. Saving the cargo re-derives its
// delivery metrics.
func ChangeCargoStatus(db *gorm.DB, cargoID uint, to models.CargoStatus, change StatusChange, actor string) (*models.Cargo, error) {
	var cargo models.Cargo
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&cargo, cargoID).Error; err != nil {
			return err
		}

		from := cargo.Status
		if from == to {
			return nil
		}

		history := models.CargoStatusHistory{
			CargoID:      cargo.CargoID,
			FromStatus:   from,
			ToStatus:     to,
			ChangeReason: change.Reason,
			Location:     change.Location,
			Remarks:      change.Remarks,
			ChangedBy:    actor,
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("record status history: %w", err)
		}

		cargo.Status = to
		cargo.UpdatedBy = &actor
		return tx.Save(&cargo).Error
	})
	if err != nil {
		return nil, err
	}
	return &cargo, nil
}

// RecordCargoArrival stamps the actual arrival of a cargo and its condition,
// then saves so the delay/duration fields are recomputed.
func RecordCargoArrival(db *gorm.DB, cargoID uint, arrivedAt time.Time, condition models.ArrivalCondition, actor string) (*models.Cargo, error) {
	var cargo models.Cargo
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&cargo, cargoID).Error; err != nil {
			return err
		}

		cargo.ActualArrivalDate = &arrivedAt
		cargo.ConditionOnArrival = &condition
		cargo.UpdatedBy = &actor
		if err := tx.Save(&cargo).Error; err != nil {
			return err
		}

		if cargo.Status != models.CargoArrived {
			history := models.CargoStatusHistory{
				CargoID:    cargo.CargoID,
				FromStatus: cargo.Status,
				ToStatus:   models.CargoArrived,
				ChangedBy:  actor,
			}
			if err := tx.Create(&history).Error; err != nil {
				return fmt.Errorf("record status history: %w", err)
			}
			cargo.Status = models.CargoArrived
			return tx.Save(&cargo).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &cargo, nil
}

// DeleteSupplier removes a supplier unless cargo still references it
func DeleteSupplier(db *gorm.DB, supplierID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Cargo{}).Where("supplier_id = ?", supplierID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrSupplierInUse
		}

		// The derived performance row goes with its supplier
		if err := tx.Where("supplier_id = ?", supplierID).Delete(&models.SupplierPerformance{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Supplier{}, supplierID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// DeleteWarehouse removes a warehouse unless cargo still references it
func DeleteWarehouse(db *gorm.DB, warehouseID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Cargo{}).Where("warehouse_id = ?", warehouseID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrWarehouseInUse
		}

		result := tx.Delete(&models.Warehouse{}, warehouseID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// DeleteCounty removes a county unless suppliers or warehouses still sit in it
func DeleteCounty(db *gorm.DB, countyID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var supplierCount, warehouseCount int64
		if err := tx.Model(&models.Supplier{}).Where("county_id = ?", countyID).Count(&supplierCount).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Warehouse{}).Where("county_id = ?", countyID).Count(&warehouseCount).Error; err != nil {
			return err
		}
		if supplierCount > 0 || warehouseCount > 0 {
			return ErrCountyInUse
		}

		result := tx.Delete(&models.County{}, countyID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// DeleteCargoCategory removes a category unless cargo still references it
func DeleteCargoCategory(db *gorm.DB, categoryID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Cargo{}).Where("category_id = ?", categoryID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrCategoryInUse
		}

		result := tx.Delete(&models.CargoCategory{}, categoryID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
