package database

import (
	"fmt"
	"time"

	"github.com/cargotrack/models"
	"gorm.io/gorm"
)

// DefaultCapacityThresholdPct is the warehouse utilization percentage at or
// above which the capacity rule fires when no override is configured
const DefaultCapacityThresholdPct = 85.0

// AlertEvaluation summarizes one rule evaluation pass
type AlertEvaluation struct {
	DelayAlerts    int `json:"delay_alerts"`
	CapacityAlerts int `json:"capacity_alerts"`
}

// EvaluateAlerts runs the alerting rules over current cargo and warehouse
// state and creates the missing alerts. Both rules deduplicate: a cargo or
// warehouse with an open (unresolved) alert of the same type never gets a
// second one. Evaluation only creates alerts; resolution is a separate
// operation.
func EvaluateAlerts(db *gorm.DB, capacityThresholdPct float64, actor string) (AlertEvaluation, error) {
	if capacityThresholdPct <= 0 {
		capacityThresholdPct = DefaultCapacityThresholdPct
	}

	var summary AlertEvaluation
	err := db.Transaction(func(tx *gorm.DB) error {
		created, err := evaluateDelayRule(tx, actor)
		if err != nil {
			return err
		}
		summary.DelayAlerts = created

		created, err = evaluateCapacityRule(tx, capacityThresholdPct, actor)
		if err != nil {
			return err
		}
		summary.CapacityAlerts = created
		return nil
	})
	return summary, err
}

// evaluateDelayRule raises a warning for every delayed cargo without an open
// delay alert
func evaluateDelayRule(tx *gorm.DB, actor string) (int, error) {
	var delayed []models.Cargo
	if err := tx.Preload("Supplier").Where("is_delayed = ?", true).Find(&delayed).Error; err != nil {
		return 0, fmt.Errorf("load delayed cargo: %w", err)
	}

	created := 0
	for i := range delayed {
		cargo := &delayed[i]

		var open int64
		err := tx.Model(&models.Alert{}).
			Where("cargo_id = ? AND alert_type = ? AND is_resolved = ?", cargo.CargoID, models.AlertDelay, false).
			Count(&open).Error
		if err != nil {
			return created, err
		}
		if open > 0 {
			continue
		}

		alert := models.Alert{
			AlertType:   models.AlertDelay,
			Severity:    models.SeverityWarning,
			Title:       fmt.Sprintf("Delivery Delay - %s", cargo.CargoCode),
			Message:     fmt.Sprintf("Cargo %s from %s is delayed by %.1f hours.", cargo.CargoCode, cargo.Supplier.Name, cargo.EstimatedDelayHours()),
			CargoID:     &cargo.CargoID,
			SupplierID:  &cargo.SupplierID,
			WarehouseID: &cargo.WarehouseID,
		}
		alert.CreatedBy = actor
		if err := tx.Create(&alert).Error; err != nil {
			return created, fmt.Errorf("create delay alert for %s: %w", cargo.CargoCode, err)
		}
		created++
	}
	return created, nil
}

// evaluateCapacityRule raises a warning for every active warehouse at or
// above the utilization threshold without an open capacity alert
func evaluateCapacityRule(tx *gorm.DB, thresholdPct float64, actor string) (int, error) {
	var warehouses []models.Warehouse
	if err := tx.Where("is_active = ?", true).Find(&warehouses).Error; err != nil {
		return 0, fmt.Errorf("load warehouses: %w", err)
	}

	created := 0
	for i := range warehouses {
		wh := &warehouses[i]
		utilization := wh.UtilizationPercentage()
		if utilization < thresholdPct {
			continue
		}

		var open int64
		err := tx.Model(&models.Alert{}).
			Where("warehouse_id = ? AND alert_type = ? AND is_resolved = ?", wh.WarehouseID, models.AlertCapacity, false).
			Count(&open).Error
		if err != nil {
			return created, err
		}
		if open > 0 {
			continue
		}

		alert := models.Alert{
			AlertType:   models.AlertCapacity,
			Severity:    models.SeverityWarning,
			Title:       fmt.Sprintf("Warehouse Capacity Warning - %s", wh.Name),
			Message:     fmt.Sprintf("%s is at %.1f%% capacity.", wh.Name, utilization),
			WarehouseID: &wh.WarehouseID,
		}
		alert.CreatedBy = actor
		if err := tx.Create(&alert).Error; err != nil {
			return created, fmt.Errorf("create capacity alert for %s: %w", wh.WarehouseCode, err)
		}
		created++
	}
	return created, nil
}

// ResolveAlert marks an alert resolved. Resolving an already-resolved alert
// is a no-op.
func ResolveAlert(db *gorm.DB, alertID uint, actor string, notes *string) (*models.Alert, error) {
	var alert models.Alert
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&alert, alertID).Error; err != nil {
			return err
		}
		if alert.IsResolved {
			return nil
		}

		now := time.Now()
		alert.IsResolved = true
		alert.ResolvedAt = &now
		alert.ResolvedBy = &actor
		alert.ResolutionNotes = notes
		alert.UpdatedBy = &actor
		return tx.Save(&alert).Error
	})
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

// MarkAlertRead flips the read flag on an alert
func MarkAlertRead(db *gorm.DB, alertID uint, actor string) error {
	result := db.Model(&models.Alert{}).
		Where("alert_id = ?", alertID).
		Updates(map[string]interface{}{"is_read": true, "updated_by": actor})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
