package database

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cargotrack/models"
	"gorm.io/gorm"
)

func TestEvaluateAlertsDelayRule(t *testing.T) {
	db := openTestDB(t)
	f := seedTestFixtures(t, db)

	dispatch := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	// 48h expected, 60h actual: 12h late
	late := createReceivedCargo(t, db, f, dispatch, 48, 60, true)
	// on time, no alert expected
	createReceivedCargo(t, db, f, dispatch.AddDate(0, 0, 1), 48, 40, true)

	summary, err := EvaluateAlerts(db, DefaultCapacityThresholdPct, "test")
	if err != nil {
		t.Fatalf("evaluate alerts: %v", err)
	}
	if summary.DelayAlerts != 1 {
		t.Fatalf("delay alerts created: got %d, want 1", summary.DelayAlerts)
	}

	var alert models.Alert
	if err := db.Where("alert_type = ?", models.AlertDelay).First(&alert).Error; err != nil {
		t.Fatalf("load delay alert: %v", err)
	}
	if alert.CargoID == nil || *alert.CargoID != late.CargoID {
		t.Errorf("alert cargo: got %v, want %d", alert.CargoID, late.CargoID)
	}
	if alert.SupplierID == nil || *alert.SupplierID != f.Supplier.SupplierID {
		t.Errorf("alert supplier: got %v, want %d", alert.SupplierID, f.Supplier.SupplierID)
	}
	if alert.Severity != models.SeverityWarning {
		t.Errorf("alert severity: got %s", alert.Severity)
	}
	if !strings.Contains(alert.Message, "delayed by 12.0 hours") {
		t.Errorf("alert message: %q", alert.Message)
	}
}

func TestEvaluateAlertsDeduplicates(t *testing.T) {
	db := openTestDB(t)
	f := seedTestFixtures(t, db)

	dispatch := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	createReceivedCargo(t, db, f, dispatch, 48, 60, true)

	if _, err := EvaluateAlerts(db, DefaultCapacityThresholdPct, "test"); err != nil {
		t.Fatalf("first evaluation: %v", err)
	}
	second, err := EvaluateAlerts(db, DefaultCapacityThresholdPct, "test")
	if err != nil {
		t.Fatalf("second evaluation: %v", err)
	}
	if second.DelayAlerts != 0 {
		t.Fatalf("second evaluation created %d delay alerts, want 0", second.DelayAlerts)
	}

	var count int64
	db.Model(&models.Alert{}).Where("alert_type = ?", models.AlertDelay).Count(&count)
	if count != 1 {
		t.Fatalf("delay alerts in table: got %d, want 1", count)
	}
}

func TestEvaluateAlertsCapacityRule(t *testing.T) {
	db := openTestDB(t)
	f := seedTestFixtures(t, db)

	// 90% utilization, over the default 85% threshold
	err := db.Model(&models.Warehouse{}).
		Where("warehouse_id = ?", f.Warehouse.WarehouseID).
		Update("current_utilization_sqm", 4500).Error
	if err != nil {
		t.Fatalf("update utilization: %v", err)
	}

	summary, err := EvaluateAlerts(db, DefaultCapacityThresholdPct, "test")
	if err != nil {
		t.Fatalf("evaluate alerts: %v", err)
	}
	if summary.CapacityAlerts != 1 {
		t.Fatalf("capacity alerts created: got %d, want 1", summary.CapacityAlerts)
	}

	var alert models.Alert
	if err := db.Where("alert_type = ?", models.AlertCapacity).First(&alert).Error; err != nil {
		t.Fatalf("load capacity alert: %v", err)
	}
	if alert.WarehouseID == nil || *alert.WarehouseID != f.Warehouse.WarehouseID {
		t.Errorf("alert warehouse: got %v, want %d", alert.WarehouseID, f.Warehouse.WarehouseID)
	}
	if !strings.Contains(alert.Message, "90.0% capacity") {
		t.Errorf("alert message: %q", alert.Message)
	}
}

func TestEvaluateAlertsIgnoresInactiveWarehouses(t *testing.T) {
	db := openTestDB(t)
	f := seedTestFixtures(t, db)

	err := db.Model(&models.Warehouse{}).
		Where("warehouse_id = ?", f.Warehouse.WarehouseID).
		Updates(map[string]interface{}{"current_utilization_sqm": 4900, "is_active": false}).Error
	if err != nil {
		t.Fatalf("update warehouse: %v", err)
	}

	summary, err := EvaluateAlerts(db, DefaultCapacityThresholdPct, "test")
	if err != nil {
		t.Fatalf("evaluate alerts: %v", err)
	}
	if summary.CapacityAlerts != 0 {
		t.Fatalf("capacity alerts created for inactive warehouse: %d", summary.CapacityAlerts)
	}
}

func TestResolveAlertAllowsReEvaluation(t *testing.T) {
	db := openTestDB(t)
	f := seedTestFixtures(t, db)

	dispatch := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	createReceivedCargo(t, db, f, dispatch, 48, 60, true)

	if _, err := EvaluateAlerts(db, DefaultCapacityThresholdPct, "test"); err != nil {
		t.Fatalf("first evaluation: %v", err)
	}

	var alert models.Alert
	if err := db.Where("alert_type = ?", models.AlertDelay).First(&alert).Error; err != nil {
		t.Fatalf("load alert: %v", err)
	}

	notes := "Driver confirmed arrival"
	resolved, err := ResolveAlert(db, alert.AlertID, "ops", &notes)
	if err != nil {
		t.Fatalf("resolve alert: %v", err)
	}
	if !resolved.IsResolved || resolved.ResolvedAt == nil || resolved.ResolvedBy == nil {
		t.Fatalf("alert not fully resolved: %+v", resolved)
	}

	// The cargo is still delayed, so a fresh evaluation opens a new alert
	summary, err := EvaluateAlerts(db, DefaultCapacityThresholdPct, "test")
	if err != nil {
		t.Fatalf("re-evaluation: %v", err)
	}
	if summary.DelayAlerts != 1 {
		t.Fatalf("re-evaluation created %d delay alerts, want 1", summary.DelayAlerts)
	}
}

func TestMarkAlertRead(t *testing.T) {
	db := openTestDB(t)
	f := seedTestFixtures(t, db)

	dispatch := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	createReceivedCargo(t, db, f, dispatch, 48, 60, true)
	if _, err := EvaluateAlerts(db, DefaultCapacityThresholdPct, "test"); err != nil {
		t.Fatalf("evaluate alerts: %v", err)
	}

	var alert models.Alert
	if err := db.First(&alert).Error; err != nil {
		t.Fatalf("load alert: %v", err)
	}

	if err := MarkAlertRead(db, alert.AlertID, "ops"); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if err := db.First(&alert, alert.AlertID).Error; err != nil {
		t.Fatalf("reload alert: %v", err)
	}
	if !alert.IsRead {
		t.Fatalf("alert not marked read")
	}

	if err := MarkAlertRead(db, 99999, "ops"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("missing alert: got %v, want ErrRecordNotFound", err)
	}
}
