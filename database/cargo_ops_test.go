package database

import (
	"errors"
	"testing"
	"time"

	"github.com/cargotrack/models"
	"gorm.io/gorm"
)

func TestChangeCargoStatusAppendsHistory(t *testing.T) {
	db := openTestDB(t)
	f := seedTestFixtures(t, db)

	dispatch := time.Now().Add(-24 * time.Hour)
	cargo := newTestCargo(f, dispatch, dispatch.Add(48*time.Hour))
	if err := CreateCargo(db, &cargo, "test"); err != nil {
		t.Fatalf("create cargo: %v", err)
	}

	location := "Mombasa Road checkpoint"
	updated, err := ChangeCargoStatus(db, cargo.CargoID, models.CargoInTransit, StatusChange{Location: &location}, "ops")
	if err != nil {
		t.Fatalf("change status: %v", err)
	}
	if updated.Status != models.CargoInTransit {
		t.Fatalf("cargo status: got %s, want IN_TRANSIT", updated.Status)
	}

	var history []models.CargoStatusHistory
	if err := db.Where("cargo_id = ?", cargo.CargoID).Order("history_id").Find(&history).Error; err != nil {
		t.Fatalf("load history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history entries: got %d, want 1", len(history))
	}
	if history[0].FromStatus != models.CargoDispatched || history[0].ToStatus != models.CargoInTransit {
		t.Errorf("history transition: %s -> %s", history[0].FromStatus, history[0].ToStatus)
	}
	if history[0].Location == nil || *history[0].Location != location {
		t.Errorf("history location: %v", history[0].Location)
	}
	if history[0].ChangedBy != "ops" {
		t.Errorf("history actor: %q", history[0].ChangedBy)
	}
}

func TestChangeCargoStatusSameStatusIsNoOp(t *testing.T) {
	db := openTestDB(t)
	f := seedTestFixtures(t, db)

	dispatch := time.Now().Add(-24 * time.Hour)
	cargo := newTestCargo(f, dispatch, dispatch.Add(48*time.Hour))
	if err := CreateCargo(db, &cargo, "test"); err != nil {
		t.Fatalf("create cargo: %v", err)
	}

	if _, err := ChangeCargoStatus(db, cargo.CargoID, models.CargoDispatched, StatusChange{}, "ops"); err != nil {
		t.Fatalf("no-op change: %v", err)
	}

	var count int64
	db.Model(&models.CargoStatusHistory{}).Where("cargo_id = ?", cargo.CargoID).Count(&count)
	if count != 0 {
		t.Fatalf("history entries after no-op: got %d, want 0", count)
	}
}

func TestChangeCargoStatusAllowsAnyTransition(t *testing.T) {
	db := openTestDB(t)
	f := seedTestFixtures(t, db)

	dispatch := time.Now().Add(-24 * time.Hour)
	cargo := newTestCargo(f, dispatch, dispatch.Add(48*time.Hour))
	cargo.Status = models.CargoStored
	if err := CreateCargo(db, &cargo, "test"); err != nil {
		t.Fatalf("create cargo: %v", err)
	}

	// Backwards move: stored cargo found damaged during a recount
	updated, err := ChangeCargoStatus(db, cargo.CargoID, models.CargoDamaged, StatusChange{}, "ops")
	if err != nil {
		t.Fatalf("backwards transition rejected: %v", err)
	}
	if updated.Status != models.CargoDamaged {
		t.Fatalf("cargo status: got %s, want DAMAGED", updated.Status)
	}
}

func TestChangeCargoStatusMissingCargo(t *testing.T) {
	db := openTestDB(t)
	seedTestFixtures(t, db)

	_, err := ChangeCargoStatus(db, 99999, models.CargoInTransit, StatusChange{}, "ops")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("got %v, want ErrRecordNotFound", err)
	}
}

func TestRecordCargoArrival(t *testing.T) {
	db := openTestDB(t)
	f := seedTestFixtures(t, db)

	dispatch := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	cargo := newTestCargo(f, dispatch, dispatch.Add(48*time.Hour))
	cargo.Status = models.CargoInTransit
	if err := CreateCargo(db, &cargo, "test"); err != nil {
		t.Fatalf("create cargo: %v", err)
	}

	arrivedAt := dispatch.Add(54 * time.Hour)
	updated, err := RecordCargoArrival(db, cargo.CargoID, arrivedAt, models.ConditionGood, "ops")
	if err != nil {
		t.Fatalf("record arrival: %v", err)
	}

	if updated.Status != models.CargoArrived {
		t.Errorf("cargo status: got %s, want ARRIVED", updated.Status)
	}
	if updated.ActualArrivalDate == nil || !updated.ActualArrivalDate.Equal(arrivedAt) {
		t.Errorf("actual arrival: %v", updated.ActualArrivalDate)
	}
	if updated.ConditionOnArrival == nil || *updated.ConditionOnArrival != models.ConditionGood {
		t.Errorf("arrival condition: %v", updated.ConditionOnArrival)
	}
	if updated.DeliveryDurationHours == nil || *updated.DeliveryDurationHours != 54.0 {
		t.Errorf("delivery duration: %v", updated.DeliveryDurationHours)
	}
	if !updated.IsDelayed {
		t.Errorf("cargo arrived 6h late but not flagged delayed")
	}

	var history models.CargoStatusHistory
	if err := db.Where("cargo_id = ?", cargo.CargoID).First(&history).Error; err != nil {
		t.Fatalf("load history: %v", err)
	}
	if history.FromStatus != models.CargoInTransit || history.ToStatus != models.CargoArrived {
		t.Errorf("history transition: %s -> %s", history.FromStatus, history.ToStatus)
	}
}

func TestDeleteSupplierProtectedByCargo(t *testing.T) {
	db := openTestDB(t)
	f := seedTestFixtures(t, db)

	dispatch := time.Now().Add(-24 * time.Hour)
	cargo := newTestCargo(f, dispatch, dispatch.Add(48*time.Hour))
	if err := CreateCargo(db, &cargo, "test"); err != nil {
		t.Fatalf("create cargo: %v", err)
	}

	if err := DeleteSupplier(db, f.Supplier.SupplierID); !errors.Is(err, ErrSupplierInUse) {
		t.Fatalf("got %v, want ErrSupplierInUse", err)
	}
	if err := DeleteWarehouse(db, f.Warehouse.WarehouseID); !errors.Is(err, ErrWarehouseInUse) {
		t.Fatalf("got %v, want ErrWarehouseInUse", err)
	}
	if err := DeleteCargoCategory(db, f.Category.CategoryID); !errors.Is(err, ErrCategoryInUse) {
		t.Fatalf("got %v, want ErrCategoryInUse", err)
	}

	// Referents survive the refused deletes
	var supplierCount, warehouseCount int64
	db.Model(&models.Supplier{}).Count(&supplierCount)
	db.Model(&models.Warehouse{}).Count(&warehouseCount)
	if supplierCount != 1 || warehouseCount != 1 {
		t.Fatalf("referenced rows deleted: suppliers=%d warehouses=%d", supplierCount, warehouseCount)
	}
}

func TestDeleteSupplierWithoutCargo(t *testing.T) {
	db := openTestDB(t)
	f := seedTestFixtures(t, db)

	// The derived row goes with its supplier
	if _, err := RecalculateSupplierPerformance(db, f.Supplier.SupplierID); err != nil {
		t.Fatalf("recalculate: %v", err)
	}

	if err := DeleteSupplier(db, f.Supplier.SupplierID); err != nil {
		t.Fatalf("delete supplier: %v", err)
	}

	var supplierCount, perfCount int64
	db.Model(&models.Supplier{}).Count(&supplierCount)
	db.Model(&models.SupplierPerformance{}).Count(&perfCount)
	if supplierCount != 0 || perfCount != 0 {
		t.Fatalf("rows remain: suppliers=%d performance=%d", supplierCount, perfCount)
	}
}

func TestDeleteCargoRemovesHistoryAndAlerts(t *testing.T) {
	db := openTestDB(t)
	f := seedTestFixtures(t, db)

	dispatch := time.Now().Add(-72 * time.Hour)
	cargo := createReceivedCargo(t, db, f, dispatch, 48, 60, true)
	if _, err := EvaluateAlerts(db, DefaultCapacityThresholdPct, "tester"); err != nil {
		t.Fatalf("evaluate alerts: %v", err)
	}

	if err := DeleteCargo(db, cargo.CargoID); err != nil {
		t.Fatalf("delete cargo: %v", err)
	}

	var cargoCount, historyCount, alertCount int64
	db.Model(&models.Cargo{}).Count(&cargoCount)
	db.Model(&models.CargoStatusHistory{}).Count(&historyCount)
	db.Model(&models.Alert{}).Count(&alertCount)
	if cargoCount != 0 || historyCount != 0 || alertCount != 0 {
		t.Fatalf("rows remain: cargo=%d history=%d alerts=%d", cargoCount, historyCount, alertCount)
	}

	if err := DeleteCargo(db, cargo.CargoID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("delete missing cargo: got %v", err)
	}
}

func TestDeleteCountyProtectedBySuppliers(t *testing.T) {
	db := openTestDB(t)
	f := seedTestFixtures(t, db)

	if err := DeleteCounty(db, f.County.CountyID); !errors.Is(err, ErrCountyInUse) {
		t.Fatalf("delete referenced county: got %v, want ErrCountyInUse", err)
	}

	empty := models.County{Name: "Lamu", Code: "LMU"}
	if err := db.Create(&empty).Error; err != nil {
		t.Fatalf("create county: %v", err)
	}
	if err := DeleteCounty(db, empty.CountyID); err != nil {
		t.Fatalf("delete empty county: %v", err)
	}
}

func TestDeleteMissingRowsReportNotFound(t *testing.T) {
	db := openTestDB(t)
	seedTestFixtures(t, db)

	if err := DeleteSupplier(db, 99999); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("delete missing supplier: got %v", err)
	}
	if err := DeleteWarehouse(db, 99999); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("delete missing warehouse: got %v", err)
	}
	if err := DeleteCargoCategory(db, 99999); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("delete missing category: got %v", err)
	}
}
