package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/cargotrack/models"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB opens a throwaway sqlite database with the full schema
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "cargotrack_test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	allModels := append(models.AllModels(), &IDSequence{})
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// testFixtures are the reference rows most database tests need
type testFixtures struct {
	County    models.County
	Supplier  models.Supplier
	Warehouse models.Warehouse
	Category  models.CargoCategory
}

func seedTestFixtures(t *testing.T, db *gorm.DB) testFixtures {
	t.Helper()

	f := testFixtures{
		County: models.County{Name: "Nairobi", Code: "NRB"},
		Category: models.CargoCategory{
			Name:     "Electronics",
			Code:     "ELEC",
			IsActive: true,
		},
	}
	if err := db.Create(&f.County).Error; err != nil {
		t.Fatalf("create county: %v", err)
	}
	if err := db.Create(&f.Category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}

	f.Supplier = newTestSupplier(f.County.CountyID, "Nairobi Electronics Ltd", "P051234567M")
	if err := CreateSupplier(db, &f.Supplier, "test"); err != nil {
		t.Fatalf("create supplier: %v", err)
	}

	f.Warehouse = models.Warehouse{
		Name:                  "Nairobi Central Warehouse",
		WarehouseType:         models.WarehouseMain,
		CountyID:              f.County.CountyID,
		TownCity:              "Embakasi",
		PhysicalAddress:       "Mombasa Road, Embakasi",
		TotalCapacitySqm:      5000,
		CurrentUtilizationSqm: 2000,
		ManagerName:           "James Ochieng",
		ManagerPhone:          "+254711111111",
		ManagerEmail:          "manager.nairobi@warehouse.co.ke",
		OperatingHours:        "Mon-Fri 7AM-7PM",
		IsActive:              true,
	}
	if err := CreateWarehouse(db, &f.Warehouse, "test"); err != nil {
		t.Fatalf("create warehouse: %v", err)
	}

	return f
}

func newTestSupplier(countyID uint, name, kraPin string) models.Supplier {
	return models.Supplier{
		Name:                 name,
		SupplierType:         models.SupplierDistributor,
		KraPin:               kraPin,
		PrimaryContactPerson: "John Mwangi",
		PhoneNumber:          "+254712345678",
		Email:                "sales@example.co.ke",
		CountyID:             countyID,
		TownCity:             "Industrial Area",
		PhysicalAddress:      "Enterprise Road",
		GoodsSupplied:        "Consumer electronics",
		CreditLimit:          decimal.NewFromInt(1000000),
		Status:               models.SupplierActive,
	}
}

// newTestCargo returns an unsaved dispatched cargo against the fixture rows
func newTestCargo(f testFixtures, dispatch, expected time.Time) models.Cargo {
	return models.Cargo{
		SupplierID:          f.Supplier.SupplierID,
		WarehouseID:         f.Warehouse.WarehouseID,
		CategoryID:          f.Category.CategoryID,
		Description:         "Boxes of Mobile Phones",
		Quantity:            50,
		UnitOfMeasurement:   "BOXES",
		WeightKg:            250,
		DeclaredValue:       decimal.NewFromInt(120000),
		DispatchDate:        dispatch,
		ExpectedArrivalDate: expected,
		TransportMode:       models.TransportRoad,
		Status:              models.CargoDispatched,
		Priority:            models.PriorityMedium,
	}
}

// createReceivedCargo saves a cargo that completed its delivery. The arrival
// offset against the expected date decides whether it counts as delayed.
func createReceivedCargo(t *testing.T, db *gorm.DB, f testFixtures, dispatch time.Time, expectedHours, actualHours float64, qualityPassed bool) models.Cargo {
	t.Helper()

	cargo := newTestCargo(f, dispatch, dispatch.Add(time.Duration(expectedHours*float64(time.Hour))))
	actual := dispatch.Add(time.Duration(actualHours * float64(time.Hour)))
	received := actual.Add(2 * time.Hour)
	cargo.ActualArrivalDate = &actual
	cargo.ReceivedDate = &received
	cargo.Status = models.CargoReceived
	cargo.QualityCheckPassed = qualityPassed

	if err := CreateCargo(db, &cargo, "test"); err != nil {
		t.Fatalf("create received cargo: %v", err)
	}
	return cargo
}
