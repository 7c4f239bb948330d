package database

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func allocateID(t *testing.T, db *gorm.DB, spec IDSpec, now time.Time) string {
	t.Helper()

	var id string
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		id, err = NextSequentialID(tx, spec, now)
		return err
	})
	if err != nil {
		t.Fatalf("allocate %s id: %v", spec.Kind, err)
	}
	return id
}

func TestNextSequentialIDAllocatesInOrder(t *testing.T) {
	db := openTestDB(t)
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)

	for i := 1; i <= 5; i++ {
		want := fmt.Sprintf("CRG-202505-%06d", i)
		if got := allocateID(t, db, CargoIDSpec, now); got != want {
			t.Fatalf("allocation %d: got %q, want %q", i, got, want)
		}
	}
}

func TestNextSequentialIDPeriodRollover(t *testing.T) {
	db := openTestDB(t)

	may := time.Date(2025, 5, 31, 23, 0, 0, 0, time.UTC)
	june := time.Date(2025, 6, 1, 1, 0, 0, 0, time.UTC)

	if got := allocateID(t, db, CargoIDSpec, may); got != "CRG-202505-000001" {
		t.Fatalf("may allocation: got %q", got)
	}
	if got := allocateID(t, db, CargoIDSpec, may); got != "CRG-202505-000002" {
		t.Fatalf("second may allocation: got %q", got)
	}

	// New month restarts at 1
	if got := allocateID(t, db, CargoIDSpec, june); got != "CRG-202506-000001" {
		t.Fatalf("june allocation: got %q", got)
	}

	// The old period's counter is untouched
	if got := allocateID(t, db, CargoIDSpec, may); got != "CRG-202505-000003" {
		t.Fatalf("back-dated may allocation: got %q", got)
	}
}

func TestNextSequentialIDBootstrapsFromIssuedIDs(t *testing.T) {
	db := openTestDB(t)
	f := seedTestFixtures(t, db)
	// A year in the past so no other allocation has touched its counter
	now := time.Date(1998, 5, 10, 12, 0, 0, 0, time.UTC)

	// Pre-existing row issued before the sequence table had a counter
	legacy := newTestSupplier(f.County.CountyID, "Legacy Supplier", "P059999999Z")
	legacy.SupplierCode = "SUP-1998-00042"
	if err := db.Create(&legacy).Error; err != nil {
		t.Fatalf("create legacy supplier: %v", err)
	}

	if got := allocateID(t, db, SupplierIDSpec, now); got != "SUP-1998-00043" {
		t.Fatalf("bootstrap allocation: got %q, want SUP-1998-00043", got)
	}
}

func TestNextSequentialIDRejectsMalformedSuffix(t *testing.T) {
	db := openTestDB(t)
	f := seedTestFixtures(t, db)
	now := time.Date(1999, 1, 5, 9, 0, 0, 0, time.UTC)

	legacy := newTestSupplier(f.County.CountyID, "Legacy Supplier", "P059999999Z")
	legacy.SupplierCode = "SUP-1999-LEGACY"
	if err := db.Create(&legacy).Error; err != nil {
		t.Fatalf("create legacy supplier: %v", err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := NextSequentialID(tx, SupplierIDSpec, now)
		return err
	})
	if !errors.Is(err, ErrMalformedSequence) {
		t.Fatalf("got error %v, want ErrMalformedSequence", err)
	}
}

func TestNextSequentialIDContinuesFromExistingCounter(t *testing.T) {
	db := openTestDB(t)
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)

	// Counter row already written by another creator
	winner := IDSequence{EntityKind: "cargo", Period: "202505", LastValue: 7}
	if err := db.Create(&winner).Error; err != nil {
		t.Fatalf("create sequence row: %v", err)
	}

	// A duplicate insert for the same (kind, period) must be a no-op, not an
	// error, so a creation that lost the insert keeps going
	loser := IDSequence{EntityKind: "cargo", Period: "202505", LastValue: 0}
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&loser)
	if result.Error != nil {
		t.Fatalf("conflicting insert: %v", result.Error)
	}
	if result.RowsAffected != 0 {
		t.Fatalf("conflicting insert affected %d rows, want 0", result.RowsAffected)
	}

	if got := allocateID(t, db, CargoIDSpec, now); got != "CRG-202505-000008" {
		t.Fatalf("allocation after counter exists: got %q, want CRG-202505-000008", got)
	}

	var count int64
	db.Model(&IDSequence{}).Where("entity_kind = ? AND period = ?", "cargo", "202505").Count(&count)
	if count != 1 {
		t.Fatalf("sequence rows for period: got %d, want 1", count)
	}
}

func TestCreateCargoAssignsCodeAndTrackingNumber(t *testing.T) {
	db := openTestDB(t)
	f := seedTestFixtures(t, db)

	dispatch := time.Now().Add(-24 * time.Hour)
	first := newTestCargo(f, dispatch, dispatch.Add(24*time.Hour))
	second := newTestCargo(f, dispatch, dispatch.Add(24*time.Hour))

	if err := CreateCargo(db, &first, "test"); err != nil {
		t.Fatalf("create first cargo: %v", err)
	}
	if err := CreateCargo(db, &second, "test"); err != nil {
		t.Fatalf("create second cargo: %v", err)
	}

	if first.CargoCode == "" || second.CargoCode == "" {
		t.Fatalf("cargo codes not assigned: %q, %q", first.CargoCode, second.CargoCode)
	}
	if first.CargoCode == second.CargoCode {
		t.Fatalf("duplicate cargo code %q", first.CargoCode)
	}
	if first.TrackingNumber == "" || first.TrackingNumber == second.TrackingNumber {
		t.Fatalf("tracking numbers not unique: %q, %q", first.TrackingNumber, second.TrackingNumber)
	}
}

func TestCreateSupplierKeepsPresetCode(t *testing.T) {
	db := openTestDB(t)
	f := seedTestFixtures(t, db)

	supplier := newTestSupplier(f.County.CountyID, "Preset Supplier", "P058888888Y")
	supplier.SupplierCode = "SUP-2020-00007"
	if err := CreateSupplier(db, &supplier, "test"); err != nil {
		t.Fatalf("create supplier: %v", err)
	}
	if supplier.SupplierCode != "SUP-2020-00007" {
		t.Fatalf("preset code overwritten: %q", supplier.SupplierCode)
	}
}
