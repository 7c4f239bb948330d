package database

import (
	"testing"
	"time"

	"github.com/cargotrack/models"
)

// Ten deliveries: eight received on time, one received late, one damaged in
// transit. Score components: on-time 8/10*50 = 40, quality 9/10*30 = 27,
// volume 10/100*20 = 2.
func TestRecalculateSupplierPerformanceScore(t *testing.T) {
	db := openTestDB(t)
	f := seedTestFixtures(t, db)

	dispatch := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 8; i++ {
		createReceivedCargo(t, db, f, dispatch.AddDate(0, 0, i), 48, 40, true)
	}
	createReceivedCargo(t, db, f, dispatch.AddDate(0, 0, 20), 48, 60, true)

	damaged := newTestCargo(f, dispatch, dispatch.Add(48*time.Hour))
	damaged.Status = models.CargoDamaged
	if err := CreateCargo(db, &damaged, "test"); err != nil {
		t.Fatalf("create damaged cargo: %v", err)
	}

	perf, err := RecalculateSupplierPerformance(db, f.Supplier.SupplierID)
	if err != nil {
		t.Fatalf("recalculate: %v", err)
	}

	if perf.TotalDeliveries != 10 {
		t.Errorf("total deliveries: got %d, want 10", perf.TotalDeliveries)
	}
	if perf.OnTimeDeliveries != 8 {
		t.Errorf("on-time deliveries: got %d, want 8", perf.OnTimeDeliveries)
	}
	if perf.DelayedDeliveries != 1 {
		t.Errorf("delayed deliveries: got %d, want 1", perf.DelayedDeliveries)
	}
	if perf.DamagedCargoCount != 1 {
		t.Errorf("damaged count: got %d, want 1", perf.DamagedCargoCount)
	}
	if perf.QualityIssuesCount != 0 {
		t.Errorf("quality issues: got %d, want 0", perf.QualityIssuesCount)
	}
	if perf.OnTimeDeliveryRate != 80.0 {
		t.Errorf("on-time rate: got %v, want 80.0", perf.OnTimeDeliveryRate)
	}
	if perf.OverallPerformanceScore != 69.0 {
		t.Errorf("overall score: got %v, want 69.0", perf.OverallPerformanceScore)
	}
	if perf.AverageDeliveryTimeHours != 42.22 {
		t.Errorf("average delivery time: got %v, want 42.22", perf.AverageDeliveryTimeHours)
	}
	if perf.FastestDeliveryHours == nil || *perf.FastestDeliveryHours != 40.0 {
		t.Errorf("fastest delivery: got %v, want 40.0", perf.FastestDeliveryHours)
	}
	if perf.SlowestDeliveryHours == nil || *perf.SlowestDeliveryHours != 60.0 {
		t.Errorf("slowest delivery: got %v, want 60.0", perf.SlowestDeliveryHours)
	}

	// Declared value: 10 x 120000
	if got := perf.TotalCargoValue.String(); got != "1200000" {
		t.Errorf("total cargo value: got %s, want 1200000", got)
	}

	// Reliability score mirrors the overall score
	var supplier models.Supplier
	if err := db.First(&supplier, f.Supplier.SupplierID).Error; err != nil {
		t.Fatalf("reload supplier: %v", err)
	}
	if supplier.ReliabilityScore != 69.0 {
		t.Errorf("reliability score: got %v, want 69.0", supplier.ReliabilityScore)
	}
}

func TestRecalculateSupplierPerformanceNoDeliveries(t *testing.T) {
	db := openTestDB(t)
	f := seedTestFixtures(t, db)

	perf, err := RecalculateSupplierPerformance(db, f.Supplier.SupplierID)
	if err != nil {
		t.Fatalf("recalculate: %v", err)
	}

	if perf.TotalDeliveries != 0 || perf.OnTimeDeliveries != 0 || perf.DelayedDeliveries != 0 {
		t.Errorf("counts not zero: %+v", perf)
	}
	if perf.OnTimeDeliveryRate != 0 || perf.OverallPerformanceScore != 0 {
		t.Errorf("rates not zero: rate=%v score=%v", perf.OnTimeDeliveryRate, perf.OverallPerformanceScore)
	}
	if perf.FastestDeliveryHours != nil || perf.SlowestDeliveryHours != nil {
		t.Errorf("delivery extremes should be nil without arrivals")
	}
	if !perf.TotalCargoValue.IsZero() {
		t.Errorf("total cargo value: got %s, want 0", perf.TotalCargoValue)
	}
	if perf.LastCalculated.IsZero() {
		t.Errorf("last calculated not stamped")
	}
}

func TestRecalculateSupplierPerformanceIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	f := seedTestFixtures(t, db)

	dispatch := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	createReceivedCargo(t, db, f, dispatch, 48, 40, true)
	createReceivedCargo(t, db, f, dispatch.AddDate(0, 0, 1), 48, 72, false)

	first, err := RecalculateSupplierPerformance(db, f.Supplier.SupplierID)
	if err != nil {
		t.Fatalf("first recalculate: %v", err)
	}
	second, err := RecalculateSupplierPerformance(db, f.Supplier.SupplierID)
	if err != nil {
		t.Fatalf("second recalculate: %v", err)
	}

	if second.PerformanceID != first.PerformanceID {
		t.Errorf("performance row replaced instead of overwritten: %d vs %d", first.PerformanceID, second.PerformanceID)
	}
	if second.TotalDeliveries != first.TotalDeliveries ||
		second.OnTimeDeliveries != first.OnTimeDeliveries ||
		second.OverallPerformanceScore != first.OverallPerformanceScore ||
		second.OnTimeDeliveryRate != first.OnTimeDeliveryRate {
		t.Errorf("metrics drifted between runs: %+v vs %+v", first, second)
	}

	var count int64
	db.Model(&models.SupplierPerformance{}).Count(&count)
	if count != 1 {
		t.Errorf("performance rows: got %d, want 1", count)
	}
}

func TestRecalculateAllSupplierPerformance(t *testing.T) {
	db := openTestDB(t)
	f := seedTestFixtures(t, db)

	other := newTestSupplier(f.County.CountyID, "Mombasa Imports & Exports", "P052345678N")
	if err := CreateSupplier(db, &other, "test"); err != nil {
		t.Fatalf("create second supplier: %v", err)
	}

	dispatch := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	createReceivedCargo(t, db, f, dispatch, 48, 40, true)

	updated, err := RecalculateAllSupplierPerformance(db)
	if err != nil {
		t.Fatalf("recalculate all: %v", err)
	}
	if updated != 2 {
		t.Errorf("suppliers refreshed: got %d, want 2", updated)
	}

	var count int64
	db.Model(&models.SupplierPerformance{}).Count(&count)
	if count != 2 {
		t.Errorf("performance rows: got %d, want 2", count)
	}
}

func TestBuildSupplierPerformanceScoreBounds(t *testing.T) {
	now := time.Now()
	arrival := now.Add(-time.Hour)

	// Every delivery damaged and delayed: quality clamps at zero, score
	// stays within bounds
	var cargos []models.Cargo
	for i := 0; i < 3; i++ {
		c := models.Cargo{
			Status:              models.CargoDamaged,
			DispatchDate:        now.Add(-72 * time.Hour),
			ExpectedArrivalDate: now.Add(-48 * time.Hour),
			ActualArrivalDate:   &arrival,
		}
		c.RefreshDeliveryMetrics()
		cargos = append(cargos, c)
	}

	perf := buildSupplierPerformance(1, cargos, now)
	if perf.OverallPerformanceScore < 0 || perf.OverallPerformanceScore > 100 {
		t.Fatalf("score out of bounds: %v", perf.OverallPerformanceScore)
	}
	if perf.OnTimeDeliveries != 0 {
		t.Errorf("on-time deliveries: got %d, want 0", perf.OnTimeDeliveries)
	}
	if perf.DamagedCargoCount != 3 {
		t.Errorf("damaged count: got %d, want 3", perf.DamagedCargoCount)
	}
}
