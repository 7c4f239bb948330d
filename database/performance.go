package database

import (
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/cargotrack/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Weights of the overall performance score components
const (
	onTimeWeight  = 50.0
	qualityWeight = 30.0
	volumeWeight  = 20.0

	// volume component maxes out at this many historical deliveries
	volumeCapDeliveries = 100.0
)

// RecalculateSupplierPerformance rebuilds a supplier's performance row from
// scratch by scanning every cargo referencing the supplier. The refresh is
// never incremental: the whole row is overwritten inside one transaction, so
// repeated calls with no intervening cargo changes produce the same numbers.
// The supplier's reliability score is updated to mirror the overall score.
func RecalculateSupplierPerformance(db *gorm.DB, supplierID uint) (*models.SupplierPerformance, error) {
	var perf models.SupplierPerformance
	err := db.Transaction(func(tx *gorm.DB) error {
		var supplier models.Supplier
		if err := tx.First(&supplier, supplierID).Error; err != nil {
			return err
		}

		var cargos []models.Cargo
		if err := tx.Where("supplier_id = ?", supplierID).Find(&cargos).Error; err != nil {
			return fmt.Errorf("load cargo for supplier %d: %w", supplierID, err)
		}

		perf = buildSupplierPerformance(supplierID, cargos, time.Now())

		var existing models.SupplierPerformance
		err := tx.Where("supplier_id = ?", supplierID).First(&existing).Error
		switch {
		case err == nil:
			perf.PerformanceID = existing.PerformanceID
			perf.CreatedAt = existing.CreatedAt
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		if err := tx.Save(&perf).Error; err != nil {
			return fmt.Errorf("save performance for supplier %d: %w", supplierID, err)
		}

		return tx.Model(&models.Supplier{}).
			Where("supplier_id = ?", supplierID).
			Update("reliability_score", perf.OverallPerformanceScore).Error
	})
	if err != nil {
		return nil, err
	}
	return &perf, nil
}

// RecalculateAllSupplierPerformance refreshes every supplier independently.
// One supplier failing does not stop the others; the joined error reports
// any failures. Returns how many suppliers were refreshed.
func RecalculateAllSupplierPerformance(db *gorm.DB) (int, error) {
	var supplierIDs []uint
	if err := db.Model(&models.Supplier{}).Order("supplier_id").Pluck("supplier_id", &supplierIDs).Error; err != nil {
		return 0, err
	}

	updated := 0
	var errs []error
	for _, id := range supplierIDs {
		if _, err := RecalculateSupplierPerformance(db, id); err != nil {
			log.Printf("Warning: performance recalculation failed for supplier %d: %v", id, err)
			errs = append(errs, fmt.Errorf("supplier %d: %w", id, err))
			continue
		}
		updated++
	}
	return updated, errors.Join(errs...)
}

// buildSupplierPerformance computes the full metric set from a snapshot of
// the supplier's cargo rows. Pure; all divide-by-zero cases take explicit
// zero branches.
func buildSupplierPerformance(supplierID uint, cargos []models.Cargo, now time.Time) models.SupplierPerformance {
	perf := models.SupplierPerformance{
		SupplierID:      supplierID,
		TotalCargoValue: decimal.Zero,
		LastCalculated:  now,
	}

	var durations []float64
	for i := range cargos {
		c := &cargos[i]
		perf.TotalDeliveries++
		perf.TotalCargoValue = perf.TotalCargoValue.Add(c.DeclaredValue)

		if !c.IsDelayed && c.Status == models.CargoReceived {
			perf.OnTimeDeliveries++
		}
		if c.IsDelayed {
			perf.DelayedDeliveries++
		}
		if c.Status == models.CargoCancelled {
			perf.CancelledDeliveries++
		}

		switch {
		case isDamaged(c):
			perf.DamagedCargoCount++
		case hasQualityIssue(c):
			perf.QualityIssuesCount++
		}

		if c.DeliveryDurationHours != nil {
			durations = append(durations, *c.DeliveryDurationHours)
		}
	}

	if len(durations) > 0 {
		sum := 0.0
		fastest := durations[0]
		slowest := durations[0]
		for _, d := range durations {
			sum += d
			if d < fastest {
				fastest = d
			}
			if d > slowest {
				slowest = d
			}
		}
		perf.AverageDeliveryTimeHours = round2(sum / float64(len(durations)))
		perf.FastestDeliveryHours = &fastest
		perf.SlowestDeliveryHours = &slowest
	}

	if perf.TotalDeliveries > 0 {
		total := float64(perf.TotalDeliveries)
		perf.OnTimeDeliveryRate = round2(float64(perf.OnTimeDeliveries) / total * 100)

		onTimeScore := float64(perf.OnTimeDeliveries) / total * onTimeWeight

		goodQuality := perf.TotalDeliveries - perf.DamagedCargoCount - perf.QualityIssuesCount
		if goodQuality < 0 {
			goodQuality = 0
		}
		qualityScore := float64(goodQuality) / total * qualityWeight

		volumeScore := total / volumeCapDeliveries * volumeWeight
		if volumeScore > volumeWeight {
			volumeScore = volumeWeight
		}

		perf.OverallPerformanceScore = round2(onTimeScore + qualityScore + volumeScore)
	}

	return perf
}

// isDamaged reports whether a cargo counts against the damage metric
func isDamaged(c *models.Cargo) bool {
	if c.Status == models.CargoDamaged {
		return true
	}
	return c.ConditionOnArrival != nil && *c.ConditionOnArrival == models.ConditionDamaged
}

// hasQualityIssue reports whether an arrived cargo failed its quality check.
// Damaged cargo is counted by isDamaged instead so the two never overlap.
func hasQualityIssue(c *models.Cargo) bool {
	if c.ActualArrivalDate == nil || c.QualityCheckPassed {
		return false
	}
	return c.Status == models.CargoReceived || c.Status == models.CargoStored
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
