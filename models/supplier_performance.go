package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplierPerformance represents supplier_performance table - aggregated
// delivery metrics, one row per supplier. Every field is overwritten
// wholesale by the recompute pass in the database package; nothing here is
// hand-edited.
type SupplierPerformance struct {
	PerformanceID uint `gorm:"primaryKey;column:performance_id" json:"performance_id"`
	SupplierID    uint `gorm:"not null;uniqueIndex" json:"supplier_id"`

	// Delivery counts
	TotalDeliveries     int `gorm:"not null;default:0" json:"total_deliveries"`
	OnTimeDeliveries    int `gorm:"not null;default:0" json:"on_time_deliveries"`
	DelayedDeliveries   int `gorm:"not null;default:0" json:"delayed_deliveries"`
	CancelledDeliveries int `gorm:"not null;default:0" json:"cancelled_deliveries"`

	// Time metrics in hours
	AverageDeliveryTimeHours float64  `gorm:"type:decimal(8,2);not null;default:0" json:"average_delivery_time_hours"`
	FastestDeliveryHours     *float64 `gorm:"type:decimal(8,2)" json:"fastest_delivery_hours,omitempty"`
	SlowestDeliveryHours     *float64 `gorm:"type:decimal(8,2)" json:"slowest_delivery_hours,omitempty"`

	// Quality metrics
	TotalCargoValue    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"total_cargo_value"`
	DamagedCargoCount  int             `gorm:"not null;default:0" json:"damaged_cargo_count"`
	QualityIssuesCount int             `gorm:"not null;default:0" json:"quality_issues_count"`

	// Ratings
	OnTimeDeliveryRate      float64 `gorm:"type:decimal(5,2);not null;default:0" json:"on_time_delivery_rate"`
	OverallPerformanceScore float64 `gorm:"type:decimal(5,2);not null;default:0" json:"overall_performance_score"`

	LastCalculated time.Time `gorm:"not null" json:"last_calculated"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relationships
	Supplier Supplier `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
}

// TableName specifies the table name for SupplierPerformance
func (SupplierPerformance) TableName() string {
	return "supplier_performance"
}

// QualityRate returns the share of deliveries without damage or quality
// issues, as a percentage. 100 when there are no deliveries.
func (p *SupplierPerformance) QualityRate() float64 {
	if p.TotalDeliveries == 0 {
		return 100
	}
	good := p.TotalDeliveries - p.DamagedCargoCount - p.QualityIssuesCount
	if good < 0 {
		good = 0
	}
	return float64(good) / float64(p.TotalDeliveries) * 100
}
