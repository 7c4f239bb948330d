package models

import "time"

// AlertType type for alert categories
type AlertType string

const (
	AlertDelay         AlertType = "DELAY"
	AlertArrival       AlertType = "ARRIVAL"
	AlertCapacity      AlertType = "CAPACITY"
	AlertSupplierIssue AlertType = "SUPPLIER_ISSUE"
	AlertQuality       AlertType = "QUALITY"
	AlertSystem        AlertType = "SYSTEM"
)

// AlertSeverity type for alert severity levels
type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "INFO"
	SeverityWarning  AlertSeverity = "WARNING"
	SeverityCritical AlertSeverity = "CRITICAL"
)

// Alert represents alerts table. Rule evaluation only ever creates alerts;
// after creation the only mutations are the read/resolved flags.
type Alert struct {
	AlertID   uint          `gorm:"primaryKey;column:alert_id" json:"alert_id"`
	AlertType AlertType     `gorm:"type:varchar(20);not null;index" json:"alert_type"`
	Severity  AlertSeverity `gorm:"type:varchar(10);not null" json:"severity"`
	Title     string        `gorm:"type:varchar(200);not null" json:"title"`
	Message   string        `gorm:"type:text;not null" json:"message"`

	// Optional references to the objects that triggered the alert
	CargoID     *uint `gorm:"index" json:"cargo_id,omitempty"`
	SupplierID  *uint `json:"supplier_id,omitempty"`
	WarehouseID *uint `gorm:"index" json:"warehouse_id,omitempty"`

	IsRead          bool       `gorm:"not null;default:false" json:"is_read"`
	IsResolved      bool       `gorm:"not null;default:false;index" json:"is_resolved"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy      *string    `gorm:"type:varchar(100)" json:"resolved_by,omitempty"`
	ResolutionNotes *string    `gorm:"type:text" json:"resolution_notes,omitempty"`

	AuditModel

	// Relationships
	Cargo     *Cargo     `gorm:"foreignKey:CargoID" json:"cargo,omitempty"`
	Supplier  *Supplier  `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Warehouse *Warehouse `gorm:"foreignKey:WarehouseID" json:"warehouse,omitempty"`
}

// TableName specifies the table name for Alert
func (Alert) TableName() string {
	return "alerts"
}
