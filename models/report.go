package models

import "time"

// ReportType type for generated report kinds
type ReportType string

const (
	ReportSupplierPerformance ReportType = "SUPPLIER_PERFORMANCE"
	ReportCargoMovement       ReportType = "CARGO_MOVEMENT"
	ReportInventorySummary    ReportType = "INVENTORY_SUMMARY"
	ReportDeliveryAnalysis    ReportType = "DELIVERY_ANALYSIS"
	ReportMonthlySummary      ReportType = "MONTHLY_SUMMARY"
	ReportCustom              ReportType = "CUSTOM"
)

// Report represents reports table - a stored snapshot of computed analytics.
// ReportData holds the JSON serialization of one of the typed report structs
// in the database package; the report type says which.
type Report struct {
	ReportID    uint       `gorm:"primaryKey;column:report_id" json:"report_id"`
	ReportType  ReportType `gorm:"type:varchar(30);not null;index" json:"report_type"`
	Title       string     `gorm:"type:varchar(200);not null" json:"title"`
	Description *string    `gorm:"type:text" json:"description,omitempty"`

	StartDate time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null" json:"end_date"`

	ReportData []byte `gorm:"type:jsonb;not null" json:"report_data"`

	AuditModel
}

// TableName specifies the table name for Report
func (Report) TableName() string {
	return "reports"
}
