package models

import "math"

// WarehouseType type for warehouse classification
type WarehouseType string

const (
	WarehouseMain        WarehouseType = "MAIN"
	WarehouseRegional    WarehouseType = "REGIONAL"
	WarehouseStorage     WarehouseType = "STORAGE"
	WarehouseColdStorage WarehouseType = "COLD_STORAGE"
)

// Warehouse represents warehouses table
type Warehouse struct {
	WarehouseID   uint          `gorm:"primaryKey;column:warehouse_id" json:"warehouse_id"`
	WarehouseCode string        `gorm:"type:varchar(20);not null;unique" json:"warehouse_code"`
	Name          string        `gorm:"type:varchar(200);not null" json:"name"`
	WarehouseType WarehouseType `gorm:"type:varchar(20);not null" json:"warehouse_type"`

	// Location
	CountyID        uint    `gorm:"not null" json:"county_id"`
	TownCity        string  `gorm:"type:varchar(100);not null" json:"town_city"`
	PhysicalAddress string  `gorm:"type:text;not null" json:"physical_address"`
	GPSCoordinates  *string `gorm:"type:varchar(50);column:gps_coordinates" json:"gps_coordinates,omitempty"`

	// Capacity in square meters. CurrentUtilizationSqm is allowed to exceed
	// TotalCapacitySqm; over-capacity is surfaced through alerts, not rejected.
	TotalCapacitySqm      float64 `gorm:"type:decimal(10,2);not null" json:"total_capacity_sqm"`
	CurrentUtilizationSqm float64 `gorm:"type:decimal(10,2);not null;default:0" json:"current_utilization_sqm"`

	// Contact
	ManagerName  string `gorm:"type:varchar(100);not null" json:"manager_name"`
	ManagerPhone string `gorm:"type:varchar(15);not null" json:"manager_phone"`
	ManagerEmail string `gorm:"type:varchar(100);not null" json:"manager_email"`

	OperatingHours string `gorm:"type:varchar(100);not null" json:"operating_hours"`
	IsActive       bool   `gorm:"not null;default:true" json:"is_active"`

	AuditModel

	// Relationships
	County County `gorm:"foreignKey:CountyID" json:"county,omitempty"`
}

// TableName specifies the table name for Warehouse
func (Warehouse) TableName() string {
	return "warehouses"
}

// UtilizationPercentage returns used capacity as a percentage of total,
// rounded to 2 decimals. Returns 0 when total capacity is 0; the result may
// exceed 100.
func (w *Warehouse) UtilizationPercentage() float64 {
	if w.TotalCapacitySqm <= 0 {
		return 0
	}
	pct := w.CurrentUtilizationSqm / w.TotalCapacitySqm * 100
	return math.Round(pct*100) / 100
}
