package models

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CargoStatus type for cargo lifecycle status. There is no enforced
// transition graph; any status may follow any other, with every change
// recorded in cargo_status_history.
type CargoStatus string

const (
	CargoDispatched CargoStatus = "DISPATCHED"
	CargoInTransit  CargoStatus = "IN_TRANSIT"
	CargoArrived    CargoStatus = "ARRIVED"
	CargoReceived   CargoStatus = "RECEIVED"
	CargoStored     CargoStatus = "STORED"
	CargoDelayed    CargoStatus = "DELAYED"
	CargoCancelled  CargoStatus = "CANCELLED"
	CargoDamaged    CargoStatus = "DAMAGED"
)

// CargoPriority type for shipment priority
type CargoPriority string

const (
	PriorityLow    CargoPriority = "LOW"
	PriorityMedium CargoPriority = "MEDIUM"
	PriorityHigh   CargoPriority = "HIGH"
	PriorityUrgent CargoPriority = "URGENT"
)

// TransportMode type for how cargo moves
type TransportMode string

const (
	TransportRoad       TransportMode = "ROAD"
	TransportRail       TransportMode = "RAIL"
	TransportAir        TransportMode = "AIR"
	TransportSea        TransportMode = "SEA"
	TransportMultimodal TransportMode = "MULTIMODAL"
)

// ArrivalCondition type for cargo condition on arrival
type ArrivalCondition string

const (
	ConditionExcellent ArrivalCondition = "EXCELLENT"
	ConditionGood      ArrivalCondition = "GOOD"
	ConditionFair      ArrivalCondition = "FAIR"
	ConditionDamaged   ArrivalCondition = "DAMAGED"
)

// Cargo represents cargos table - one tracked shipment from a supplier to a
// warehouse
type Cargo struct {
	CargoID        uint   `gorm:"primaryKey;column:cargo_id" json:"cargo_id"`
	CargoCode      string `gorm:"type:varchar(30);not null;unique" json:"cargo_code"`
	TrackingNumber string `gorm:"type:varchar(36);not null;unique" json:"tracking_number"`

	// Protected foreign keys - immutable once set, referents cannot be
	// deleted while this cargo exists
	SupplierID  uint `gorm:"not null;index" json:"supplier_id"`
	WarehouseID uint `gorm:"not null;index" json:"warehouse_id"`
	CategoryID  uint `gorm:"not null" json:"category_id"`

	// Cargo details
	Description       string   `gorm:"type:text;not null" json:"description"`
	Quantity          int      `gorm:"not null;check:quantity > 0" json:"quantity"`
	UnitOfMeasurement string   `gorm:"type:varchar(20);not null;default:'PCS'" json:"unit_of_measurement"`
	WeightKg          float64  `gorm:"type:decimal(10,2);not null" json:"weight_kg"`
	VolumeCbm         *float64 `gorm:"type:decimal(10,2)" json:"volume_cbm,omitempty"`

	// Valuation in KES
	DeclaredValue  decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"declared_value"`
	InsuranceValue *decimal.Decimal `gorm:"type:decimal(12,2)" json:"insurance_value,omitempty"`

	// Shipment timestamps
	DispatchDate        time.Time  `gorm:"not null;index" json:"dispatch_date"`
	ExpectedArrivalDate time.Time  `gorm:"not null;index" json:"expected_arrival_date"`
	ActualArrivalDate   *time.Time `json:"actual_arrival_date,omitempty"`
	ReceivedDate        *time.Time `json:"received_date,omitempty"`

	// Transport details
	TransportMode       TransportMode `gorm:"type:varchar(20);not null;default:'ROAD'" json:"transport_mode"`
	VehicleRegistration *string       `gorm:"type:varchar(20)" json:"vehicle_registration,omitempty"`
	DriverName          *string       `gorm:"type:varchar(100)" json:"driver_name,omitempty"`
	DriverPhone         *string       `gorm:"type:varchar(15)" json:"driver_phone,omitempty"`

	Status   CargoStatus   `gorm:"type:varchar(20);not null;default:'DISPATCHED';index" json:"status"`
	Priority CargoPriority `gorm:"type:varchar(10);not null;default:'MEDIUM'" json:"priority"`

	// Derived performance fields, recomputed by RefreshDeliveryMetrics on
	// every save
	DeliveryDurationHours *float64 `gorm:"type:decimal(8,2)" json:"delivery_duration_hours,omitempty"`
	IsDelayed             bool     `gorm:"not null;default:false;index" json:"is_delayed"`
	DelayReason           *string  `gorm:"type:text" json:"delay_reason,omitempty"`

	// Storage details
	StorageLocation *string `gorm:"type:varchar(100)" json:"storage_location,omitempty"`

	// Documentation
	PurchaseOrderNumber *string `gorm:"type:varchar(50)" json:"purchase_order_number,omitempty"`
	InvoiceNumber       *string `gorm:"type:varchar(50)" json:"invoice_number,omitempty"`
	DeliveryNoteNumber  *string `gorm:"type:varchar(50)" json:"delivery_note_number,omitempty"`

	// Quality and condition
	ConditionOnArrival *ArrivalCondition `gorm:"type:varchar(20)" json:"condition_on_arrival,omitempty"`
	QualityCheckPassed bool              `gorm:"not null;default:false" json:"quality_check_passed"`
	InspectionNotes    *string           `gorm:"type:text" json:"inspection_notes,omitempty"`

	SpecialInstructions *string `gorm:"type:text" json:"special_instructions,omitempty"`
	Notes               *string `gorm:"type:text" json:"notes,omitempty"`

	AuditModel

	// Relationships
	Supplier  Supplier      `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Warehouse Warehouse     `gorm:"foreignKey:WarehouseID" json:"warehouse,omitempty"`
	Category  CargoCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// TableName specifies the table name for Cargo
func (Cargo) TableName() string {
	return "cargos"
}

// BeforeCreate assigns a tracking number when none is set. The sequential
// cargo code is assigned by database.CreateCargo.
func (c *Cargo) BeforeCreate(tx *gorm.DB) error {
	if c.TrackingNumber == "" {
		c.TrackingNumber = uuid.NewString()
	}
	return nil
}

// BeforeSave recomputes the derived delivery fields so they stay consistent
// with the timestamps on every persist, including updates that touch
// unrelated columns.
func (c *Cargo) BeforeSave(tx *gorm.DB) error {
	c.RefreshDeliveryMetrics()
	return nil
}

// RefreshDeliveryMetrics derives DeliveryDurationHours and IsDelayed from the
// shipment timestamps. It is a pure function of the timestamp fields and may
// be called any number of times with the same result.
func (c *Cargo) RefreshDeliveryMetrics() {
	if c.ActualArrivalDate != nil && !c.DispatchDate.IsZero() {
		hours := roundHours(c.ActualArrivalDate.Sub(c.DispatchDate).Hours())
		c.DeliveryDurationHours = &hours
	} else {
		c.DeliveryDurationHours = nil
	}

	// A delay is only confirmed once the cargo has actually arrived; an
	// overdue shipment still in transit is not flagged here.
	c.IsDelayed = c.ActualArrivalDate != nil &&
		!c.ExpectedArrivalDate.IsZero() &&
		c.ActualArrivalDate.After(c.ExpectedArrivalDate)
}

// EstimatedDelayHours returns how many hours past the expected arrival the
// cargo actually arrived. Zero unless the cargo is delayed.
func (c *Cargo) EstimatedDelayHours() float64 {
	if !c.IsDelayed || c.ActualArrivalDate == nil {
		return 0
	}
	return c.ActualArrivalDate.Sub(c.ExpectedArrivalDate).Hours()
}

// roundHours keeps stored durations at 2-decimal precision
func roundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
