package models

import "github.com/shopspring/decimal"

// SupplierType classifies how a supplier sources goods
type SupplierType string

const (
	SupplierManufacturer  SupplierType = "MANUFACTURER"
	SupplierDistributor   SupplierType = "DISTRIBUTOR"
	SupplierImporter      SupplierType = "IMPORTER"
	SupplierWholesaler    SupplierType = "WHOLESALER"
	SupplierLocalProducer SupplierType = "LOCAL_PRODUCER"
	SupplierOther         SupplierType = "OTHER"
)

// SupplierStatus type for supplier status
type SupplierStatus string

const (
	SupplierActive      SupplierStatus = "ACTIVE"
	SupplierInactive    SupplierStatus = "INACTIVE"
	SupplierSuspended   SupplierStatus = "SUSPENDED"
	SupplierBlacklisted SupplierStatus = "BLACKLISTED"
)

// Supplier represents suppliers table
type Supplier struct {
	SupplierID   uint         `gorm:"primaryKey;column:supplier_id" json:"supplier_id"`
	SupplierCode string       `gorm:"type:varchar(20);not null;unique" json:"supplier_code"`
	Name         string       `gorm:"type:varchar(200);not null;index" json:"name"`
	SupplierType SupplierType `gorm:"type:varchar(20);not null" json:"supplier_type"`

	// Kenyan tax registration
	KraPin string `gorm:"type:varchar(11);not null;unique" json:"kra_pin"`

	// Contact information
	PrimaryContactPerson string  `gorm:"type:varchar(100);not null" json:"primary_contact_person"`
	PhoneNumber          string  `gorm:"type:varchar(15);not null" json:"phone_number"`
	Email                string  `gorm:"type:varchar(100);not null" json:"email"`
	AlternativePhone     *string `gorm:"type:varchar(15)" json:"alternative_phone,omitempty"`

	// Physical address
	PhysicalAddress string  `gorm:"type:text;not null" json:"physical_address"`
	CountyID        uint    `gorm:"not null" json:"county_id"`
	TownCity        string  `gorm:"type:varchar(100);not null" json:"town_city"`
	PostalAddress   *string `gorm:"type:varchar(100)" json:"postal_address,omitempty"`

	// Business details
	GoodsSupplied string          `gorm:"type:text;not null" json:"goods_supplied"`
	PaymentTerms  *string         `gorm:"type:varchar(100)" json:"payment_terms,omitempty"`
	CreditLimit   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"credit_limit"`

	// Status and ratings. ReliabilityScore is derived - it is written only by
	// the performance aggregator and mirrors the overall performance score.
	Status           SupplierStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index" json:"status"`
	ReliabilityScore float64        `gorm:"type:decimal(5,2);not null;default:0" json:"reliability_score"`

	Notes *string `gorm:"type:text" json:"notes,omitempty"`

	AuditModel

	// Relationships
	County County `gorm:"foreignKey:CountyID" json:"county,omitempty"`
}

// TableName specifies the table name for Supplier
func (Supplier) TableName() string {
	return "suppliers"
}
