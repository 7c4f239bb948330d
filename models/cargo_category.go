package models

// CargoCategory represents cargo_categories table
type CargoCategory struct {
	CategoryID              uint    `gorm:"primaryKey;column:category_id" json:"category_id"`
	Name                    string  `gorm:"type:varchar(100);not null;unique" json:"name"`
	Code                    string  `gorm:"type:varchar(10);not null;unique" json:"code"`
	Description             *string `gorm:"type:text" json:"description,omitempty"`
	RequiresSpecialHandling bool    `gorm:"not null;default:false" json:"requires_special_handling"`
	IsActive                bool    `gorm:"not null;default:true" json:"is_active"`
}

// TableName specifies the table name for CargoCategory
func (CargoCategory) TableName() string {
	return "cargo_categories"
}
