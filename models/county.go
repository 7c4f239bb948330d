package models

// County represents counties table - Kenyan counties for location tracking
type County struct {
	CountyID uint   `gorm:"primaryKey;column:county_id" json:"county_id"`
	Name     string `gorm:"type:varchar(50);not null;unique" json:"name"`
	Code     string `gorm:"type:varchar(3);not null;unique" json:"code"`
}

// TableName specifies the table name for County
func (County) TableName() string {
	return "counties"
}
