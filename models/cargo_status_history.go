package models

import "time"

// CargoStatusHistory represents cargo_status_history table. Entries are
// append-only: they are never updated or deleted after creation.
type CargoStatusHistory struct {
	HistoryID    uint        `gorm:"primaryKey;column:history_id" json:"history_id"`
	CargoID      uint        `gorm:"not null;index" json:"cargo_id"`
	FromStatus   CargoStatus `gorm:"type:varchar(20);not null" json:"from_status"`
	ToStatus     CargoStatus `gorm:"type:varchar(20);not null" json:"to_status"`
	ChangeReason *string     `gorm:"type:text" json:"change_reason,omitempty"`
	Location     *string     `gorm:"type:varchar(200)" json:"location,omitempty"`
	Remarks      *string     `gorm:"type:text" json:"remarks,omitempty"`
	ChangedBy    string      `gorm:"type:varchar(100);not null" json:"changed_by"`
	CreatedAt    time.Time   `gorm:"index" json:"created_at"`

	// Relationships
	Cargo Cargo `gorm:"foreignKey:CargoID" json:"cargo,omitempty"`
}

// TableName specifies the table name for CargoStatusHistory
func (CargoStatusHistory) TableName() string {
	return "cargo_status_history"
}
