package models

import "time"

// AuditModel contains timestamp and actor columns shared by mutable entities.
// Every mutating operation passes an explicit actor; there is no ambient
// current-user global.
type AuditModel struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy string    `gorm:"type:varchar(100);not null;default:''" json:"created_by"`
	UpdatedBy *string   `gorm:"type:varchar(100)" json:"updated_by,omitempty"`
}
