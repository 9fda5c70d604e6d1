package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ChangeEvent is the persisted copy of every change-notifier broadcast.
type ChangeEvent struct {
	gorm.Model

	Entity    string         `gorm:"not null;index"` // "users", "listings", "requests"
	EntityID  uint           `gorm:"not null"`
	Operation string         `gorm:"not null"` // "created", "updated"
	Payload   datatypes.JSON `gorm:"type:jsonb"`
}
