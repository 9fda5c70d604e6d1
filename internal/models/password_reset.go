package models

import (
	"time"

	"gorm.io/gorm"
)

// PasswordReset is a single-use, time-limited credential minted by the
// forgot-password flow and consumed by reset-password.
type PasswordReset struct {
	gorm.Model

	UserID    uint      `gorm:"not null;index"`
	Token     string    `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	UsedAt    *time.Time

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
