package models

import (
	"time"

	"gorm.io/gorm"
)

type FoodListing struct {
	gorm.Model

	DonorID    uint      `gorm:"not null;index"`
	ItemName   string    `gorm:"not null"`
	Quantity   string    `gorm:"not null"` // free text, e.g. "20 loaves"
	ExpiryDate time.Time `gorm:"not null"`
	Status     string    `gorm:"not null;default:Available"` // "Available", "Claimed"

	// Relationships
	Donor    User              `gorm:"foreignKey:DonorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Requests []DonationRequest `gorm:"foreignKey:ListingID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
