package models

import "gorm.io/gorm"

// DonationRequest carries a denormalized DonorID copied from its listing at
// creation time so donor-facing queries avoid a join through food_listings.
type DonationRequest struct {
	gorm.Model

	ListingID    uint   `gorm:"not null;index"`
	RecipientID  uint   `gorm:"not null;index"`
	DonorID      uint   `gorm:"not null;index"`
	ContactName  string `gorm:"not null"`
	ContactPhone string `gorm:"not null"`
	Notes        string
	Status       string `gorm:"not null;default:Pending"` // "Pending", "Approved", "Denied", "Accepted", "Claimed"

	// Relationships
	Listing   FoodListing `gorm:"foreignKey:ListingID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Recipient User        `gorm:"foreignKey:RecipientID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Donor     User        `gorm:"foreignKey:DonorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
