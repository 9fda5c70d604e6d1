package models

import "gorm.io/gorm"

type User struct {
	gorm.Model

	Email            string `gorm:"uniqueIndex;not null"`
	PasswordHash     string `gorm:"not null"`
	Role             string `gorm:"not null"` // "donor", "recipient", "admin", "analyst"
	OrganizationName string `gorm:"not null"`

	// Relationships
	Listings       []FoodListing     `gorm:"foreignKey:DonorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Requests       []DonationRequest `gorm:"foreignKey:RecipientID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	PasswordResets []PasswordReset   `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
