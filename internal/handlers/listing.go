package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/dhanush290707/FoodFlow/db"
	"github.com/dhanush290707/FoodFlow/internal/models"
	"github.com/dhanush290707/FoodFlow/internal/services"
	"github.com/dhanush290707/FoodFlow/internal/types"
	"github.com/dhanush290707/FoodFlow/internal/utils"
	"github.com/gin-gonic/gin"
)

type CreateListingRequest struct {
	ItemName   string `json:"itemName" binding:"required"`
	Quantity   string `json:"quantity" binding:"required"`
	ExpiryDate string `json:"expiryDate" binding:"required"` // "2006-01-02"
}

type ListingResponse struct {
	ID         uint      `json:"id"`
	DonorID    uint      `json:"donorId"`
	DonorName  string    `json:"donorName,omitempty"`
	ItemName   string    `json:"itemName"`
	Quantity   string    `json:"quantity"`
	ExpiryDate string    `json:"expiryDate"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toListingResponse(listing models.FoodListing) ListingResponse {
	return ListingResponse{
		ID:         listing.ID,
		DonorID:    listing.DonorID,
		DonorName:  listing.Donor.OrganizationName,
		ItemName:   listing.ItemName,
		Quantity:   listing.Quantity,
		ExpiryDate: listing.ExpiryDate.Format("2006-01-02"),
		Status:     listing.Status,
		CreatedAt:  listing.CreatedAt,
	}
}

// ListAvailableListings returns every Available listing with the donor's
// organization name attached, newest first.
func ListAvailableListings(ctx *gin.Context) {
	var listings []models.FoodListing

	err := db.DB.Preload("Donor").
		Where("status = ?", types.ListingAvailable).
		Order("created_at DESC").
		Find(&listings).Error

	if err != nil {
		log.Printf("Failed to retrieve listings: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching listings"})
		return
	}

	response := make([]ListingResponse, 0, len(listings))

	for _, listing := range listings {
		response = append(response, toListingResponse(listing))
	}

	ctx.JSON(http.StatusOK, response)
}

// ListDonorListings returns all of a donor's listings regardless of status,
// newest first. Donors may only read their own; admins may read any.
func ListDonorListings(ctx *gin.Context) {
	donorID, err := strconv.ParseUint(ctx.Param("donorId"), 10, 64)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid donor ID"})
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if currentUser.ID != uint(donorID) && currentUser.Role != types.RoleAdmin {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}

	var listings []models.FoodListing

	err = db.DB.Preload("Donor").
		Where("donor_id = ?", donorID).
		Order("created_at DESC").
		Find(&listings).Error

	if err != nil {
		log.Printf("Failed to retrieve donor listings: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching donor listings"})
		return
	}

	response := make([]ListingResponse, 0, len(listings))

	for _, listing := range listings {
		response = append(response, toListingResponse(listing))
	}

	ctx.JSON(http.StatusOK, response)
}

// CreateListing inserts a new Available listing owned by the session user.
// Expiry dates in the past are accepted; the UI is the only gatekeeper there.
func CreateListing(ctx *gin.Context) {
	var body CreateListingRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Please provide all required fields."})
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	expiryDate, err := time.Parse("2006-01-02", body.ExpiryDate)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid expiry date, expected YYYY-MM-DD"})
		return
	}

	listing := models.FoodListing{
		DonorID:    currentUser.ID,
		ItemName:   body.ItemName,
		Quantity:   body.Quantity,
		ExpiryDate: expiryDate,
		Status:     types.ListingAvailable,
	}

	if err := db.DB.Create(&listing).Error; err != nil {
		log.Printf("Failed to create listing: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating listing"})
		return
	}

	go BroadcastChange("listings", listing.ID, "created")

	go func() {
		if err := services.AnnounceListingCreated(AppConfig.DiscordWebhook, AppConfig.SlackWebhook, listing, currentUser.OrganizationName); err != nil {
			log.Printf("Failed to announce listing %d: %v", listing.ID, err)
		}
	}()

	listing.Donor.OrganizationName = currentUser.OrganizationName

	ctx.JSON(http.StatusCreated, toListingResponse(listing))
}
