package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/dhanush290707/FoodFlow/db"
	"github.com/dhanush290707/FoodFlow/internal/models"
	"github.com/dhanush290707/FoodFlow/internal/types"
	"github.com/gin-gonic/gin"
)

type AdminUserResponse struct {
	ID               uint   `json:"id"`
	Email            string `json:"email"`
	Role             string `json:"role"`
	OrganizationName string `json:"organizationName"`
}

type AllDataResponse struct {
	Users    []AdminUserResponse `json:"users"`
	Listings []ListingResponse   `json:"listings"`
	Requests []RequestResponse   `json:"requests"`
}

type AnalyticsSummaryResponse struct {
	TotalUsers      int64 `json:"totalUsers"`
	TotalListings   int64 `json:"totalListings"`
	ClaimedListings int64 `json:"claimedListings"`
	TotalRequests   int64 `json:"totalRequests"`
}

type ChangeEventResponse struct {
	ID        uint   `json:"id"`
	Entity    string `json:"entity"`
	EntityID  uint   `json:"entity_id"`
	Operation string `json:"operation"`
	CreatedAt string `json:"created_at"`
}

// AllData returns every account, listing and request in one payload. Password
// hashes never leave the server. Intended for small datasets; no pagination.
func AllData(ctx *gin.Context) {
	var users []models.User

	if err := db.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		log.Printf("Failed to retrieve users: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching admin data"})
		return
	}

	var listings []models.FoodListing

	if err := db.DB.Preload("Donor").Order("created_at DESC").Find(&listings).Error; err != nil {
		log.Printf("Failed to retrieve listings: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching admin data"})
		return
	}

	var requests []models.DonationRequest

	if err := db.DB.Preload("Listing").Preload("Recipient").Preload("Donor").Order("created_at DESC").Find(&requests).Error; err != nil {
		log.Printf("Failed to retrieve requests: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching admin data"})
		return
	}

	response := AllDataResponse{
		Users:    make([]AdminUserResponse, 0, len(users)),
		Listings: make([]ListingResponse, 0, len(listings)),
		Requests: make([]RequestResponse, 0, len(requests)),
	}

	for _, user := range users {
		response.Users = append(response.Users, AdminUserResponse{
			ID:               user.ID,
			Email:            user.Email,
			Role:             user.Role,
			OrganizationName: user.OrganizationName,
		})
	}

	for _, listing := range listings {
		response.Listings = append(response.Listings, toListingResponse(listing))
	}

	for _, request := range requests {
		response.Requests = append(response.Requests, toRequestResponse(request))
	}

	ctx.JSON(http.StatusOK, response)
}

// AnalyticsSummary computes the four dashboard counts fresh on every call.
func AnalyticsSummary(ctx *gin.Context) {
	var summary AnalyticsSummaryResponse

	if err := db.DB.Model(&models.User{}).Count(&summary.TotalUsers).Error; err != nil {
		log.Printf("Failed to count users: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching analytics"})
		return
	}

	if err := db.DB.Model(&models.FoodListing{}).Count(&summary.TotalListings).Error; err != nil {
		log.Printf("Failed to count listings: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching analytics"})
		return
	}

	if err := db.DB.Model(&models.FoodListing{}).Where("status = ?", types.ListingClaimed).Count(&summary.ClaimedListings).Error; err != nil {
		log.Printf("Failed to count claimed listings: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching analytics"})
		return
	}

	if err := db.DB.Model(&models.DonationRequest{}).Count(&summary.TotalRequests).Error; err != nil {
		log.Printf("Failed to count requests: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching analytics"})
		return
	}

	ctx.JSON(http.StatusOK, summary)
}

// RecentChanges returns the last 100 broadcast change events.
func RecentChanges(ctx *gin.Context) {
	var events []models.ChangeEvent

	if err := db.DB.Order("created_at DESC").Limit(100).Find(&events).Error; err != nil {
		log.Printf("Failed to retrieve change events: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching change events"})
		return
	}

	response := make([]ChangeEventResponse, 0, len(events))

	for _, event := range events {
		response = append(response, ChangeEventResponse{
			ID:        event.ID,
			Entity:    event.Entity,
			EntityID:  event.EntityID,
			Operation: event.Operation,
			CreatedAt: event.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	ctx.JSON(http.StatusOK, response)
}
