package handlers

import (
	"errors"
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
	"gorm.io/gorm"
)

type CreateRequestRequest struct {
	ListingID    uint   `json:"listingId" binding:"required"`
	ContactName  string `json:"contactName" binding:"required"`
	ContactPhone string `json:"contactPhone" binding:"required"`
	Notes        string `json:"notes"`
}

type UpdateRequestStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type RequestResponse struct {
	ID            uint      `json:"id"`
	ListingID     uint      `json:"listingId"`
	ItemName      string    `json:"itemName"`
	RecipientID   uint      `json:"recipientId"`
	RecipientName string    `json:"recipientName,omitempty"`
	DonorID       uint      `json:"donorId"`
	DonorName     string    `json:"donorName,omitempty"`
	ContactName   string    `json:"contactName"`
	ContactPhone  string    `json:"contactPhone"`
	Notes         string    `json:"notes,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

var (
	errIllegalTransition   = errors.New("illegal status transition")
	errListingNotClaimable = errors.New("listing is not claimable")
)

func toRequestResponse(request models.DonationRequest) RequestResponse {
	return RequestResponse{
		ID:            request.ID,
		ListingID:     request.ListingID,
		ItemName:      request.Listing.ItemName,
		RecipientID:   request.RecipientID,
		RecipientName: request.Recipient.OrganizationName,
		DonorID:       request.DonorID,
		DonorName:     request.Donor.OrganizationName,
		ContactName:   request.ContactName,
		ContactPhone:  request.ContactPhone,
		Notes:         request.Notes,
		Status:        request.Status,
		CreatedAt:     request.CreatedAt,
	}
}

// ListDonorRequests returns every request against the donor's listings,
// with the listing item name and recipient organization attached, newest first.
func ListDonorRequests(ctx *gin.Context) {
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

	var requests []models.DonationRequest

	err = db.DB.Preload("Listing").Preload("Recipient").Preload("Donor").
		Where("donor_id = ?", donorID).
		Order("created_at DESC").
		Find(&requests).Error

	if err != nil {
		log.Printf("Failed to retrieve donor requests: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching requests for donor"})
		return
	}

	response := make([]RequestResponse, 0, len(requests))

	for _, request := range requests {
		response = append(response, toRequestResponse(request))
	}

	ctx.JSON(http.StatusOK, response)
}

// ListRecipientRequests returns every request the recipient has made, with
// the listing item name and donor organization attached, newest first.
func ListRecipientRequests(ctx *gin.Context) {
	recipientID, err := strconv.ParseUint(ctx.Param("recipientId"), 10, 64)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipient ID"})
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if currentUser.ID != uint(recipientID) && currentUser.Role != types.RoleAdmin {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}

	var requests []models.DonationRequest

	err = db.DB.Preload("Listing").Preload("Recipient").Preload("Donor").
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Find(&requests).Error

	if err != nil {
		log.Printf("Failed to retrieve recipient requests: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching requests by recipient"})
		return
	}

	response := make([]RequestResponse, 0, len(requests))

	for _, request := range requests {
		response = append(response, toRequestResponse(request))
	}

	ctx.JSON(http.StatusOK, response)
}

// CreateRequest inserts a Pending request against an existing listing,
// copying the listing's donor id onto the request. Duplicate requests from
// the same recipient are allowed; the dashboard hides the action instead.
func CreateRequest(ctx *gin.Context) {
	var body CreateRequestRequest

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

	var listing models.FoodListing

	if err := db.DB.First(&listing, body.ListingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Listing not found."})
			return
		}
		log.Printf("Failed to retrieve listing: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating request"})
		return
	}

	request := models.DonationRequest{
		ListingID:    listing.ID,
		RecipientID:  currentUser.ID,
		DonorID:      listing.DonorID,
		ContactName:  body.ContactName,
		ContactPhone: body.ContactPhone,
		Notes:        body.Notes,
		Status:       types.RequestPending,
	}

	if err := db.DB.Create(&request).Error; err != nil {
		log.Printf("Failed to create request: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating request"})
		return
	}

	go BroadcastChange("requests", request.ID, "created")

	request.Listing = listing
	request.Recipient.OrganizationName = currentUser.OrganizationName

	ctx.JSON(http.StatusCreated, toRequestResponse(request))
}

// UpdateRequestStatus moves a request through the approval workflow:
// Pending -> Approved/Denied (donor), Approved -> Accepted (recipient),
// Approved/Accepted -> Claimed (donor). Claiming also marks the listing
// Claimed; both writes happen in one transaction so a partial claim cannot
// be observed. A redundant claim is accepted and changes nothing.
func UpdateRequestStatus(ctx *gin.Context) {
	requestID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	var body UpdateRequestStatusRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Status is required."})
		return
	}

	if !types.IsValidRequestStatus(body.Status) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status: " + body.Status})
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request models.DonationRequest

	if err := db.DB.First(&request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Request not found."})
			return
		}
		log.Printf("Failed to retrieve request: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating request"})
		return
	}

	if currentUser.ID != request.DonorID && currentUser.ID != request.RecipientID {
		// Non-participants do not learn the request exists
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Request not found."})
		return
	}

	if !actorMayApply(currentUser.ID, request, body.Status) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You may not apply this status to the request."})
		return
	}

	listingChanged := false

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, requestID).Error; err != nil {
			return err
		}

		if !types.CanTransitionRequest(request.Status, body.Status) {
			return errIllegalTransition
		}

		if request.Status == body.Status {
			// Redundant claim, nothing to write
			return nil
		}

		if err := tx.Model(&request).Update("status", body.Status).Error; err != nil {
			return err
		}

		if body.Status != types.RequestClaimed {
			return nil
		}

		var listing models.FoodListing

		if err := tx.First(&listing, request.ListingID).Error; err != nil {
			return err
		}

		// The listing may already be Claimed through another request; in that
		// case this request cannot complete the claim.
		if listing.Status != types.ListingAvailable {
			return errListingNotClaimable
		}

		if err := tx.Model(&listing).Update("status", types.ListingClaimed).Error; err != nil {
			return err
		}

		listingChanged = true
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, errIllegalTransition):
			ctx.JSON(http.StatusConflict, gin.H{"error": "Cannot move request from " + request.Status + " to " + body.Status + "."})
		case errors.Is(err, errListingNotClaimable):
			ctx.JSON(http.StatusConflict, gin.H{"error": "Listing has already been claimed."})
		case errors.Is(err, gorm.ErrRecordNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Request not found."})
		default:
			log.Printf("Failed to update request %d: %v", requestID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating request"})
		}
		return
	}

	go BroadcastChange("requests", request.ID, "updated")

	if listingChanged {
		go BroadcastChange("listings", request.ListingID, "updated")
	}

	if err := db.DB.Preload("Listing").Preload("Recipient").Preload("Donor").First(&request, requestID).Error; err != nil {
		log.Printf("Failed to reload request %d: %v", requestID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating request"})
		return
	}

	if listingChanged {
		go func() {
			if err := services.AnnounceDonationCompleted(AppConfig.DiscordWebhook, AppConfig.SlackWebhook, request); err != nil {
				log.Printf("Failed to announce completed donation %d: %v", request.ID, err)
			}
		}()
	}

	ctx.JSON(http.StatusOK, toRequestResponse(request))
}

// actorMayApply encodes who drives which transition: donors approve, deny
// and claim; recipients accept.
func actorMayApply(userID uint, request models.DonationRequest, status string) bool {
	switch status {
	case types.RequestApproved, types.RequestDenied, types.RequestClaimed:
		return userID == request.DonorID
	case types.RequestAccepted:
		return userID == request.RecipientID
	default:
		return false
	}
}
