package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/dhanush290707/FoodFlow/db"
	"github.com/dhanush290707/FoodFlow/internal/models"
	"github.com/dhanush290707/FoodFlow/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllDataExcludesPasswordHash(t *testing.T) {
	r := setupTest(t)

	registerUser(t, r, "donor@example.com", "donor", "Bakery")
	registerUser(t, r, "admin@example.com", "admin", "City")
	adminToken, _ := loginUser(t, r, "admin@example.com")

	w := doJSON(t, r, http.MethodGet, "/api/admin/all-data", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	lower := strings.ToLower(w.Body.String())
	assert.NotContains(t, lower, "password")
	assert.NotContains(t, lower, "$2a$") // bcrypt hash prefix

	body := decodeBody(t, w)
	users := body["users"].([]interface{})
	assert.Len(t, users, 2)
}

func TestAllDataPopulatesNames(t *testing.T) {
	r := setupTest(t)

	registerUser(t, r, "donor@example.com", "donor", "Bakery")
	registerUser(t, r, "recipient@example.com", "recipient", "Shelter")
	registerUser(t, r, "admin@example.com", "admin", "City")
	donorToken, _ := loginUser(t, r, "donor@example.com")
	recipientToken, _ := loginUser(t, r, "recipient@example.com")
	adminToken, _ := loginUser(t, r, "admin@example.com")

	listingID := createListing(t, r, donorToken, "Bread", "20", "2025-01-01")
	createRequest(t, r, recipientToken, listingID)

	w := doJSON(t, r, http.MethodGet, "/api/admin/all-data", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)

	listings := body["listings"].([]interface{})
	require.Len(t, listings, 1)
	assert.Equal(t, "Bakery", listings[0].(map[string]interface{})["donorName"])

	requests := body["requests"].([]interface{})
	require.Len(t, requests, 1)
	request := requests[0].(map[string]interface{})
	assert.Equal(t, "Bread", request["itemName"])
	assert.Equal(t, "Shelter", request["recipientName"])
}

func TestAdminEndpointsRequireAdminRole(t *testing.T) {
	r := setupTest(t)

	registerUser(t, r, "donor@example.com", "donor", "Bakery")
	registerUser(t, r, "analyst@example.com", "analyst", "University")
	donorToken, _ := loginUser(t, r, "donor@example.com")
	analystToken, _ := loginUser(t, r, "analyst@example.com")

	w := doJSON(t, r, http.MethodGet, "/api/admin/all-data", donorToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Analysts read analytics but not the raw dump
	w = doJSON(t, r, http.MethodGet, "/api/admin/all-data", analystToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/analytics/summary", analystToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/analytics/summary", donorToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAnalyticsSummaryMatchesDirectCounts(t *testing.T) {
	r := setupTest(t)

	registerUser(t, r, "donor@example.com", "donor", "Bakery")
	registerUser(t, r, "recipient@example.com", "recipient", "Shelter")
	registerUser(t, r, "analyst@example.com", "analyst", "University")
	donorToken, _ := loginUser(t, r, "donor@example.com")
	recipientToken, _ := loginUser(t, r, "recipient@example.com")
	analystToken, _ := loginUser(t, r, "analyst@example.com")

	bread := createListing(t, r, donorToken, "Bread", "20", "2025-01-01")
	createListing(t, r, donorToken, "Soup", "5", "2025-02-01")
	requestID := createRequest(t, r, recipientToken, bread)

	require.Equal(t, http.StatusOK, updateStatus(t, r, donorToken, requestID, "Approved"))
	require.Equal(t, http.StatusOK, updateStatus(t, r, donorToken, requestID, "Claimed"))

	w := doJSON(t, r, http.MethodGet, "/api/analytics/summary", analystToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	summary := decodeBody(t, w)
	assert.Equal(t, float64(3), summary["totalUsers"])
	assert.Equal(t, float64(2), summary["totalListings"])
	assert.Equal(t, float64(1), summary["claimedListings"])
	assert.Equal(t, float64(1), summary["totalRequests"])

	// claimedListings always equals the direct filtered count
	var claimed int64
	require.NoError(t, db.DB.Model(&models.FoodListing{}).Where("status = ?", types.ListingClaimed).Count(&claimed).Error)
	assert.Equal(t, float64(claimed), summary["claimedListings"])
}
