package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createListing(t *testing.T, r *gin.Engine, token, itemName, quantity, expiryDate string) uint {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/listings", token, gin.H{
		"itemName":   itemName,
		"quantity":   quantity,
		"expiryDate": expiryDate,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	return uint(decodeBody(t, w)["id"].(float64))
}

func TestCreateListingRoundTrip(t *testing.T) {
	r := setupTest(t)

	registerUser(t, r, "donor@example.com", "donor", "Bakery")
	token, donorID := loginUser(t, r, "donor@example.com")

	createListing(t, r, token, "Bread", "20", "2025-01-01")

	w := doJSON(t, r, http.MethodGet, "/api/listings/donor/"+itoa(donorID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	listings := decodeList(t, w)
	require.Len(t, listings, 1)
	assert.Equal(t, "Bread", listings[0]["itemName"])
	assert.Equal(t, "20", listings[0]["quantity"])
	assert.Equal(t, "2025-01-01", listings[0]["expiryDate"])
	assert.Equal(t, "Available", listings[0]["status"])
}

func TestListAvailableIncludesDonorNameNewestFirst(t *testing.T) {
	r := setupTest(t)

	registerUser(t, r, "donor@example.com", "donor", "Bakery")
	registerUser(t, r, "recipient@example.com", "recipient", "Shelter")
	donorToken, _ := loginUser(t, r, "donor@example.com")
	recipientToken, _ := loginUser(t, r, "recipient@example.com")

	first := createListing(t, r, donorToken, "Bread", "20", "2025-01-01")
	second := createListing(t, r, donorToken, "Soup", "5", "2025-02-01")

	w := doJSON(t, r, http.MethodGet, "/api/listings", recipientToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	listings := decodeList(t, w)
	require.Len(t, listings, 2)

	ids := []uint{uint(listings[0]["id"].(float64)), uint(listings[1]["id"].(float64))}
	assert.Contains(t, ids, first)
	assert.Contains(t, ids, second)

	for _, listing := range listings {
		assert.Equal(t, "Bakery", listing["donorName"])
		assert.Equal(t, "Available", listing["status"])
	}
}

func TestCreateListingRequiresDonorRole(t *testing.T) {
	r := setupTest(t)

	registerUser(t, r, "recipient@example.com", "recipient", "Shelter")
	token, _ := loginUser(t, r, "recipient@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/listings", token, gin.H{
		"itemName":   "Bread",
		"quantity":   "20",
		"expiryDate": "2025-01-01",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateListingRejectsBadExpiryDate(t *testing.T) {
	r := setupTest(t)

	registerUser(t, r, "donor@example.com", "donor", "Bakery")
	token, _ := loginUser(t, r, "donor@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/listings", token, gin.H{
		"itemName":   "Bread",
		"quantity":   "20",
		"expiryDate": "January 1st",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListDonorListingsIsOwnerOrAdminOnly(t *testing.T) {
	r := setupTest(t)

	registerUser(t, r, "donor@example.com", "donor", "Bakery")
	registerUser(t, r, "other@example.com", "donor", "Deli")
	registerUser(t, r, "admin@example.com", "admin", "City")

	donorToken, donorID := loginUser(t, r, "donor@example.com")
	otherToken, _ := loginUser(t, r, "other@example.com")
	adminToken, _ := loginUser(t, r, "admin@example.com")

	createListing(t, r, donorToken, "Bread", "20", "2025-01-01")

	w := doJSON(t, r, http.MethodGet, "/api/listings/donor/"+itoa(donorID), otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/listings/donor/"+itoa(donorID), adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
