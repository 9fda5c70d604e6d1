package types

import (
	"os"
	"strings"
)

const ContextUserKey = "user"

// Account roles
const (
	RoleDonor     = "donor"
	RoleRecipient = "recipient"
	RoleAdmin     = "admin"
	RoleAnalyst   = "analyst"
)

// Listing statuses
const (
	ListingAvailable = "Available"
	ListingClaimed   = "Claimed"
)

// Donation request statuses
const (
	RequestPending  = "Pending"
	RequestApproved = "Approved"
	RequestDenied   = "Denied"
	RequestAccepted = "Accepted"
	RequestClaimed  = "Claimed"
)

// requestTransitions is the enforced workflow for DonationRequest.Status.
// Claimed -> Claimed is allowed so a redundant claim is a no-op rather than an error.
var requestTransitions = map[string][]string{
	RequestPending:  {RequestApproved, RequestDenied},
	RequestApproved: {RequestAccepted, RequestClaimed},
	RequestAccepted: {RequestClaimed},
	RequestClaimed:  {RequestClaimed},
}

// IsValidRequestStatus reports whether s is a known request status.
func IsValidRequestStatus(s string) bool {
	switch s {
	case RequestPending, RequestApproved, RequestDenied, RequestAccepted, RequestClaimed:
		return true
	}
	return false
}

// CanTransitionRequest reports whether a request may move from one status to another.
func CanTransitionRequest(from, to string) bool {
	for _, next := range requestTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

var (
	// Default allowed origins for development
	defaultOrigins = []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}

	AllowedOrigins = initAllowedOrigins()
)

func initAllowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		envOrigins := strings.Split(allowedOrigins, ",")
		for _, origin := range envOrigins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}
