package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dhanush290707/FoodFlow/internal/models"
)

type DiscordWebhookField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type DiscordEmbed struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Color       int                   `json:"color"`
	Fields      []DiscordWebhookField `json:"fields"`
	Footer      *DiscordFooter        `json:"footer,omitempty"`
	Timestamp   string                `json:"timestamp"`
}

type DiscordFooter struct {
	Text string `json:"text"`
}

type DiscordWebhookRequest struct {
	Username  string         `json:"username"`
	AvatarURL string         `json:"avatar_url,omitempty"`
	Embeds    []DiscordEmbed `json:"embeds"`
}

type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

type SlackAttachment struct {
	Color     string       `json:"color"`
	Title     string       `json:"title"`
	Text      string       `json:"text"`
	Fields    []SlackField `json:"fields"`
	Footer    string       `json:"footer"`
	Timestamp int64        `json:"ts"`
}

type SlackWebhookRequest struct {
	Username    string            `json:"username"`
	IconEmoji   string            `json:"icon_emoji,omitempty"`
	Text        string            `json:"text"`
	Attachments []SlackAttachment `json:"attachments"`
}

const (
	ColorGreen  = 65280    // #00FF00 - New listing posted
	ColorOrange = 16753920 // #FFA500 - Donation completed

	Username = "FoodFlow"
)

// AnnounceListingCreated posts a new-listing message to whichever community
// channels are configured. Both URLs empty is the common case and a no-op.
func AnnounceListingCreated(discordURL, slackURL string, listing models.FoodListing, donorName string) error {
	if discordURL != "" {
		payload := DiscordWebhookRequest{
			Username: Username,
			Embeds: []DiscordEmbed{
				{
					Title:       "New food listing available",
					Description: fmt.Sprintf("%s posted '%s'", donorName, listing.ItemName),
					Color:       ColorGreen,
					Fields: []DiscordWebhookField{
						{Name: "Item", Value: listing.ItemName, Inline: true},
						{Name: "Quantity", Value: listing.Quantity, Inline: true},
						{Name: "Expires", Value: listing.ExpiryDate.Format("2006-01-02"), Inline: true},
					},
					Footer:    &DiscordFooter{Text: fmt.Sprintf("Donor: %s", donorName)},
					Timestamp: time.Now().Format(time.RFC3339),
				},
			},
		}

		if err := sendDiscordWebhook(discordURL, payload); err != nil {
			return fmt.Errorf("discord: %w", err)
		}
	}

	if slackURL != "" {
		payload := SlackWebhookRequest{
			Username:  Username,
			IconEmoji: ":green_salad:",
			Text:      ":green_salad: *NEW FOOD LISTING*",
			Attachments: []SlackAttachment{
				{
					Color: "good",
					Title: fmt.Sprintf("%s posted '%s'", donorName, listing.ItemName),
					Fields: []SlackField{
						{Title: "Item", Value: listing.ItemName, Short: true},
						{Title: "Quantity", Value: listing.Quantity, Short: true},
						{Title: "Expires", Value: listing.ExpiryDate.Format("2006-01-02"), Short: true},
					},
					Footer:    fmt.Sprintf("Donor: %s", donorName),
					Timestamp: time.Now().Unix(),
				},
			},
		}

		if err := sendSlackWebhook(slackURL, payload); err != nil {
			return fmt.Errorf("slack: %w", err)
		}
	}

	return nil
}

// AnnounceDonationCompleted posts a claimed-donation message once a request
// reaches Claimed. The request must arrive with Listing, Donor and Recipient
// populated.
func AnnounceDonationCompleted(discordURL, slackURL string, request models.DonationRequest) error {
	if discordURL != "" {
		payload := DiscordWebhookRequest{
			Username: Username,
			Embeds: []DiscordEmbed{
				{
					Title:       "Donation completed",
					Description: fmt.Sprintf("'%s' has been claimed by %s", request.Listing.ItemName, request.Recipient.OrganizationName),
					Color:       ColorOrange,
					Fields: []DiscordWebhookField{
						{Name: "Item", Value: request.Listing.ItemName, Inline: true},
						{Name: "Donor", Value: request.Donor.OrganizationName, Inline: true},
						{Name: "Recipient", Value: request.Recipient.OrganizationName, Inline: true},
					},
					Timestamp: time.Now().Format(time.RFC3339),
				},
			},
		}

		if err := sendDiscordWebhook(discordURL, payload); err != nil {
			return fmt.Errorf("discord: %w", err)
		}
	}

	if slackURL != "" {
		payload := SlackWebhookRequest{
			Username:  Username,
			IconEmoji: ":tada:",
			Text:      ":tada: *DONATION COMPLETED*",
			Attachments: []SlackAttachment{
				{
					Color: "warning",
					Title: fmt.Sprintf("'%s' has been claimed", request.Listing.ItemName),
					Fields: []SlackField{
						{Title: "Item", Value: request.Listing.ItemName, Short: true},
						{Title: "Donor", Value: request.Donor.OrganizationName, Short: true},
						{Title: "Recipient", Value: request.Recipient.OrganizationName, Short: true},
					},
					Timestamp: time.Now().Unix(),
				},
			},
		}

		if err := sendSlackWebhook(slackURL, payload); err != nil {
			return fmt.Errorf("slack: %w", err)
		}
	}

	return nil
}

func sendDiscordWebhook(webhookURL string, payload DiscordWebhookRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal Discord payload: %w", err)
	}

	resp, err := http.Post(webhookURL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to send Discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("Discord webhook returned status %d", resp.StatusCode)
	}

	return nil
}

func sendSlackWebhook(webhookURL string, payload SlackWebhookRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal Slack payload: %w", err)
	}

	resp, err := http.Post(webhookURL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to send Slack webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("Slack webhook returned status %d", resp.StatusCode)
	}

	return nil
}
