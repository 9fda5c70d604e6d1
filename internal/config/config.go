package config

import (
	"github.com/kelseyhightower/envconfig"
)

type App struct {
	Port        string `envconfig:"PORT" default:"3000"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	// Reset tokens minted by forgot-password expire after this many minutes.
	ResetTokenTTLMin int `envconfig:"RESET_TOKEN_TTL_MIN" default:"60"`

	// Optional announcement channels for new listings and completed donations.
	DiscordWebhook string `envconfig:"DISCORD_WEBHOOK"`
	SlackWebhook   string `envconfig:"SLACK_WEBHOOK"`
}

func Load() (App, error) {
	var c App
	err := envconfig.Process("", &c)
	return c, err
}
