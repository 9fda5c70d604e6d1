package main

import (
	"log"

	"github.com/dhanush290707/FoodFlow/db"
	"github.com/dhanush290707/FoodFlow/internal/auth"
	"github.com/dhanush290707/FoodFlow/internal/config"
	"github.com/dhanush290707/FoodFlow/internal/handlers"
	"github.com/dhanush290707/FoodFlow/internal/router"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := auth.InitJWTSecret(cfg.JWTSecret); err != nil {
		log.Fatalf("Failed to initialize JWT: %v", err)
	}

	if err := db.ConnectDatabase(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	handlers.AppConfig = cfg

	r := router.NewRouter()

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
