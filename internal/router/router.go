package router

import (
	"time"

	"github.com/dhanush290707/FoodFlow/internal/handlers"
	"github.com/dhanush290707/FoodFlow/internal/middleware"
	"github.com/dhanush290707/FoodFlow/internal/types"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register)
			auth.POST("/login", handlers.Login)
			auth.POST("/logout", handlers.Logout)
			auth.POST("/forgot-password", handlers.ForgotPassword)
			auth.POST("/reset-password", handlers.ResetPassword)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
		}

		listings := api.Group("/listings", middleware.AuthMiddleware())
		{
			listings.GET("", handlers.ListAvailableListings)
			listings.GET("/donor/:donorId", handlers.ListDonorListings)
			listings.POST("", middleware.RequireRole(types.RoleDonor), handlers.CreateListing)
		}

		requests := api.Group("/requests", middleware.AuthMiddleware())
		{
			requests.GET("/donor/:donorId", handlers.ListDonorRequests)
			requests.GET("/recipient/:recipientId", handlers.ListRecipientRequests)
			requests.POST("", middleware.RequireRole(types.RoleRecipient), handlers.CreateRequest)
			requests.PUT("/:id", handlers.UpdateRequestStatus)
		}

		admin := api.Group("/admin", middleware.AuthMiddleware(), middleware.RequireRole(types.RoleAdmin))
		{
			admin.GET("/all-data", handlers.AllData)
			admin.GET("/events", handlers.RecentChanges)
		}

		analytics := api.Group("/analytics", middleware.AuthMiddleware(), middleware.RequireRole(types.RoleAdmin, types.RoleAnalyst))
		{
			analytics.GET("/summary", handlers.AnalyticsSummary)
		}
	}

	return r
}
