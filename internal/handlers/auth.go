package handlers

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dhanush290707/FoodFlow/db"
	"github.com/dhanush290707/FoodFlow/internal/auth"
	"github.com/dhanush290707/FoodFlow/internal/config"
	"github.com/dhanush290707/FoodFlow/internal/models"
	"github.com/dhanush290707/FoodFlow/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required,min=8"`
	Role             string `json:"role" binding:"required,oneof=donor recipient admin analyst"`
	OrganizationName string `json:"organizationName" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// UserResponse is the projection dashboards cache client-side.
type UserResponse struct {
	ID               uint   `json:"id"`
	Email            string `json:"email"`
	Role             string `json:"role"`
	OrganizationName string `json:"organizationName"`
}

// AppConfig is set once at startup; tests override it directly.
var AppConfig config.App

var (
	Domain = os.Getenv("DOMAIN")
)

const genericResetMessage = "If an account with that email exists, a password reset link has been sent."

func Register(ctx *gin.Context) {
	var body RegisterRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Please provide all required fields."})
		return
	}

	body.Email = strings.ToLower(strings.TrimSpace(body.Email))

	var existingUser models.User

	err := db.DB.Where("email = ?", body.Email).First(&existingUser).Error

	if err == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "An account with this email already exists."})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Database error when checking existing user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)

	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	newUser := models.User{
		Email:            body.Email,
		PasswordHash:     string(passwordHash),
		Role:             body.Role,
		OrganizationName: body.OrganizationName,
	}

	if err := db.DB.Create(&newUser).Error; err != nil {
		log.Printf("Failed to create user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	go BroadcastChange("users", newUser.ID, "created")

	ctx.JSON(http.StatusCreated, gin.H{"message": "User registered successfully!"})
}

func Login(ctx *gin.Context) {
	var body LoginRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Please provide email and password."})
		return
	}

	body.Email = strings.ToLower(strings.TrimSpace(body.Email))

	var existingUser models.User

	err := db.DB.Where("email = ?", body.Email).First(&existingUser).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same message as a hash mismatch so callers cannot probe for accounts
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials."})
			return
		}
		log.Printf("Database error when fetching user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(existingUser.PasswordHash), []byte(body.Password))

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials."})
		return
	}

	token, err := auth.GenerateJWT(existingUser.ID, existingUser.Email, existingUser.Role)

	if err != nil {
		log.Printf("Failed to generate JWT: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Domain:   Domain,
		MaxAge:   60 * 60 * 24 * 7,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Login successful!",
		"token":   token,
		"user": UserResponse{
			ID:               existingUser.ID,
			Email:            existingUser.Email,
			Role:             existingUser.Role,
			OrganizationName: existingUser.OrganizationName,
		},
	})
}

func Me(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user": UserResponse{
			ID:               currentUser.ID,
			Email:            currentUser.Email,
			Role:             currentUser.Role,
			OrganizationName: currentUser.OrganizationName,
		},
	})
}

func Logout(ctx *gin.Context) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		Domain:   Domain,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})

	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// ForgotPassword mints a single-use reset token for the account, if it
// exists. The response is the same either way so the endpoint cannot be used
// to enumerate accounts. There is no mailer; the token is logged server-side.
func ForgotPassword(ctx *gin.Context) {
	var body ForgotPasswordRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Please provide an email address."})
		return
	}

	body.Email = strings.ToLower(strings.TrimSpace(body.Email))

	var user models.User

	err := db.DB.Where("email = ?", body.Email).First(&user).Error

	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Database error when fetching user: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"message": genericResetMessage})
		return
	}

	ttl := AppConfig.ResetTokenTTLMin
	if ttl <= 0 {
		ttl = 60
	}

	reset := models.PasswordReset{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(time.Duration(ttl) * time.Minute),
	}

	if err := db.DB.Create(&reset).Error; err != nil {
		log.Printf("Failed to create password reset token: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	log.Printf("Password reset requested for %s, token %s (expires %s)", user.Email, reset.Token, reset.ExpiresAt.Format(time.RFC3339))

	ctx.JSON(http.StatusOK, gin.H{"message": genericResetMessage})
}

// ResetPassword consumes a token from ForgotPassword and replaces the stored
// credential. The token is marked used inside the same transaction as the
// password update, so it cannot be replayed.
func ResetPassword(ctx *gin.Context) {
	var body ResetPasswordRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email, token and new password are required."})
		return
	}

	body.Email = strings.ToLower(strings.TrimSpace(body.Email))

	var user models.User

	if err := db.DB.Where("email = ?", body.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired reset token."})
			return
		}
		log.Printf("Database error when fetching user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(body.NewPassword), bcrypt.DefaultCost)

	if err != nil {
		log.Printf("Failed to hash new password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		var reset models.PasswordReset

		if err := tx.Where("user_id = ? AND token = ? AND used_at IS NULL AND expires_at > ?",
			user.ID, body.Token, time.Now()).First(&reset).Error; err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(&reset).Update("used_at", &now).Error; err != nil {
			return err
		}

		return tx.Model(&user).Update("password_hash", string(passwordHash)).Error
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired reset token."})
			return
		}
		log.Printf("Failed to reset password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Password has been successfully reset. You can now log in."})
}
