package routes

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"agency-admin-server/database"
	"agency-admin-server/middleware"
	"agency-admin-server/models"
	"agency-admin-server/services"
	"agency-admin-server/utils"
)

var jwtService *services.JWTService

// RegisterRequest represents the admin registration request
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Gender   string `json:"gender"`
}

// LoginRequest accepts either the username or the email as identifier
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// RefreshRequest represents the token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RegisterAuthRoutes registers authentication routes
func RegisterAuthRoutes(router *gin.RouterGroup, jwt *services.JWTService) {
	jwtService = jwt
	router.POST("/register", register)
	router.POST("/login", login)
	router.POST("/refresh", refreshToken)
	router.POST("/logout", logout)
}

// RegisterSessionRoutes registers routes that need an authenticated session
func RegisterSessionRoutes(router *gin.RouterGroup) {
	router.GET("/me", me)
}

// register creates a new admin account in pending state
func register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	if valid, problems := middleware.ValidatePasswordStrength(req.Password); !valid {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Password is too weak", "errors": problems})
		return
	}

	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing models.Admin
	if err := database.DB.Where("username = ? OR email = ?", username, email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "An account with this username or email already exists"})
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Printf("❌ Password hashing failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to process password"})
		return
	}

	admin := models.Admin{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		Status:       models.AdminStatusPending,
		Gender:       req.Gender,
	}
	if err := database.DB.Create(&admin).Error; err != nil {
		log.Printf("❌ Failed to create admin: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create account"})
		return
	}

	log.Printf("✅ New admin registered (pending approval): %s", admin.Username)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Account created. A super admin must approve it before you can sign in.",
		"admin":   admin,
	})
}

// login authenticates an approved admin and issues a token pair
func login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	identifier := strings.TrimSpace(req.Identifier)

	var admin models.Admin
	err := database.DB.Where("username = ? OR email = ?", identifier, strings.ToLower(identifier)).First(&admin).Error
	if err != nil || !utils.CheckPasswordHash(req.Password, admin.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
		return
	}

	if !admin.IsApproved() {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Account is awaiting approval"})
		return
	}

	pair, err := jwtService.GenerateTokenPair(&admin, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		log.Printf("❌ Failed to generate tokens for %s: %v", admin.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create session"})
		return
	}

	log.Printf("✅ Admin signed in: %s", admin.Username)
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"token":         pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"expires_in":    pair.ExpiresIn,
		"admin":         admin,
	})
}

// refreshToken exchanges a valid refresh token for a new access token
func refreshToken(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	accessToken, admin, err := jwtService.RefreshAccessToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid or expired refresh token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   accessToken,
		"admin":   admin,
	})
}

// logout revokes the presented refresh token
func logout(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
		return
	}

	if err := jwtService.RevokeRefreshToken(req.RefreshToken); err != nil {
		log.Printf("⚠️ Failed to revoke refresh token: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}

// me returns the authenticated admin's profile
func me(c *gin.Context) {
	admin := middleware.CurrentAdmin(c)
	if admin == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "admin": admin})
}
