package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"agency-admin-server/database"
	"agency-admin-server/models"
	"agency-admin-server/utils"
)

// AuthMiddleware validates JWT tokens and loads the acting admin into the
// request context. Role and approval checks live here, server-side; the UI
// is not a security boundary.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Authorization header required",
			})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Token must be in format: Bearer <token>",
			})
			c.Abort()
			return
		}

		claims, err := utils.VerifyToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Token is invalid or expired",
			})
			c.Abort()
			return
		}

		var admin models.Admin
		if err := database.DB.First(&admin, claims.AdminID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Admin associated with token not found",
			})
			c.Abort()
			return
		}

		if !admin.IsApproved() {
			log.Printf("❌ Pending admin %d attempted an authenticated request", admin.ID)
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "Account is awaiting approval",
			})
			c.Abort()
			return
		}

		c.Set("admin", admin)
		c.Set("admin_id", admin.ID)

		c.Next()
	}
}

// SuperAdminMiddleware restricts a route group to superAdmins. Must run
// after AuthMiddleware.
func SuperAdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := CurrentAdmin(c)
		if admin == nil || !admin.IsSuperAdmin() {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "superAdmin access required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// WebSocketAuthMiddleware validates JWT tokens from query parameters for
// WebSocket connections, which cannot carry an Authorization header from a
// browser.
func WebSocketAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.Query("token")
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Token required in query parameters",
			})
			c.Abort()
			return
		}

		claims, err := utils.VerifyToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Token is invalid or expired",
			})
			c.Abort()
			return
		}

		var admin models.Admin
		if err := database.DB.First(&admin, claims.AdminID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Admin associated with token not found",
			})
			c.Abort()
			return
		}

		if !admin.IsApproved() {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "Account is awaiting approval",
			})
			c.Abort()
			return
		}

		c.Set("admin", admin)
		c.Set("admin_id", admin.ID)

		c.Next()
	}
}

// CurrentAdmin returns the admin loaded by AuthMiddleware, or nil
func CurrentAdmin(c *gin.Context) *models.Admin {
	value, exists := c.Get("admin")
	if !exists {
		return nil
	}
	admin, ok := value.(models.Admin)
	if !ok {
		return nil
	}
	return &admin
}
