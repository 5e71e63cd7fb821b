package routes

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"agency-admin-server/database"
	"agency-admin-server/middleware"
	"agency-admin-server/models"
)

// RegisterAdminRoutes registers admin directory routes
func RegisterAdminRoutes(router *gin.RouterGroup) {
	router.GET("", listAdmins)
	router.PUT("/profile", updateProfile)
}

// RegisterAdminManagementRoutes registers super-admin-only account management
func RegisterAdminManagementRoutes(router *gin.RouterGroup) {
	router.GET("/pending", listPendingAdmins)
	router.PATCH("/:id/approve", approveAdmin)
	router.DELETE("/:id", deleteAdmin)
}

// listAdmins returns all approved admins for assignment and chat pickers
func listAdmins(c *gin.Context) {
	var admins []models.Admin
	err := database.DB.Where("status = ? OR role = ?", models.AdminStatusApproved, models.RoleSuperAdmin).
		Order("username ASC").
		Find(&admins).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load admins"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "admins": admins})
}

// listPendingAdmins returns accounts awaiting approval
func listPendingAdmins(c *gin.Context) {
	var admins []models.Admin
	err := database.DB.Where("status = ?", models.AdminStatusPending).
		Order("created_at ASC").
		Find(&admins).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load pending admins"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "admins": admins})
}

// approveAdmin moves a pending account to approved
func approveAdmin(c *gin.Context) {
	actor := middleware.CurrentAdmin(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid admin id"})
		return
	}

	var admin models.Admin
	if err := database.DB.First(&admin, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Admin not found"})
		return
	}

	if admin.Status == models.AdminStatusApproved {
		c.JSON(http.StatusOK, gin.H{"success": true, "admin": admin})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":      models.AdminStatusApproved,
		"approved_by": actor.ID,
		"approved_at": now,
	}
	if err := database.DB.Model(&admin).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to approve admin"})
		return
	}

	log.Printf("✅ Admin %s approved by %s", admin.Username, actor.Username)
	c.JSON(http.StatusOK, gin.H{"success": true, "admin": admin})
}

// deleteAdmin removes an account. Super admins cannot delete themselves.
func deleteAdmin(c *gin.Context) {
	actor := middleware.CurrentAdmin(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid admin id"})
		return
	}

	if uint(id) == actor.ID {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "You cannot delete your own account"})
		return
	}

	var admin models.Admin
	if err := database.DB.First(&admin, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Admin not found"})
		return
	}

	if err := database.DB.Delete(&admin).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete admin"})
		return
	}

	if err := jwtService.RevokeAllForAdmin(admin.ID); err != nil {
		log.Printf("⚠️ Failed to revoke sessions for deleted admin %d: %v", admin.ID, err)
	}

	log.Printf("🗑️ Admin %s deleted by %s", admin.Username, actor.Username)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Admin deleted"})
}

// ProfileUpdateRequest represents the editable profile fields
type ProfileUpdateRequest struct {
	Username string `json:"username"`
	Gender   string `json:"gender"`
}

// updateProfile edits the authenticated admin's own profile
func updateProfile(c *gin.Context) {
	actor := middleware.CurrentAdmin(c)

	var req ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Username != "" && req.Username != actor.Username {
		var existing models.Admin
		if err := database.DB.Where("username = ? AND id <> ?", req.Username, actor.ID).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Username is already taken"})
			return
		}
		updates["username"] = req.Username
	}
	if req.Gender != "" {
		updates["gender"] = req.Gender
	}

	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{"success": true, "admin": actor})
		return
	}

	if err := database.DB.Model(actor).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "admin": actor})
}
