package routes

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"agency-admin-server/database"
	"agency-admin-server/middleware"
	"agency-admin-server/models"
	"agency-admin-server/services"
)

var notificationService *services.NotificationService

// RegisterNotificationRoutes registers the notification inbox routes
func RegisterNotificationRoutes(router *gin.RouterGroup, notifications *services.NotificationService) {
	notificationService = notifications
	router.GET("", listNotifications)
	router.GET("/unread-count", unreadNotificationCount)
	router.PATCH("/read-all", markAllNotificationsRead)
	router.PATCH("/:id/read", markNotificationRead)
	router.DELETE("/clear", clearNotifications)
	router.DELETE("/:id", deleteNotification)
}

// listNotifications returns the admin's unexpired notifications
func listNotifications(c *gin.Context) {
	actor := middleware.CurrentAdmin(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 200 {
		limit = 50
	}

	notifications, err := notificationService.ListForAdmin(actor.ID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "notifications": notifications})
}

// unreadNotificationCount returns how many unexpired notifications are unread
func unreadNotificationCount(c *gin.Context) {
	actor := middleware.CurrentAdmin(c)

	count, err := notificationService.UnreadCount(actor.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to count notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": count})
}

// markNotificationRead marks one of the admin's notifications as read
func markNotificationRead(c *gin.Context) {
	actor := middleware.CurrentAdmin(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid notification id"})
		return
	}

	result := database.DB.Model(&models.Notification{}).
		Where("id = ? AND admin_id = ?", uint(id), actor.ID).
		Update("read", true)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update notification"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Notification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// markAllNotificationsRead marks every unexpired notification as read
func markAllNotificationsRead(c *gin.Context) {
	actor := middleware.CurrentAdmin(c)

	err := database.DB.Model(&models.Notification{}).
		Where("admin_id = ? AND read = ? AND expires_at > ?", actor.ID, false, time.Now()).
		Update("read", true).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// deleteNotification removes one of the admin's notifications
func deleteNotification(c *gin.Context) {
	actor := middleware.CurrentAdmin(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid notification id"})
		return
	}

	result := database.DB.Where("id = ? AND admin_id = ?", uint(id), actor.ID).
		Delete(&models.Notification{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete notification"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Notification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// clearNotifications removes all of the admin's notifications
func clearNotifications(c *gin.Context) {
	actor := middleware.CurrentAdmin(c)

	result := database.DB.Where("admin_id = ?", actor.ID).Delete(&models.Notification{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to clear notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": result.RowsAffected})
}
