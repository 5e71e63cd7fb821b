package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"agency-admin-server/database"
	"agency-admin-server/middleware"
	"agency-admin-server/models"
)

// RegisterDashboardRoutes registers the back-office dashboard route
func RegisterDashboardRoutes(router *gin.RouterGroup) {
	router.GET("/stats", dashboardStats)
}

// dashboardStats aggregates the counts shown on the admin landing page
func dashboardStats(c *gin.Context) {
	actor := middleware.CurrentAdmin(c)

	var (
		totalInquiries  int64
		totalReviews    int64
		pendingReviews  int64
		inProgress      int64
		highPriority    int64
		assignedToMe    int64
		openBugs        int64
		pendingRatings  int64
		weeklyInquiries int64
	)

	db := database.DB
	weekAgo := time.Now().Add(-7 * 24 * time.Hour)

	db.Model(&models.Inquiry{}).Count(&totalInquiries)
	db.Model(&models.Inquiry{}).Where("created_at >= ?", weekAgo).Count(&weeklyInquiries)
	db.Model(&models.Review{}).Count(&totalReviews)
	db.Model(&models.Review{}).Where("client_status = ?", models.ClientStatusPending).Count(&pendingReviews)
	db.Model(&models.Review{}).Where("client_status = ?", models.ClientStatusInProgress).Count(&inProgress)
	db.Model(&models.Review{}).Where("priority IN ?", []models.ReviewPriority{models.PriorityHigh, models.PriorityHighest}).Count(&highPriority)
	db.Model(&models.Review{}).Where("assigned_to = ?", actor.ID).Count(&assignedToMe)
	db.Model(&models.BugReport{}).Where("status = ?", models.BugStatusUnresolved).Count(&openBugs)
	db.Model(&models.Rating{}).Where("approved = ?", false).Count(&pendingRatings)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats": gin.H{
			"total_inquiries":   totalInquiries,
			"weekly_inquiries":  weeklyInquiries,
			"total_reviews":     totalReviews,
			"pending_reviews":   pendingReviews,
			"in_progress":       inProgress,
			"high_priority":     highPriority,
			"assigned_to_me":    assignedToMe,
			"open_bug_reports":  openBugs,
			"pending_ratings":   pendingRatings,
		},
	})
}
