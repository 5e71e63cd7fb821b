package routes

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"agency-admin-server/database"
	"agency-admin-server/middleware"
	"agency-admin-server/models"
	"agency-admin-server/services"
)

var uploadService *services.UploadService

// RegisterPublicBugReportRoutes registers the public bug report endpoint
func RegisterPublicBugReportRoutes(router *gin.RouterGroup, uploads *services.UploadService) {
	uploadService = uploads
	router.POST("/bug-reports", createBugReport)
}

// RegisterBugReportRoutes registers admin-side bug report routes
func RegisterBugReportRoutes(router *gin.RouterGroup) {
	router.GET("", listBugReports)
	router.GET("/export", exportBugReports)
	router.PATCH("/:id/priority", updateBugPriority)
	router.PATCH("/:id/status", updateBugStatus)
}

// RegisterBugReportManagementRoutes registers super-admin-only deletion
func RegisterBugReportManagementRoutes(router *gin.RouterGroup) {
	router.POST("/bulk-delete", bulkDeleteBugReports)
	router.DELETE("/:id", deleteBugReport)
}

// createBugReport accepts a public bug report with an optional screenshot.
// Sent as multipart form data so the screenshot can ride along.
func createBugReport(c *gin.Context) {
	email := strings.ToLower(strings.TrimSpace(c.PostForm("email")))
	subject := strings.TrimSpace(c.PostForm("subject"))
	message := c.PostForm("message")

	if email == "" || subject == "" || message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "email, subject and message are required"})
		return
	}

	report := models.BugReport{
		Email:    email,
		Subject:  subject,
		Message:  message,
		Priority: models.PriorityLow,
		Status:   models.BugStatusUnresolved,
	}

	if header, err := c.FormFile("screenshot"); err == nil && header != nil {
		if !uploadService.Enabled() {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Screenshot uploads are not available"})
			return
		}
		url, err := uploadService.UploadScreenshot(c.Request.Context(), header)
		if err != nil {
			log.Printf("❌ Screenshot upload failed: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Screenshot upload failed, use a jpg/png/webp under 5MB"})
			return
		}
		report.ScreenshotURL = &url
	}

	if err := database.DB.Create(&report).Error; err != nil {
		log.Printf("❌ Failed to save bug report: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to submit bug report"})
		return
	}

	log.Printf("🐛 New bug report #%d: %s", report.ID, report.Subject)
	c.JSON(http.StatusCreated, gin.H{"success": true, "report": report})
}

// filteredBugReportQuery applies the panel filters (?status=, ?priority=)
// shared by the list and export endpoints
func filteredBugReportQuery(c *gin.Context) *gorm.DB {
	query := database.DB.Model(&models.BugReport{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if priority := c.Query("priority"); priority != "" {
		query = query.Where("priority = ?", priority)
	}
	return query
}

// listBugReports returns bug reports, optionally filtered by ?status= and
// ?priority=
func listBugReports(c *gin.Context) {
	query := filteredBugReportQuery(c)

	var reports []models.BugReport
	if err := query.Order("created_at DESC").Find(&reports).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load bug reports"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "reports": reports})
}

// updateBugPriority changes a bug report's priority
func updateBugPriority(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid report id"})
		return
	}

	var req PriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if !models.IsValidPriority(req.Priority) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid priority value"})
		return
	}

	var report models.BugReport
	if err := database.DB.First(&report, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Bug report not found"})
		return
	}

	if err := database.DB.Model(&report).Update("priority", req.Priority).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update priority"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "report": report})
}

// BugStatusRequest flips a bug report between unresolved and resolved
type BugStatusRequest struct {
	Status models.BugStatus `json:"status" binding:"required"`
}

// updateBugStatus changes a bug report's status. Resolving queues the
// notification email to the reporter in the same transaction.
func updateBugStatus(c *gin.Context) {
	actor := middleware.CurrentAdmin(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid report id"})
		return
	}

	var req BugStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if req.Status != models.BugStatusUnresolved && req.Status != models.BugStatusResolved {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid status value"})
		return
	}

	var report models.BugReport
	if err := database.DB.First(&report, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Bug report not found"})
		return
	}

	resolving := req.Status == models.BugStatusResolved && report.Status != models.BugStatusResolved
	now := time.Now()

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": req.Status}
		if resolving {
			updates["resolved_by"] = actor.ID
			updates["resolved_at"] = now
		} else if req.Status == models.BugStatusUnresolved {
			updates["resolved_by"] = nil
			updates["resolved_at"] = nil
		}
		if err := tx.Model(&report).Updates(updates).Error; err != nil {
			return err
		}
		if resolving {
			_, err := services.EnqueueOutbox(tx, models.OutboxBugResolvedEmail, services.BugResolvedEmailPayload{
				To:       report.Email,
				Subject:  report.Subject,
				ReportID: report.ID,
			})
			return err
		}
		return nil
	})
	if err != nil {
		log.Printf("❌ Failed to update bug report %d: %v", report.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update status"})
		return
	}

	if resolving {
		log.Printf("✅ Bug report #%d resolved by %s", report.ID, actor.Username)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "report": report})
}

// deleteBugReport removes a single bug report
func deleteBugReport(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid report id"})
		return
	}

	result := database.DB.Delete(&models.BugReport{}, uint(id))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete bug report"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Bug report not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Bug report deleted"})
}

// bulkDeleteBugReports removes a set of bug reports
func bulkDeleteBugReports(c *gin.Context) {
	var req BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	result := database.DB.Where("id IN ?", req.IDs).Delete(&models.BugReport{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete bug reports"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": result.RowsAffected})
}

// exportBugReports streams the currently filtered bug reports as a CSV
// attachment. It accepts the same filter parameters as the list endpoint.
func exportBugReports(c *gin.Context) {
	var reports []models.BugReport
	if err := filteredBugReportQuery(c).Order("created_at DESC").Find(&reports).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load bug reports"})
		return
	}

	csv := services.BuildBugReportsCSV(reports)
	filename := fmt.Sprintf("bug-reports-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))
}
