package routes

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"agency-admin-server/database"
	"agency-admin-server/middleware"
	"agency-admin-server/models"
	"agency-admin-server/services"
)

var reviewWorkflow *services.ReviewWorkflowService

// RegisterReviewRoutes registers review workflow routes
func RegisterReviewRoutes(router *gin.RouterGroup, workflow *services.ReviewWorkflowService) {
	reviewWorkflow = workflow
	router.GET("", listReviews)
	router.GET("/export", exportReviews)
	router.GET("/:id", getReview)
	router.PATCH("/:id/assign", assignReview)
	router.PATCH("/:id/priority", updateReviewPriority)
	router.PATCH("/:id/status", updateReviewStatus)
}

// RegisterReviewManagementRoutes registers super-admin-only review deletion
func RegisterReviewManagementRoutes(router *gin.RouterGroup) {
	router.POST("/bulk-delete", bulkDeleteReviews)
	router.DELETE("/:id", deleteReview)
}

// filteredReviewQuery applies the panel filters (?priority=, ?status=,
// ?assigned_to=, ?search=) shared by the list and export endpoints
func filteredReviewQuery(c *gin.Context) *gorm.DB {
	query := database.DB.Model(&models.Review{})
	if priority := c.Query("priority"); priority != "" {
		query = query.Where("priority = ?", priority)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("client_status = ?", status)
	}
	if assignedTo := c.Query("assigned_to"); assignedTo != "" {
		if assignedTo == "none" {
			query = query.Where("assigned_to IS NULL")
		} else {
			query = query.Where("assigned_to = ?", assignedTo)
		}
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("full_name ILIKE ? OR email ILIKE ? OR company ILIKE ?", like, like, like)
	}
	return query
}

// listReviews returns a page of reviews with optional filters:
// ?priority=, ?status=, ?assigned_to=, ?search=, ?page=, ?limit=
func listReviews(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := filteredReviewQuery(c)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to count reviews"})
		return
	}

	var reviews []models.Review
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"reviews": reviews,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

// getReview returns a single review
func getReview(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid review id"})
		return
	}

	var review models.Review
	if err := database.DB.First(&review, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Review not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "review": review})
}

// AssignRequest assigns a review; a null admin_id unassigns
type AssignRequest struct {
	AdminID   *uint  `json:"admin_id"`
	AdminName string `json:"admin_name"`
}

// assignReview assigns or unassigns a review
func assignReview(c *gin.Context) {
	actor := middleware.CurrentAdmin(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid review id"})
		return
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	review, err := reviewWorkflow.Assign(uint(id), req.AdminID, req.AdminName, *actor)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "review": review})
}

// PriorityRequest changes a review's priority
type PriorityRequest struct {
	Priority models.ReviewPriority `json:"priority" binding:"required"`
}

// updateReviewPriority changes a review's priority tier
func updateReviewPriority(c *gin.Context) {
	actor := middleware.CurrentAdmin(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid review id"})
		return
	}

	var req PriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	review, err := reviewWorkflow.UpdatePriority(uint(id), req.Priority, *actor)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "review": review})
}

// StatusRequest changes a review's client status
type StatusRequest struct {
	Status models.ClientStatus `json:"status" binding:"required"`
}

// updateReviewStatus changes a review's client status
func updateReviewStatus(c *gin.Context) {
	actor := middleware.CurrentAdmin(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid review id"})
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	review, err := reviewWorkflow.UpdateClientStatus(uint(id), req.Status, *actor)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "review": review})
}

// deleteReview removes a review and its comments
func deleteReview(c *gin.Context) {
	actor := middleware.CurrentAdmin(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid review id"})
		return
	}

	if err := reviewWorkflow.Delete(uint(id)); err != nil {
		respondWorkflowError(c, err)
		return
	}

	log.Printf("🗑️ Review #%d deleted by %s", id, actor.Username)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Review deleted"})
}

// BulkDeleteRequest deletes a set of reviews in batches
type BulkDeleteRequest struct {
	IDs []uint `json:"ids" binding:"required,min=1"`
}

// bulkDeleteReviews deletes many reviews in fixed-size batches. If a batch
// fails, earlier batches stay deleted and the count reports progress.
func bulkDeleteReviews(c *gin.Context) {
	actor := middleware.CurrentAdmin(c)

	var req BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	batches, err := reviewWorkflow.BulkDelete(req.IDs)
	if err != nil {
		log.Printf("❌ Bulk delete stopped after %d batches: %v", batches, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":           false,
			"message":           "Bulk delete failed part way through",
			"batches_completed": batches,
		})
		return
	}

	log.Printf("🗑️ %d reviews bulk-deleted in %d batches by %s", len(req.IDs), batches, actor.Username)
	c.JSON(http.StatusOK, gin.H{"success": true, "batches_completed": batches, "deleted": len(req.IDs)})
}

// exportReviews streams the currently filtered reviews as a CSV attachment.
// It accepts the same filter parameters as the list endpoint.
func exportReviews(c *gin.Context) {
	var reviews []models.Review
	if err := filteredReviewQuery(c).Order("created_at DESC").Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load reviews"})
		return
	}

	csv := services.BuildReviewsCSV(reviews)
	filename := fmt.Sprintf("reviews-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))
}

// respondWorkflowError maps workflow sentinel errors onto HTTP responses
func respondWorkflowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrReviewNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Review not found"})
	case errors.Is(err, services.ErrAssigneeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Assignee not found"})
	case errors.Is(err, services.ErrAssigneeNotApproved):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Assignee is not an approved admin"})
	case errors.Is(err, services.ErrAssignSuperAdmin):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Only a super admin can assign work to a super admin"})
	case errors.Is(err, services.ErrInvalidPriority):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid priority value"})
	case errors.Is(err, services.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid status value"})
	default:
		log.Printf("❌ Review workflow error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Something went wrong"})
	}
}
