package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"agency-admin-server/database"
	"agency-admin-server/middleware"
	"agency-admin-server/models"
)

// RegisterCommentRoutes registers per-review comment routes
func RegisterCommentRoutes(router *gin.RouterGroup) {
	router.GET("/:id/comments", listComments)
	router.POST("/:id/comments", createComment)
	router.PUT("/:id/comments/:commentId", editComment)
	router.DELETE("/:id/comments/:commentId", deleteComment)
}

// listComments returns a review's comments, oldest first
func listComments(c *gin.Context) {
	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid review id"})
		return
	}

	var comments []models.Comment
	err = database.DB.Where("review_id = ?", uint(reviewID)).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load comments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "comments": comments})
}

// CommentRequest carries a comment body
type CommentRequest struct {
	Message string `json:"message" binding:"required,max=2000"`
}

// createComment adds a comment to a review
func createComment(c *gin.Context) {
	actor := middleware.CurrentAdmin(c)
	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid review id"})
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	var review models.Review
	if err := database.DB.First(&review, uint(reviewID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Review not found"})
		return
	}

	comment := models.Comment{
		ReviewID:  review.ID,
		AdminID:   actor.ID,
		AdminName: actor.Username,
		Message:   req.Message,
	}
	if err := database.DB.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to save comment"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "comment": comment})
}

// editComment lets the author edit their own comment; marks it edited
func editComment(c *gin.Context) {
	actor := middleware.CurrentAdmin(c)
	commentID, err := strconv.ParseUint(c.Param("commentId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid comment id"})
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	var comment models.Comment
	if err := database.DB.First(&comment, uint(commentID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Comment not found"})
		return
	}
	if comment.AdminID != actor.ID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "You can only edit your own comments"})
		return
	}

	updates := map[string]interface{}{"message": req.Message, "edited": true}
	if err := database.DB.Model(&comment).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update comment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "comment": comment})
}

// deleteComment removes a comment. Authors delete their own; super admins
// may delete anyone's.
func deleteComment(c *gin.Context) {
	actor := middleware.CurrentAdmin(c)
	commentID, err := strconv.ParseUint(c.Param("commentId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid comment id"})
		return
	}

	var comment models.Comment
	if err := database.DB.First(&comment, uint(commentID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Comment not found"})
		return
	}
	if comment.AdminID != actor.ID && !actor.IsSuperAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "You can only delete your own comments"})
		return
	}

	if err := database.DB.Delete(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete comment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Comment deleted"})
}
