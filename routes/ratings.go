package routes

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"agency-admin-server/database"
	"agency-admin-server/models"
)

// RatingRequest represents the public testimonial form
type RatingRequest struct {
	Name    string `json:"name" binding:"required,max=255"`
	Email   string `json:"email" binding:"omitempty,email"`
	Stars   int    `json:"stars" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

// RegisterPublicRatingRoutes registers the public testimonial endpoints
func RegisterPublicRatingRoutes(router *gin.RouterGroup) {
	router.POST("/ratings", createRating)
	router.GET("/ratings", listApprovedRatings)
}

// RegisterRatingRoutes registers admin-side rating moderation
func RegisterRatingRoutes(router *gin.RouterGroup) {
	router.GET("", listAllRatings)
	router.PATCH("/:id/approve", toggleRatingApproval)
	router.DELETE("/:id", deleteRating)
}

// createRating accepts a public testimonial, unapproved by default
func createRating(c *gin.Context) {
	var req RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	rating := models.Rating{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Stars:   req.Stars,
		Comment: req.Comment,
	}
	if err := database.DB.Create(&rating).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to submit rating"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "rating": rating})
}

// listApprovedRatings returns approved testimonials for the public site
func listApprovedRatings(c *gin.Context) {
	var ratings []models.Rating
	err := database.DB.Where("approved = ?", true).
		Order("created_at DESC").
		Find(&ratings).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load ratings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "ratings": ratings})
}

// listAllRatings returns every testimonial for moderation
func listAllRatings(c *gin.Context) {
	var ratings []models.Rating
	if err := database.DB.Order("created_at DESC").Find(&ratings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load ratings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "ratings": ratings})
}

// toggleRatingApproval flips a testimonial's approved flag
func toggleRatingApproval(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid rating id"})
		return
	}

	var rating models.Rating
	if err := database.DB.First(&rating, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Rating not found"})
		return
	}

	if err := database.DB.Model(&rating).Update("approved", !rating.Approved).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update rating"})
		return
	}
	rating.Approved = !rating.Approved
	c.JSON(http.StatusOK, gin.H{"success": true, "rating": rating})
}

// deleteRating removes a testimonial
func deleteRating(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid rating id"})
		return
	}

	result := database.DB.Delete(&models.Rating{}, uint(id))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete rating"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Rating not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Rating deleted"})
}
