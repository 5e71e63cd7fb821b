package routes

import (
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

var recaptchaService *services.RecaptchaService

// InquiryRequest represents the public contact form submission
type InquiryRequest struct {
	FullName        string `json:"full_name" binding:"required,max=255"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone" binding:"max=30"`
	Company         string `json:"company" binding:"max=255"`
	ServiceInterest string `json:"service_interest" binding:"max=255"`
	Message         string `json:"message" binding:"required"`
	RecaptchaToken  string `json:"recaptcha_token"`
}

// RegisterPublicInquiryRoutes registers the public contact form endpoint
func RegisterPublicInquiryRoutes(router *gin.RouterGroup, recaptcha *services.RecaptchaService) {
	recaptchaService = recaptcha
	router.POST("/inquiries", createInquiry)
}

// RegisterInquiryRoutes registers admin-side inquiry routes
func RegisterInquiryRoutes(router *gin.RouterGroup) {
	router.GET("", listInquiries)
	router.POST("/:id/promote", promoteInquiry)
}

// createInquiry accepts a public contact form submission after a recaptcha
// check, then queues the confirmation email
func createInquiry(c *gin.Context) {
	var req InquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	ok, err := recaptchaService.Verify(req.RecaptchaToken, c.ClientIP())
	if err != nil {
		log.Printf("⚠️ Recaptcha verification error: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "Could not verify the request, please try again"})
		return
	}
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Recaptcha verification failed"})
		return
	}

	inquiry := models.Inquiry{
		FullName:        strings.TrimSpace(req.FullName),
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:           strings.TrimSpace(req.Phone),
		Company:         strings.TrimSpace(req.Company),
		ServiceInterest: strings.TrimSpace(req.ServiceInterest),
		Message:         req.Message,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&inquiry).Error; err != nil {
			return err
		}
		_, err := services.EnqueueOutbox(tx, models.OutboxConfirmationEmail, services.ConfirmationEmailPayload{
			To:        inquiry.Email,
			FullName:  inquiry.FullName,
			InquiryID: inquiry.ID,
		})
		return err
	})
	if err != nil {
		log.Printf("❌ Failed to save inquiry: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to submit inquiry"})
		return
	}

	log.Printf("📧 New inquiry #%d from %s", inquiry.ID, inquiry.Email)
	c.JSON(http.StatusCreated, gin.H{"success": true, "inquiry": inquiry})
}

// listInquiries returns inquiries, newest first; ?promoted=true|false filters
func listInquiries(c *gin.Context) {
	query := database.DB.Model(&models.Inquiry{})
	if promoted := c.Query("promoted"); promoted != "" {
		query = query.Where("promoted = ?", promoted == "true")
	}

	var inquiries []models.Inquiry
	if err := query.Order("created_at DESC").Find(&inquiries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load inquiries"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "inquiries": inquiries})
}

// promoteInquiry creates a review from an inquiry and marks it promoted.
// Promoting the same inquiry twice is rejected.
func promoteInquiry(c *gin.Context) {
	actor := middleware.CurrentAdmin(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid inquiry id"})
		return
	}

	var inquiry models.Inquiry
	if err := database.DB.First(&inquiry, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Inquiry not found"})
		return
	}
	if inquiry.Promoted {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Inquiry was already promoted"})
		return
	}

	inquiryID := inquiry.ID
	review := models.Review{
		InquiryID:       &inquiryID,
		FullName:        inquiry.FullName,
		Email:           inquiry.Email,
		Phone:           inquiry.Phone,
		Company:         inquiry.Company,
		ServiceInterest: inquiry.ServiceInterest,
		Message:         inquiry.Message,
		Priority:        models.PriorityLow,
		ClientStatus:    models.ClientStatusPending,
	}

	now := time.Now()
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		return tx.Model(&inquiry).Updates(map[string]interface{}{
			"promoted":    true,
			"promoted_at": now,
		}).Error
	})
	if err != nil {
		log.Printf("❌ Failed to promote inquiry %d: %v", inquiry.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to promote inquiry"})
		return
	}

	log.Printf("✅ Inquiry #%d promoted to review #%d by %s", inquiry.ID, review.ID, actor.Username)
	c.JSON(http.StatusCreated, gin.H{"success": true, "review": review})
}
