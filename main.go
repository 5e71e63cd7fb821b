package main

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"agency-admin-server/config"
	"agency-admin-server/database"
	"agency-admin-server/jobs"
	"agency-admin-server/middleware"
	"agency-admin-server/routes"
	"agency-admin-server/services"
	ws "agency-admin-server/websocket"
)

func main() {
	// Load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, using environment variables")
	}

	config.Load()

	if err := database.Initialize(); err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	gin.SetMode(config.AppConfig.Server.GinMode)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.InputValidationMiddleware())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(cors.New(corsConfig()))
	router.Use(middleware.AuditLogMiddleware())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC(),
		})
	})

	// Realtime hub
	hub := ws.NewHub()
	go hub.Run()

	// Services
	db := database.GetDB()
	jwtService := services.NewJWTService(db)
	notificationService := services.NewNotificationService(db, hub)
	workflowService := services.NewReviewWorkflowService(db, hub)
	recaptchaService := services.NewRecaptchaService()
	emailService := services.NewEmailService()

	uploadService, err := services.NewUploadService()
	if err != nil {
		log.Fatalf("❌ Failed to initialize media uploads: %v", err)
	}

	// Public website endpoints
	public := router.Group("/api/public")
	{
		routes.RegisterPublicInquiryRoutes(public, recaptchaService)
		routes.RegisterPublicBugReportRoutes(public, uploadService)
		routes.RegisterPublicRatingRoutes(public)
	}

	// Authentication
	auth := router.Group("/api/auth")
	auth.Use(middleware.AuthRateLimitMiddleware())
	{
		routes.RegisterAuthRoutes(auth, jwtService)
	}

	// Admin panel endpoints
	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		routes.RegisterSessionRoutes(protected.Group("/auth"))
		routes.RegisterAdminRoutes(protected.Group("/admins"))
		routes.RegisterInquiryRoutes(protected.Group("/inquiries"))
		routes.RegisterReviewRoutes(protected.Group("/reviews"), workflowService)
		routes.RegisterCommentRoutes(protected.Group("/reviews"))
		routes.RegisterBugReportRoutes(protected.Group("/bug-reports"))
		routes.RegisterNotificationRoutes(protected.Group("/notifications"), notificationService)
		routes.RegisterChatRoutes(protected.Group("/chat"), hub)
		routes.RegisterRatingRoutes(protected.Group("/ratings"))
		routes.RegisterDashboardRoutes(protected.Group("/dashboard"))

		// Destructive operations require the elevated role
		super := protected.Group("")
		super.Use(middleware.SuperAdminMiddleware())
		{
			routes.RegisterAdminManagementRoutes(super.Group("/admins"))
			routes.RegisterReviewManagementRoutes(super.Group("/reviews"))
			routes.RegisterBugReportManagementRoutes(super.Group("/bug-reports"))
		}
	}

	// Realtime endpoint (token via query parameter)
	routes.RegisterWebSocketRoute(router, hub)

	// Background jobs
	retentionJob := jobs.NewRetentionJob(db)
	retentionJob.Start()
	defer retentionJob.Stop()

	expiryJob := jobs.NewExpiryJob(notificationService)
	expiryJob.Start()
	defer expiryJob.Stop()

	outboxDispatcher := jobs.NewOutboxDispatcher(db, emailService)
	outboxDispatcher.Start()
	defer outboxDispatcher.Stop()

	tokenCleanup := jobs.NewTokenCleanupJob(jwtService)
	tokenCleanup.Start()
	defer tokenCleanup.Stop()

	port := config.AppConfig.Server.Port
	log.Printf("🚀 Server starting on port %s", port)
	if err := router.Run("0.0.0.0:" + port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// corsConfig builds the CORS policy from ALLOWED_ORIGINS (comma separated).
// Without it every origin is allowed, which suits local development.
func corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	cfg.MaxAge = 12 * time.Hour

	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		origins := strings.Split(raw, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	} else {
		cfg.AllowAllOrigins = true
	}
	return cfg
}
