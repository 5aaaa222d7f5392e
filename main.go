package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/framewave-studio/framewave-portal-api/config"
	"github.com/framewave-studio/framewave-portal-api/controllers"
	"github.com/framewave-studio/framewave-portal-api/middleware"
	"github.com/framewave-studio/framewave-portal-api/models"
	"github.com/framewave-studio/framewave-portal-api/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting Framewave Portal API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Inquiry{},
		&models.Proposal{},
		&models.Deliverable{},
		&models.ProposalEdit{},
		&models.Payment{},
		&models.Comment{},
		&models.Attachment{},
		&models.Activity{},
		&models.Notification{},
		&models.Project{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Initialize the collaborator services
	if _, err := services.InitStorageService(); err != nil {
		log.Printf("Storage service unavailable, attachment uploads disabled: %v", err)
	}
	services.InitPaymentGateway(cfg)
	services.InitNotifier(db)

	router := setupRouter(cfg)

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the Gin engine with CORS, auth middleware and all
// API v1 routes
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	// CORS: explicit allowlist in production, allow-all elsewhere
	corsConfig := cors.DefaultConfig()
	allowedOrigins := strings.TrimSpace(getEnvOrigins())
	if cfg.IsProduction() {
		if allowedOrigins == "" {
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("Authorization", "Content-Type")
	router.Use(cors.New(corsConfig))

	authRequired := middleware.EnsureValidToken(cfg)

	v1 := router.Group("/api/v1")
	{
		// Health and database status
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)

		// Public inquiry submission; an Authorization header, when present,
		// links the inquiry to the caller's account
		v1.POST("/inquiries", controllers.CreateInquiry)

		auth := v1.Group("")
		auth.Use(authRequired)
		{
			// Users
			auth.POST("/users", controllers.CreateUser)
			auth.GET("/users/me", controllers.GetMyProfile)
			auth.PATCH("/users/me", controllers.UpdateMyProfile)

			// Inquiries
			auth.GET("/inquiries", controllers.ListInquiries)
			auth.GET("/inquiries/:id", controllers.GetInquiry)
			auth.PATCH("/inquiries/:id/contact", controllers.UpdateInquiryContact)
			auth.POST("/inquiries/:id/review", controllers.StartInquiryReview)
			auth.POST("/inquiries/:id/reject", controllers.RejectInquiry)
			auth.POST("/inquiries/:id/archive", controllers.ArchiveInquiry)
			auth.POST("/inquiries/:id/proposal", controllers.CreateProposal)

			// Proposals
			auth.GET("/proposals/:id", controllers.GetProposal)
			auth.PUT("/proposals/:id", controllers.UpdateProposal)
			auth.POST("/proposals/:id/resend", controllers.ResendProposal)
			auth.POST("/proposals/:id/accept", controllers.AcceptProposal)
			auth.POST("/proposals/:id/reject", controllers.RejectProposal)
			auth.POST("/proposals/:id/request-changes", controllers.RequestProposalChanges)

			// Payments
			auth.POST("/proposals/:id/payments", controllers.CreatePaymentOrder)
			auth.POST("/payments/verify", controllers.VerifyPayment)
			auth.GET("/payments/:id", controllers.GetPayment)
			auth.POST("/payments/:id/mark-completed", controllers.MarkPaymentCompleted)
			auth.POST("/payments/:id/refund", controllers.RefundPayment)

			// Comments and attachments
			auth.GET("/proposals/:id/comments", controllers.ListComments)
			auth.POST("/proposals/:id/comments", controllers.CreateComment)
			auth.PUT("/comments/:id", controllers.EditComment)
			auth.DELETE("/comments/:id", controllers.DeleteComment)
			auth.POST("/proposals/:id/attachments/upload-url", controllers.GetAttachmentUploadURL)
			auth.POST("/comments/:id/attachments", controllers.RegisterAttachment)

			// Projects
			auth.GET("/projects", controllers.ListProjects)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Framewave Portal API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	// Get list of tables
	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}

func getEnvOrigins() string {
	return os.Getenv("CORS_ALLOWED_ORIGINS")
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
