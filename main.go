// File: /main.go
package main

import (
	"log"

	"deenconnect-api/config"
	"deenconnect-api/database"
	"deenconnect-api/jobs"
	"deenconnect-api/repositories"
	"deenconnect-api/routes"
	"deenconnect-api/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Seed database with test data (optional - for development)
	if err := database.SeedData(db); err != nil {
		log.Printf("Warning: Failed to seed database: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.Port == "8080" { // Development
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	router := gin.Default()

	// Setup CORS middleware
	router.Use(routes.SetupCORS())

	// Email service (best-effort transactional mail)
	emailService := services.NewEmailService(cfg)

	// Setup routes
	routes.SetupRoutes(router, db, cfg.JWTSecret, emailService)

	// Background sweep: expire open challenges past their end date
	challengeService := services.NewChallengeService(
		repositories.NewChallengeRepository(db),
		services.NewNotificationService(db),
		emailService,
	)
	expiryJob := jobs.NewChallengeExpiryJob(challengeService, cfg.ExpirySweepInterval)
	expiryJob.Start()
	defer expiryJob.Stop()

	// Start server
	log.Printf("Starting DeenConnect API server on port %s", cfg.Port)
	log.Printf("Health check available at: http://localhost:%s/ping", cfg.Port)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
