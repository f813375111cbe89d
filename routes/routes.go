// File: /routes/routes.go
package routes

import (
	"deenconnect-api/controllers"
	"deenconnect-api/middleware"
	"deenconnect-api/repositories"
	"deenconnect-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, jwtSecret string, emailService *services.EmailService) {
	// Repositories and services
	friendRepo := repositories.NewFriendRepository(db)
	challengeRepo := repositories.NewChallengeRepository(db)
	notificationService := services.NewNotificationService(db)
	friendService := services.NewFriendService(friendRepo, notificationService)
	challengeService := services.NewChallengeService(challengeRepo, notificationService, emailService)

	// Controllers
	authController := controllers.NewAuthController(db, jwtSecret, emailService)
	userController := controllers.NewUserController(db)
	friendController := controllers.NewFriendController(friendService)
	challengeController := controllers.NewChallengeController(challengeService)
	messageController := controllers.NewMessageController(db, friendService)
	notificationController := controllers.NewNotificationController(notificationService)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// API version 1
	v1 := r.Group("/api/v1")
	v1.Use(middleware.SecurityHeaders())

	// Auth routes (public, rate limited)
	auth := v1.Group("/auth")
	auth.Use(middleware.RateLimit(30, 10))
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	// Friend routes
	friends := v1.Group("/friends")
	{
		friends.POST("/request", friendController.SendFriendRequest)
		friends.GET("/requests/:user_id", friendController.GetPendingRequests)
		friends.GET("/requests/sent/:user_id", friendController.GetSentRequests)
		friends.POST("/respond", friendController.RespondToRequest)
		friends.GET("/:user_id", friendController.GetFriends)
		friends.DELETE("/:user_id/:friend_id", friendController.RemoveFriend)
	}

	// Challenge routes
	challenges := v1.Group("/challenges")
	{
		challenges.POST("", challengeController.CreateChallenge)
		challenges.GET("/:user_id", challengeController.GetChallenges)
		challenges.GET("/detail/:id", challengeController.GetChallenge)
		challenges.POST("/respond", challengeController.RespondToChallenge)
		challenges.POST("/progress", challengeController.UpdateProgress)
		challenges.POST("/progress/increment", challengeController.IncrementProgress)
	}

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(jwtSecret))
	{
		users := protected.Group("/users")
		{
			users.GET("/profile", userController.GetProfile)
			users.PUT("/profile", userController.UpdateProfile)
			users.GET("/:id", userController.GetUser)
		}

		messages := protected.Group("/messages")
		{
			messages.POST("", messageController.SendMessage)
			messages.GET("/conversation/:friend_id", messageController.GetConversation)
			messages.GET("/unread-count", messageController.GetUnreadCount)
		}

		notifications := protected.Group("/notifications")
		{
			notifications.GET("", notificationController.GetNotifications)
			notifications.PUT("/:id/read", notificationController.MarkAsRead)
			notifications.GET("/unread-count", notificationController.GetUnreadCount)
		}
	}
}

// SetupCORS returns the CORS middleware used by the mobile clients.
func SetupCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
