// File: /routes/routes.go
package routes

import (
	"athlos-api/config"
	"athlos-api/controllers"
	"athlos-api/middleware"
	"athlos-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

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

func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, svc *services.Container) {
	// Controllers
	authController := controllers.NewAuthController(db, cfg.JWTSecret, svc.Email)
	userController := controllers.NewUserController(db, svc.Follows, svc.Counters)
	postController := controllers.NewPostController(db, svc.Feed, svc.Engagement, svc.Bookmarks, svc.Viral)
	commentController := controllers.NewCommentController(svc.Engagement)
	bookmarkController := controllers.NewBookmarkController(svc.Bookmarks)
	conversationController := controllers.NewConversationController(svc.Conversations)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// API version 1
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RateLimit(120, 20))

	// Auth routes (public)
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/register", authController.Register)
		auth.POST("/logout", authController.Logout)
		auth.POST("/verify-code", authController.VerifyCode)
		auth.POST("/resend-verification", authController.ResendVerificationCode)

		if gin.Mode() == gin.DebugMode {
			auth.GET("/debug/verification-code", authController.GetVerificationCode)
		}
	}

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		// User routes
		users := protected.Group("/users")
		{
			users.GET("/:id", userController.GetProfile)
			users.PUT("/profile", userController.UpdateProfile)
			users.GET("/:id/statistics", userController.GetStatistics)
			users.POST("/:id/statistics/repair", userController.RepairStatistics)
			users.POST("/:id/follow", userController.Follow)
			users.DELETE("/:id/follow", userController.Unfollow)
			users.GET("/:id/follow-status", userController.FollowStatus)
			users.GET("/:id/followers", userController.GetFollowers)
			users.GET("/:id/following", userController.GetFollowing)
		}

		// Post routes
		posts := protected.Group("/posts")
		{
			posts.POST("/", postController.CreatePost)
			posts.GET("/feed", postController.GetFeed)
			posts.GET("/trending", postController.GetTrending)
			posts.GET("/:id", postController.GetPost)
			posts.PUT("/:id", postController.UpdatePost)
			posts.DELETE("/:id", postController.DeletePost)
			posts.POST("/:id/like", postController.ToggleLike)
			posts.POST("/:id/share", postController.SharePost)
			posts.POST("/:id/bookmark", postController.ToggleBookmark)
			posts.PUT("/:id/bookmark/folder", bookmarkController.SaveToFolder)
			posts.POST("/:id/comments", commentController.CreateComment)
			posts.GET("/:id/comments", commentController.ListComments)
		}

		// Bookmark folder routes
		bookmarks := protected.Group("/bookmarks")
		{
			bookmarks.GET("/folders", bookmarkController.ListFolders)
			bookmarks.POST("/folders", bookmarkController.CreateFolder)
		}

		// Conversation routes
		conversations := protected.Group("/conversations")
		{
			conversations.GET("/", conversationController.ListConversations)
			conversations.GET("/:id/messages", conversationController.ListMessages)
			conversations.POST("/:id/messages", conversationController.SendMessage)
		}
	}
}
