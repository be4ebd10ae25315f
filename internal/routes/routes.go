package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"checkup-server/internal/config"
	"checkup-server/internal/handlers"
	"checkup-server/internal/logger"
	"checkup-server/internal/middleware"
	"checkup-server/internal/storage"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, mediaStore handlers.MediaStore, cfg *config.Config, log *logger.Logger) {
	doctors := storage.NewGormDoctorStore(db)
	tokens := storage.NewGormRefreshTokenStore(db)
	checkups := storage.NewGormCheckupStore(db)

	authHandler := handlers.NewAuthHandler(doctors, tokens, cfg, log)
	checkupHandler := handlers.NewCheckupHandler(checkups, log)
	uploadHandler := handlers.NewUploadHandler(mediaStore, log)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
		}

		checkupRoutes := private.Group("/checkups")
		{
			checkupRoutes.POST("", checkupHandler.CreateCheckup)
			checkupRoutes.GET("", checkupHandler.ListCheckups)
			checkupRoutes.GET("/:id", checkupHandler.GetCheckupByID)
		}

		private.POST("/upload", uploadHandler.Upload)
		private.DELETE("/upload", uploadHandler.Delete)
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
