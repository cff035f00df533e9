// Package server assembles the Gin router from constructed dependencies,
// so integration tests can run the full HTTP surface against stubs.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"caishen/internal/handlers"
	"caishen/internal/middleware"
	"caishen/internal/services"
	"caishen/internal/validator"
)

// Deps holds the services the router needs.
type Deps struct {
	Users     services.UserServicer
	Holdings  services.HoldingServicer
	Settings  services.SettingServicer
	Snapshots services.SnapshotServicer
	Quotes    services.QuoteProvider
}

// New builds the API router.
func New(deps Deps) *gin.Engine {
	validator.Register()

	authHandler := handlers.NewAuthHandler(deps.Users)
	holdingHandler := handlers.NewHoldingHandler(deps.Holdings)
	marketHandler := handlers.NewMarketHandler(deps.Holdings, deps.Quotes)
	settingHandler := handlers.NewSettingHandler(deps.Settings)
	snapshotHandler := handlers.NewSnapshotHandler(deps.Snapshots)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	v1.GET("/market/check", marketHandler.Check)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	holdings := protected.Group("/holdings")
	holdings.POST("", holdingHandler.CreateOrAdd)
	holdings.GET("", holdingHandler.List)
	holdings.PUT("/:id", holdingHandler.Update)
	holdings.DELETE("/:id", holdingHandler.Delete)

	protected.GET("/market/refresh", marketHandler.Refresh)

	protected.GET("/settings/webhook", settingHandler.GetWebhook)
	protected.POST("/settings/webhook", settingHandler.SetWebhook)

	protected.GET("/snapshots", snapshotHandler.History)
	protected.POST("/push/test", snapshotHandler.TriggerPush)

	return router
}
