package main

import (
	"context"
	"fmt"
	"os"

	"github.com/robfig/cron/v3"

	"caishen/internal/config"
	"caishen/internal/database"
	"caishen/internal/logger"
	"caishen/internal/quote"
	"caishen/internal/server"
	"caishen/internal/services"

	_ "caishen/internal/docs" // Import swagger docs
)

// @title           Caishen API
// @version         1.0
// @description     Caishen tracks a personal investment portfolio, reconciles market quotes from multiple upstream feeds, and records daily valuation snapshots.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:3001
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(appConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	holdingService := services.NewHoldingService(db)
	settingService := services.NewSettingService(db)
	quoteClient := quote.NewClient(quote.Options{
		Timeout:  appConfig.QuoteTimeout,
		CacheTTL: appConfig.QuoteCacheTTL,
	})
	webhookService := services.NewWebhookService()
	snapshotService := services.NewSnapshotService(db, holdingService, settingService, quoteClient, webhookService)

	// Bootstrap the admin account
	admin, err := userService.EnsureUser(appConfig.AdminUsername, appConfig.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to bootstrap admin user: %w", err)
	}

	// Schedule the daily snapshot & report job
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(appConfig.PushCron, func() {
		if _, err := snapshotService.RunDaily(context.Background(), admin.ID); err != nil {
			log.Errorw("scheduled snapshot failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("invalid PUSH_CRON expression %q: %w", appConfig.PushCron, err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	router := server.New(server.Deps{
		Users:     userService,
		Holdings:  holdingService,
		Settings:  settingService,
		Snapshots: snapshotService,
		Quotes:    quoteClient,
	})

	log.Infof("Starting Caishen backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
