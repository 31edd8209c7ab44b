package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/digimart-backend/config"
	"github.com/ikkim/digimart-backend/internal/app/controller"
	"github.com/ikkim/digimart-backend/internal/app/repository"
	"github.com/ikkim/digimart-backend/internal/app/service"
	"github.com/ikkim/digimart-backend/internal/db"
	"github.com/ikkim/digimart-backend/internal/middleware"
	"github.com/ikkim/digimart-backend/internal/router"
	"github.com/ikkim/digimart-backend/internal/scheduler"
	"github.com/ikkim/digimart-backend/internal/storage"
	ws "github.com/ikkim/digimart-backend/internal/websocket"
	"github.com/ikkim/digimart-backend/pkg/logger"
	"github.com/ikkim/digimart-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	logger.Info("Starting DIGIMART Backend Server", map[string]interface{}{
		"environment":   cfg.Server.Environment,
		"port":          cfg.Server.Port,
		"log_level":     logLevel,
		"media_backend": cfg.Media.Backend,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Redis는 선택 사항 (없으면 rate limit, 토큰 블랙리스트 비활성화)
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, continuing without it", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer redis.Close()
		}
	}

	mediaStore, err := newMediaStorage(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize media storage", err)
	}

	hub := ws.NewHub()
	go hub.Run()

	// Initialize repositories
	conn := db.GetDB()
	userRepo := repository.NewUserRepository(conn)
	sellerRepo := repository.NewSellerAccountRepository(conn)
	productRepo := repository.NewProductRepository(conn)
	tagRepo := repository.NewTagRepository(conn)
	tagViewRepo := repository.NewTagViewRepository(conn)
	purchaseRepo := repository.NewPurchaseRepository(conn)

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	sellerService := service.NewSellerService(sellerRepo)
	productService := service.NewProductService(productRepo, sellerService)
	mediaService := service.NewMediaService(productService, productRepo, mediaStore, cfg.Media.MaxUploadBytes)
	analyticsService := service.NewAnalyticsService(tagViewRepo, cfg.Analytics.PopularTagLimit)
	tagService := service.NewTagService(tagRepo)
	libraryService := service.NewLibraryService(purchaseRepo, sellerRepo, productService, mediaStore, hub)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	productController := controller.NewProductController(productService, sellerService, mediaService, libraryService, analyticsService)
	legacyProductController := controller.NewLegacyProductController(productService)
	sellerController := controller.NewSellerController(sellerService, productService, hub)
	tagController := controller.NewTagController(tagService, analyticsService)
	libraryController := controller.NewLibraryController(libraryService)
	adminController := controller.NewAdminController(analyticsService)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	r := router.NewRouter(
		authController,
		productController,
		legacyProductController,
		sellerController,
		tagController,
		libraryController,
		adminController,
		authMiddleware,
		cfg,
	)
	engine, err := r.Setup()
	if err != nil {
		logger.Fatal("Failed to set up router", err)
	}

	analyticsScheduler := scheduler.NewAnalyticsScheduler(analyticsService, cfg.Analytics.RefreshSchedule)
	if err := analyticsScheduler.Start(); err != nil {
		logger.Fatal("Failed to start analytics scheduler", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	analyticsScheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	logger.Info("Server stopped successfully")
}

func newMediaStorage(cfg *config.Config) (storage.MediaStorage, error) {
	switch cfg.Media.Backend {
	case storage.BackendS3:
		return storage.NewS3Storage(cfg.S3.Region, cfg.S3.Bucket, cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey), nil
	default:
		return storage.NewLocalStorage(cfg.Media.ProtectedRoot)
	}
}
