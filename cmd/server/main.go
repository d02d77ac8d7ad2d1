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

	"github.com/foodiehub/foodiehub-backend/config"
	"github.com/foodiehub/foodiehub-backend/internal/app/controller"
	"github.com/foodiehub/foodiehub-backend/internal/app/repository"
	"github.com/foodiehub/foodiehub-backend/internal/app/service"
	"github.com/foodiehub/foodiehub-backend/internal/db"
	"github.com/foodiehub/foodiehub-backend/internal/middleware"
	"github.com/foodiehub/foodiehub-backend/internal/router"
	"github.com/foodiehub/foodiehub-backend/internal/session"
	"github.com/foodiehub/foodiehub-backend/internal/storage"
	"github.com/foodiehub/foodiehub-backend/pkg/logger"
	"github.com/foodiehub/foodiehub-backend/pkg/redis"

	apperrors "github.com/foodiehub/foodiehub-backend/internal/errors"
	goredis "github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	format := "console"
	if cfg.IsProduction() {
		format = "json"
	}
	logger.Initialize(logger.Config{
		Level:       cfg.Server.LogLevel,
		Format:      format,
		EnableColor: !cfg.IsProduction(),
	})
	apperrors.SetDebug(!cfg.IsProduction())

	logger.Info("Starting FoodieHub backend", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   cfg.Server.LogLevel,
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

	// Redis is only needed for the redis session store
	var rdb *goredis.Client
	if cfg.Session.Store == "redis" {
		rdb, err = redis.Init(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to initialize Redis", err)
		}
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
	}
	sessions := session.New(cfg, rdb)

	files, err := storage.New(context.Background(), cfg)
	if err != nil {
		logger.Fatal("Failed to initialize file storage", err)
	}

	// Initialize repositories
	database := db.GetDB()
	userRepo := repository.NewUserRepository(database)
	cartRepo := repository.NewCartRepository(database)
	orderRepo := repository.NewOrderRepository(database)
	productRepo := repository.NewProductRepository(database)

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	profileService := service.NewProfileService(userRepo, files)
	cartService := service.NewCartService(database, cartRepo)
	orderService := service.NewOrderService(database, orderRepo, cartRepo)
	productService := service.NewProductService(productRepo)

	// Setup router
	r := router.NewRouter(
		controller.NewAuthController(authService, sessions),
		controller.NewProfileController(profileService),
		controller.NewCartController(cartService),
		controller.NewOrderController(orderService),
		controller.NewProductController(productService),
		middleware.NewAuthMiddleware(sessions, cfg.JWT.Secret),
		sessions,
		database,
		cfg,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Handler(),
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
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	logger.Info("Server stopped successfully")
}
