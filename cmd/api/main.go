package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/friendo-app/friendo-server/internal/capture"
	"github.com/friendo-app/friendo-server/internal/config"
	"github.com/friendo-app/friendo-server/internal/db"
	"github.com/friendo-app/friendo-server/internal/devlog"
	"github.com/friendo-app/friendo-server/internal/handlers"
	"github.com/friendo-app/friendo-server/internal/middleware"
	"github.com/friendo-app/friendo-server/internal/prompts"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	// Initialize structured logging
	var zapLogger *zap.Logger
	var err error
	if cfg.Debug {
		zapLogger, err = zap.NewDevelopment()
	} else {
		zapLogger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()
	logger := zapLogger.Sugar()

	// Initialize PostgreSQL
	postgresDB, err := db.InitPostgres()
	if err != nil {
		logger.Fatalw("Failed to initialize PostgreSQL", "error", err)
	}
	defer postgresDB.Close()

	// Initialize Redis
	redisClient, err := db.InitRedis(cfg)
	if err != nil {
		logger.Fatalw("Failed to initialize Redis", "error", err)
	}
	defer redisClient.Close()

	// Start the daily prompt rotation
	promptService := prompts.NewService(postgresDB, redisClient, logger)
	if err := promptService.Start(); err != nil {
		logger.Fatalw("Failed to start prompt service", "error", err)
	}
	defer promptService.Stop()

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RecoveryMiddleware(logger, cfg.Debug))
	// Compression sits outside the logging middleware so captured bodies
	// stay readable.
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	router.Use(middleware.RequestLoggingMiddleware(logger))
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	// Development-only API traffic logging to a local file
	if cfg.Debug {
		apiLog, err := devlog.New(cfg.APILogFile, cfg.APILogPaths, logger)
		if err != nil {
			logger.Warnw("API file logging disabled", "error", err)
		} else {
			defer apiLog.Close()
			router.Use(apiLog.Middleware())
			logger.Infow("API file logging enabled", "file", cfg.APILogFile)
		}
	}

	// Initialize handlers
	usersHandler := handlers.NewUsersHandler(postgresDB, redisClient, logger)
	tasksHandler := handlers.NewTasksHandler(postgresDB, redisClient, logger)
	energyHandler := handlers.NewEnergyHandler(postgresDB, redisClient, logger)
	captureHandler := handlers.NewCaptureHandler(
		handlers.NewPostgresCaptureStore(postgresDB),
		promptService,
		capture.DefaultAcceptPolicy(),
		logger,
	)
	defer captureHandler.Stop()

	// Define routes
	users := router.Group("/users")
	{
		users.POST("", usersHandler.CreateUser)
		users.GET("/:uid", usersHandler.GetUser)
	}

	tasks := router.Group("/tasks")
	{
		tasks.POST("", tasksHandler.CreateTask)
		tasks.GET("", tasksHandler.ListTasks)
		tasks.POST("/:id/complete", tasksHandler.CompleteTask)
	}

	energy := router.Group("/energy")
	{
		energy.POST("", energyHandler.LogEnergy)
		energy.GET("", energyHandler.ListEnergy)
	}

	captureGroup := router.Group("/api/v1/capture")
	{
		captureGroup.POST("/start", captureHandler.StartCapture)
		captureGroup.POST("/:id/select", captureHandler.SelectPhoto)
		captureGroup.POST("/:id/clear", captureHandler.ClearCapture)
		captureGroup.POST("/:id/confirm", captureHandler.ConfirmCapture)
		captureGroup.POST("/:id/skip", captureHandler.SkipCapture)
		captureGroup.GET("/:id", captureHandler.GetCaptureState)
	}

	// Health check endpoint
	router.GET("/api/health", handlers.HealthHandler(cfg))

	// Serve the built frontend when present
	if info, err := os.Stat(cfg.StaticDir); err == nil && info.IsDir() {
		router.Static("/assets", filepath.Join(cfg.StaticDir, "assets"))
		router.NoRoute(handlers.SPAHandler(cfg.StaticDir))
	} else {
		router.NoRoute(func(c *gin.Context) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		})
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Infow("Server starting",
			"app", cfg.AppName,
			"version", cfg.AppVersion,
			"environment", cfg.Environment,
			"addr", cfg.Addr(),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalw("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Infow("Shutting down server...")

	// Give a 5 second timeout for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalw("Server forced to shutdown", "error", err)
	}

	logger.Infow("Server exited")
}
