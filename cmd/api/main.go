package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"maplehr-backend/config"
	_ "maplehr-backend/docs" // Important for Swagger
	"maplehr-backend/internal/app"
	"maplehr-backend/pkg/logger"

	"go.uber.org/zap"
)

// @title           MapleHR Resume Matching API
// @version         1.0
// @description     Resume ingestion and keyword match scoring for recruiter review.
// @host            localhost:8080
// @BasePath        /v1
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	if err := logger.Init(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Log.Sync()
	logger.Log.Info("Starting maplehr backend", zap.String("port", cfg.Port))

	// 3. Setup dependencies and usecases
	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	container, err := app.New(startCtx, cfg, logger.Log)
	cancelStart()
	if err != nil {
		logger.Log.Error("Failed to initialize dependencies", zap.Error(err))
		os.Exit(1)
	}
	defer container.Close()

	// 4. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           container.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second, // resume uploads
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Log.Info("Server exiting")
}
