package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/moabank/ai-risk-go/internal/api"
	"github.com/moabank/ai-risk-go/internal/cache"
	"github.com/moabank/ai-risk-go/internal/config"
	"github.com/moabank/ai-risk-go/internal/database"
	"github.com/moabank/ai-risk-go/internal/logging"
	"github.com/moabank/ai-risk-go/internal/middleware"
	"github.com/moabank/ai-risk-go/internal/services"
)

func main() {
	// Local development convenience; missing .env is fine
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logging.Setup(cfg.LogLevel, cfg.Environment)

	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redis, err := database.NewRedisConnection(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	// Load the classifier up front: a broken artifact should abort startup,
	// not fail the first scoring request.
	artifactStore := services.NewFileArtifactStore(cfg.Model.ArtifactPath, cfg.Model.EncodingPath)
	riskService := services.NewRiskService(artifactStore)
	if err := riskService.Preload(); err != nil {
		log.Fatalf("Failed to load classifier artifact: %v", err)
	}

	snapshots := cache.NewFeatureCache(redis.Client, cfg.Features.TTL())
	featureService := services.NewFeatureService(db.Pool, snapshots)
	simulationService := services.NewSimulationService(riskService)
	recommendationService := services.NewRecommendationService(nil)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(middleware.RequestID())

	api.SetupRoutes(router, db, redis, riskService, featureService, simulationService, recommendationService)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on port %d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
