package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moabank/ai-risk-go/internal/api/handlers"
	"github.com/moabank/ai-risk-go/internal/database"
	"github.com/moabank/ai-risk-go/internal/services"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Services  Services  `json:"services"`
}

type Services struct {
	Database string `json:"database"`
	Redis    string `json:"redis"`
	Model    string `json:"model"`
}

// SetupRoutes wires the risk API endpoints onto the router.
func SetupRoutes(router *gin.Engine, db *database.PostgresDB, redis *database.RedisClient,
	risk *services.RiskService, features *services.FeatureService,
	sim *services.SimulationService, recommender *services.RecommendationService) {

	router.GET("/health", healthCheck(db, redis, risk))

	riskHandler := handlers.NewRiskHandler(features, risk, sim)
	recommendHandler := handlers.NewRecommendHandler(recommender)

	ai := router.Group("/api/ai")
	{
		ai.POST("/predict", riskHandler.Predict)
		ai.GET("/features/:user_id", riskHandler.BuildFeatures)
		ai.POST("/simulation", riskHandler.Simulate)
		ai.POST("/recommend", recommendHandler.Recommend)
	}
}

func healthCheck(db *database.PostgresDB, redis *database.RedisClient, risk *services.RiskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := HealthResponse{
			Status:    "ok",
			Timestamp: time.Now(),
			Version:   "1.0.0",
			Services: Services{
				Database: "ok",
				Redis:    "ok",
				Model:    "ok",
			},
		}

		if err := db.HealthCheck(c.Request.Context()); err != nil {
			response.Services.Database = "error"
			response.Status = "degraded"
		}

		if err := redis.HealthCheck(c.Request.Context()); err != nil {
			response.Services.Redis = "error"
			response.Status = "degraded"
		}

		if !risk.Ready() {
			response.Services.Model = "not_loaded"
			response.Status = "degraded"
		}

		status := http.StatusOK
		if response.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, response)
	}
}
