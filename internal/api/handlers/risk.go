package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/moabank/ai-risk-go/internal/models"
	"github.com/moabank/ai-risk-go/internal/services"
	"github.com/moabank/ai-risk-go/internal/utils"
)

// RiskHandler serves feature building, scoring and simulation endpoints.
type RiskHandler struct {
	features *services.FeatureService
	risk     *services.RiskService
	sim      *services.SimulationService
}

func NewRiskHandler(features *services.FeatureService, risk *services.RiskService, sim *services.SimulationService) *RiskHandler {
	return &RiskHandler{features: features, risk: risk, sim: sim}
}

// Predict scores a flat feature map supplied by the caller.
func (h *RiskHandler) Predict(c *gin.Context) {
	var features map[string]interface{}
	if err := c.ShouldBindJSON(&features); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a feature map"})
		return
	}

	result, err := h.risk.ScoreRaw(features)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// BuildFeatures computes and returns the feature vector for a user.
func (h *RiskHandler) BuildFeatures(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id must be an integer"})
		return
	}

	result, err := h.features.BuildFeatures(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type simulationRequest struct {
	UserID  int64                  `json:"user_id" binding:"required"`
	Changes []models.ChangeRequest `json:"changes" binding:"required"`
}

// Simulate rescores the user's latest feature snapshot under hypothetical
// income and expense changes.
func (h *RiskHandler) Simulate(c *gin.Context) {
	var req simulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	base, err := h.features.LatestFeatures(c.Request.Context(), req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	outcome, err := h.sim.Simulate(base, req.Changes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome.Delta)
}

// respondError translates internal error kinds to HTTP statuses.
func respondError(c *gin.Context, err error) {
	if utils.IsNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var artifactErr *utils.ArtifactLoadError
	var scoringErr *utils.ScoringError
	switch {
	case errors.As(err, &artifactErr):
		logrus.WithError(err).Error("Classifier artifact unavailable")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "risk model unavailable"})
	case errors.As(err, &scoringErr):
		logrus.WithError(err).Error("Scoring failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "scoring failed"})
	default:
		logrus.WithError(err).Error("Internal error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
