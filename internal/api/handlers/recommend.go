package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/moabank/ai-risk-go/internal/services"
)

// RecommendHandler serves spending recommendation requests.
type RecommendHandler struct {
	recommender *services.RecommendationService
}

func NewRecommendHandler(recommender *services.RecommendationService) *RecommendHandler {
	return &RecommendHandler{recommender: recommender}
}

type recommendRequest struct {
	SpendingData map[string]decimal.Decimal `json:"spending_data" binding:"required"`
}

// Recommend summarizes a category spending breakdown against income. The
// income key inside spending_data is treated as income, not as a category.
func (h *RecommendHandler) Recommend(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	income := req.SpendingData["income"]
	spending := make(map[string]decimal.Decimal, len(req.SpendingData))
	for name, amount := range req.SpendingData {
		if name == "income" {
			continue
		}
		spending[name] = amount
	}

	result, err := h.recommender.Recommend(spending, income)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
