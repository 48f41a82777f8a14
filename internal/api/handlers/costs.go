package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/timeisseler/da-bess-v2/internal/api/models"
	"github.com/timeisseler/da-bess-v2/internal/model"
	"github.com/timeisseler/da-bess-v2/internal/series"
)

// CostsHandler prices a net load series against day-ahead prices
type CostsHandler struct{}

// NewCostsHandler creates a new costs handler
func NewCostsHandler() *CostsHandler {
	return &CostsHandler{}
}

// ComputeCosts handles POST /api/v1/costs
func (h *CostsHandler) ComputeCosts(c *gin.Context) {
	var req models.CostsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	summary, err := series.DayAheadCosts(model.Series(req.NetLoad), model.Series(req.Prices))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "SERIES_MISALIGNED",
				Message: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.NewCostsResponse(summary, req.IncludeCosts))
}
