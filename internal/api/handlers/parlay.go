package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/prop-edge/internal/parlay"
	"github.com/stitts-dev/prop-edge/internal/services"
)

// ParlayHandler serves parlay valuation and recommendations.
type ParlayHandler struct {
	evaluator   *services.Evaluator
	logger      *logrus.Logger
	defaultOdds int
}

// NewParlayHandler creates a parlay handler.
func NewParlayHandler(evaluator *services.Evaluator, defaultOdds int, logger *logrus.Logger) *ParlayHandler {
	return &ParlayHandler{evaluator: evaluator, logger: logger, defaultOdds: defaultOdds}
}

type calculateRequest struct {
	Legs []parlay.Leg `json:"legs" binding:"required"`
	// MarketOdds are the book's posted odds for the whole parlay; zero
	// means per-leg market odds (or fair odds when none are supplied).
	MarketOdds int `json:"market_odds"`
}

// Calculate values a parlay from caller-supplied legs. Validation errors
// are surfaced, never clamped.
func (h *ParlayHandler) Calculate(c *gin.Context) {
	var req calculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var result parlay.Result
	var err error
	if req.MarketOdds != 0 {
		result, err = parlay.CalculateAgainstMarket(req.Legs, req.MarketOdds)
	} else {
		result, err = parlay.Calculate(req.Legs)
	}
	if err != nil {
		if errors.Is(err, parlay.ErrInsufficientLegs) || errors.Is(err, parlay.ErrInvalidProbability) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.WithError(err).Error("Parlay calculation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Recommendations builds scored parlay combinations from the current
// board's high-probability edges.
func (h *ParlayHandler) Recommendations(c *gin.Context) {
	candidates, err := h.evaluator.ParlayCandidates(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to build parlay candidates")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "data temporarily unavailable"})
		return
	}

	recs := parlay.RecommendAll(candidates, h.defaultOdds)
	c.JSON(http.StatusOK, gin.H{
		"candidates":      len(candidates),
		"recommendations": recs,
	})
}
