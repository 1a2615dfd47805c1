package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/prop-edge/internal/cache"
	"github.com/stitts-dev/prop-edge/internal/edge"
	"github.com/stitts-dev/prop-edge/internal/services"
	"github.com/stitts-dev/prop-edge/internal/stats"
)

// EdgeHandler serves board and single-prop edge evaluations.
type EdgeHandler struct {
	evaluator *services.Evaluator
	logger    *logrus.Logger
}

// NewEdgeHandler creates an edge handler.
func NewEdgeHandler(evaluator *services.Evaluator, logger *logrus.Logger) *EdgeHandler {
	return &EdgeHandler{evaluator: evaluator, logger: logger}
}

// GetBoard returns the evaluated edge board for all tracked lines.
func (h *EdgeHandler) GetBoard(c *gin.Context) {
	board, err := h.evaluator.EvaluateBoard(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Board evaluation failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "data temporarily unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"edges": board, "count": len(board)})
}

// GetProp evaluates one prop from query parameters: player_id, stat_type,
// line. Insufficient history is a degraded result, not an error page.
func (h *EdgeHandler) GetProp(c *gin.Context) {
	playerID := c.Query("player_id")
	statType := c.Query("stat_type")
	lineStr := c.Query("line")
	if playerID == "" || statType == "" || lineStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "player_id, stat_type and line are required"})
		return
	}
	if !stats.IsValidStatType(statType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported stat_type: " + statType})
		return
	}
	line, err := strconv.ParseFloat(lineStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "line must be a number"})
		return
	}

	prop, err := h.evaluator.EvaluateProp(c.Request.Context(), playerID, statType, line)
	if err != nil {
		switch {
		case errors.Is(err, edge.ErrInsufficientData):
			c.JSON(http.StatusOK, gin.H{"edge_available": false, "reason": "insufficient recent games"})
		case errors.Is(err, cache.ErrCacheMiss):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "data temporarily unavailable"})
		default:
			h.logger.WithError(err).Error("Prop evaluation failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "evaluation failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"edge_available": true, "edge": prop})
}

// GetStatCategories lists the supported stat types.
func (h *EdgeHandler) GetStatCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": stats.AllCategories()})
}
