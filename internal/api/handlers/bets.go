package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/prop-edge/internal/bets"
	"github.com/stitts-dev/prop-edge/internal/models"
)

// BetHandler serves the bet tracker.
type BetHandler struct {
	tracker *bets.Tracker
	logger  *logrus.Logger
}

// NewBetHandler creates a bet handler.
func NewBetHandler(tracker *bets.Tracker, logger *logrus.Logger) *BetHandler {
	return &BetHandler{tracker: tracker, logger: logger}
}

type placeBetRequest struct {
	PlayerID     string  `json:"player_id" binding:"required"`
	StatType     string  `json:"stat_type" binding:"required"`
	Line         float64 `json:"line" binding:"required"`
	Pick         string  `json:"pick" binding:"required,oneof=OVER UNDER"`
	AmericanOdds int     `json:"american_odds" binding:"required"`
	Stake        float64 `json:"stake" binding:"required,gt=0"`
	Probability  float64 `json:"probability"`
}

// Place records a new pending bet.
func (h *BetHandler) Place(c *gin.Context) {
	var req placeBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bet, err := h.tracker.Place(c.Request.Context(), models.Bet{
		PlayerID:     req.PlayerID,
		StatType:     req.StatType,
		Line:         req.Line,
		Pick:         req.Pick,
		AmericanOdds: req.AmericanOdds,
		Stake:        req.Stake,
		Probability:  req.Probability,
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to place bet")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to place bet"})
		return
	}
	c.JSON(http.StatusCreated, bet)
}

type settleBetRequest struct {
	ActualStat  float64 `json:"actual_stat" binding:"required"`
	ClosingOdds *int    `json:"closing_odds"`
}

// Settle resolves a bet against the actual stat value.
func (h *BetHandler) Settle(c *gin.Context) {
	var req settleBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bet, err := h.tracker.Settle(c.Request.Context(), c.Param("id"), req.ActualStat, req.ClosingOdds)
	if err != nil {
		if errors.Is(err, bets.ErrBetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "bet not found"})
			return
		}
		h.logger.WithError(err).Error("Failed to settle bet")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to settle bet"})
		return
	}
	c.JSON(http.StatusOK, bet)
}

type closingOddsRequest struct {
	ClosingOdds int `json:"closing_odds" binding:"required"`
}

// UpdateClosingOdds records closing odds for CLV tracking.
func (h *BetHandler) UpdateClosingOdds(c *gin.Context) {
	var req closingOddsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bet, err := h.tracker.UpdateClosingOdds(c.Request.Context(), c.Param("id"), req.ClosingOdds)
	if err != nil {
		if errors.Is(err, bets.ErrBetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "bet not found"})
			return
		}
		h.logger.WithError(err).Error("Failed to update closing odds")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update closing odds"})
		return
	}
	c.JSON(http.StatusOK, bet)
}

// List returns recent bets (default: last 7 days).
func (h *BetHandler) List(c *gin.Context) {
	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = parsed
	}

	list, err := h.tracker.Recent(c.Request.Context(), days)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list bets")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bets"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bets": list, "count": len(list)})
}

// Pending returns unsettled bets.
func (h *BetHandler) Pending(c *gin.Context) {
	list, err := h.tracker.Pending(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list pending bets")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list pending bets"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bets": list, "count": len(list)})
}

// Summary aggregates ROI and record over recent bets.
func (h *BetHandler) Summary(c *gin.Context) {
	days := 30
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = parsed
	}

	list, err := h.tracker.Recent(c.Request.Context(), days)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load bets for summary")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load bets"})
		return
	}

	summary := bets.Summarize(list)
	c.JSON(http.StatusOK, gin.H{
		"summary": summary,
		"window":  gin.H{"days": days, "until": time.Now()},
	})
}

// Delete removes a tracked bet.
func (h *BetHandler) Delete(c *gin.Context) {
	if err := h.tracker.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.logger.WithError(err).Error("Failed to delete bet")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete bet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
