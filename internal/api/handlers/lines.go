package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/prop-edge/internal/history"
	"github.com/stitts-dev/prop-edge/internal/models"
	"github.com/stitts-dev/prop-edge/internal/stats"
)

// LineHandler serves line recording, movement history, the chase list and
// the alt-line registry.
type LineHandler struct {
	tracker *history.Tracker
	logger  *logrus.Logger
}

// NewLineHandler creates a line handler.
func NewLineHandler(tracker *history.Tracker, logger *logrus.Logger) *LineHandler {
	return &LineHandler{tracker: tracker, logger: logger}
}

type recordLineRequest struct {
	PlayerID string  `json:"player_id" binding:"required"`
	StatType string  `json:"stat_type" binding:"required"`
	Value    float64 `json:"value" binding:"required"`
}

// RecordLine records a newly observed posted line.
func (h *LineHandler) RecordLine(c *gin.Context) {
	var req recordLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !stats.IsValidStatType(req.StatType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported stat_type: " + req.StatType})
		return
	}

	event, err := h.tracker.RecordLine(c.Request.Context(), req.PlayerID, req.StatType, req.Value, time.Now())
	if err != nil {
		h.logger.WithError(err).Error("Failed to record line")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record line"})
		return
	}

	resp := gin.H{"recorded": true, "moved": event != nil}
	if event != nil {
		resp["change"] = event
	}
	c.JSON(http.StatusOK, resp)
}

// EditLine is the manual override path; it stays auditable through the
// same change-detection flow as RecordLine.
func (h *LineHandler) EditLine(c *gin.Context) {
	var req recordLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.tracker.EditLine(c.Request.Context(), req.PlayerID, req.StatType, req.Value, time.Now())
	if err != nil {
		h.logger.WithError(err).Error("Failed to edit line")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to edit line"})
		return
	}

	resp := gin.H{"recorded": true, "moved": event != nil}
	if event != nil {
		resp["change"] = event
	}
	c.JSON(http.StatusOK, resp)
}

// ListLines returns the current line for every tracked pair.
func (h *LineHandler) ListLines(c *gin.Context) {
	lines, err := h.tracker.CurrentLines(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list lines")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list lines"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"lines": lines, "count": len(lines)})
}

// GetChanges returns movement events observed since the given RFC3339
// timestamp (default: last 24h), oldest first.
func (h *LineHandler) GetChanges(c *gin.Context) {
	since := time.Now().Add(-24 * time.Hour)
	if raw := c.Query("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "since must be RFC3339"})
			return
		}
		since = parsed
	}

	changes, err := h.tracker.GetChanges(c.Request.Context(), since)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load line changes")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load line changes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"changes": changes, "count": len(changes)})
}

type chaseRequest struct {
	PlayerID  string  `json:"player_id" binding:"required"`
	StatType  string  `json:"stat_type" binding:"required"`
	LineValue float64 `json:"line_value"`
	Reason    string  `json:"reason"`
}

// AddChase upserts a chase-list entry.
func (h *LineHandler) AddChase(c *gin.Context) {
	var req chaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry := models.ChaseListEntry{
		PlayerID:  req.PlayerID,
		StatType:  req.StatType,
		LineValue: req.LineValue,
		Reason:    req.Reason,
	}
	if err := h.tracker.AddToChaseList(c.Request.Context(), entry); err != nil {
		h.logger.WithError(err).Error("Failed to add chase entry")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add chase entry"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": true})
}

// RemoveChase deletes a chase-list entry.
func (h *LineHandler) RemoveChase(c *gin.Context) {
	playerID := c.Query("player_id")
	statType := c.Query("stat_type")
	if playerID == "" || statType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "player_id and stat_type are required"})
		return
	}

	if err := h.tracker.RemoveFromChaseList(c.Request.Context(), playerID, statType); err != nil {
		h.logger.WithError(err).Error("Failed to remove chase entry")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove chase entry"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": true})
}

// ListChase returns the chase list.
func (h *LineHandler) ListChase(c *gin.Context) {
	entries, err := h.tracker.ListChase(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list chase entries")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list chase entries"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"chase_list": entries, "count": len(entries)})
}

type altLineRequest struct {
	PlayerID string  `json:"player_id" binding:"required"`
	StatType string  `json:"stat_type" binding:"required"`
	MainLine float64 `json:"main_line"`
	AltLine  float64 `json:"alt_line" binding:"required"`
	Source   string  `json:"source"`
}

// AddAltLine registers an alternate line from another source.
func (h *LineHandler) AddAltLine(c *gin.Context) {
	var req altLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry := models.AltLineEntry{
		PlayerID: req.PlayerID,
		StatType: req.StatType,
		MainLine: req.MainLine,
		AltLine:  req.AltLine,
		Source:   req.Source,
	}
	if err := h.tracker.AddAltLine(c.Request.Context(), entry); err != nil {
		h.logger.WithError(err).Error("Failed to add alt line")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add alt line"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": true})
}

// ListAltLines returns every registered alt line for a pair.
func (h *LineHandler) ListAltLines(c *gin.Context) {
	playerID := c.Query("player_id")
	statType := c.Query("stat_type")
	if playerID == "" || statType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "player_id and stat_type are required"})
		return
	}

	entries, err := h.tracker.ListAltLines(c.Request.Context(), playerID, statType)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list alt lines")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list alt lines"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"alt_lines": entries, "count": len(entries)})
}
