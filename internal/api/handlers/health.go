package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/prop-edge/internal/services"
	"github.com/stitts-dev/prop-edge/internal/storage"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	db        *storage.DB
	redis     *redis.Client
	refresher *services.Refresher
	logger    *logrus.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db *storage.DB, redisClient *redis.Client, refresher *services.Refresher, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{
		db:        db,
		redis:     redisClient,
		refresher: refresher,
		logger:    logger,
	}
}

// GetHealth reports liveness of the service and its dependencies.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	status := "ok"
	checks := make(map[string]string)

	if err := h.db.HealthCheck(); err != nil {
		status = "unhealthy"
		checks["database"] = "failed: " + err.Error()
	} else {
		checks["database"] = "ok"
	}

	if err := h.redis.Ping(c.Request.Context()).Err(); err != nil {
		status = "unhealthy"
		checks["redis"] = "failed: " + err.Error()
	} else {
		checks["redis"] = "ok"
	}

	statusCode := http.StatusOK
	if status != "ok" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, gin.H{
		"status":    status,
		"service":   "prop-edge",
		"timestamp": time.Now(),
		"checks":    checks,
	})
}

// GetReady reports readiness, including the scheduled refresher state.
func (h *HealthHandler) GetReady(c *gin.Context) {
	run := h.refresher.Status()

	checks := gin.H{
		"refresher_running": run.Running,
	}
	if !run.LastRun.IsZero() {
		checks["last_refresh"] = run.LastRun
	}
	if run.LastError != nil {
		checks["last_refresh_error"] = run.LastError.Error()
	}

	status := "ready"
	statusCode := http.StatusOK
	if err := h.db.HealthCheck(); err != nil {
		status = "not ready"
		statusCode = http.StatusServiceUnavailable
		checks["database"] = "failed: " + err.Error()
	}

	c.JSON(statusCode, gin.H{
		"status":    status,
		"service":   "prop-edge",
		"timestamp": time.Now(),
		"checks":    checks,
	})
}
