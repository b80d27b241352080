package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/lead-tracker/internal/config"
	"github.com/jonesrussell/lead-tracker/internal/metrics"
)

// HealthChecker reports whether the store currently answers.
type HealthChecker interface {
	Healthy() bool
}

// HealthHandler serves liveness and metrics endpoints.
type HealthHandler struct {
	db      HealthChecker
	cfg     *config.Config
	metrics *metrics.Metrics
}

func NewHealthHandler(db HealthChecker, cfg *config.Config, m *metrics.Metrics) *HealthHandler {
	return &HealthHandler{
		db:      db,
		cfg:     cfg,
		metrics: m,
	}
}

// Health reports service and database status.
func (h *HealthHandler) Health(c *gin.Context) {
	dbStatus := "Disconnected"
	if h.db != nil && h.db.Healthy() {
		dbStatus = "Connected"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "OK",
		"message":     "lead-tracker backend is running",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"version":     h.cfg.Service.Version,
		"database":    dbStatus,
		"environment": h.cfg.Service.Environment,
	})
}

// Metrics exposes the in-process request metrics snapshot.
func (h *HealthHandler) Metrics(c *gin.Context) {
	routes, active := h.metrics.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"activeRequests": active,
		"routes":         routes,
	})
}

// Demo is a connectivity probe for the extension: it echoes the payload's
// type and field count without persisting anything.
func (h *HealthHandler) Demo(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body", "details": err.Error()})
		return
	}

	dbStatus := "Disconnected"
	if h.db != nil && h.db.Healthy() {
		dbStatus = "Connected"
	}

	recordType, _ := payload["type"].(string)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Demo endpoint working! Database: " + dbStatus,
		"receivedData": gin.H{
			"type":   recordType,
			"fields": len(payload),
		},
	})
}
