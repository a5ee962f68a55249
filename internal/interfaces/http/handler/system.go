package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/factoryerp/backend/internal/interfaces/http/dto"
)

// Pinger reports database liveness
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler handles system-related API endpoints
type SystemHandler struct {
	BaseHandler
	db        Pinger
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db Pinger) *SystemHandler {
	return &SystemHandler{
		db:        db,
		startTime: time.Now(),
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
	Database  string `json:"database"`
}

// Health reports service and database health.
// GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:    "ok",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Database:  "ok",
	}

	if h.db != nil {
		if err := h.db.Ping(c.Request.Context()); err != nil {
			resp.Status = "degraded"
			resp.Database = "unreachable"
			c.JSON(http.StatusServiceUnavailable, dto.NewSuccessResponse(resp))
			return
		}
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Ping is a trivial liveness endpoint.
// GET /system/ping
func (h *SystemHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"message":   "pong",
		"timestamp": time.Now().Format(time.RFC3339),
	}))
}
