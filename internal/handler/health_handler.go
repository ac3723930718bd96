package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vtuportal/internal/middleware"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	store Pinger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

// Liveness handles GET /healthz
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
// @Summary Readiness check
// @Description Reports whether the result store is reachable
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		middleware.GetLogger(c).Warn("readiness check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "result store not reachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
