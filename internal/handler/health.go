package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/farahhazhiyah00/Glowyze-Face-Analyzer/internal/store"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthHandler implements the liveness endpoint
type HealthHandler struct {
	store  store.Store
	logger *zap.Logger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(st store.Store, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		store:  st,
		logger: logger,
	}
}

// GetHealth reports service health. Storage is probed with a read of a
// key that does not need to exist.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	overall := "ok"
	storageStatus := "ok"
	status := http.StatusOK
	if _, err := h.store.Get(c.Request.Context(), "health:probe"); err != nil && !errors.Is(err, store.ErrNotFound) {
		h.logger.Error("storage health probe failed", zap.Error(err))
		overall = "degraded"
		storageStatus = "unavailable"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":    overall,
		"storage":   storageStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
