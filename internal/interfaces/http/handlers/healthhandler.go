package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"safyra/internal/infrastructure/detection"
	"safyra/internal/shared/logger"
)

// HealthHandler reports service liveness and detection backend reachability.
type HealthHandler struct {
	client *detection.Client
	logger logger.Interface
}

// NewHealthHandler creates a new health handler. The detection client
// may be nil when the backend integration is disabled.
func NewHealthHandler(client *detection.Client, log logger.Interface) *HealthHandler {
	return &HealthHandler{
		client: client,
		logger: log,
	}
}

// Check reports overall health. The service is considered healthy even
// when the detection backend is down, since local features keep working.
// GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	resp := gin.H{
		"status":  "healthy",
		"service": "safyra",
	}

	if h.client != nil {
		backend := gin.H{"reachable": false}
		if health, err := h.client.CheckHealth(c.Request.Context()); err == nil {
			backend["reachable"] = true
			backend["status"] = health.Status
			backend["model_loaded"] = health.ModelLoaded
		}
		resp["detection_backend"] = backend
	}

	c.JSON(http.StatusOK, resp)
}
