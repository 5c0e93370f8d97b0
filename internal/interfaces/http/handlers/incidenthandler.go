package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appincident "safyra/internal/application/incident"
	"safyra/internal/shared/logger"
	"safyra/internal/shared/utils"
)

// IncidentHandler serves the merged incident history feed.
type IncidentHandler struct {
	service *appincident.Service
	logger  logger.Interface
}

// NewIncidentHandler creates a new incident history handler.
func NewIncidentHandler(service *appincident.Service, log logger.Interface) *IncidentHandler {
	return &IncidentHandler{
		service: service,
		logger:  log,
	}
}

// List returns incidents from all sources merged newest first.
// Remote source failures degrade to whatever is available locally.
// GET /api/v1/incidents
func (h *IncidentHandler) List(c *gin.Context) {
	userID := resolveUserID(c)

	incidents, err := h.service.FetchAll(c.Request.Context(), userID)
	if err != nil {
		h.logger.Errorw("failed to fetch incidents", "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, incidents, len(incidents))
}

// Stats returns aggregate counts over the merged incident feed.
// GET /api/v1/incidents/stats
func (h *IncidentHandler) Stats(c *gin.Context) {
	userID := resolveUserID(c)

	stats, err := h.service.Stats(c.Request.Context(), userID)
	if err != nil {
		h.logger.Errorw("failed to compute incident stats", "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", stats)
}
