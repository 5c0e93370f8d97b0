package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appcheckin "safyra/internal/application/checkin"
	"safyra/internal/interfaces/dto"
	"safyra/internal/shared/errors"
	"safyra/internal/shared/id"
	"safyra/internal/shared/logger"
	"safyra/internal/shared/utils"
)

// PanicHandler exposes the panic-mode check-in lifecycle.
type PanicHandler struct {
	service *appcheckin.Service
	logger  logger.Interface
}

// NewPanicHandler creates a new panic session handler.
func NewPanicHandler(service *appcheckin.Service, log logger.Interface) *PanicHandler {
	return &PanicHandler{
		service: service,
		logger:  log,
	}
}

// Start begins a panic-mode session for the requesting user.
// POST /api/v1/panic/sessions
func (h *PanicHandler) Start(c *gin.Context) {
	var req dto.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		utils.ErrorResponseWithError(c, errors.NewValidationError("Invalid request format", err.Error()))
		return
	}

	userID := resolveUserID(c)
	status, err := h.service.Start(c.Request.Context(), userID, req.TapIntervalSeconds)
	if err != nil {
		h.logger.Errorw("failed to start panic session", "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Infow("panic session started", "session_id", status.Session.ID(), "user_id", userID)
	utils.CreatedResponse(c, dto.FromStatus(status), "Panic session started")
}

// ConfirmSafety registers a check-in tap and resets the countdown.
// POST /api/v1/panic/sessions/:id/tap
func (h *PanicHandler) ConfirmSafety(c *gin.Context) {
	sessionID, err := utils.ParseSIDParam(c, "id", id.PrefixPanicSession, "panic session")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	status, err := h.service.ConfirmSafety(c.Request.Context(), sessionID)
	if err != nil {
		h.logger.Warnw("failed to confirm safety", "session_id", sessionID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Safety confirmed", dto.FromStatus(status))
}

// End deactivates a session and stops its countdown.
// POST /api/v1/panic/sessions/:id/end
func (h *PanicHandler) End(c *gin.Context) {
	sessionID, err := utils.ParseSIDParam(c, "id", id.PrefixPanicSession, "panic session")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	session, err := h.service.End(c.Request.Context(), sessionID)
	if err != nil {
		h.logger.Warnw("failed to end panic session", "session_id", sessionID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Infow("panic session ended", "session_id", sessionID)
	utils.SuccessResponse(c, http.StatusOK, "Panic session ended", dto.FromSession(session))
}

// Current returns the requesting user's active session with live countdown state.
// GET /api/v1/panic/sessions/current
func (h *PanicHandler) Current(c *gin.Context) {
	userID := resolveUserID(c)

	status, err := h.service.Current(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", dto.FromStatus(status))
}

// History lists the user's sessions, newest first.
// GET /api/v1/panic/sessions
func (h *PanicHandler) History(c *gin.Context) {
	userID := resolveUserID(c)

	sessions, err := h.service.History(c.Request.Context(), userID)
	if err != nil {
		h.logger.Errorw("failed to list panic sessions", "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, dto.FromSessions(sessions), len(sessions))
}

// Dismiss removes an ended session from history.
// DELETE /api/v1/panic/sessions/:id
func (h *PanicHandler) Dismiss(c *gin.Context) {
	sessionID, err := utils.ParseSIDParam(c, "id", id.PrefixPanicSession, "panic session")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.service.Dismiss(c.Request.Context(), sessionID); err != nil {
		h.logger.Warnw("failed to dismiss panic session", "session_id", sessionID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// TriggerManual fires an emergency escalation immediately for an active session.
// POST /api/v1/panic/sessions/:id/trigger
func (h *PanicHandler) TriggerManual(c *gin.Context) {
	sessionID, err := utils.ParseSIDParam(c, "id", id.PrefixPanicSession, "panic session")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.service.TriggerManual(c.Request.Context(), sessionID); err != nil {
		h.logger.Warnw("failed to trigger manual emergency", "session_id", sessionID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Infow("manual emergency triggered", "session_id", sessionID)
	utils.SuccessResponse(c, http.StatusOK, "Emergency escalation triggered", nil)
}
