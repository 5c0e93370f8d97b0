package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appsos "safyra/internal/application/sos"
	"safyra/internal/interfaces/dto"
	"safyra/internal/shared/errors"
	"safyra/internal/shared/id"
	"safyra/internal/shared/logger"
	"safyra/internal/shared/utils"
)

// SOSHandler manages locally stored SOS recordings.
type SOSHandler struct {
	service *appsos.Service
	logger  logger.Interface
}

// NewSOSHandler creates a new SOS recording handler.
func NewSOSHandler(service *appsos.Service, log logger.Interface) *SOSHandler {
	return &SOSHandler{
		service: service,
		logger:  log,
	}
}

// Save stores an SOS recording captured on the device.
// POST /api/v1/sos/recordings
func (h *SOSHandler) Save(c *gin.Context) {
	var req dto.SaveRecordingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("Invalid request format", err.Error()))
		return
	}

	userID := resolveUserID(c)
	recording, err := h.service.Save(c.Request.Context(), userID, req.Location, req.AudioData, req.DurationSeconds)
	if err != nil {
		h.logger.Warnw("failed to save SOS recording", "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Infow("SOS recording saved", "recording_id", recording.ID(), "user_id", userID)
	utils.CreatedResponse(c, dto.FromRecording(recording), "Recording saved")
}

// MarkSent marks a recording as delivered to emergency contacts.
// POST /api/v1/sos/recordings/:id/sent
func (h *SOSHandler) MarkSent(c *gin.Context) {
	recordingID, err := utils.ParseSIDParam(c, "id", id.PrefixSOSRecording, "SOS recording")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	recording, err := h.service.MarkSent(c.Request.Context(), recordingID)
	if err != nil {
		h.logger.Warnw("failed to mark SOS recording sent", "recording_id", recordingID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Recording marked as sent", dto.FromRecording(recording))
}

// Get fetches a single recording including its audio payload.
// GET /api/v1/sos/recordings/:id
func (h *SOSHandler) Get(c *gin.Context) {
	recordingID, err := utils.ParseSIDParam(c, "id", id.PrefixSOSRecording, "SOS recording")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	recording, err := h.service.Get(c.Request.Context(), recordingID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", dto.FromRecordingWithAudio(recording))
}

// List returns the user's recordings newest first, without audio payloads.
// GET /api/v1/sos/recordings
func (h *SOSHandler) List(c *gin.Context) {
	userID := resolveUserID(c)

	recordings, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		h.logger.Errorw("failed to list SOS recordings", "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, dto.FromRecordings(recordings), len(recordings))
}

// Delete removes a recording.
// DELETE /api/v1/sos/recordings/:id
func (h *SOSHandler) Delete(c *gin.Context) {
	recordingID, err := utils.ParseSIDParam(c, "id", id.PrefixSOSRecording, "SOS recording")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), recordingID); err != nil {
		h.logger.Warnw("failed to delete SOS recording", "recording_id", recordingID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
