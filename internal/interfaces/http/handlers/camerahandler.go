package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"safyra/internal/infrastructure/detection"
	"safyra/internal/shared/errors"
	"safyra/internal/shared/logger"
	"safyra/internal/shared/utils"
)

// CameraHandler proxies camera control and alert logs from the
// weapon-detection backend.
type CameraHandler struct {
	client *detection.Client
	logger logger.Interface
}

// NewCameraHandler creates a new camera proxy handler.
func NewCameraHandler(client *detection.Client, log logger.Interface) *CameraHandler {
	return &CameraHandler{
		client: client,
		logger: log,
	}
}

type startCameraRequest struct {
	CameraIndex int `json:"camera_index" binding:"omitempty,gte=0,lte=16"`
}

// Start asks the backend to begin monitoring the given camera.
// POST /api/v1/camera/start
func (h *CameraHandler) Start(c *gin.Context) {
	var req startCameraRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		utils.ErrorResponseWithError(c, errors.NewValidationError("Invalid request format", err.Error()))
		return
	}

	status, err := h.client.StartCamera(c.Request.Context(), req.CameraIndex)
	if err != nil {
		h.logger.Warnw("failed to start camera", "camera_index", req.CameraIndex, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Infow("camera monitoring started", "camera_index", req.CameraIndex)
	utils.SuccessResponse(c, http.StatusOK, "Camera monitoring started", status)
}

// Stop asks the backend to stop monitoring.
// POST /api/v1/camera/stop
func (h *CameraHandler) Stop(c *gin.Context) {
	status, err := h.client.StopCamera(c.Request.Context())
	if err != nil {
		h.logger.Warnw("failed to stop camera", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Camera monitoring stopped", status)
}

// Status returns the backend's live monitoring state.
// GET /api/v1/camera/status
func (h *CameraHandler) Status(c *gin.Context) {
	result, err := h.client.GetStatus(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// StreamURL returns where the frontend should read the MJPEG feed from.
// The stream itself is served by the backend; proxying frames through
// this service would only add latency.
// GET /api/v1/camera/stream-url
func (h *CameraHandler) StreamURL(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"stream_url": h.client.StreamURL(),
	})
}

// Alerts returns the backend's weapon alert log for a given day.
// Date defaults to today when omitted.
// GET /api/v1/camera/alerts?date=YYYYMMDD
func (h *CameraHandler) Alerts(c *gin.Context) {
	date := c.Query("date")
	if date != "" {
		if err := utils.ValidateCompactDate(date); err != nil {
			utils.ErrorResponseWithError(c, err)
			return
		}
	}

	alerts, err := h.client.GetWeaponAlerts(c.Request.Context(), date)
	if err != nil {
		h.logger.Warnw("failed to fetch weapon alerts", "date", date, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, alerts, len(alerts))
}

// Recordings lists the weapon-alert video recordings stored on the backend.
// GET /api/v1/camera/recordings
func (h *CameraHandler) Recordings(c *gin.Context) {
	recordings, err := h.client.GetRecordings(c.Request.Context())
	if err != nil {
		h.logger.Warnw("failed to list backend recordings", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, recordings, len(recordings))
}

// DeleteRecording removes a stored recording from the backend.
// DELETE /api/v1/camera/recordings/:filename
func (h *CameraHandler) DeleteRecording(c *gin.Context) {
	filename := c.Param("filename")
	if filename == "" {
		utils.ErrorResponseWithError(c, errors.NewValidationError("recording filename is required"))
		return
	}

	if err := h.client.DeleteRecording(c.Request.Context(), filename); err != nil {
		h.logger.Warnw("failed to delete backend recording", "filename", filename, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Infow("backend recording deleted", "filename", filename)
	utils.NoContentResponse(c)
}

// RecordingURL returns where a stored recording can be downloaded from.
// GET /api/v1/camera/recordings/:filename/url
func (h *CameraHandler) RecordingURL(c *gin.Context) {
	filename := c.Param("filename")
	if filename == "" {
		utils.ErrorResponseWithError(c, errors.NewValidationError("recording filename is required"))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"download_url": h.client.RecordingDownloadURL(filename),
	})
}

// AlertsSummary returns per-day alert counts over the trailing week.
// GET /api/v1/camera/alerts/summary
func (h *CameraHandler) AlertsSummary(c *gin.Context) {
	summary, err := h.client.GetAlertsSummary(c.Request.Context())
	if err != nil {
		h.logger.Warnw("failed to fetch alerts summary", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", summary)
}
