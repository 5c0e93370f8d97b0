package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safyra/internal/infrastructure/config"
	"safyra/internal/infrastructure/detection"
	"safyra/internal/shared/logger"
)

func setupCameraRouter(t *testing.T, backend http.Handler) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	log := logger.NewLogger()
	client := detection.NewClient(&config.DetectionConfig{
		BaseURL:        server.URL,
		TimeoutSeconds: 2,
	}, log)

	cameraHandler := NewCameraHandler(client, log)

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.POST("/camera/start", cameraHandler.Start)
	v1.POST("/camera/stop", cameraHandler.Stop)
	v1.GET("/camera/status", cameraHandler.Status)
	v1.GET("/camera/stream-url", cameraHandler.StreamURL)
	v1.GET("/camera/alerts", cameraHandler.Alerts)
	v1.GET("/camera/alerts/summary", cameraHandler.AlertsSummary)
	v1.GET("/camera/recordings", cameraHandler.Recordings)
	v1.DELETE("/camera/recordings/:filename", cameraHandler.DeleteRecording)

	return &testEnv{engine: router}
}

func TestCameraHandler_Status(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/camera/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"status": {"monitoring": true, "camera_connected": true, "weapon_detected": false, "detection_duration": 0},
			"threshold_seconds": 3.0
		}`))
	})

	env := setupCameraRouter(t, mux)

	w := env.do(t, http.MethodGet, "/api/v1/camera/status", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var result struct {
		Status struct {
			Monitoring      bool `json:"monitoring"`
			CameraConnected bool `json:"camera_connected"`
		} `json:"status"`
		ThresholdSeconds float64 `json:"threshold_seconds"`
	}
	decodeData(t, w, &result)
	assert.True(t, result.Status.Monitoring)
	assert.InDelta(t, 3.0, result.ThresholdSeconds, 0.001)
}

func TestCameraHandler_AlertsRejectsBadDate(t *testing.T) {
	env := setupCameraRouter(t, http.NewServeMux())

	w := env.do(t, http.MethodGet, "/api/v1/camera/alerts?date=2026-08-30", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCameraHandler_BackendDown(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// Point the handler at a closed server.
	server := httptest.NewServer(http.NewServeMux())
	server.Close()

	log := logger.NewLogger()
	client := detection.NewClient(&config.DetectionConfig{
		BaseURL:        server.URL,
		TimeoutSeconds: 1,
	}, log)
	cameraHandler := NewCameraHandler(client, log)

	router := gin.New()
	router.GET("/api/v1/camera/status", cameraHandler.Status)
	env := &testEnv{engine: router}

	w := env.do(t, http.MethodGet, "/api/v1/camera/status", nil)
	require.Equal(t, http.StatusBadGateway, w.Code)

	resp := decodeEnvelope(t, w)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "upstream_unavailable", resp.Error.Type)
}

func TestCameraHandler_RecordingsListAndDelete(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/recordings", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"recordings": [
				{"filename": "weapon_alert_20260830_142205.mp4", "file_size": 1048576, "created_at": "2026-08-30T14:22:05"}
			]
		}`))
	})
	mux.HandleFunc("/recordings/delete/", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true}`))
	})

	env := setupCameraRouter(t, mux)

	w := env.do(t, http.MethodGet, "/api/v1/camera/recordings", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Items []struct {
			Filename string `json:"filename"`
			FileSize int64  `json:"file_size"`
		} `json:"items"`
		Total int `json:"total"`
	}
	decodeData(t, w, &list)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "weapon_alert_20260830_142205.mp4", list.Items[0].Filename)

	w = env.do(t, http.MethodDelete, "/api/v1/camera/recordings/weapon_alert_20260830_142205.mp4", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestCameraHandler_StreamURL(t *testing.T) {
	mux := http.NewServeMux()
	env := setupCameraRouter(t, mux)

	w := env.do(t, http.MethodGet, "/api/v1/camera/stream-url", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var result struct {
		StreamURL string `json:"stream_url"`
	}
	decodeData(t, w, &result)
	assert.Contains(t, result.StreamURL, "/camera/stream")
}
