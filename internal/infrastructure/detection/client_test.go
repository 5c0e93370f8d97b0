package detection

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safyra/internal/infrastructure/config"
	"safyra/internal/shared/errors"
	"safyra/internal/shared/logger"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(&config.DetectionConfig{
		BaseURL:        srv.URL,
		TimeoutSeconds: 2,
	}, logger.NewLogger())
	return client, srv
}

func TestClient_GetStatus(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/camera/status", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"success": true,
			"status": {"monitoring": true, "camera_connected": true, "weapon_detected": false, "detection_duration": 0},
			"threshold_seconds": 2.0
		}`))
	}))

	result, err := client.GetStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Status.Monitoring)
	assert.True(t, result.Status.CameraConnected)
	assert.False(t, result.Status.WeaponDetected)
	assert.Equal(t, 2.0, result.ThresholdSeconds)
}

func TestClient_StartCamera_SendsIndex(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/camera/start", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"success": true,
			"message": "Camera monitoring started on camera 1",
			"status": {"monitoring": true, "camera_connected": true}
		}`))
	}))

	status, err := client.StartCamera(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, status.Monitoring)
}

func TestClient_GetWeaponAlerts_ParsesNaiveTimestamps(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/logs/weapon-alerts", r.URL.Path)
		require.Equal(t, "20260830", r.URL.Query().Get("date"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"success": true,
			"date": "20260830",
			"alerts": [
				{
					"timestamp": "2026-08-30T14:22:05.123456",
					"alert_type": "WEAPON_DETECTED",
					"duration_seconds": 3.42,
					"detections": [{"class": "knife", "confidence": 0.91, "bbox": {"x1": 10, "y1": 20, "x2": 110, "y2": 220}}],
					"detection_count": 1,
					"threshold_seconds": 2.0,
					"recording_started": true,
					"recording_filename": "alert_20260830_142205.mp4"
				}
			],
			"count": 1
		}`))
	}))

	alerts, err := client.GetWeaponAlerts(context.Background(), "20260830")
	require.NoError(t, err)
	require.Len(t, alerts, 1)

	a := alerts[0]
	assert.Equal(t, time.Date(2026, 8, 30, 14, 22, 5, 123456000, time.UTC), a.Timestamp)
	assert.Equal(t, "WEAPON_DETECTED", a.AlertType)
	assert.Equal(t, 0.91, a.MaxConfidence())
	assert.True(t, a.RecordingStarted)
}

func TestClient_GetAlertsSummary(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/logs/weapon-alerts/summary", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true, "summary": {"20260830": 2, "20260829": 0}, "total_alerts": 2}`))
	}))

	summary, err := client.GetAlertsSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalAlerts)
	assert.Equal(t, 2, summary.Summary["20260830"])
}

func TestClient_BackendErrorMapping(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "Camera monitoring is already running"}`))
	}))

	_, err := client.StartCamera(context.Background(), 0)
	require.Error(t, err)

	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Contains(t, appErr.Message, "already running")
}

func TestClient_BackendUnreachable(t *testing.T) {
	client := NewClient(&config.DetectionConfig{
		BaseURL:        "http://127.0.0.1:1",
		TimeoutSeconds: 1,
	}, logger.NewLogger())

	_, err := client.GetStatus(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsUnavailableError(err))
}

func TestWSURL(t *testing.T) {
	assert.Equal(t, "ws://localhost:5000/ws", wsURL("http://localhost:5000"))
	assert.Equal(t, "wss://cam.example.com/ws", wsURL("https://cam.example.com/"))
}
