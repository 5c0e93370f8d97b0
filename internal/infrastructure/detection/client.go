// Package detection talks to the weapon-detection camera backend over HTTP
// and streams its live events over websocket.
package detection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"safyra/internal/domain/incident"
	"safyra/internal/infrastructure/config"
	"safyra/internal/shared/errors"
	"safyra/internal/shared/logger"
)

const (
	defaultRequestTimeout = 10 * time.Second
	// Maximum response body size for detection API responses (1MB; a day
	// of alert logs can carry many detection records).
	maxResponseSize = 1 << 20
)

// CameraStatus mirrors the monitor status reported by the detection backend.
type CameraStatus struct {
	Monitoring        bool    `json:"monitoring"`
	CameraConnected   bool    `json:"camera_connected"`
	WeaponDetected    bool    `json:"weapon_detected"`
	DetectionDuration float64 `json:"detection_duration"`
}

// StatusResult is the full /camera/status payload.
type StatusResult struct {
	Status           CameraStatus `json:"status"`
	ThresholdSeconds float64      `json:"threshold_seconds"`
}

// AlertsSummary is the per-day alert count over the trailing week.
type AlertsSummary struct {
	Summary     map[string]int `json:"summary"`
	TotalAlerts int            `json:"total_alerts"`
}

// Recording is a weapon-alert video recording stored on the backend.
type Recording struct {
	Filename  string `json:"filename"`
	FileSize  int64  `json:"file_size"`
	CreatedAt string `json:"created_at"`
}

// Health is the backend health check payload.
type Health struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	ModelLoaded bool   `json:"model_loaded"`
}

// Client is the HTTP client for the detection backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Interface
}

// NewClient creates a detection backend client from config.
func NewClient(cfg *config.DetectionConfig, log logger.Interface) *Client {
	timeout := defaultRequestTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log,
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// StreamURL returns the MJPEG stream endpoint for the live camera feed.
// The stream is proxied by the backend itself; callers hand this URL to
// the frontend rather than reading it here.
func (c *Client) StreamURL() string {
	return c.baseURL + "/camera/stream"
}

// CheckHealth probes the backend health endpoint.
func (c *Client) CheckHealth(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.doJSON(ctx, http.MethodGet, "/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StartCamera starts camera monitoring on the given camera index.
func (c *Client) StartCamera(ctx context.Context, cameraIndex int) (*CameraStatus, error) {
	body := map[string]int{"camera_index": cameraIndex}

	var out struct {
		Success bool         `json:"success"`
		Message string       `json:"message"`
		Status  CameraStatus `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/camera/start", body, &out); err != nil {
		return nil, err
	}

	c.logger.Infow("camera monitoring started",
		"camera_index", cameraIndex,
		"message", out.Message,
	)
	return &out.Status, nil
}

// StopCamera stops camera monitoring.
func (c *Client) StopCamera(ctx context.Context) (*CameraStatus, error) {
	var out struct {
		Success bool         `json:"success"`
		Message string       `json:"message"`
		Status  CameraStatus `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/camera/stop", nil, &out); err != nil {
		return nil, err
	}

	c.logger.Infow("camera monitoring stopped")
	return &out.Status, nil
}

// GetStatus returns the current monitoring status and alert threshold.
func (c *Client) GetStatus(ctx context.Context) (*StatusResult, error) {
	var out struct {
		Success          bool         `json:"success"`
		Status           CameraStatus `json:"status"`
		ThresholdSeconds float64      `json:"threshold_seconds"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/camera/status", nil, &out); err != nil {
		return nil, err
	}

	return &StatusResult{
		Status:           out.Status,
		ThresholdSeconds: out.ThresholdSeconds,
	}, nil
}

// GetWeaponAlerts fetches the logged weapon alerts for a YYYYMMDD date.
func (c *Client) GetWeaponAlerts(ctx context.Context, date string) ([]incident.WeaponAlert, error) {
	var out struct {
		Success bool        `json:"success"`
		Date    string      `json:"date"`
		Alerts  []wireAlert `json:"alerts"`
		Count   int         `json:"count"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/logs/weapon-alerts?date="+date, nil, &out); err != nil {
		return nil, err
	}

	alerts := make([]incident.WeaponAlert, 0, len(out.Alerts))
	for _, wa := range out.Alerts {
		alerts = append(alerts, wa.toDomain())
	}
	return alerts, nil
}

// GetAlertsSummary fetches the trailing seven-day alert counts.
func (c *Client) GetAlertsSummary(ctx context.Context) (*AlertsSummary, error) {
	var out struct {
		Success     bool           `json:"success"`
		Summary     map[string]int `json:"summary"`
		TotalAlerts int            `json:"total_alerts"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/logs/weapon-alerts/summary", nil, &out); err != nil {
		return nil, err
	}

	return &AlertsSummary{
		Summary:     out.Summary,
		TotalAlerts: out.TotalAlerts,
	}, nil
}

// GetRecentWeaponAlerts fetches the backend's rolling recent-alert feed.
func (c *Client) GetRecentWeaponAlerts(ctx context.Context) ([]incident.WeaponAlert, error) {
	var out []wireAlert
	if err := c.doJSON(ctx, http.MethodGet, "/api/weapon-alerts", nil, &out); err != nil {
		return nil, err
	}

	alerts := make([]incident.WeaponAlert, 0, len(out))
	for _, wa := range out {
		alerts = append(alerts, wa.toDomain())
	}
	return alerts, nil
}

// GetRecordings lists the weapon-alert video recordings stored on the
// backend, newest first.
func (c *Client) GetRecordings(ctx context.Context) ([]Recording, error) {
	var out struct {
		Success    bool        `json:"success"`
		Recordings []Recording `json:"recordings"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/recordings", nil, &out); err != nil {
		return nil, err
	}
	return out.Recordings, nil
}

// DeleteRecording removes a stored recording by filename.
func (c *Client) DeleteRecording(ctx context.Context, filename string) error {
	path := "/recordings/delete/" + url.PathEscape(filename)
	var out struct {
		Success bool `json:"success"`
	}
	return c.doJSON(ctx, http.MethodDelete, path, nil, &out)
}

// RecordingDownloadURL returns where a recording can be streamed or
// downloaded from. The file is served by the backend directly.
func (c *Client) RecordingDownloadURL(filename string) string {
	return c.baseURL + "/recordings/download/" + url.PathEscape(filename)
}

// GetSOSCalls fetches distress-call records relayed through the backend.
func (c *Client) GetSOSCalls(ctx context.Context) ([]incident.SOSCall, error) {
	var out []wireSOSCall
	if err := c.doJSON(ctx, http.MethodGet, "/api/sos-calls", nil, &out); err != nil {
		return nil, err
	}

	calls := make([]incident.SOSCall, 0, len(out))
	for _, wc := range out {
		calls = append(calls, incident.SOSCall{
			Timestamp: parseBackendTime(wc.Timestamp),
			Latitude:  wc.Latitude,
			Longitude: wc.Longitude,
			Location:  wc.Location,
			File:      wc.File,
		})
	}
	return calls, nil
}

// wireSOSCall is the backend's distress-call record.
type wireSOSCall struct {
	Timestamp string  `json:"timestamp"`
	Date      string  `json:"date"`
	Time      string  `json:"time"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Location  string  `json:"location"`
	File      string  `json:"file"`
}

// wireAlert is the backend's alert record. Timestamps arrive as naive ISO
// strings without a timezone offset, so they need lenient parsing.
type wireAlert struct {
	Timestamp         string               `json:"timestamp"`
	AlertType         string               `json:"alert_type"`
	DurationSeconds   float64              `json:"duration_seconds"`
	Detections        []incident.Detection `json:"detections"`
	DetectionCount    int                  `json:"detection_count"`
	ThresholdSeconds  float64              `json:"threshold_seconds"`
	RecordingFilename string               `json:"recording_filename,omitempty"`
	RecordingStarted  bool                 `json:"recording_started"`
}

func (w wireAlert) toDomain() incident.WeaponAlert {
	return incident.WeaponAlert{
		Timestamp:         parseBackendTime(w.Timestamp),
		AlertType:         w.AlertType,
		DurationSeconds:   w.DurationSeconds,
		Detections:        w.Detections,
		DetectionCount:    w.DetectionCount,
		ThresholdSeconds:  w.ThresholdSeconds,
		RecordingFilename: w.RecordingFilename,
		RecordingStarted:  w.RecordingStarted,
	}
}

var backendTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// parseBackendTime parses the backend's ISO timestamps, which may or may
// not carry fractional seconds or a timezone offset. Unparseable values
// fall back to the zero time rather than failing the whole fetch.
func parseBackendTime(s string) time.Time {
	for _, layout := range backendTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// doJSON issues a request and decodes the JSON response. Backend errors
// surface as typed upstream errors so handlers can map them to 502.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewUnavailableError("detection backend unreachable", err.Error())
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return errors.NewUnavailableError("failed to read detection backend response", err.Error())
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			if resp.StatusCode == http.StatusBadRequest {
				return errors.NewBadRequestError(apiErr.Error)
			}
			return errors.NewUnavailableError("detection backend error", apiErr.Error)
		}
		return errors.NewUnavailableError(fmt.Sprintf("detection backend returned status %d", resp.StatusCode))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.NewUnavailableError("failed to decode detection backend response", err.Error())
	}
	return nil
}
