package safety

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client is the Safyra API client.
type Client struct {
	baseURL    string
	userID     string
	httpClient *http.Client
}

// Option is a function that configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(client *Client) {
		client.httpClient.Timeout = d
	}
}

// WithUserID sets the user identity sent with every request.
func WithUserID(userID string) Option {
	return func(client *Client) {
		client.userID = userID
	}
}

// NewClient creates a new Safyra API client.
//
// Parameters:
//   - baseURL: The API base URL (e.g., "http://localhost:8080")
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StartSession begins a panic-mode session. tapIntervalSeconds of zero
// uses the server default.
func (c *Client) StartSession(ctx context.Context, tapIntervalSeconds int) (*SessionStatus, error) {
	body := map[string]int{"tap_interval_seconds": tapIntervalSeconds}

	var status SessionStatus
	if err := c.doRequest(ctx, http.MethodPost, c.baseURL+"/api/v1/panic/sessions", body, &status); err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	return &status, nil
}

// ConfirmSafety registers a check-in tap for the session.
func (c *Client) ConfirmSafety(ctx context.Context, sessionID string) (*SessionStatus, error) {
	apiURL := fmt.Sprintf("%s/api/v1/panic/sessions/%s/tap", c.baseURL, url.PathEscape(sessionID))

	var status SessionStatus
	if err := c.doRequest(ctx, http.MethodPost, apiURL, nil, &status); err != nil {
		return nil, fmt.Errorf("confirm safety: %w", err)
	}
	return &status, nil
}

// EndSession deactivates the session and stops escalation.
func (c *Client) EndSession(ctx context.Context, sessionID string) (*Session, error) {
	apiURL := fmt.Sprintf("%s/api/v1/panic/sessions/%s/end", c.baseURL, url.PathEscape(sessionID))

	var session Session
	if err := c.doRequest(ctx, http.MethodPost, apiURL, nil, &session); err != nil {
		return nil, fmt.Errorf("end session: %w", err)
	}
	return &session, nil
}

// CurrentSession returns the active session with live countdown state.
func (c *Client) CurrentSession(ctx context.Context) (*SessionStatus, error) {
	var status SessionStatus
	if err := c.doRequest(ctx, http.MethodGet, c.baseURL+"/api/v1/panic/sessions/current", nil, &status); err != nil {
		return nil, fmt.Errorf("current session: %w", err)
	}
	return &status, nil
}

// SessionHistory lists the user's sessions, newest first.
func (c *Client) SessionHistory(ctx context.Context) ([]Session, error) {
	var list listResult[Session]
	if err := c.doRequest(ctx, http.MethodGet, c.baseURL+"/api/v1/panic/sessions", nil, &list); err != nil {
		return nil, fmt.Errorf("session history: %w", err)
	}
	return list.Items, nil
}

// TriggerEmergency fires escalation immediately for an active session.
func (c *Client) TriggerEmergency(ctx context.Context, sessionID string) error {
	apiURL := fmt.Sprintf("%s/api/v1/panic/sessions/%s/trigger", c.baseURL, url.PathEscape(sessionID))

	if err := c.doRequest(ctx, http.MethodPost, apiURL, nil, nil); err != nil {
		return fmt.Errorf("trigger emergency: %w", err)
	}
	return nil
}

// ListContacts returns emergency contacts ordered by escalation priority.
func (c *Client) ListContacts(ctx context.Context) ([]Contact, error) {
	var list listResult[Contact]
	if err := c.doRequest(ctx, http.MethodGet, c.baseURL+"/api/v1/contacts", nil, &list); err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return list.Items, nil
}

// SaveRecording stores an SOS recording. audioData is base64-encoded.
func (c *Client) SaveRecording(ctx context.Context, location, audioData string, durationSeconds float64) (*Recording, error) {
	body := map[string]any{
		"location":         location,
		"audio_data":       audioData,
		"duration_seconds": durationSeconds,
	}

	var recording Recording
	if err := c.doRequest(ctx, http.MethodPost, c.baseURL+"/api/v1/sos/recordings", body, &recording); err != nil {
		return nil, fmt.Errorf("save recording: %w", err)
	}
	return &recording, nil
}

// MarkRecordingSent marks a recording as delivered to contacts.
func (c *Client) MarkRecordingSent(ctx context.Context, recordingID string) (*Recording, error) {
	apiURL := fmt.Sprintf("%s/api/v1/sos/recordings/%s/sent", c.baseURL, url.PathEscape(recordingID))

	var recording Recording
	if err := c.doRequest(ctx, http.MethodPost, apiURL, nil, &recording); err != nil {
		return nil, fmt.Errorf("mark recording sent: %w", err)
	}
	return &recording, nil
}

// ListIncidents returns the merged incident history, newest first.
func (c *Client) ListIncidents(ctx context.Context) ([]Incident, error) {
	var list listResult[Incident]
	if err := c.doRequest(ctx, http.MethodGet, c.baseURL+"/api/v1/incidents", nil, &list); err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	return list.Items, nil
}

// IncidentStats returns aggregate counts over the incident feed.
func (c *Client) IncidentStats(ctx context.Context) (*IncidentStats, error) {
	var stats IncidentStats
	if err := c.doRequest(ctx, http.MethodGet, c.baseURL+"/api/v1/incidents/stats", nil, &stats); err != nil {
		return nil, fmt.Errorf("incident stats: %w", err)
	}
	return &stats, nil
}

type listResult[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *apiError       `json:"error"`
	Message string          `json:"message"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// doRequest performs an HTTP request and decodes the response envelope.
func (c *Client) doRequest(ctx context.Context, method, url string, body any, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.userID != "" {
		req.Header.Set("X-User-ID", c.userID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var apiResp apiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return fmt.Errorf("unmarshal response: status=%d body=%s", resp.StatusCode, string(respBody))
	}

	if !apiResp.Success {
		if apiResp.Error != nil {
			return fmt.Errorf("api error: %s", apiResp.Error.Message)
		}
		return fmt.Errorf("api error: status=%d", resp.StatusCode)
	}

	if result == nil || apiResp.Data == nil {
		return nil
	}

	if err := json.Unmarshal(apiResp.Data, result); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}

	return nil
}
