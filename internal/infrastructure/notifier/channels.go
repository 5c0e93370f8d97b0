package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"safyra/internal/domain/checkin"
	"safyra/internal/domain/contact"
	"safyra/internal/infrastructure/config"
	"safyra/internal/shared/logger"
)

// ContactsChannel notifies each of the user's emergency contacts. Without a
// real SMS/call gateway this is a log-only simulation; the alert's
// ContactsNotified list records who was reached.
type ContactsChannel struct {
	contacts contact.Repository
	logger   logger.Interface
}

func NewContactsChannel(contacts contact.Repository, log logger.Interface) *ContactsChannel {
	return &ContactsChannel{contacts: contacts, logger: log}
}

func (c *ContactsChannel) Name() string { return "contacts" }

func (c *ContactsChannel) Notify(ctx context.Context, alert *checkin.EmergencyAlert) error {
	list, err := c.contacts.ListByUserID(ctx, alert.UserID)
	if err != nil {
		return fmt.Errorf("failed to load emergency contacts: %w", err)
	}

	for _, ct := range list {
		c.logger.Warnw("notifying emergency contact",
			"alert_id", alert.ID,
			"contact", ct.Name(),
			"phone", ct.Phone(),
			"priority", ct.Priority(),
		)
		alert.ContactsNotified = append(alert.ContactsNotified, ct.ID())
	}

	if len(list) == 0 {
		c.logger.Warnw("no emergency contacts configured", "alert_id", alert.ID)
	}
	return nil
}

// EmergencyServicesChannel is the best-effort dispatch signal to emergency
// services. Log-only until a real dispatch integration exists.
type EmergencyServicesChannel struct {
	logger logger.Interface
}

func NewEmergencyServicesChannel(log logger.Interface) *EmergencyServicesChannel {
	return &EmergencyServicesChannel{logger: log}
}

func (c *EmergencyServicesChannel) Name() string { return "emergency_services" }

func (c *EmergencyServicesChannel) Notify(ctx context.Context, alert *checkin.EmergencyAlert) error {
	c.logger.Warnw("emergency services dispatch signal",
		"alert_id", alert.ID,
		"location", alert.Location.Address,
		"latitude", alert.Location.Latitude,
		"longitude", alert.Location.Longitude,
	)
	alert.ServicesNotified = append(alert.ServicesNotified, "emergency_services")
	return nil
}

// LocationShareChannel activates live location sharing for the session.
type LocationShareChannel struct {
	logger logger.Interface
}

func NewLocationShareChannel(log logger.Interface) *LocationShareChannel {
	return &LocationShareChannel{logger: log}
}

func (c *LocationShareChannel) Name() string { return "location_share" }

func (c *LocationShareChannel) Notify(ctx context.Context, alert *checkin.EmergencyAlert) error {
	c.logger.Warnw("live location sharing activated",
		"alert_id", alert.ID,
		"session_id", alert.SessionID,
		"location", alert.Location.Address,
	)
	return nil
}

// RecordingChannel activates audio/video recording for the session.
type RecordingChannel struct {
	logger logger.Interface
}

func NewRecordingChannel(log logger.Interface) *RecordingChannel {
	return &RecordingChannel{logger: log}
}

func (c *RecordingChannel) Name() string { return "recording" }

func (c *RecordingChannel) Notify(ctx context.Context, alert *checkin.EmergencyAlert) error {
	c.logger.Warnw("audio/video recording activated",
		"alert_id", alert.ID,
		"session_id", alert.SessionID,
	)
	return nil
}

// WebhookChannel POSTs the alert to a configured receiver so a real
// notification backend can be attached without code changes.
type WebhookChannel struct {
	url        string
	httpClient *http.Client
	logger     logger.Interface
}

func NewWebhookChannel(cfg *config.NotifierConfig, log logger.Interface) *WebhookChannel {
	timeout := time.Duration(cfg.WebhookTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookChannel{
		url: cfg.WebhookURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log,
	}
}

func (c *WebhookChannel) Name() string { return "webhook" }

func (c *WebhookChannel) Notify(ctx context.Context, alert *checkin.EmergencyAlert) error {
	if c.url == "" {
		return nil
	}

	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	c.logger.Infow("alert delivered to webhook", "alert_id", alert.ID, "status", resp.StatusCode)
	return nil
}
