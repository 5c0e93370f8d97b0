package checkin

import (
	"fmt"
	"time"

	"safyra/internal/shared/id"
)

// AlertType describes what turned a session into an emergency.
type AlertType string

const (
	AlertTypeMissedTap     AlertType = "missed_tap"
	AlertTypeManualTrigger AlertType = "manual_trigger"
)

// EmergencyAlert is the ephemeral payload handed to the escalation
// notifier on every expiry. It is regenerated per event and never
// persisted as an entity.
type EmergencyAlert struct {
	ID               string    `json:"id"`
	SessionID        string    `json:"session_id"`
	UserID           string    `json:"user_id"`
	Timestamp        time.Time `json:"timestamp"`
	Location         Location  `json:"location"`
	AlertType        AlertType `json:"alert_type"`
	MissedTaps       int       `json:"missed_taps"`
	ContactsNotified []string  `json:"contacts_notified"`
	ServicesNotified []string  `json:"services_notified"`
}

// NewEmergencyAlert builds an alert for the given session state.
func NewEmergencyAlert(sessionID, userID string, alertType AlertType, location Location, missedTaps int) (*EmergencyAlert, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID is required")
	}
	if alertType != AlertTypeMissedTap && alertType != AlertTypeManualTrigger {
		return nil, fmt.Errorf("invalid alert type: %s", alertType)
	}

	aid, err := id.NewAlertID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate alert ID: %w", err)
	}

	return &EmergencyAlert{
		ID:               aid,
		SessionID:        sessionID,
		UserID:           userID,
		Timestamp:        time.Now().UTC(),
		Location:         location,
		AlertType:        alertType,
		MissedTaps:       missedTaps,
		ContactsNotified: []string{},
		ServicesNotified: []string{},
	}, nil
}
