// Package safety provides a Go SDK for interacting with the Safyra API.
package safety

import "time"

// Location is a resolved location attached to a session.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

// Session represents a panic-mode check-in session.
type Session struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"user_id"`
	StartTime          time.Time  `json:"start_time"`
	EndTime            *time.Time `json:"end_time,omitempty"`
	IsActive           bool       `json:"is_active"`
	TapIntervalSeconds int        `json:"tap_interval_seconds"`
	LastTapTime        time.Time  `json:"last_tap_time"`
	MissedTaps         int        `json:"missed_taps"`
	TotalTaps          int        `json:"total_taps"`
	ConsecutiveMissed  int        `json:"consecutive_missed"`
	EmergencyTriggered bool       `json:"emergency_triggered"`
	Location           Location   `json:"location"`
}

// SessionStatus is a session together with its live countdown state.
type SessionStatus struct {
	Session
	RemainingSeconds int    `json:"remaining_seconds"`
	CountdownState   string `json:"countdown_state,omitempty"`
}

// Contact represents an emergency contact.
type Contact struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email,omitempty"`
	Relationship string    `json:"relationship,omitempty"`
	Priority     int       `json:"priority"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Recording represents a stored SOS recording. AudioData is populated
// only when fetching a single recording.
type Recording struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Timestamp       time.Time `json:"timestamp"`
	Location        string    `json:"location,omitempty"`
	FileName        string    `json:"file_name"`
	DurationSeconds float64   `json:"duration_seconds"`
	Sent            bool      `json:"sent"`
	AudioData       string    `json:"audio_data,omitempty"`
}

// Incident is one entry in the merged incident history feed.
type Incident struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	Status        string    `json:"status"`
	Severity      string    `json:"severity"`
	Timestamp     time.Time `json:"timestamp"`
	Location      string    `json:"location"`
	Description   string    `json:"description"`
	RecordingFile string    `json:"recording_file,omitempty"`
}

// IncidentStats are aggregate counts over the incident feed.
type IncidentStats struct {
	Total            int `json:"total"`
	Resolved         int `json:"resolved"`
	Active           int `json:"active"`
	Investigating    int `json:"investigating"`
	WeaponDetections int `json:"weapon_detections"`
	SOSCalls         int `json:"sos_calls"`
}
