// Package dto defines the wire shapes of the HTTP API.
package dto

import (
	"time"

	appcheckin "safyra/internal/application/checkin"
	"safyra/internal/domain/checkin"
)

// StartSessionRequest starts a panic-mode session.
type StartSessionRequest struct {
	TapIntervalSeconds int `json:"tap_interval_seconds" binding:"omitempty,gte=5,lte=3600"`
}

// LocationResponse is a resolved location.
type LocationResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

// SessionResponse is a panic session record.
type SessionResponse struct {
	ID                 string           `json:"id"`
	UserID             string           `json:"user_id"`
	StartTime          time.Time        `json:"start_time"`
	EndTime            *time.Time       `json:"end_time,omitempty"`
	IsActive           bool             `json:"is_active"`
	TapIntervalSeconds int              `json:"tap_interval_seconds"`
	LastTapTime        time.Time        `json:"last_tap_time"`
	MissedTaps         int              `json:"missed_taps"`
	TotalTaps          int              `json:"total_taps"`
	ConsecutiveMissed  int              `json:"consecutive_missed"`
	EmergencyTriggered bool             `json:"emergency_triggered"`
	Location           LocationResponse `json:"location"`
}

// SessionStatusResponse is an active session with live countdown state.
type SessionStatusResponse struct {
	SessionResponse
	RemainingSeconds int    `json:"remaining_seconds"`
	CountdownState   string `json:"countdown_state,omitempty"`
}

// FromSession converts a domain session to its response shape.
func FromSession(s *checkin.Session) SessionResponse {
	location := s.Location()
	return SessionResponse{
		ID:                 s.ID(),
		UserID:             s.UserID(),
		StartTime:          s.StartTime(),
		EndTime:            s.EndTime(),
		IsActive:           s.IsActive(),
		TapIntervalSeconds: s.TapInterval(),
		LastTapTime:        s.LastTapTime(),
		MissedTaps:         s.MissedTaps(),
		TotalTaps:          s.TotalTaps(),
		ConsecutiveMissed:  s.ConsecutiveMissed(),
		EmergencyTriggered: s.EmergencyTriggered(),
		Location: LocationResponse{
			Latitude:  location.Latitude,
			Longitude: location.Longitude,
			Address:   location.Address,
		},
	}
}

// FromStatus converts a live session status to its response shape.
func FromStatus(st *appcheckin.Status) SessionStatusResponse {
	return SessionStatusResponse{
		SessionResponse:  FromSession(st.Session),
		RemainingSeconds: st.Remaining,
		CountdownState:   string(st.State),
	}
}

// FromSessions converts a session list.
func FromSessions(sessions []*checkin.Session) []SessionResponse {
	out := make([]SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, FromSession(s))
	}
	return out
}
