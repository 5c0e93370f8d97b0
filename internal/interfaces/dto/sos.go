package dto

import (
	"time"

	"safyra/internal/domain/sos"
)

// SaveRecordingRequest stores an SOS audio recording.
type SaveRecordingRequest struct {
	Location        string  `json:"location" binding:"omitempty,max=200"`
	AudioData       string  `json:"audio_data" binding:"required"`
	DurationSeconds float64 `json:"duration_seconds" binding:"omitempty,gte=0"`
}

// RecordingResponse is a stored SOS recording. Audio payload is omitted
// from list responses and returned only on single fetches.
type RecordingResponse struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Timestamp       time.Time `json:"timestamp"`
	Location        string    `json:"location,omitempty"`
	FileName        string    `json:"file_name"`
	DurationSeconds float64   `json:"duration_seconds"`
	Sent            bool      `json:"sent"`
	AudioData       string    `json:"audio_data,omitempty"`
}

// FromRecording converts a recording without its audio payload.
func FromRecording(r *sos.Recording) RecordingResponse {
	return RecordingResponse{
		ID:              r.ID(),
		UserID:          r.UserID(),
		Timestamp:       r.Timestamp(),
		Location:        r.Location(),
		FileName:        r.FileName(),
		DurationSeconds: r.Duration(),
		Sent:            r.Sent(),
	}
}

// FromRecordingWithAudio converts a recording including its audio payload.
func FromRecordingWithAudio(r *sos.Recording) RecordingResponse {
	resp := FromRecording(r)
	resp.AudioData = r.AudioData()
	return resp
}

// FromRecordings converts a recording list without audio payloads.
func FromRecordings(recordings []*sos.Recording) []RecordingResponse {
	out := make([]RecordingResponse, 0, len(recordings))
	for _, r := range recordings {
		out = append(out, FromRecording(r))
	}
	return out
}
