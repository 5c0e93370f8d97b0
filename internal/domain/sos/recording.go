// Package sos models locally stored SOS voice recordings. Local recordings
// are higher-trust than remote feeds and must always appear in incident
// history even when every remote source fails.
package sos

import (
	"fmt"
	"sync"
	"time"

	"safyra/internal/shared/id"
)

// Recording is an SOS voice recording captured on-device. AudioData holds
// the base64-encoded payload; FileName is the logical name shown to the
// user and matched against incident records.
type Recording struct {
	id        string
	userID    string
	timestamp time.Time
	location  string
	audioData string
	fileName  string
	duration  float64
	sent      bool
	mu        sync.RWMutex
}

func NewRecording(userID, location, audioData string, duration float64) (*Recording, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if audioData == "" {
		return nil, fmt.Errorf("audio data is required")
	}
	if duration < 0 {
		return nil, fmt.Errorf("duration cannot be negative")
	}

	rid, err := id.NewSOSRecordingID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate recording ID: %w", err)
	}

	now := time.Now().UTC()
	return &Recording{
		id:        rid,
		userID:    userID,
		timestamp: now,
		location:  location,
		audioData: audioData,
		fileName:  fmt.Sprintf("SOS_%s.wav", now.Format("20060102_150405")),
		duration:  duration,
	}, nil
}

func ReconstructRecording(recordingID, userID string, timestamp time.Time, location, audioData, fileName string, duration float64, sent bool) (*Recording, error) {
	if recordingID == "" {
		return nil, fmt.Errorf("recording ID cannot be empty")
	}
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	return &Recording{
		id:        recordingID,
		userID:    userID,
		timestamp: timestamp,
		location:  location,
		audioData: audioData,
		fileName:  fileName,
		duration:  duration,
		sent:      sent,
	}, nil
}

// MarkSent flags the recording as delivered to the user's contacts.
// Sent is monotonic; a delivered recording never reverts to pending.
func (r *Recording) MarkSent() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = true
}

func (r *Recording) ID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.id
}

func (r *Recording) UserID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.userID
}

func (r *Recording) Timestamp() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.timestamp
}

func (r *Recording) Location() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.location
}

func (r *Recording) AudioData() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.audioData
}

func (r *Recording) FileName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fileName
}

func (r *Recording) Duration() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.duration
}

func (r *Recording) Sent() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sent
}
