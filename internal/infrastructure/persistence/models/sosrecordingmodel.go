package models

import "time"

// SOSRecordingModel represents the database persistence model for SOS audio recordings.
// AudioData holds the base64-encoded audio payload captured on the client.
type SOSRecordingModel struct {
	ID        string    `gorm:"primarykey;size:64"`
	UserID    string    `gorm:"not null;index;size:64"`
	Timestamp time.Time `gorm:"not null;index"`
	Location  string    `gorm:"size:255"`
	AudioData string    `gorm:"type:text"`
	FileName  string    `gorm:"size:255"`
	Duration  float64   `gorm:"not null;default:0"`
	Sent      bool      `gorm:"not null;default:false"`
	CreatedAt time.Time
}

// TableName specifies the table name for GORM
func (SOSRecordingModel) TableName() string {
	return "sos_recordings"
}
