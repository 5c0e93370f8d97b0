package models

import "time"

// PanicSessionModel represents the database persistence model for panic-mode check-in sessions.
type PanicSessionModel struct {
	ID                 string     `gorm:"primarykey;size:64"`
	UserID             string     `gorm:"not null;index;size:64"`
	StartTime          time.Time  `gorm:"not null;index"`
	EndTime            *time.Time `gorm:"index"`
	IsActive           bool       `gorm:"not null;index"`
	TapInterval        int        `gorm:"not null"`
	LastTapTime        time.Time  `gorm:"not null"`
	MissedTaps         int        `gorm:"not null;default:0"`
	TotalTaps          int        `gorm:"not null;default:0"`
	ConsecutiveMissed  int        `gorm:"not null;default:0"`
	EmergencyTriggered bool       `gorm:"not null;default:false"`
	Latitude           float64    `gorm:"not null;default:0"`
	Longitude          float64    `gorm:"not null;default:0"`
	Address            string     `gorm:"size:255"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName specifies the table name for GORM
func (PanicSessionModel) TableName() string {
	return "panic_sessions"
}
