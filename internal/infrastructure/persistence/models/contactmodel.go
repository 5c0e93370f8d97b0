package models

import "time"

// ContactModel represents the database persistence model for emergency contacts.
type ContactModel struct {
	ID           string `gorm:"primarykey;size:64"`
	UserID       string `gorm:"not null;index;size:64"`
	Name         string `gorm:"not null;size:255"`
	Phone        string `gorm:"not null;size:32"`
	Email        string `gorm:"size:255"`
	Relationship string `gorm:"size:64"`
	Priority     int    `gorm:"not null;default:1"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the table name for GORM
func (ContactModel) TableName() string {
	return "emergency_contacts"
}
