package dto

import (
	"time"

	"safyra/internal/domain/contact"
)

// CreateContactRequest adds an emergency contact.
type CreateContactRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=100"`
	Phone        string `json:"phone" binding:"required"`
	Email        string `json:"email" binding:"omitempty,email"`
	Relationship string `json:"relationship" binding:"omitempty,max=50"`
	Priority     int    `json:"priority" binding:"omitempty,gte=1,lte=10"`
}

// UpdateContactRequest updates an emergency contact. Empty fields are kept.
type UpdateContactRequest struct {
	Name         string `json:"name" binding:"omitempty,min=1,max=100"`
	Phone        string `json:"phone" binding:"omitempty"`
	Email        string `json:"email" binding:"omitempty,email"`
	Relationship string `json:"relationship" binding:"omitempty,max=50"`
	Priority     int    `json:"priority" binding:"omitempty,gte=1,lte=10"`
}

// ContactResponse is an emergency contact record.
type ContactResponse struct {
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

// FromContact converts a domain contact to its response shape.
func FromContact(c *contact.Contact) ContactResponse {
	return ContactResponse{
		ID:           c.ID(),
		UserID:       c.UserID(),
		Name:         c.Name(),
		Phone:        c.Phone(),
		Email:        c.Email(),
		Relationship: c.Relationship(),
		Priority:     c.Priority(),
		CreatedAt:    c.CreatedAt(),
		UpdatedAt:    c.UpdatedAt(),
	}
}

// FromContacts converts a contact list.
func FromContacts(contacts []*contact.Contact) []ContactResponse {
	out := make([]ContactResponse, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, FromContact(c))
	}
	return out
}
