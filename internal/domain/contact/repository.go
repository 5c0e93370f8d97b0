package contact

import "context"

// Repository persists emergency contacts.
type Repository interface {
	Save(ctx context.Context, contact *Contact) error
	GetByID(ctx context.Context, contactID string) (*Contact, error)
	ListByUserID(ctx context.Context, userID string) ([]*Contact, error)
	Remove(ctx context.Context, contactID string) error
}
