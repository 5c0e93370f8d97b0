package sos

import "context"

// Repository persists SOS voice recordings.
type Repository interface {
	Save(ctx context.Context, recording *Recording) error
	GetByID(ctx context.Context, recordingID string) (*Recording, error)
	ListByUserID(ctx context.Context, userID string) ([]*Recording, error)
	Remove(ctx context.Context, recordingID string) error
}
