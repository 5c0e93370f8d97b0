package checkin

import "context"

// SessionRepository persists check-in sessions keyed by session ID with a
// secondary lookup by (userID, active). Save is an upsert. Implementations
// must round-trip timestamps without losing sub-second precision.
type SessionRepository interface {
	Save(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, sessionID string) (*Session, error)
	FindActiveByUserID(ctx context.Context, userID string) (*Session, error)
	ListActive(ctx context.Context) ([]*Session, error)
	ListByUserID(ctx context.Context, userID string) ([]*Session, error)
	Remove(ctx context.Context, sessionID string) error
}
