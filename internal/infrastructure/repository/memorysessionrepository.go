package repository

import (
	"context"
	"sort"
	"sync"

	"safyra/internal/domain/checkin"
	"safyra/internal/infrastructure/persistence/mappers"
	"safyra/internal/infrastructure/persistence/models"
	"safyra/internal/shared/errors"
)

// MemorySessionRepository is an in-memory checkin.SessionRepository. It
// stores snapshots, not live entity pointers, so callers mutating a saved
// session cannot change the stored state without another Save.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]models.PanicSessionModel
	mapper   mappers.PanicSessionMapper
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]models.PanicSessionModel),
		mapper:   mappers.NewPanicSessionMapper(),
	}
}

var _ checkin.SessionRepository = (*MemorySessionRepository)(nil)

func (r *MemorySessionRepository) Save(ctx context.Context, session *checkin.Session) error {
	snapshot := r.mapper.ToModel(session)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[snapshot.ID] = *snapshot
	return nil
}

func (r *MemorySessionRepository) GetByID(ctx context.Context, sessionID string) (*checkin.Session, error) {
	r.mu.RLock()
	snapshot, ok := r.sessions[sessionID]
	r.mu.RUnlock()

	if !ok {
		return nil, errors.NewNotFoundError("session not found")
	}
	return r.mapper.ToEntity(&snapshot)
}

func (r *MemorySessionRepository) FindActiveByUserID(ctx context.Context, userID string) (*checkin.Session, error) {
	r.mu.RLock()
	var found *models.PanicSessionModel
	for id := range r.sessions {
		snapshot := r.sessions[id]
		if snapshot.UserID != userID || !snapshot.IsActive {
			continue
		}
		if found == nil || snapshot.StartTime.After(found.StartTime) {
			found = &snapshot
		}
	}
	r.mu.RUnlock()

	if found == nil {
		return nil, errors.NewNotFoundError("no active session for user")
	}
	return r.mapper.ToEntity(found)
}

func (r *MemorySessionRepository) ListActive(ctx context.Context) ([]*checkin.Session, error) {
	r.mu.RLock()
	snapshots := make([]*models.PanicSessionModel, 0)
	for id := range r.sessions {
		snapshot := r.sessions[id]
		if snapshot.IsActive {
			snapshots = append(snapshots, &snapshot)
		}
	}
	r.mu.RUnlock()

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].StartTime.After(snapshots[j].StartTime)
	})
	return r.mapper.ToEntities(snapshots)
}

func (r *MemorySessionRepository) ListByUserID(ctx context.Context, userID string) ([]*checkin.Session, error) {
	r.mu.RLock()
	snapshots := make([]*models.PanicSessionModel, 0)
	for id := range r.sessions {
		snapshot := r.sessions[id]
		if snapshot.UserID == userID {
			snapshots = append(snapshots, &snapshot)
		}
	}
	r.mu.RUnlock()

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].StartTime.After(snapshots[j].StartTime)
	})
	return r.mapper.ToEntities(snapshots)
}

func (r *MemorySessionRepository) Remove(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[sessionID]; !ok {
		return errors.NewNotFoundError("session not found")
	}
	delete(r.sessions, sessionID)
	return nil
}
