package repository

import (
	"context"
	"sort"
	"sync"

	"safyra/internal/domain/contact"
	"safyra/internal/infrastructure/persistence/mappers"
	"safyra/internal/infrastructure/persistence/models"
	"safyra/internal/shared/errors"
)

// MemoryContactRepository is an in-memory contact.Repository backed by
// snapshot copies.
type MemoryContactRepository struct {
	mu       sync.RWMutex
	contacts map[string]models.ContactModel
	mapper   mappers.ContactMapper
}

func NewMemoryContactRepository() *MemoryContactRepository {
	return &MemoryContactRepository{
		contacts: make(map[string]models.ContactModel),
		mapper:   mappers.NewContactMapper(),
	}
}

var _ contact.Repository = (*MemoryContactRepository)(nil)

func (r *MemoryContactRepository) Save(ctx context.Context, c *contact.Contact) error {
	snapshot := r.mapper.ToModel(c)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.contacts[snapshot.ID] = *snapshot
	return nil
}

func (r *MemoryContactRepository) GetByID(ctx context.Context, contactID string) (*contact.Contact, error) {
	r.mu.RLock()
	snapshot, ok := r.contacts[contactID]
	r.mu.RUnlock()

	if !ok {
		return nil, errors.NewNotFoundError("contact not found")
	}
	return r.mapper.ToEntity(&snapshot)
}

func (r *MemoryContactRepository) ListByUserID(ctx context.Context, userID string) ([]*contact.Contact, error) {
	r.mu.RLock()
	snapshots := make([]*models.ContactModel, 0)
	for id := range r.contacts {
		snapshot := r.contacts[id]
		if snapshot.UserID == userID {
			snapshots = append(snapshots, &snapshot)
		}
	}
	r.mu.RUnlock()

	sort.Slice(snapshots, func(i, j int) bool {
		if snapshots[i].Priority != snapshots[j].Priority {
			return snapshots[i].Priority < snapshots[j].Priority
		}
		return snapshots[i].CreatedAt.Before(snapshots[j].CreatedAt)
	})
	return r.mapper.ToEntities(snapshots)
}

func (r *MemoryContactRepository) Remove(ctx context.Context, contactID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.contacts[contactID]; !ok {
		return errors.NewNotFoundError("contact not found")
	}
	delete(r.contacts, contactID)
	return nil
}
