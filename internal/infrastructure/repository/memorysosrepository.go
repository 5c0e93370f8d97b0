package repository

import (
	"context"
	"sort"
	"sync"

	"safyra/internal/domain/sos"
	"safyra/internal/infrastructure/persistence/mappers"
	"safyra/internal/infrastructure/persistence/models"
	"safyra/internal/shared/errors"
)

// MemorySOSRepository is an in-memory sos.Repository backed by snapshot
// copies.
type MemorySOSRepository struct {
	mu         sync.RWMutex
	recordings map[string]models.SOSRecordingModel
	mapper     mappers.SOSRecordingMapper
}

func NewMemorySOSRepository() *MemorySOSRepository {
	return &MemorySOSRepository{
		recordings: make(map[string]models.SOSRecordingModel),
		mapper:     mappers.NewSOSRecordingMapper(),
	}
}

var _ sos.Repository = (*MemorySOSRepository)(nil)

func (r *MemorySOSRepository) Save(ctx context.Context, recording *sos.Recording) error {
	snapshot := r.mapper.ToModel(recording)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.recordings[snapshot.ID] = *snapshot
	return nil
}

func (r *MemorySOSRepository) GetByID(ctx context.Context, recordingID string) (*sos.Recording, error) {
	r.mu.RLock()
	snapshot, ok := r.recordings[recordingID]
	r.mu.RUnlock()

	if !ok {
		return nil, errors.NewNotFoundError("SOS recording not found")
	}
	return r.mapper.ToEntity(&snapshot)
}

func (r *MemorySOSRepository) ListByUserID(ctx context.Context, userID string) ([]*sos.Recording, error) {
	r.mu.RLock()
	snapshots := make([]*models.SOSRecordingModel, 0)
	for id := range r.recordings {
		snapshot := r.recordings[id]
		if snapshot.UserID == userID {
			snapshots = append(snapshots, &snapshot)
		}
	}
	r.mu.RUnlock()

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Timestamp.After(snapshots[j].Timestamp)
	})
	return r.mapper.ToEntities(snapshots)
}

func (r *MemorySOSRepository) Remove(ctx context.Context, recordingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.recordings[recordingID]; !ok {
		return errors.NewNotFoundError("SOS recording not found")
	}
	delete(r.recordings, recordingID)
	return nil
}
