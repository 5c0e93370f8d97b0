package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"safyra/internal/domain/sos"
	"safyra/internal/infrastructure/persistence/mappers"
	"safyra/internal/infrastructure/persistence/models"
	"safyra/internal/shared/errors"
)

type SOSRecordingRepository struct {
	db     *gorm.DB
	mapper mappers.SOSRecordingMapper
}

func NewSOSRecordingRepository(db *gorm.DB) sos.Repository {
	return &SOSRecordingRepository{
		db:     db,
		mapper: mappers.NewSOSRecordingMapper(),
	}
}

// Save upserts the recording by primary key.
func (r *SOSRecordingRepository) Save(ctx context.Context, recording *sos.Recording) error {
	model := r.mapper.ToModel(recording)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to save SOS recording: %w", err)
	}
	return nil
}

func (r *SOSRecordingRepository) GetByID(ctx context.Context, recordingID string) (*sos.Recording, error) {
	var model models.SOSRecordingModel
	err := r.db.WithContext(ctx).Where("id = ?", recordingID).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("SOS recording not found")
		}
		return nil, fmt.Errorf("failed to get SOS recording by ID: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *SOSRecordingRepository) ListByUserID(ctx context.Context, userID string) ([]*sos.Recording, error) {
	var recordingModels []*models.SOSRecordingModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Find(&recordingModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list SOS recordings by user ID: %w", err)
	}
	return r.mapper.ToEntities(recordingModels)
}

func (r *SOSRecordingRepository) Remove(ctx context.Context, recordingID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", recordingID).
		Delete(&models.SOSRecordingModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove SOS recording: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("SOS recording not found")
	}
	return nil
}
