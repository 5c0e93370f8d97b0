package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"safyra/internal/domain/checkin"
	"safyra/internal/infrastructure/persistence/mappers"
	"safyra/internal/infrastructure/persistence/models"
	"safyra/internal/shared/errors"
)

type PanicSessionRepository struct {
	db     *gorm.DB
	mapper mappers.PanicSessionMapper
}

func NewPanicSessionRepository(db *gorm.DB) checkin.SessionRepository {
	return &PanicSessionRepository{
		db:     db,
		mapper: mappers.NewPanicSessionMapper(),
	}
}

// Save upserts the session by primary key.
func (r *PanicSessionRepository) Save(ctx context.Context, session *checkin.Session) error {
	model := r.mapper.ToModel(session)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *PanicSessionRepository) GetByID(ctx context.Context, sessionID string) (*checkin.Session, error) {
	var model models.PanicSessionModel
	err := r.db.WithContext(ctx).Where("id = ?", sessionID).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("session not found")
		}
		return nil, fmt.Errorf("failed to get session by ID: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *PanicSessionRepository) FindActiveByUserID(ctx context.Context, userID string) (*checkin.Session, error) {
	var model models.PanicSessionModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("start_time DESC").
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("no active session for user")
		}
		return nil, fmt.Errorf("failed to find active session: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *PanicSessionRepository) ListActive(ctx context.Context) ([]*checkin.Session, error) {
	var sessionModels []*models.PanicSessionModel
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("start_time DESC").
		Find(&sessionModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active sessions: %w", err)
	}
	return r.mapper.ToEntities(sessionModels)
}

func (r *PanicSessionRepository) ListByUserID(ctx context.Context, userID string) ([]*checkin.Session, error) {
	var sessionModels []*models.PanicSessionModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_time DESC").
		Find(&sessionModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions by user ID: %w", err)
	}
	return r.mapper.ToEntities(sessionModels)
}

func (r *PanicSessionRepository) Remove(ctx context.Context, sessionID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", sessionID).
		Delete(&models.PanicSessionModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("session not found")
	}
	return nil
}
