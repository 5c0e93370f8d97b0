package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"safyra/internal/domain/contact"
	"safyra/internal/infrastructure/persistence/mappers"
	"safyra/internal/infrastructure/persistence/models"
	"safyra/internal/shared/errors"
)

type ContactRepository struct {
	db     *gorm.DB
	mapper mappers.ContactMapper
}

func NewContactRepository(db *gorm.DB) contact.Repository {
	return &ContactRepository{
		db:     db,
		mapper: mappers.NewContactMapper(),
	}
}

// Save upserts the contact by primary key.
func (r *ContactRepository) Save(ctx context.Context, c *contact.Contact) error {
	model := r.mapper.ToModel(c)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to save contact: %w", err)
	}
	return nil
}

func (r *ContactRepository) GetByID(ctx context.Context, contactID string) (*contact.Contact, error) {
	var model models.ContactModel
	err := r.db.WithContext(ctx).Where("id = ?", contactID).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("contact not found")
		}
		return nil, fmt.Errorf("failed to get contact by ID: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *ContactRepository) ListByUserID(ctx context.Context, userID string) ([]*contact.Contact, error) {
	var contactModels []*models.ContactModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("priority ASC, created_at ASC").
		Find(&contactModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts by user ID: %w", err)
	}
	return r.mapper.ToEntities(contactModels)
}

func (r *ContactRepository) Remove(ctx context.Context, contactID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", contactID).
		Delete(&models.ContactModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove contact: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("contact not found")
	}
	return nil
}
