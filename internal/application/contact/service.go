// Package contact manages the user's emergency contact list.
package contact

import (
	"context"

	"safyra/internal/domain/contact"
	"safyra/internal/shared/errors"
	"safyra/internal/shared/logger"
	"safyra/internal/shared/utils"
)

// Service provides emergency contact CRUD.
type Service struct {
	repo   contact.Repository
	logger logger.Interface
}

func NewService(repo contact.Repository, log logger.Interface) *Service {
	return &Service{
		repo:   repo,
		logger: log,
	}
}

// Create adds a contact after validating the phone number.
func (s *Service) Create(ctx context.Context, userID, name, phone, email, relationship string, priority int) (*contact.Contact, error) {
	if err := utils.ValidatePhone(phone); err != nil {
		return nil, err
	}

	c, err := contact.NewContact(userID, name, phone, email, relationship, priority)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.repo.Save(ctx, c); err != nil {
		s.logger.Errorw("failed to save contact", "user_id", userID, "error", err)
		return nil, err
	}

	s.logger.Infow("emergency contact created",
		"contact_id", c.ID(),
		"user_id", userID,
		"priority", c.Priority(),
	)
	return c, nil
}

// Update modifies a contact. Empty string fields keep the current value.
func (s *Service) Update(ctx context.Context, contactID, name, phone, email, relationship string, priority int) (*contact.Contact, error) {
	if phone != "" {
		if err := utils.ValidatePhone(phone); err != nil {
			return nil, err
		}
	}

	c, err := s.repo.GetByID(ctx, contactID)
	if err != nil {
		return nil, err
	}

	if err := c.Update(name, phone, email, relationship, priority); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.repo.Save(ctx, c); err != nil {
		s.logger.Errorw("failed to update contact", "contact_id", contactID, "error", err)
		return nil, err
	}

	s.logger.Infow("emergency contact updated", "contact_id", contactID)
	return c, nil
}

// Get returns one contact by ID.
func (s *Service) Get(ctx context.Context, contactID string) (*contact.Contact, error) {
	return s.repo.GetByID(ctx, contactID)
}

// List returns the user's contacts in priority order.
func (s *Service) List(ctx context.Context, userID string) ([]*contact.Contact, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// Delete removes a contact.
func (s *Service) Delete(ctx context.Context, contactID string) error {
	if err := s.repo.Remove(ctx, contactID); err != nil {
		return err
	}
	s.logger.Infow("emergency contact deleted", "contact_id", contactID)
	return nil
}
