package mappers

import (
	"fmt"

	"safyra/internal/domain/contact"
	"safyra/internal/infrastructure/persistence/models"
)

// ContactMapper handles the conversion between Contact domain entities and persistence models.
type ContactMapper interface {
	ToEntity(model *models.ContactModel) (*contact.Contact, error)
	ToModel(entity *contact.Contact) *models.ContactModel
	ToEntities(models []*models.ContactModel) ([]*contact.Contact, error)
}

// ContactMapperImpl is the concrete implementation of ContactMapper.
type ContactMapperImpl struct{}

// NewContactMapper creates a new contact mapper.
func NewContactMapper() ContactMapper {
	return &ContactMapperImpl{}
}

// ToEntity converts a persistence model to a domain entity.
func (m *ContactMapperImpl) ToEntity(model *models.ContactModel) (*contact.Contact, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := contact.ReconstructContact(
		model.ID,
		model.UserID,
		model.Name,
		model.Phone,
		model.Email,
		model.Relationship,
		model.Priority,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct contact %s: %w", model.ID, err)
	}
	return entity, nil
}

// ToModel converts a domain entity to a persistence model.
func (m *ContactMapperImpl) ToModel(entity *contact.Contact) *models.ContactModel {
	if entity == nil {
		return nil
	}
	return &models.ContactModel{
		ID:           entity.ID(),
		UserID:       entity.UserID(),
		Name:         entity.Name(),
		Phone:        entity.Phone(),
		Email:        entity.Email(),
		Relationship: entity.Relationship(),
		Priority:     entity.Priority(),
		CreatedAt:    entity.CreatedAt(),
		UpdatedAt:    entity.UpdatedAt(),
	}
}

// ToEntities converts multiple persistence models to domain entities.
func (m *ContactMapperImpl) ToEntities(contactModels []*models.ContactModel) ([]*contact.Contact, error) {
	entities := make([]*contact.Contact, 0, len(contactModels))
	for _, model := range contactModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		if entity != nil {
			entities = append(entities, entity)
		}
	}
	return entities, nil
}
