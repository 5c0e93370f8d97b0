package mappers

import (
	"fmt"

	"safyra/internal/domain/checkin"
	"safyra/internal/infrastructure/persistence/models"
)

// PanicSessionMapper handles the conversion between Session domain entities and persistence models.
type PanicSessionMapper interface {
	// ToEntity converts a persistence model to a domain entity.
	ToEntity(model *models.PanicSessionModel) (*checkin.Session, error)

	// ToModel converts a domain entity to a persistence model.
	ToModel(entity *checkin.Session) *models.PanicSessionModel

	// ToEntities converts multiple persistence models to domain entities.
	ToEntities(models []*models.PanicSessionModel) ([]*checkin.Session, error)
}

// PanicSessionMapperImpl is the concrete implementation of PanicSessionMapper.
type PanicSessionMapperImpl struct{}

// NewPanicSessionMapper creates a new panic session mapper.
func NewPanicSessionMapper() PanicSessionMapper {
	return &PanicSessionMapperImpl{}
}

// ToEntity converts a persistence model to a domain entity.
func (m *PanicSessionMapperImpl) ToEntity(model *models.PanicSessionModel) (*checkin.Session, error) {
	if model == nil {
		return nil, nil
	}

	location := checkin.Location{
		Latitude:  model.Latitude,
		Longitude: model.Longitude,
		Address:   model.Address,
	}

	entity, err := checkin.ReconstructSession(
		model.ID,
		model.UserID,
		model.StartTime,
		model.EndTime,
		model.IsActive,
		model.TapInterval,
		model.LastTapTime,
		model.MissedTaps,
		model.TotalTaps,
		model.ConsecutiveMissed,
		model.EmergencyTriggered,
		location,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct session %s: %w", model.ID, err)
	}
	return entity, nil
}

// ToModel converts a domain entity to a persistence model.
func (m *PanicSessionMapperImpl) ToModel(entity *checkin.Session) *models.PanicSessionModel {
	if entity == nil {
		return nil
	}

	location := entity.Location()
	return &models.PanicSessionModel{
		ID:                 entity.ID(),
		UserID:             entity.UserID(),
		StartTime:          entity.StartTime(),
		EndTime:            entity.EndTime(),
		IsActive:           entity.IsActive(),
		TapInterval:        entity.TapInterval(),
		LastTapTime:        entity.LastTapTime(),
		MissedTaps:         entity.MissedTaps(),
		TotalTaps:          entity.TotalTaps(),
		ConsecutiveMissed:  entity.ConsecutiveMissed(),
		EmergencyTriggered: entity.EmergencyTriggered(),
		Latitude:           location.Latitude,
		Longitude:          location.Longitude,
		Address:            location.Address,
	}
}

// ToEntities converts multiple persistence models to domain entities.
func (m *PanicSessionMapperImpl) ToEntities(sessionModels []*models.PanicSessionModel) ([]*checkin.Session, error) {
	entities := make([]*checkin.Session, 0, len(sessionModels))
	for _, model := range sessionModels {
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
