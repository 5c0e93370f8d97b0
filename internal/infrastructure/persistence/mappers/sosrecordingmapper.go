package mappers

import (
	"fmt"

	"safyra/internal/domain/sos"
	"safyra/internal/infrastructure/persistence/models"
)

// SOSRecordingMapper handles the conversion between Recording domain entities and persistence models.
type SOSRecordingMapper interface {
	ToEntity(model *models.SOSRecordingModel) (*sos.Recording, error)
	ToModel(entity *sos.Recording) *models.SOSRecordingModel
	ToEntities(models []*models.SOSRecordingModel) ([]*sos.Recording, error)
}

// SOSRecordingMapperImpl is the concrete implementation of SOSRecordingMapper.
type SOSRecordingMapperImpl struct{}

// NewSOSRecordingMapper creates a new SOS recording mapper.
func NewSOSRecordingMapper() SOSRecordingMapper {
	return &SOSRecordingMapperImpl{}
}

// ToEntity converts a persistence model to a domain entity.
func (m *SOSRecordingMapperImpl) ToEntity(model *models.SOSRecordingModel) (*sos.Recording, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := sos.ReconstructRecording(
		model.ID,
		model.UserID,
		model.Timestamp,
		model.Location,
		model.AudioData,
		model.FileName,
		model.Duration,
		model.Sent,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct SOS recording %s: %w", model.ID, err)
	}
	return entity, nil
}

// ToModel converts a domain entity to a persistence model.
func (m *SOSRecordingMapperImpl) ToModel(entity *sos.Recording) *models.SOSRecordingModel {
	if entity == nil {
		return nil
	}
	return &models.SOSRecordingModel{
		ID:        entity.ID(),
		UserID:    entity.UserID(),
		Timestamp: entity.Timestamp(),
		Location:  entity.Location(),
		AudioData: entity.AudioData(),
		FileName:  entity.FileName(),
		Duration:  entity.Duration(),
		Sent:      entity.Sent(),
	}
}

// ToEntities converts multiple persistence models to domain entities.
func (m *SOSRecordingMapperImpl) ToEntities(recordingModels []*models.SOSRecordingModel) ([]*sos.Recording, error) {
	entities := make([]*sos.Recording, 0, len(recordingModels))
	for _, model := range recordingModels {
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
