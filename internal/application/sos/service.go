// Package sos stores SOS voice recordings and feeds them into the
// incident history.
package sos

import (
	"context"

	"safyra/internal/domain/sos"
	"safyra/internal/infrastructure/pubsub"
	"safyra/internal/shared/errors"
	"safyra/internal/shared/logger"
)

// Service manages SOS voice recordings.
type Service struct {
	repo   sos.Repository
	bus    pubsub.HistoryBus
	logger logger.Interface
}

func NewService(repo sos.Repository, bus pubsub.HistoryBus, log logger.Interface) *Service {
	return &Service{
		repo:   repo,
		bus:    bus,
		logger: log,
	}
}

// Save stores a new recording and refreshes the incident history.
func (s *Service) Save(ctx context.Context, userID, location, audioData string, duration float64) (*sos.Recording, error) {
	recording, err := sos.NewRecording(userID, location, audioData, duration)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.repo.Save(ctx, recording); err != nil {
		s.logger.Errorw("failed to save SOS recording", "user_id", userID, "error", err)
		return nil, err
	}

	s.logger.Infow("SOS recording saved",
		"recording_id", recording.ID(),
		"user_id", userID,
		"file_name", recording.FileName(),
		"duration", duration,
	)
	s.bus.Publish()
	return recording, nil
}

// MarkSent flags a recording as delivered to the emergency hub.
func (s *Service) MarkSent(ctx context.Context, recordingID string) (*sos.Recording, error) {
	recording, err := s.repo.GetByID(ctx, recordingID)
	if err != nil {
		return nil, err
	}

	recording.MarkSent()

	if err := s.repo.Save(ctx, recording); err != nil {
		s.logger.Errorw("failed to mark SOS recording sent", "recording_id", recordingID, "error", err)
		return nil, err
	}

	s.logger.Infow("SOS recording marked sent", "recording_id", recordingID)
	s.bus.Publish()
	return recording, nil
}

// Get returns one recording with its audio payload.
func (s *Service) Get(ctx context.Context, recordingID string) (*sos.Recording, error) {
	return s.repo.GetByID(ctx, recordingID)
}

// List returns the user's recordings, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]*sos.Recording, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// Delete removes a recording and refreshes the incident history.
func (s *Service) Delete(ctx context.Context, recordingID string) error {
	if err := s.repo.Remove(ctx, recordingID); err != nil {
		return err
	}

	s.logger.Infow("SOS recording deleted", "recording_id", recordingID)
	s.bus.Publish()
	return nil
}
