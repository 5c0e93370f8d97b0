// Package incident aggregates safety incidents from the detection backend
// and local storage into one history feed.
package incident

import (
	"context"
	"sort"

	"safyra/internal/domain/incident"
	"safyra/internal/domain/sos"
	"safyra/internal/shared/biztime"
	"safyra/internal/shared/logger"
)

// WeaponAlertSource serves weapon alerts from the detection backend.
// Satisfied by the detection client.
type WeaponAlertSource interface {
	GetRecentWeaponAlerts(ctx context.Context) ([]incident.WeaponAlert, error)
	GetWeaponAlerts(ctx context.Context, date string) ([]incident.WeaponAlert, error)
}

// SOSCallSource serves distress-call records relayed by the backend.
type SOSCallSource interface {
	GetSOSCalls(ctx context.Context) ([]incident.SOSCall, error)
}

// Service builds the unified incident history. Each remote source fails
// independently; local SOS recordings are always included.
type Service struct {
	alerts  WeaponAlertSource
	calls   SOSCallSource
	sosRepo sos.Repository
	logger  logger.Interface
}

func NewService(alerts WeaponAlertSource, calls SOSCallSource, sosRepo sos.Repository, log logger.Interface) *Service {
	return &Service{
		alerts:  alerts,
		calls:   calls,
		sosRepo: sosRepo,
		logger:  log,
	}
}

// FetchAll gathers incidents from every source, newest first. A failing
// remote source degrades to an empty contribution; at minimum the local
// SOS recordings are returned.
func (s *Service) FetchAll(ctx context.Context, userID string) ([]incident.Incident, error) {
	incidents := s.localSOSIncidents(ctx, userID)

	if s.alerts != nil {
		if alerts, err := s.alerts.GetRecentWeaponAlerts(ctx); err != nil {
			s.logger.Warnw("weapon alert source unavailable", "error", err)
		} else {
			for _, a := range alerts {
				incidents = append(incidents, incident.FromWeaponAlert(a))
			}
		}

		today := biztime.CompactDate(biztime.NowUTC())
		if alerts, err := s.alerts.GetWeaponAlerts(ctx, today); err != nil {
			s.logger.Warnw("device alert source unavailable", "date", today, "error", err)
		} else {
			for _, a := range alerts {
				incidents = append(incidents, incident.FromDeviceAlert(a))
			}
		}
	}

	if s.calls != nil {
		if calls, err := s.calls.GetSOSCalls(ctx); err != nil {
			s.logger.Warnw("SOS call source unavailable", "error", err)
		} else {
			for _, c := range calls {
				incidents = append(incidents, incident.FromSOSCall(c))
			}
		}
	}

	// Stable sort keeps same-timestamp incidents in source order.
	sort.SliceStable(incidents, func(i, j int) bool {
		return incidents[i].Timestamp.After(incidents[j].Timestamp)
	})
	return incidents, nil
}

// Stats returns aggregate counts over the full history.
func (s *Service) Stats(ctx context.Context, userID string) (incident.Stats, error) {
	incidents, err := s.FetchAll(ctx, userID)
	if err != nil {
		return incident.Stats{}, err
	}
	return incident.ComputeStats(incidents), nil
}

// localSOSIncidents reads locally stored recordings. A storage failure
// logs and contributes nothing rather than failing the whole fetch.
func (s *Service) localSOSIncidents(ctx context.Context, userID string) []incident.Incident {
	incidents := make([]incident.Incident, 0)

	recordings, err := s.sosRepo.ListByUserID(ctx, userID)
	if err != nil {
		s.logger.Warnw("failed to list local SOS recordings", "user_id", userID, "error", err)
		return incidents
	}

	for _, r := range recordings {
		incidents = append(incidents, incident.FromLocalSOS(
			r.ID(),
			r.Timestamp(),
			r.Location(),
			r.FileName(),
			r.Sent(),
		))
	}
	return incidents
}
