package incident

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safyra/internal/domain/incident"
	"safyra/internal/domain/sos"
	"safyra/internal/infrastructure/repository"
	"safyra/internal/shared/errors"
	"safyra/internal/shared/logger"
)

type stubAlertSource struct {
	recent    []incident.WeaponAlert
	device    []incident.WeaponAlert
	recentErr error
	deviceErr error
}

func (s *stubAlertSource) GetRecentWeaponAlerts(ctx context.Context) ([]incident.WeaponAlert, error) {
	return s.recent, s.recentErr
}

func (s *stubAlertSource) GetWeaponAlerts(ctx context.Context, date string) ([]incident.WeaponAlert, error) {
	return s.device, s.deviceErr
}

type stubCallSource struct {
	calls []incident.SOSCall
	err   error
}

func (s *stubCallSource) GetSOSCalls(ctx context.Context) ([]incident.SOSCall, error) {
	return s.calls, s.err
}

func alertAt(ts time.Time, confidence float64) incident.WeaponAlert {
	return incident.WeaponAlert{
		Timestamp: ts,
		AlertType: "WEAPON_DETECTED",
		Detections: []incident.Detection{
			{Class: "knife", Confidence: confidence},
		},
		DetectionCount:   1,
		RecordingStarted: true,
	}
}

func saveRecording(t *testing.T, repo sos.Repository, userID string) *sos.Recording {
	t.Helper()
	recording, err := sos.NewRecording(userID, "Market St", "aGVsbG8=", 4.2)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), recording))
	return recording
}

func TestService_FetchAll_MergesSortedDescending(t *testing.T) {
	now := time.Now().UTC()
	sosRepo := repository.NewMemorySOSRepository()
	recording := saveRecording(t, sosRepo, "user-1")

	alerts := &stubAlertSource{
		recent: []incident.WeaponAlert{alertAt(now.Add(-time.Hour), 0.9)},
		device: []incident.WeaponAlert{alertAt(now.Add(-2*time.Hour), 0.5)},
	}
	calls := &stubCallSource{
		calls: []incident.SOSCall{{Timestamp: now.Add(-30 * time.Minute), Location: "Puducherry, IN", File: "SOS_1.mp3"}},
	}

	svc := NewService(alerts, calls, sosRepo, logger.NewLogger())

	incidents, err := svc.FetchAll(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, incidents, 4)

	for i := 1; i < len(incidents); i++ {
		assert.False(t, incidents[i].Timestamp.After(incidents[i-1].Timestamp),
			"incidents must be in descending timestamp order")
	}

	assert.Equal(t, recording.ID(), incidents[0].ID, "local recording is the newest entry")
	assert.Equal(t, incident.TypeSOSCall, incidents[1].Type)
	assert.Equal(t, incident.SeverityCritical, incidents[2].Severity, "0.9 confidence is critical")
	assert.Equal(t, incident.SeverityMedium, incidents[3].Severity, "0.5 confidence is medium")
}

func TestService_FetchAll_RemoteFailuresKeepLocal(t *testing.T) {
	sosRepo := repository.NewMemorySOSRepository()
	recording := saveRecording(t, sosRepo, "user-1")

	alerts := &stubAlertSource{
		recentErr: errors.NewUnavailableError("backend down"),
		deviceErr: errors.NewUnavailableError("backend down"),
	}
	calls := &stubCallSource{err: errors.NewUnavailableError("backend down")}

	svc := NewService(alerts, calls, sosRepo, logger.NewLogger())

	incidents, err := svc.FetchAll(context.Background(), "user-1")
	require.NoError(t, err, "remote failures must not fail the fetch")
	require.Len(t, incidents, 1)
	assert.Equal(t, recording.ID(), incidents[0].ID)
	assert.Equal(t, incident.StatusActive, incidents[0].Status, "unsent recording is active")
}

func TestService_FetchAll_PartialSourceFailure(t *testing.T) {
	now := time.Now().UTC()
	sosRepo := repository.NewMemorySOSRepository()

	alerts := &stubAlertSource{
		recent:    []incident.WeaponAlert{alertAt(now, 0.7)},
		deviceErr: errors.NewUnavailableError("backend down"),
	}
	calls := &stubCallSource{err: errors.NewUnavailableError("backend down")}

	svc := NewService(alerts, calls, sosRepo, logger.NewLogger())

	incidents, err := svc.FetchAll(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, incidents, 1)
	assert.Equal(t, incident.SeverityHigh, incidents[0].Severity)
}

func TestService_FetchAll_NilSources(t *testing.T) {
	sosRepo := repository.NewMemorySOSRepository()
	saveRecording(t, sosRepo, "user-1")

	svc := NewService(nil, nil, sosRepo, logger.NewLogger())

	incidents, err := svc.FetchAll(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, incidents, 1)
}

func TestService_Stats(t *testing.T) {
	now := time.Now().UTC()
	sosRepo := repository.NewMemorySOSRepository()
	saveRecording(t, sosRepo, "user-1")

	alerts := &stubAlertSource{
		recent: []incident.WeaponAlert{alertAt(now, 0.9), alertAt(now.Add(-time.Minute), 0.3)},
	}

	svc := NewService(alerts, &stubCallSource{}, sosRepo, logger.NewLogger())

	stats, err := svc.Stats(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.WeaponDetections)
	assert.Equal(t, 1, stats.SOSCalls)
	assert.Equal(t, 2, stats.Resolved)
	assert.Equal(t, 1, stats.Active)
}
