package checkin

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// NewSession
// =============================================================================

// TestNewSession_Defaults verifies a fresh session starts active with the
// implicit first tap counted.
func TestNewSession_Defaults(t *testing.T) {
	s, err := NewSession("usr_1", 0, SentinelLocation())

	require.NoError(t, err)
	require.NotNil(t, s)
	assert.True(t, strings.HasPrefix(s.ID(), "ps_"))
	assert.Equal(t, "usr_1", s.UserID())
	assert.True(t, s.IsActive())
	assert.Equal(t, DefaultTapInterval, s.TapInterval())
	assert.Equal(t, 1, s.TotalTaps(), "starting the session counts as the first tap")
	assert.Equal(t, 0, s.MissedTaps())
	assert.Equal(t, 0, s.ConsecutiveMissed())
	assert.False(t, s.EmergencyTriggered())
	assert.Nil(t, s.EndTime())
	assert.WithinDuration(t, time.Now().UTC(), s.StartTime(), 2*time.Second)
	assert.WithinDuration(t, time.Now().UTC(), s.LastTapTime(), 2*time.Second)
}

func TestNewSession_CustomInterval(t *testing.T) {
	s, err := NewSession("usr_1", 30, SentinelLocation())

	require.NoError(t, err)
	assert.Equal(t, 30, s.TapInterval())
}

func TestNewSession_EmptyUserID(t *testing.T) {
	s, err := NewSession("", 60, SentinelLocation())

	require.Error(t, err)
	assert.Nil(t, s)
}

func TestNewSession_NegativeInterval(t *testing.T) {
	s, err := NewSession("usr_1", -5, SentinelLocation())

	require.Error(t, err)
	assert.Nil(t, s)
}

// =============================================================================
// RegisterTap / RecordMissedTap
// =============================================================================

// TestRegisterTap_ResetsStreakKeepsHistory verifies that a confirming tap
// zeroes the consecutive-missed streak but preserves the historical
// missed-tap count for the post-session summary.
func TestRegisterTap_ResetsStreakKeepsHistory(t *testing.T) {
	s := mustNewSession(t)

	require.NoError(t, s.RecordMissedTap())
	require.NoError(t, s.RecordMissedTap())
	require.NoError(t, s.RegisterTap())

	assert.Equal(t, 2, s.TotalTaps())
	assert.Equal(t, 2, s.MissedTaps(), "historical count must survive the tap")
	assert.Equal(t, 0, s.ConsecutiveMissed())
}

func TestRegisterTap_OnEndedSession(t *testing.T) {
	s := mustNewSession(t)
	require.NoError(t, s.End())

	err := s.RegisterTap()

	require.Error(t, err)
	assert.Equal(t, 1, s.TotalTaps())
}

// TestRecordMissedTap_TriggersEmergency verifies the first missed tap flips
// emergencyTriggered and further taps never flip it back.
func TestRecordMissedTap_TriggersEmergency(t *testing.T) {
	s := mustNewSession(t)

	require.NoError(t, s.RecordMissedTap())
	assert.True(t, s.EmergencyTriggered())
	assert.Equal(t, 1, s.MissedTaps())
	assert.Equal(t, 1, s.ConsecutiveMissed())

	require.NoError(t, s.RegisterTap())
	assert.True(t, s.EmergencyTriggered(), "emergencyTriggered is monotonic within a session")
}

func TestRecordMissedTap_OnEndedSession(t *testing.T) {
	s := mustNewSession(t)
	require.NoError(t, s.End())

	err := s.RecordMissedTap()

	require.Error(t, err)
	assert.Equal(t, 0, s.MissedTaps())
}

// TestCounters_NonDecreasing drives a random-ish sequence of transitions and
// checks the spec's counter monotonicity property.
func TestCounters_NonDecreasing(t *testing.T) {
	s := mustNewSession(t)

	prevMissed, prevTotal := s.MissedTaps(), s.TotalTaps()
	steps := []func() error{
		s.RecordMissedTap, s.RegisterTap, s.RegisterTap,
		s.RecordMissedTap, s.RecordMissedTap, s.RegisterTap,
	}
	for i, step := range steps {
		require.NoError(t, step(), "step %d", i)
		assert.GreaterOrEqual(t, s.MissedTaps(), prevMissed)
		assert.GreaterOrEqual(t, s.TotalTaps(), prevTotal)
		prevMissed, prevTotal = s.MissedTaps(), s.TotalTaps()
	}
}

// =============================================================================
// End / Remaining
// =============================================================================

func TestEnd_SetsEndTimeOnce(t *testing.T) {
	s := mustNewSession(t)

	require.NoError(t, s.End())
	first := s.EndTime()
	require.NotNil(t, first)
	assert.False(t, s.IsActive())

	err := s.End()
	require.Error(t, err)
	assert.Equal(t, first, s.EndTime())
}

func TestEnd_PreservesCounters(t *testing.T) {
	s := mustNewSession(t)
	require.NoError(t, s.RecordMissedTap())
	require.NoError(t, s.RegisterTap())

	require.NoError(t, s.End())

	assert.Equal(t, 1, s.MissedTaps())
	assert.Equal(t, 2, s.TotalTaps())
	assert.True(t, s.EmergencyTriggered())
}

func TestRemaining_DerivedFromLastTap(t *testing.T) {
	s := mustNewSession(t)

	now := s.LastTapTime()
	assert.Equal(t, DefaultTapInterval, s.Remaining(now))
	assert.Equal(t, DefaultTapInterval-10, s.Remaining(now.Add(10*time.Second)))
	assert.Equal(t, 0, s.Remaining(now.Add(2*DefaultTapInterval*time.Second)), "remaining clamps at zero")
}

func TestRemaining_EndedSessionIsZero(t *testing.T) {
	s := mustNewSession(t)
	require.NoError(t, s.End())

	assert.Equal(t, 0, s.Remaining(time.Now()))
}

// =============================================================================
// ReconstructSession
// =============================================================================

func TestReconstructSession_RoundTrip(t *testing.T) {
	start := time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.UTC)
	lastTap := start.Add(42 * time.Second)

	s, err := ReconstructSession("ps_abc123", "usr_1", start, nil, true, 60, lastTap, 3, 7, 1, true, Location{
		Latitude: 11.9338, Longitude: 79.8298, Address: "Puducherry, IN",
	})

	require.NoError(t, err)
	assert.Equal(t, start, s.StartTime(), "sub-second precision must survive")
	assert.Equal(t, lastTap, s.LastTapTime())
	assert.Equal(t, 3, s.MissedTaps())
	assert.Equal(t, 7, s.TotalTaps())
	assert.Equal(t, 1, s.ConsecutiveMissed())
	assert.True(t, s.EmergencyTriggered())
	assert.False(t, s.Location().IsSentinel())
}

func TestReconstructSession_RejectsInvalid(t *testing.T) {
	start := time.Now().UTC()

	cases := []struct {
		name string
		fn   func() (*Session, error)
	}{
		{"empty id", func() (*Session, error) {
			return ReconstructSession("", "usr_1", start, nil, true, 60, start, 0, 1, 0, false, SentinelLocation())
		}},
		{"empty user", func() (*Session, error) {
			return ReconstructSession("ps_x", "", start, nil, true, 60, start, 0, 1, 0, false, SentinelLocation())
		}},
		{"zero interval", func() (*Session, error) {
			return ReconstructSession("ps_x", "usr_1", start, nil, true, 0, start, 0, 1, 0, false, SentinelLocation())
		}},
		{"negative counter", func() (*Session, error) {
			return ReconstructSession("ps_x", "usr_1", start, nil, true, 60, start, -1, 1, 0, false, SentinelLocation())
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := tc.fn()
			require.Error(t, err)
			assert.Nil(t, s)
		})
	}
}

func mustNewSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession("usr_1", DefaultTapInterval, SentinelLocation())
	require.NoError(t, err)
	return s
}
