package incident

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// SeverityFromConfidence
// =============================================================================

// TestSeverityFromConfidence covers the derivation table including the strict
// boundary values.
func TestSeverityFromConfidence(t *testing.T) {
	cases := []struct {
		confidence float64
		want       Severity
	}{
		{0.85, SeverityCritical},
		{0.65, SeverityHigh},
		{0.45, SeverityMedium},
		{0.2, SeverityLow},
		{0.8, SeverityHigh},   // strictly greater than 0.8 is critical
		{0.6, SeverityMedium}, // strictly greater than 0.6 is high
		{0.4, SeverityLow},    // strictly greater than 0.4 is medium
		{0.0, SeverityLow},
		{1.0, SeverityCritical},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, SeverityFromConfidence(tc.confidence), "confidence %v", tc.confidence)
	}
}

// =============================================================================
// Conversions
// =============================================================================

func TestFromWeaponAlert(t *testing.T) {
	ts := time.Date(2025, 9, 29, 1, 41, 33, 539362000, time.UTC)
	alert := WeaponAlert{
		Timestamp:       ts,
		AlertType:       "WEAPON_DETECTED",
		DurationSeconds: 5.49,
		Detections: []Detection{
			{Class: "knife", Confidence: 0.8064},
			{Class: "knife", Confidence: 0.31},
		},
		DetectionCount:    2,
		ThresholdSeconds:  5.0,
		RecordingFilename: "weapon_alert_20250929.mp4",
		RecordingStarted:  true,
	}

	inc := FromWeaponAlert(alert)

	assert.Equal(t, TypeWeaponDetected, inc.Type)
	assert.Equal(t, StatusResolved, inc.Status, "recording started means resolved")
	assert.Equal(t, SeverityCritical, inc.Severity, "max confidence across detections drives severity")
	assert.Equal(t, ts, inc.Timestamp)
	assert.Equal(t, "weapon_alert_20250929.mp4", inc.RecordingFile)
	assert.Contains(t, inc.Description, "Knife")
}

func TestFromWeaponAlert_NoRecording(t *testing.T) {
	inc := FromWeaponAlert(WeaponAlert{
		Timestamp:  time.Now().UTC(),
		Detections: []Detection{{Class: "gun", Confidence: 0.5}},
	})

	assert.Equal(t, StatusInvestigating, inc.Status)
	assert.Equal(t, SeverityMedium, inc.Severity)
	assert.Empty(t, inc.RecordingFile)
}

func TestFromDeviceAlert(t *testing.T) {
	inc := FromDeviceAlert(WeaponAlert{
		Timestamp:       time.Now().UTC(),
		DurationSeconds: 6.2,
		Detections:      []Detection{{Class: "knife", Confidence: 0.7}},
	})

	assert.Equal(t, StatusResolved, inc.Status, "device alerts are auto-resolved")
	assert.Equal(t, SeverityHigh, inc.Severity)
	assert.Empty(t, inc.RecordingFile)
	assert.Contains(t, inc.Description, "6.2s")
}

func TestFromSOSCall(t *testing.T) {
	ts := time.Date(2025, 9, 28, 2, 16, 31, 0, time.UTC)
	inc := FromSOSCall(SOSCall{
		Timestamp: ts,
		Latitude:  11.9338,
		Longitude: 79.8298,
		Location:  "Puducherry, IN",
		File:      `C:\recordings\SOS_20250928_021631.mp3`,
	})

	assert.Equal(t, TypeSOSCall, inc.Type)
	assert.Equal(t, SeverityCritical, inc.Severity, "SOS calls are always critical")
	assert.Equal(t, StatusResolved, inc.Status)
	assert.Equal(t, "Puducherry, IN", inc.Location)
	assert.Equal(t, "SOS_20250928_021631.mp3", inc.RecordingFile, "windows path components are stripped")
}

// =============================================================================
// ComputeStats
// =============================================================================

func TestComputeStats(t *testing.T) {
	incidents := []Incident{
		{Type: TypeWeaponDetected, Status: StatusResolved},
		{Type: TypeWeaponDetected, Status: StatusInvestigating},
		{Type: TypeSOSCall, Status: StatusActive},
		{Type: TypeSOSCall, Status: StatusResolved},
	}

	st := ComputeStats(incidents)

	assert.Equal(t, 4, st.Total)
	assert.Equal(t, 2, st.Resolved)
	assert.Equal(t, 1, st.Active)
	assert.Equal(t, 1, st.Investigating)
	assert.Equal(t, 2, st.WeaponDetections)
	assert.Equal(t, 2, st.SOSCalls)
}

func TestComputeStats_Empty(t *testing.T) {
	st := ComputeStats(nil)
	assert.Equal(t, Stats{}, st)
}
