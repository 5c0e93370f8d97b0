// Package incident normalizes weapon-detection alerts and SOS voice calls
// into one record shape for history display.
package incident

import (
	"fmt"
	"strings"
	"time"
)

type Type string

const (
	TypeWeaponDetected Type = "weapon_detected"
	TypeSOSCall        Type = "sos_call"
)

type Status string

const (
	StatusResolved      Status = "resolved"
	StatusActive        Status = "active"
	StatusInvestigating Status = "investigating"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Incident is a normalized safety incident from any source.
type Incident struct {
	ID            string    `json:"id"`
	Type          Type      `json:"type"`
	Status        Status    `json:"status"`
	Severity      Severity  `json:"severity"`
	Timestamp     time.Time `json:"timestamp"`
	Location      string    `json:"location"`
	Description   string    `json:"description"`
	RecordingFile string    `json:"recording_file,omitempty"`
}

// Detection is one detection box reported by the weapon-detection model.
type Detection struct {
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
	BBox       BBox    `json:"bbox"`
}

// BBox is a detection bounding box in pixel coordinates.
type BBox struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// WeaponAlert is a raw alert record from the detection service.
type WeaponAlert struct {
	Timestamp         time.Time   `json:"timestamp"`
	AlertType         string      `json:"alert_type"`
	DurationSeconds   float64     `json:"duration_seconds"`
	Detections        []Detection `json:"detections"`
	DetectionCount    int         `json:"detection_count"`
	ThresholdSeconds  float64     `json:"threshold_seconds"`
	RecordingFilename string      `json:"recording_filename,omitempty"`
	RecordingStarted  bool        `json:"recording_started"`
}

// MaxConfidence returns the highest confidence among the alert's detections,
// or zero when there are none.
func (a *WeaponAlert) MaxConfidence() float64 {
	max := 0.0
	for _, d := range a.Detections {
		if d.Confidence > max {
			max = d.Confidence
		}
	}
	return max
}

// SeverityFromConfidence derives incident severity from the maximum
// detection confidence. Boundaries are strict: exactly 0.8 is high,
// not critical.
func SeverityFromConfidence(confidence float64) Severity {
	switch {
	case confidence > 0.8:
		return SeverityCritical
	case confidence > 0.6:
		return SeverityHigh
	case confidence > 0.4:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// FromWeaponAlert converts a remote weapon-detection alert into an incident.
// Alerts that started a recording are considered resolved; the rest remain
// under investigation.
func FromWeaponAlert(a WeaponAlert) Incident {
	maxConf := a.MaxConfidence()

	status := StatusInvestigating
	if a.RecordingStarted {
		status = StatusResolved
	}

	class := "unknown"
	if len(a.Detections) > 0 {
		class = a.Detections[0].Class
	}

	return Incident{
		ID:            fmt.Sprintf("weapon_%s", a.Timestamp.UTC().Format(time.RFC3339Nano)),
		Type:          TypeWeaponDetected,
		Status:        status,
		Severity:      SeverityFromConfidence(maxConf),
		Timestamp:     a.Timestamp,
		Location:      "Camera Monitor Location",
		Description:   fmt.Sprintf("%s detected with %.1f%% confidence", capitalize(class), maxConf*100),
		RecordingFile: a.RecordingFilename,
	}
}

// FromDeviceAlert converts a device-originated alert into an incident.
// Device alerts are auto-resolved and carry no directly addressable recording.
func FromDeviceAlert(a WeaponAlert) Incident {
	maxConf := a.MaxConfidence()

	class := "unknown"
	if len(a.Detections) > 0 {
		class = a.Detections[0].Class
	}

	return Incident{
		ID:          fmt.Sprintf("device_weapon_%s", a.Timestamp.UTC().Format(time.RFC3339Nano)),
		Type:        TypeWeaponDetected,
		Status:      StatusResolved,
		Severity:    SeverityFromConfidence(maxConf),
		Timestamp:   a.Timestamp,
		Location:    "Live Camera Feed",
		Description: fmt.Sprintf("Device detected %s with %.1f%% confidence for %.1fs", class, maxConf*100, a.DurationSeconds),
	}
}

// SOSCall is a raw distress-call record from the remote SOS feed.
type SOSCall struct {
	Timestamp time.Time `json:"timestamp"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Location  string    `json:"location"`
	File      string    `json:"file"`
}

// FromSOSCall converts a remote SOS call into an incident. SOS calls are
// always critical.
func FromSOSCall(c SOSCall) Incident {
	return Incident{
		ID:            fmt.Sprintf("sos_%s", c.Timestamp.UTC().Format(time.RFC3339Nano)),
		Type:          TypeSOSCall,
		Status:        StatusResolved,
		Severity:      SeverityCritical,
		Timestamp:     c.Timestamp,
		Location:      c.Location,
		Description:   "Emergency SOS voice message received",
		RecordingFile: baseName(c.File),
	}
}

// FromLocalSOS converts a locally stored SOS recording into an incident.
// Recordings not yet delivered to the emergency hub stay active.
func FromLocalSOS(id string, timestamp time.Time, location, fileName string, sent bool) Incident {
	status := StatusActive
	description := "Emergency SOS recorded - Pending send"
	if sent {
		status = StatusResolved
		description = "Emergency SOS message sent"
	}

	return Incident{
		ID:            id,
		Type:          TypeSOSCall,
		Status:        status,
		Severity:      SeverityCritical,
		Timestamp:     timestamp,
		Location:      location,
		Description:   description,
		RecordingFile: fileName,
	}
}

// Stats summarizes an incident list for the dashboard.
type Stats struct {
	Total            int `json:"total"`
	Resolved         int `json:"resolved"`
	Active           int `json:"active"`
	Investigating    int `json:"investigating"`
	WeaponDetections int `json:"weapon_detections"`
	SOSCalls         int `json:"sos_calls"`
}

// ComputeStats tallies incident counts by status and type.
func ComputeStats(incidents []Incident) Stats {
	var st Stats
	st.Total = len(incidents)
	for _, i := range incidents {
		switch i.Status {
		case StatusResolved:
			st.Resolved++
		case StatusActive:
			st.Active++
		case StatusInvestigating:
			st.Investigating++
		}
		switch i.Type {
		case TypeWeaponDetected:
			st.WeaponDetections++
		case TypeSOSCall:
			st.SOSCalls++
		}
	}
	return st
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// baseName strips any path components, including Windows-style separators
// the remote feed is known to emit.
func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}
