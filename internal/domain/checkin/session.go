package checkin

import (
	"fmt"
	"sync"
	"time"

	"safyra/internal/shared/id"
)

// DefaultTapInterval is the number of seconds between required safety
// confirmations when the caller does not specify one.
const DefaultTapInterval = 60

// Session is a panic-mode check-in session. The user must confirm safety
// ("tap") every tapInterval seconds; a missed confirmation escalates but
// does not end the session.
//
// Invariants: missedTaps and totalTaps only increase; emergencyTriggered
// never flips back to false while the session lives; endTime is set exactly
// once, by an explicit End.
type Session struct {
	id                 string
	userID             string
	startTime          time.Time
	endTime            *time.Time
	isActive           bool
	tapInterval        int
	lastTapTime        time.Time
	missedTaps         int
	totalTaps          int
	consecutiveMissed  int
	emergencyTriggered bool
	location           Location
	mu                 sync.RWMutex
}

// NewSession starts a new check-in session for the user. The first tap is
// implicit: starting the session counts as a confirmation.
func NewSession(userID string, tapInterval int, location Location) (*Session, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if tapInterval == 0 {
		tapInterval = DefaultTapInterval
	}
	if tapInterval < 0 {
		return nil, fmt.Errorf("tap interval must be positive, got %d", tapInterval)
	}

	sid, err := id.NewPanicSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	now := time.Now().UTC()
	return &Session{
		id:          sid,
		userID:      userID,
		startTime:   now,
		isActive:    true,
		tapInterval: tapInterval,
		lastTapTime: now,
		totalTaps:   1,
		location:    location,
	}, nil
}

// ReconstructSession rebuilds a session from persisted state.
func ReconstructSession(
	sessionID string,
	userID string,
	startTime time.Time,
	endTime *time.Time,
	isActive bool,
	tapInterval int,
	lastTapTime time.Time,
	missedTaps int,
	totalTaps int,
	consecutiveMissed int,
	emergencyTriggered bool,
	location Location,
) (*Session, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID cannot be empty")
	}
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if tapInterval <= 0 {
		return nil, fmt.Errorf("tap interval must be positive, got %d", tapInterval)
	}
	if missedTaps < 0 || totalTaps < 0 || consecutiveMissed < 0 {
		return nil, fmt.Errorf("tap counters cannot be negative")
	}

	return &Session{
		id:                 sessionID,
		userID:             userID,
		startTime:          startTime,
		endTime:            endTime,
		isActive:           isActive,
		tapInterval:        tapInterval,
		lastTapTime:        lastTapTime,
		missedTaps:         missedTaps,
		totalTaps:          totalTaps,
		consecutiveMissed:  consecutiveMissed,
		emergencyTriggered: emergencyTriggered,
		location:           location,
	}, nil
}

// RegisterTap records an explicit safety confirmation. The countdown clock
// restarts and the consecutive-missed streak resets; the historical
// missedTaps count is preserved for the post-session summary.
func (s *Session) RegisterTap() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isActive {
		return fmt.Errorf("session %s is not active", s.id)
	}

	s.totalTaps++
	s.consecutiveMissed = 0
	s.lastTapTime = time.Now().UTC()
	return nil
}

// RecordMissedTap records a countdown expiry without a confirming tap.
// The countdown restarts so escalation repeats until the user responds
// or ends the session.
func (s *Session) RecordMissedTap() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isActive {
		return fmt.Errorf("session %s is not active", s.id)
	}

	s.missedTaps++
	s.consecutiveMissed++
	s.emergencyTriggered = true
	s.lastTapTime = time.Now().UTC()
	return nil
}

// End deactivates the session. Counters are preserved for reporting.
func (s *Session) End() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isActive {
		return fmt.Errorf("session %s already ended", s.id)
	}

	now := time.Now().UTC()
	s.isActive = false
	s.endTime = &now
	return nil
}

// Remaining returns the seconds left until the next required confirmation,
// computed from the last tap (or expiry reset) and the wall clock. Zero
// means the countdown has expired. Ended sessions always report zero.
func (s *Session) Remaining(now time.Time) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isActive {
		return 0
	}
	elapsed := int(now.UTC().Sub(s.lastTapTime).Seconds())
	remaining := s.tapInterval - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (s *Session) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

func (s *Session) StartTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.startTime
}

func (s *Session) EndTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.endTime
}

func (s *Session) IsActive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isActive
}

func (s *Session) TapInterval() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tapInterval
}

func (s *Session) LastTapTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastTapTime
}

func (s *Session) MissedTaps() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.missedTaps
}

func (s *Session) TotalTaps() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalTaps
}

// ConsecutiveMissed is the current escalation streak. Unlike MissedTaps it
// resets to zero on every confirming tap.
func (s *Session) ConsecutiveMissed() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.consecutiveMissed
}

func (s *Session) EmergencyTriggered() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.emergencyTriggered
}

func (s *Session) Location() Location {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.location
}
