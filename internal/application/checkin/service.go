// Package checkin coordinates panic-mode check-in sessions: it owns the
// per-session countdowns, persists state transitions, and hands expiries
// to the escalation notifier.
package checkin

import (
	"context"
	"sync"
	"time"

	"safyra/internal/domain/checkin"
	"safyra/internal/infrastructure/engine"
	"safyra/internal/infrastructure/geo"
	"safyra/internal/infrastructure/pubsub"
	"safyra/internal/shared/biztime"
	"safyra/internal/shared/errors"
	"safyra/internal/shared/logger"
)

// Escalator dispatches an emergency alert to the configured channels.
type Escalator interface {
	Escalate(alert *checkin.EmergencyAlert)
}

// Status is the live view of a session, combining persisted state with the
// countdown's in-memory remaining time.
type Status struct {
	Session   *checkin.Session
	Remaining int
	State     engine.State
}

type activeSession struct {
	session   *checkin.Session
	countdown *engine.Countdown
}

// Service manages panic-mode check-in sessions.
type Service struct {
	repo             checkin.SessionRepository
	geo              geo.Provider
	escalator        Escalator
	bus              pubsub.HistoryBus
	clock            engine.Clock
	logger           logger.Interface
	tapInterval      int
	warningThreshold int

	mu     sync.Mutex
	active map[string]*activeSession
}

// NewService creates the check-in service. tapInterval and warningThreshold
// are defaults; Start may override the interval per session.
func NewService(
	repo checkin.SessionRepository,
	geoProvider geo.Provider,
	escalator Escalator,
	bus pubsub.HistoryBus,
	clock engine.Clock,
	tapInterval int,
	warningThreshold int,
	log logger.Interface,
) *Service {
	if tapInterval <= 0 {
		tapInterval = checkin.DefaultTapInterval
	}
	if warningThreshold <= 0 {
		warningThreshold = engine.DefaultWarningThreshold
	}
	return &Service{
		repo:             repo,
		geo:              geoProvider,
		escalator:        escalator,
		bus:              bus,
		clock:            clock,
		logger:           log,
		tapInterval:      tapInterval,
		warningThreshold: warningThreshold,
		active:           make(map[string]*activeSession),
	}
}

var _ engine.Handler = (*Service)(nil)

// Start begins a new panic-mode session for the user. A user has at most
// one active session; starting while one exists is a conflict.
func (s *Service) Start(ctx context.Context, userID string, tapInterval int) (*Status, error) {
	if userID == "" {
		return nil, errors.NewValidationError("user ID is required")
	}
	if tapInterval <= 0 {
		tapInterval = s.tapInterval
	}

	// The in-memory map is authoritative for live sessions; a session
	// whose Save failed exists only here, so the repository check alone
	// is not enough.
	s.mu.Lock()
	for _, entry := range s.active {
		if entry.session.UserID() == userID {
			id := entry.session.ID()
			s.mu.Unlock()
			return nil, errors.NewConflictError("an active panic session already exists",
				"session "+id+" is still active")
		}
	}
	s.mu.Unlock()

	existing, err := s.repo.FindActiveByUserID(ctx, userID)
	if err == nil && existing != nil {
		return nil, errors.NewConflictError("an active panic session already exists",
			"session "+existing.ID()+" is still active")
	}
	if err != nil && !errors.IsNotFoundError(err) {
		return nil, errors.NewInternalError("could not verify active sessions", err.Error())
	}

	location := s.geo.Resolve(ctx)

	session, err := checkin.NewSession(userID, tapInterval, location)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	// Persist before the countdown starts so an immediate crash still
	// leaves a recoverable record. Persistence failure is degraded to a
	// log line; the session keeps running from memory.
	if err := s.repo.Save(ctx, session); err != nil {
		s.logger.Errorw("failed to persist new session, continuing in memory",
			"session_id", session.ID(),
			"error", err,
		)
	}

	countdown, err := engine.NewCountdown(
		session.ID(),
		session.TapInterval(),
		session.TapInterval(),
		s.warningThreshold,
		s.clock,
		s,
		s.logger,
	)
	if err != nil {
		return nil, errors.NewInternalError("failed to create session countdown", err.Error())
	}

	s.mu.Lock()
	s.active[session.ID()] = &activeSession{session: session, countdown: countdown}
	s.mu.Unlock()

	if err := countdown.Start(); err != nil {
		s.mu.Lock()
		delete(s.active, session.ID())
		s.mu.Unlock()
		return nil, errors.NewInternalError("failed to start session countdown", err.Error())
	}

	s.logger.Infow("panic session started",
		"session_id", session.ID(),
		"user_id", userID,
		"tap_interval", session.TapInterval(),
	)
	s.bus.Publish()

	return s.status(session.ID(), session), nil
}

// ConfirmSafety registers a check-in tap, restoring the full interval.
func (s *Service) ConfirmSafety(ctx context.Context, sessionID string) (*Status, error) {
	entry, err := s.lookupActive(sessionID)
	if err != nil {
		return nil, err
	}

	if err := entry.session.RegisterTap(); err != nil {
		return nil, errors.NewConflictError(err.Error())
	}
	if err := entry.countdown.Tap(); err != nil {
		return nil, errors.NewConflictError(err.Error())
	}

	if err := s.repo.Save(ctx, entry.session); err != nil {
		s.logger.Errorw("failed to persist tap, continuing in memory",
			"session_id", sessionID,
			"error", err,
		)
	}

	s.logger.Debugw("safety confirmed",
		"session_id", sessionID,
		"total_taps", entry.session.TotalTaps(),
	)

	return s.status(sessionID, entry.session), nil
}

// End terminates the session. The countdown stops before the entity is
// marked ended so no expiry can fire on an ended session.
func (s *Service) End(ctx context.Context, sessionID string) (*checkin.Session, error) {
	entry, err := s.lookupActive(sessionID)
	if err != nil {
		return nil, err
	}

	entry.countdown.Stop()

	if err := entry.session.End(); err != nil {
		return nil, errors.NewConflictError(err.Error())
	}

	s.mu.Lock()
	delete(s.active, sessionID)
	s.mu.Unlock()

	if err := s.repo.Save(ctx, entry.session); err != nil {
		s.logger.Errorw("failed to persist session end",
			"session_id", sessionID,
			"error", err,
		)
	}

	s.logger.Infow("panic session ended",
		"session_id", sessionID,
		"total_taps", entry.session.TotalTaps(),
		"missed_taps", entry.session.MissedTaps(),
		"emergency_triggered", entry.session.EmergencyTriggered(),
	)
	s.bus.Publish()

	return entry.session, nil
}

// Current returns the user's active session with live countdown state.
func (s *Service) Current(ctx context.Context, userID string) (*Status, error) {
	s.mu.Lock()
	for _, entry := range s.active {
		if entry.session.UserID() == userID {
			sessionID := entry.session.ID()
			session := entry.session
			s.mu.Unlock()
			return s.status(sessionID, session), nil
		}
	}
	s.mu.Unlock()

	session, err := s.repo.FindActiveByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Status{
		Session:   session,
		Remaining: session.Remaining(biztime.NowUTC()),
	}, nil
}

// History returns all of the user's sessions, newest first.
func (s *Service) History(ctx context.Context, userID string) ([]*checkin.Session, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// Dismiss removes an ended session from the history. Active sessions must
// be ended first.
func (s *Service) Dismiss(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	_, isActive := s.active[sessionID]
	s.mu.Unlock()
	if isActive {
		return errors.NewConflictError("cannot dismiss an active session")
	}

	if err := s.repo.Remove(ctx, sessionID); err != nil {
		return err
	}

	s.logger.Infow("session dismissed", "session_id", sessionID)
	s.bus.Publish()
	return nil
}

// Recover resumes the user's active session after a restart. Remaining
// time is recomputed from the last tap; if the interval already elapsed
// while down, the missed tap is recorded and escalation fires immediately.
func (s *Service) Recover(ctx context.Context, userID string) error {
	session, err := s.repo.FindActiveByUserID(ctx, userID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil
		}
		return err
	}
	return s.recoverSession(session)
}

// RecoverAll resumes every active session left in the repository,
// regardless of owner. Failures are logged per session so one bad
// record does not block the rest.
func (s *Service) RecoverAll(ctx context.Context) error {
	sessions, err := s.repo.ListActive(ctx)
	if err != nil {
		return err
	}
	for _, session := range sessions {
		if err := s.recoverSession(session); err != nil {
			s.logger.Errorw("failed to recover session",
				"session_id", session.ID(),
				"user_id", session.UserID(),
				"error", err,
			)
		}
	}
	return nil
}

func (s *Service) recoverSession(session *checkin.Session) error {
	elapsed := int(biztime.NowUTC().Sub(session.LastTapTime()) / time.Second)
	remaining := session.TapInterval() - elapsed
	expiredWhileDown := remaining <= 0

	countdown, err := engine.NewCountdown(
		session.ID(),
		session.TapInterval(),
		remaining,
		s.warningThreshold,
		s.clock,
		s,
		s.logger,
	)
	if err != nil {
		return errors.NewInternalError("failed to recover session countdown", err.Error())
	}

	s.mu.Lock()
	s.active[session.ID()] = &activeSession{session: session, countdown: countdown}
	s.mu.Unlock()

	if err := countdown.Start(); err != nil {
		return errors.NewInternalError("failed to resume session countdown", err.Error())
	}

	s.logger.Infow("recovered active session",
		"session_id", session.ID(),
		"user_id", session.UserID(),
		"elapsed", elapsed,
		"expired_while_down", expiredWhileDown,
	)

	if expiredWhileDown {
		s.OnExpiry(session.ID())
	}
	return nil
}

// OnWarning implements engine.Handler.
func (s *Service) OnWarning(sessionID string, remaining int) {
	s.logger.Warnw("check-in window closing",
		"session_id", sessionID,
		"remaining", remaining,
	)
}

// OnExpiry implements engine.Handler. It records the missed tap, persists,
// and escalates. Runs on the countdown's tick loop, serialized with taps
// for the same session.
func (s *Service) OnExpiry(sessionID string) {
	s.mu.Lock()
	entry, ok := s.active[sessionID]
	s.mu.Unlock()
	if !ok {
		return
	}

	if err := entry.session.RecordMissedTap(); err != nil {
		s.logger.Errorw("failed to record missed tap",
			"session_id", sessionID,
			"error", err,
		)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Persist the missed tap before any notification goes out so the
	// record exists even if escalation crashes.
	if err := s.repo.Save(ctx, entry.session); err != nil {
		s.logger.Errorw("failed to persist missed tap, continuing in memory",
			"session_id", sessionID,
			"error", err,
		)
	}

	alert, err := checkin.NewEmergencyAlert(
		sessionID,
		entry.session.UserID(),
		checkin.AlertTypeMissedTap,
		entry.session.Location(),
		entry.session.MissedTaps(),
	)
	if err != nil {
		s.logger.Errorw("failed to build emergency alert",
			"session_id", sessionID,
			"error", err,
		)
		return
	}

	s.logger.Warnw("check-in missed, escalating",
		"session_id", sessionID,
		"alert_id", alert.ID,
		"missed_taps", entry.session.MissedTaps(),
	)

	s.escalator.Escalate(alert)
	s.bus.Publish()
}

// TriggerManual fires an immediate manual escalation for an active session
// without waiting for the countdown.
func (s *Service) TriggerManual(ctx context.Context, sessionID string) error {
	entry, err := s.lookupActive(sessionID)
	if err != nil {
		return err
	}

	alert, err := checkin.NewEmergencyAlert(
		sessionID,
		entry.session.UserID(),
		checkin.AlertTypeManualTrigger,
		entry.session.Location(),
		entry.session.MissedTaps(),
	)
	if err != nil {
		return errors.NewInternalError("failed to build emergency alert", err.Error())
	}

	s.logger.Warnw("manual emergency trigger",
		"session_id", sessionID,
		"alert_id", alert.ID,
	)

	s.escalator.Escalate(alert)
	s.bus.Publish()
	return nil
}

// Shutdown stops all running countdowns. Sessions stay active in storage
// and are picked up again by Recover.
func (s *Service) Shutdown() {
	s.mu.Lock()
	entries := make([]*activeSession, 0, len(s.active))
	for _, entry := range s.active {
		entries = append(entries, entry)
	}
	s.active = make(map[string]*activeSession)
	s.mu.Unlock()

	for _, entry := range entries {
		entry.countdown.Stop()
	}
}

func (s *Service) lookupActive(sessionID string) (*activeSession, error) {
	s.mu.Lock()
	entry, ok := s.active[sessionID]
	s.mu.Unlock()
	if !ok {
		return nil, errors.NewNotFoundError("no active session with ID " + sessionID)
	}
	return entry, nil
}

func (s *Service) status(sessionID string, session *checkin.Session) *Status {
	s.mu.Lock()
	entry, ok := s.active[sessionID]
	s.mu.Unlock()

	st := &Status{Session: session}
	if ok {
		st.Remaining = entry.countdown.Remaining()
		st.State = entry.countdown.State()
	} else {
		st.Remaining = session.Remaining(biztime.NowUTC())
	}
	return st
}
