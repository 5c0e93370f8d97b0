// Package notifier translates a check-in expiry into a multi-channel
// emergency escalation. Channels are dispatched in a fixed order with
// per-channel failure isolation, at most once per alert, and without
// blocking the timer loop.
package notifier

import (
	"context"
	"sync"
	"time"

	"safyra/internal/domain/checkin"
	"safyra/internal/shared/goroutine"
	"safyra/internal/shared/logger"
)

// dispatchTimeout bounds the whole fan-out for one alert.
const dispatchTimeout = 30 * time.Second

// Channel is one notification target (contacts, emergency services,
// location share, recording activation).
type Channel interface {
	Name() string
	Notify(ctx context.Context, alert *checkin.EmergencyAlert) error
}

// EscalationNotifier fans an EmergencyAlert out to its channels.
type EscalationNotifier struct {
	channels []Channel
	logger   logger.Interface

	mu         sync.Mutex
	dispatched map[string]struct{}
}

// NewEscalationNotifier builds a notifier with the given channels. The slice
// order is the dispatch order: contacts first, then emergency services,
// location sharing, recording.
func NewEscalationNotifier(log logger.Interface, channels ...Channel) *EscalationNotifier {
	return &EscalationNotifier{
		channels:   channels,
		logger:     log,
		dispatched: make(map[string]struct{}),
	}
}

// Escalate dispatches the alert asynchronously and returns immediately so
// the timer keeps ticking while notifications are outstanding. Repeat calls
// with the same alert ID are ignored while its dispatch is in flight; the
// entry is dropped once dispatch finishes so the set stays bounded by the
// number of outstanding alerts.
func (n *EscalationNotifier) Escalate(alert *checkin.EmergencyAlert) {
	n.mu.Lock()
	if _, seen := n.dispatched[alert.ID]; seen {
		n.mu.Unlock()
		n.logger.Warnw("duplicate escalation suppressed", "alert_id", alert.ID)
		return
	}
	n.dispatched[alert.ID] = struct{}{}
	n.mu.Unlock()

	goroutine.SafeGo(n.logger, "escalation-dispatch", func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		n.dispatch(ctx, alert)

		n.mu.Lock()
		delete(n.dispatched, alert.ID)
		n.mu.Unlock()
	})
}

// dispatch runs the channels sequentially in their fixed order. A failing
// channel is logged and the remaining channels still run.
func (n *EscalationNotifier) dispatch(ctx context.Context, alert *checkin.EmergencyAlert) {
	n.logger.Warnw("emergency escalation triggered",
		"alert_id", alert.ID,
		"session_id", alert.SessionID,
		"alert_type", alert.AlertType,
		"missed_taps", alert.MissedTaps,
		"location", alert.Location.Address,
	)

	for _, ch := range n.channels {
		if err := n.notifyOne(ctx, ch, alert); err != nil {
			n.logger.Errorw("escalation channel failed",
				"channel", ch.Name(),
				"alert_id", alert.ID,
				"error", err,
			)
		}
	}
}

func (n *EscalationNotifier) notifyOne(ctx context.Context, ch Channel, alert *checkin.EmergencyAlert) (err error) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Errorw("escalation channel panicked",
				"channel", ch.Name(),
				"alert_id", alert.ID,
				"panic", r,
			)
		}
	}()
	return ch.Notify(ctx, alert)
}
