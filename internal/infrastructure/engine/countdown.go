// Package engine drives the panic-mode check-in countdown. One Countdown
// serves one active session: it ticks once a second, raises a warning when
// the remaining time falls to the threshold, reports expiry when it reaches
// zero, and then restarts the cycle. Escalation repeats until the user taps
// or ends the session.
package engine

import (
	"fmt"
	"sync"
	"time"

	"safyra/internal/shared/goroutine"
	"safyra/internal/shared/logger"
)

// State is the countdown's position in the check-in cycle.
type State string

const (
	StateIdle     State = "idle"
	StateCounting State = "counting"
	StateWarning  State = "warning"
	StateExpired  State = "expired"
	StateEnded    State = "ended"
)

// DefaultWarningThreshold is the remaining-seconds mark at which the
// countdown enters the warning state.
const DefaultWarningThreshold = 5

// Handler receives countdown transitions. Callbacks run synchronously on
// the tick loop: each must complete before the next tick is processed, so
// tap/expiry/end transitions are never in flight concurrently.
type Handler interface {
	// OnWarning fires once per cycle when remaining falls to the threshold.
	OnWarning(sessionID string, remaining int)
	// OnExpiry fires when remaining reaches zero. After it returns the
	// countdown restarts at the full interval.
	OnExpiry(sessionID string)
}

// Countdown is the per-session timer state machine.
type Countdown struct {
	sessionID        string
	interval         int
	warningThreshold int
	clock            Clock
	handler          Handler
	logger           logger.Interface

	mu         sync.Mutex
	state      State
	remaining  int
	warned     bool
	generation uint64
	stopCh     chan struct{}
	stopOnce   sync.Once
}

// NewCountdown builds a countdown for one session. remaining allows a
// recovered session to resume mid-cycle; pass interval for a fresh start.
func NewCountdown(sessionID string, interval, remaining, warningThreshold int, clock Clock, handler Handler, log logger.Interface) (*Countdown, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID is required")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %d", interval)
	}
	if remaining <= 0 || remaining > interval {
		remaining = interval
	}
	if warningThreshold <= 0 {
		warningThreshold = DefaultWarningThreshold
	}
	if clock == nil {
		clock = NewRealClock()
	}

	return &Countdown{
		sessionID:        sessionID,
		interval:         interval,
		warningThreshold: warningThreshold,
		clock:            clock,
		handler:          handler,
		logger:           log,
		state:            StateIdle,
		remaining:        remaining,
		stopCh:           make(chan struct{}),
	}, nil
}

// Start launches the tick loop. Calling Start on an ended countdown fails.
func (c *Countdown) Start() error {
	c.mu.Lock()
	if c.state == StateEnded {
		c.mu.Unlock()
		return fmt.Errorf("countdown for session %s already ended", c.sessionID)
	}
	if c.state != StateIdle {
		c.mu.Unlock()
		return fmt.Errorf("countdown for session %s already started", c.sessionID)
	}
	c.state = StateCounting
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	ticker := c.clock.NewTicker(time.Second)
	goroutine.SafeGo(c.logger, "countdown-"+c.sessionID, func() {
		c.run(gen, ticker)
	})

	c.logger.Infow("countdown started",
		"session_id", c.sessionID,
		"interval", c.interval,
		"remaining", c.remaining,
	)
	return nil
}

func (c *Countdown) run(gen uint64, ticker Ticker) {
	defer ticker.Stop()
	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C():
			if !c.advance(gen) {
				return
			}
		}
	}
}

// advance processes one tick. It returns false when the tick belongs to a
// stale generation or an ended countdown, which terminates the loop; a
// late-firing tick can never resurrect a stopped session.
func (c *Countdown) advance(gen uint64) bool {
	c.mu.Lock()
	if gen != c.generation || c.state == StateEnded {
		c.mu.Unlock()
		return false
	}

	c.remaining--

	if c.remaining <= 0 {
		c.state = StateExpired
		sessionID := c.sessionID
		c.mu.Unlock()

		// Expiry handling runs synchronously so the session mutation and
		// persistence complete before the next tick is processed.
		c.handler.OnExpiry(sessionID)

		c.mu.Lock()
		if gen == c.generation && c.state == StateExpired {
			c.state = StateCounting
			c.remaining = c.interval
			c.warned = false
		}
		c.mu.Unlock()
		return true
	}

	if c.remaining <= c.warningThreshold && !c.warned {
		c.state = StateWarning
		c.warned = true
		sessionID := c.sessionID
		remaining := c.remaining
		c.mu.Unlock()

		c.handler.OnWarning(sessionID, remaining)
		return true
	}

	c.mu.Unlock()
	return true
}

// Tap resets the countdown to the full interval and clears the warning
// flag. Fails on an ended countdown.
func (c *Countdown) Tap() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateEnded {
		return fmt.Errorf("countdown for session %s already ended", c.sessionID)
	}

	c.state = StateCounting
	c.remaining = c.interval
	c.warned = false
	return nil
}

// Stop ends the countdown permanently. The generation bump guarantees any
// tick already in flight is discarded.
func (c *Countdown) Stop() {
	c.mu.Lock()
	c.state = StateEnded
	c.generation++
	c.mu.Unlock()

	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
}

// SessionID returns the session this countdown serves.
func (c *Countdown) SessionID() string {
	return c.sessionID
}

// State returns the current machine state.
func (c *Countdown) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Remaining returns the seconds left in the current cycle.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}
