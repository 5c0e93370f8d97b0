package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safyra/internal/shared/logger"
)

type fakeTicker struct {
	ch chan time.Time
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }
func (f *fakeTicker) Stop()               {}

type fakeClock struct {
	ticker *fakeTicker
}

func newFakeClock() *fakeClock {
	return &fakeClock{ticker: &fakeTicker{ch: make(chan time.Time, 128)}}
}

func (f *fakeClock) Now() time.Time                   { return time.Now().UTC() }
func (f *fakeClock) NewTicker(d time.Duration) Ticker { return f.ticker }
func (f *fakeClock) tick(n int) {
	for i := 0; i < n; i++ {
		f.ticker.ch <- time.Time{}
	}
}

type spyHandler struct {
	mu       sync.Mutex
	warnings []int
	expiries []string
}

func (h *spyHandler) OnWarning(sessionID string, remaining int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.warnings = append(h.warnings, remaining)
}

func (h *spyHandler) OnExpiry(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.expiries = append(h.expiries, sessionID)
}

func (h *spyHandler) warningCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.warnings)
}

func (h *spyHandler) expiryCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.expiries)
}

func newTestCountdown(t *testing.T, interval, warning int) (*Countdown, *fakeClock, *spyHandler) {
	t.Helper()
	clock := newFakeClock()
	handler := &spyHandler{}
	cd, err := NewCountdown("ps_test", interval, 0, warning, clock, handler, logger.NewLogger())
	require.NoError(t, err)
	return cd, clock, handler
}

// =============================================================================
// Constructor
// =============================================================================

func TestNewCountdown_Validation(t *testing.T) {
	clock := newFakeClock()
	handler := &spyHandler{}
	log := logger.NewLogger()

	_, err := NewCountdown("", 60, 0, 5, clock, handler, log)
	require.Error(t, err)

	_, err = NewCountdown("ps_x", 0, 0, 5, clock, handler, log)
	require.Error(t, err)

	cd, err := NewCountdown("ps_x", 60, 90, 5, clock, handler, log)
	require.NoError(t, err)
	assert.Equal(t, 60, cd.Remaining(), "out-of-range remaining clamps to the interval")
	assert.Equal(t, StateIdle, cd.State())
}

func TestNewCountdown_ResumesMidCycle(t *testing.T) {
	cd, err := NewCountdown("ps_x", 60, 17, 5, newFakeClock(), &spyHandler{}, logger.NewLogger())
	require.NoError(t, err)
	assert.Equal(t, 17, cd.Remaining())
}

// =============================================================================
// Tick cycle
// =============================================================================

// TestCountdown_WarningThenExpiryThenRestart drives a full cycle: counting,
// warning at the threshold, exactly one expiry at zero, then an automatic
// restart at the full interval.
func TestCountdown_WarningThenExpiryThenRestart(t *testing.T) {
	cd, clock, handler := newTestCountdown(t, 3, 2)
	require.NoError(t, cd.Start())

	clock.tick(1) // remaining 2 -> warning
	require.Eventually(t, func() bool { return handler.warningCount() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, StateWarning, cd.State())

	clock.tick(2) // remaining 1, then 0 -> expiry, restart
	require.Eventually(t, func() bool { return handler.expiryCount() == 1 }, time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return cd.Remaining() == 3 }, time.Second, time.Millisecond)
	assert.Equal(t, StateCounting, cd.State(), "expiry transitions back to counting")

	handler.mu.Lock()
	assert.Equal(t, []int{2}, handler.warnings)
	assert.Equal(t, []string{"ps_test"}, handler.expiries)
	handler.mu.Unlock()
}

// TestCountdown_RepeatingEscalation verifies each full interval without a
// tap produces exactly one expiry event.
func TestCountdown_RepeatingEscalation(t *testing.T) {
	cd, clock, handler := newTestCountdown(t, 2, 1)
	require.NoError(t, cd.Start())

	clock.tick(6) // three full cycles
	require.Eventually(t, func() bool { return handler.expiryCount() == 3 }, time.Second, time.Millisecond)
	assert.Equal(t, 3, handler.warningCount(), "warning re-arms after every expiry")
}

// TestCountdown_TapResetsCycle verifies a tap restores the full interval and
// re-arms the warning, and that no expiry fires after a timely tap.
func TestCountdown_TapResetsCycle(t *testing.T) {
	cd, clock, handler := newTestCountdown(t, 3, 2)
	require.NoError(t, cd.Start())

	clock.tick(1)
	require.Eventually(t, func() bool { return handler.warningCount() == 1 }, time.Second, time.Millisecond)

	require.NoError(t, cd.Tap())
	assert.Equal(t, 3, cd.Remaining())
	assert.Equal(t, StateCounting, cd.State())

	clock.tick(1)
	require.Eventually(t, func() bool { return handler.warningCount() == 2 }, time.Second, time.Millisecond)
	assert.Equal(t, 0, handler.expiryCount())
}

// =============================================================================
// Stop and stale ticks
// =============================================================================

func TestCountdown_StopEndsPermanently(t *testing.T) {
	cd, _, _ := newTestCountdown(t, 3, 2)
	require.NoError(t, cd.Start())

	cd.Stop()

	assert.Equal(t, StateEnded, cd.State())
	require.Error(t, cd.Tap(), "tap after end must fail")
	require.Error(t, cd.Start(), "restart after end must fail")
}

// TestCountdown_StaleTickCannotResurrect delivers a tick carrying the
// pre-stop generation and checks it is discarded without touching state or
// firing handlers.
func TestCountdown_StaleTickCannotResurrect(t *testing.T) {
	cd, clock, handler := newTestCountdown(t, 2, 1)
	require.NoError(t, cd.Start())

	cd.mu.Lock()
	staleGen := cd.generation
	cd.mu.Unlock()

	cd.Stop()

	processed := cd.advance(staleGen)

	assert.False(t, processed, "stale-generation tick must terminate the loop")
	assert.Equal(t, StateEnded, cd.State())
	assert.Equal(t, 0, handler.expiryCount())
	assert.Equal(t, 0, handler.warningCount())

	// Buffered ticks left over from before the stop are never consumed.
	clock.tick(4)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, handler.expiryCount())
}

func TestCountdown_StopIsIdempotent(t *testing.T) {
	cd, _, _ := newTestCountdown(t, 2, 1)
	require.NoError(t, cd.Start())

	assert.NotPanics(t, func() {
		cd.Stop()
		cd.Stop()
	})
}
