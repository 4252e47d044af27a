package timer

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/sidereal/go/internal/models"
	"github.com/rs/zerolog/log"
)

// Clock is the interface we use for time operations.
// In production, use clockwork.NewRealClock(). In tests, a FakeClock.
type Clock interface {
	Now() time.Time
	NewTimer(d time.Duration) clockwork.Timer
}

// Snapshot is a point-in-time reading of a timer.
type Snapshot struct {
	State       models.TimerState `json:"state"`
	DurationMs  int64             `json:"duration_ms"`
	ElapsedMs   int64             `json:"elapsed_ms"`
	RemainingMs int64             `json:"remaining_ms"`
}

// Timer counts down a fixed duration through ready, running, paused and
// done. While running it holds a one-shot deadline; reaching it moves the
// timer to done and calls onExpired once. done is terminal.
type Timer struct {
	clock     Clock
	duration  time.Duration
	onExpired func()

	mu        sync.Mutex
	state     models.TimerState
	startedAt time.Time     // running: now - startedAt is the elapsed time
	elapsed   time.Duration // paused
	cancel    chan struct{}
	gen       uint64
	closed    bool
}

// New creates a timer in the ready state. onExpired may be nil.
func New(clock Clock, duration time.Duration, onExpired func()) *Timer {
	if duration < 0 {
		duration = 0
	}
	return &Timer{
		clock:     clock,
		duration:  duration,
		onExpired: onExpired,
		state:     models.TimerStateReady,
	}
}

// Start runs the timer from ready, or resumes it from paused. Ignored when
// running or done.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}

	now := t.clock.Now()
	switch t.state {
	case models.TimerStateReady:
		t.startedAt = now
	case models.TimerStatePaused:
		t.startedAt = now.Add(-t.elapsed)
	default:
		return
	}
	t.state = models.TimerStateRunning
	t.elapsed = 0
	t.scheduleLocked(now)

	log.Debug().
		Dur("duration", t.duration).
		Time("started_at", t.startedAt).
		Msg("trade timer running")
}

// Pause freezes a running timer. Ignored in any other state.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != models.TimerStateRunning {
		return
	}
	t.cancelLocked()
	t.elapsed = t.clock.Now().Sub(t.startedAt)
	t.state = models.TimerStatePaused

	log.Debug().Dur("elapsed", t.elapsed).Msg("trade timer paused")
}

// Reset returns the timer to ready, discarding any progress.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancelLocked()
	t.state = models.TimerStateReady
	t.elapsed = 0
	t.startedAt = time.Time{}
}

// Close cancels any pending deadline. The timer keeps its last reading but
// ignores further Start calls.
func (t *Timer) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == models.TimerStateRunning {
		t.elapsed = t.clock.Now().Sub(t.startedAt)
		t.state = models.TimerStatePaused
	}
	t.cancelLocked()
	t.closed = true
}

// State returns the current state.
func (t *Timer) State() models.TimerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Duration returns the configured duration.
func (t *Timer) Duration() time.Duration {
	return t.duration
}

// Elapsed returns the elapsed time. It is live while running.
func (t *Timer) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.elapsedLocked()
}

// Remaining returns duration minus elapsed. It can be briefly negative
// before the deadline is delivered.
func (t *Timer) Remaining() time.Duration {
	return t.duration - t.Elapsed()
}

// Snapshot reads state, elapsed and remaining together.
func (t *Timer) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	elapsed := t.elapsedLocked()
	return Snapshot{
		State:       t.state,
		DurationMs:  t.duration.Milliseconds(),
		ElapsedMs:   elapsed.Milliseconds(),
		RemainingMs: (t.duration - elapsed).Milliseconds(),
	}
}

func (t *Timer) elapsedLocked() time.Duration {
	switch t.state {
	case models.TimerStateReady:
		return 0
	case models.TimerStateDone:
		return t.duration
	case models.TimerStatePaused:
		return t.elapsed
	case models.TimerStateRunning:
		return t.clock.Now().Sub(t.startedAt)
	default:
		panic("unreachable timer state " + string(t.state))
	}
}

// scheduleLocked arms the deadline for the current run. Each run gets a new
// generation so a deadline from an earlier run can never complete the timer.
func (t *Timer) scheduleLocked(now time.Time) {
	t.cancelLocked()

	wait := t.startedAt.Add(t.duration).Sub(now)
	if wait < 0 {
		wait = 0
	}

	gen := t.gen
	cancel := make(chan struct{})
	deadline := t.clock.NewTimer(wait)
	t.cancel = cancel

	go func() {
		select {
		case <-deadline.Chan():
			t.expire(gen)
		case <-cancel:
			stopAndDrainTimer(deadline)
		}
	}()
}

// cancelLocked invalidates the pending deadline, if any.
func (t *Timer) cancelLocked() {
	t.gen++
	if t.cancel != nil {
		close(t.cancel)
		t.cancel = nil
	}
}

func (t *Timer) expire(gen uint64) {
	t.mu.Lock()
	if gen != t.gen || t.state != models.TimerStateRunning {
		t.mu.Unlock()
		log.Debug().Uint64("generation", gen).Msg("ignoring stale trade timer deadline")
		return
	}
	t.state = models.TimerStateDone
	t.cancel = nil
	t.gen++
	onExpired := t.onExpired
	t.mu.Unlock()

	log.Info().Dur("duration", t.duration).Msg("trade timer expired")
	if onExpired != nil {
		onExpired()
	}
}

// stopAndDrainTimer safely stops a timer and drains its channel to prevent goroutine leaks.
func stopAndDrainTimer(timer clockwork.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.Chan():
		default:
		}
	}
}
