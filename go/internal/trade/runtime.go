package trade

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/sidereal/go/internal/events"
	"github.com/mcdev12/sidereal/go/internal/models"
	"github.com/mcdev12/sidereal/go/internal/power"
	"github.com/mcdev12/sidereal/go/internal/ticker"
	"github.com/mcdev12/sidereal/go/internal/timer"
	"github.com/rs/zerolog/log"
)

// DefaultTickInterval is how often a live timer is redrawn.
const DefaultTickInterval = 50 * time.Millisecond

// Status is what the trade phase shows.
type Status struct {
	Unlimited bool            `json:"unlimited"`
	Timer     *timer.Snapshot `json:"timer,omitempty"`
	Display   string          `json:"display,omitempty"`
	Live      bool            `json:"live"`
	Expired   bool            `json:"expired"`
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithTickInterval overrides DefaultTickInterval.
func WithTickInterval(d time.Duration) Option {
	return func(r *Runtime) {
		if d > 0 {
			r.tickInterval = d
		}
	}
}

// Runtime runs one trade phase. With a time limit it owns a countdown timer
// and a clock source, and keeps the tick cadence and the wake lock in step
// with whether the timer is live: running while the app is in the
// foreground.
type Runtime struct {
	clock        clockwork.Clock
	limit        models.TradeTimeLimit
	visibility   *power.Visibility
	wakeLock     *power.WakeLock
	sink         events.Sink
	tickInterval time.Duration

	timer       *timer.Timer
	source      *ticker.Source
	unsubscribe func()

	mu     sync.Mutex
	live   bool
	closed bool
}

// NewRuntime opens a trade phase. The wake lock is shared with the caller
// and is only ever set, never closed, by the runtime.
func NewRuntime(clock clockwork.Clock, limit models.TradeTimeLimit, visibility *power.Visibility, wakeLock *power.WakeLock, sink events.Sink, opts ...Option) *Runtime {
	if sink == nil {
		sink = events.Discard
	}
	r := &Runtime{
		clock:        clock,
		limit:        limit,
		visibility:   visibility,
		wakeLock:     wakeLock,
		sink:         sink,
		tickInterval: DefaultTickInterval,
	}
	for _, opt := range opts {
		opt(r)
	}

	if limit.Unlimited() {
		log.Debug().Msg("trade phase opened without a time limit")
		return r
	}

	r.timer = timer.New(clock, limit.Duration(), r.handleExpired)
	r.source = ticker.New(clock, r.handleTick)
	r.unsubscribe = visibility.Subscribe(r.handleVisibility)

	log.Debug().Dur("limit", limit.Duration()).Msg("trade phase opened")
	return r
}

// Limited reports whether the phase has a timer.
func (r *Runtime) Limited() bool {
	return r.timer != nil
}

// Start starts or resumes the timer.
func (r *Runtime) Start() {
	r.command(r.timer.Start)
}

// Pause pauses a running timer.
func (r *Runtime) Pause() {
	r.command(r.timer.Pause)
}

// Reset returns the timer to ready.
func (r *Runtime) Reset() {
	r.command(r.timer.Reset)
}

func (r *Runtime) command(fn func()) {
	if r.timer == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	fn()
	r.reconcileLocked()
}

// Expired reports whether the timer ran out.
func (r *Runtime) Expired() bool {
	return r.timer != nil && r.timer.State() == models.TimerStateDone
}

// Live reports whether the timer is running in the foreground.
func (r *Runtime) Live() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.live
}

// Status reads the current state of the phase.
func (r *Runtime) Status() Status {
	if r.timer == nil {
		return Status{Unlimited: true}
	}
	snap := r.timer.Snapshot()
	return Status{
		Timer:   &snap,
		Display: timer.FormatClock(time.Duration(snap.RemainingMs) * time.Millisecond),
		Live:    r.Live(),
		Expired: snap.State == models.TimerStateDone,
	}
}

// Close tears the phase down: the deadline is cancelled, ticking stops, the
// wake lock request is withdrawn and visibility reports are ignored.
func (r *Runtime) Close() {
	if r.timer == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	r.unsubscribe()
	r.timer.Close()
	r.source.Stop()
	r.live = false
	r.wakeLock.Set(false)

	log.Debug().Msg("trade phase closed")
}

// reconcileLocked applies live = foregrounded && running to the tick cadence
// and the wake lock.
func (r *Runtime) reconcileLocked() {
	live := !r.closed &&
		r.visibility.Foregrounded() &&
		r.timer.State() == models.TimerStateRunning

	if live {
		r.source.SetInterval(r.tickInterval)
	} else {
		r.source.SetInterval(0)
	}
	r.wakeLock.Set(live)

	if live != r.live {
		log.Debug().Bool("live", live).Msg("trade timer liveness changed")
	}
	r.live = live
}

func (r *Runtime) handleVisibility(foregrounded bool) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.reconcileLocked()
	live := r.live
	r.mu.Unlock()

	// redraw straight away on resume; elapsed time comes from the clock
	if foregrounded && live {
		r.handleTick(r.source.Now())
	}
}

func (r *Runtime) handleTick(now time.Time) {
	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return
	}

	snap := r.timer.Snapshot()
	r.publish(events.TypeTimerTick, now, events.TimerTickPayload{
		Timer:    snap,
		Display:  timer.FormatClock(time.Duration(snap.RemainingMs) * time.Millisecond),
		TickedAt: now,
	})
}

func (r *Runtime) handleExpired() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.reconcileLocked()
	r.mu.Unlock()

	now := r.clock.Now()
	r.publish(events.TypeTimerExpired, now, events.TimerExpiredPayload{
		DurationMs: r.limit.Duration().Milliseconds(),
		ExpiredAt:  now,
	})
}

func (r *Runtime) publish(typ events.Type, at time.Time, payload any) {
	event, err := events.New(typ, at, payload)
	if err != nil {
		log.Error().Err(err).Str("event_type", string(typ)).Msg("failed to build trade event")
		return
	}
	r.sink.Publish(event)
}
