package ticker

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Clock is the subset of clockwork.Clock the source needs.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) clockwork.Ticker
}

// Source samples wall-clock time, optionally on a fixed cadence. Every
// reading it takes is kept as the last reading, whether it came from a tick
// or from Now.
type Source struct {
	clock  Clock
	onTick func(now time.Time)

	mu       sync.Mutex
	interval time.Duration
	last     time.Time
	cancel   chan struct{}
	gen      uint64
	stopped  bool
}

// New creates a source with no interval. onTick may be nil.
func New(clock Clock, onTick func(now time.Time)) *Source {
	return &Source{
		clock:  clock,
		onTick: onTick,
		last:   clock.Now(),
	}
}

// SetInterval changes the tick cadence. A non-positive interval stops
// ticking. Setting the current interval again does nothing.
func (s *Source) SetInterval(d time.Duration) {
	if d < 0 {
		d = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped || d == s.interval {
		return
	}
	s.cancelLocked()
	s.interval = d
	if d == 0 {
		log.Debug().Msg("clock source idle")
		return
	}

	gen := s.gen
	cancel := make(chan struct{})
	t := s.clock.NewTicker(d)
	s.cancel = cancel

	go s.run(t, cancel, gen)

	log.Debug().Dur("interval", d).Msg("clock source ticking")
}

// Interval returns the current cadence, zero when idle.
func (s *Source) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// Now takes a fresh reading.
func (s *Source) Now() time.Time {
	now := s.clock.Now()

	s.mu.Lock()
	if now.After(s.last) {
		s.last = now
	}
	s.mu.Unlock()

	return now
}

// Last returns the most recent reading without sampling the clock.
func (s *Source) Last() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Stop ends ticking for good.
func (s *Source) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()
	s.interval = 0
	s.stopped = true
}

func (s *Source) run(t clockwork.Ticker, cancel <-chan struct{}, gen uint64) {
	defer t.Stop()

	for {
		select {
		case <-cancel:
			return
		case <-t.Chan():
			now := s.clock.Now()

			s.mu.Lock()
			if gen != s.gen {
				s.mu.Unlock()
				return
			}
			s.last = now
			onTick := s.onTick
			s.mu.Unlock()

			if onTick != nil {
				onTick(now)
			}
		}
	}
}

func (s *Source) cancelLocked() {
	s.gen++
	if s.cancel != nil {
		close(s.cancel)
		s.cancel = nil
	}
}
