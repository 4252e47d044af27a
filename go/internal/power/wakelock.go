package power

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrUnsupported is returned by platforms without a wake lock.
var ErrUnsupported = errors.New("wake lock not supported")

// Sentinel is a held wake lock.
type Sentinel interface {
	Release() error
}

// Platform acquires screen wake locks. RequestWakeLock may block until the
// platform answers or ctx is cancelled.
type Platform interface {
	RequestWakeLock(ctx context.Context) (Sentinel, error)
}

// Unsupported is a Platform that never grants a wake lock.
type Unsupported struct{}

// RequestWakeLock always fails with ErrUnsupported.
func (Unsupported) RequestWakeLock(context.Context) (Sentinel, error) {
	return nil, ErrUnsupported
}

// WakeLock reconciles a desired wake-lock state with the platform. Set may be
// called any number of times with the same value. Acquisition runs in the
// background; failures are logged and otherwise ignored.
type WakeLock struct {
	platform Platform

	mu      sync.Mutex
	want    bool
	held    Sentinel
	pending context.CancelFunc
	gen     uint64
	closed  bool
}

// NewWakeLock creates a reconciler that holds nothing.
func NewWakeLock(platform Platform) *WakeLock {
	if platform == nil {
		platform = Unsupported{}
	}
	return &WakeLock{platform: platform}
}

// Set records whether a wake lock is wanted and moves toward that state.
func (w *WakeLock) Set(want bool) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.want = want

	if want {
		if w.held == nil && w.pending == nil {
			ctx, cancel := context.WithCancel(context.Background())
			w.pending = cancel
			go w.acquire(ctx, cancel, w.gen)
		}
		w.mu.Unlock()
		return
	}

	held := w.held
	w.held = nil
	if w.pending != nil {
		// a grant that still arrives for this request is released on arrival
		w.pending()
		w.pending = nil
		w.gen++
	}
	w.mu.Unlock()

	if held != nil {
		release(held)
	}
}

// Held reports whether a wake lock is currently held.
func (w *WakeLock) Held() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.held != nil
}

// Close releases any held wake lock and ignores later calls to Set.
func (w *WakeLock) Close() {
	w.Set(false)

	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
}

func (w *WakeLock) acquire(ctx context.Context, cancel context.CancelFunc, gen uint64) {
	defer cancel()

	sentinel, err := w.platform.RequestWakeLock(ctx)

	w.mu.Lock()
	withdrawn := gen != w.gen
	if !withdrawn {
		w.pending = nil
	}
	if err != nil {
		w.mu.Unlock()
		switch {
		case errors.Is(err, ErrUnsupported):
			log.Info().Msg("wake lock not supported")
		case withdrawn && errors.Is(err, context.Canceled):
			log.Debug().Msg("wake lock request withdrawn")
		default:
			log.Warn().Err(err).Msg("failed to acquire wake lock")
		}
		return
	}
	if withdrawn || !w.want || w.closed {
		w.mu.Unlock()
		log.Debug().Msg("releasing wake lock granted after it was withdrawn")
		release(sentinel)
		return
	}
	w.held = sentinel
	w.mu.Unlock()

	log.Debug().Msg("wake lock acquired")
}

func release(s Sentinel) {
	if err := s.Release(); err != nil {
		log.Warn().Err(err).Msg("failed to release wake lock")
		return
	}
	log.Debug().Msg("wake lock released")
}
