package gateway

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mcdev12/sidereal/go/internal/events"
	"github.com/mcdev12/sidereal/go/internal/power"
	"github.com/rs/zerolog/log"
)

// ErrNoClient is returned when a wake lock is requested with nobody
// connected to hold it.
var ErrNoClient = errors.New("no client connected")

// RemotePlatform asks connected clients to hold the screen wake lock. The
// first answer to a request decides it.
type RemotePlatform struct {
	cm *ConnectionManager

	mu      sync.Mutex
	waiters []chan WakeLockResult
}

// NewRemotePlatform creates a platform that talks through cm.
func NewRemotePlatform(cm *ConnectionManager) *RemotePlatform {
	return &RemotePlatform{cm: cm}
}

// RequestWakeLock sends a WakeLock acquire event and waits for the client's
// answer.
func (p *RemotePlatform) RequestWakeLock(ctx context.Context) (power.Sentinel, error) {
	if p.cm.ConnectionCount() == 0 {
		return nil, ErrNoClient
	}

	reply := make(chan WakeLockResult, 1)
	p.mu.Lock()
	p.waiters = append(p.waiters, reply)
	p.mu.Unlock()

	p.send(true)

	select {
	case result := <-reply:
		if !result.Acquired {
			if result.Error == "" {
				return nil, errors.New("wake lock refused")
			}
			return nil, errors.New(result.Error)
		}
		return &remoteSentinel{platform: p}, nil
	case <-ctx.Done():
		p.dropWaiter(reply)
		return nil, ctx.Err()
	}
}

// resolve hands a client's answer to the oldest outstanding request.
func (p *RemotePlatform) resolve(result WakeLockResult) {
	p.mu.Lock()
	if len(p.waiters) == 0 {
		p.mu.Unlock()
		if result.Acquired {
			// nobody is waiting for it any more
			p.send(false)
		}
		log.Debug().Bool("acquired", result.Acquired).Msg("unsolicited wake lock result")
		return
	}
	reply := p.waiters[0]
	p.waiters = p.waiters[1:]
	p.mu.Unlock()

	reply <- result
}

func (p *RemotePlatform) dropWaiter(reply chan WakeLockResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, w := range p.waiters {
		if w == reply {
			p.waiters = append(p.waiters[:i], p.waiters[i+1:]...)
			return
		}
	}
}

func (p *RemotePlatform) send(acquire bool) {
	event, err := events.New(events.TypeWakeLock, time.Now(), events.WakeLockPayload{Acquire: acquire})
	if err != nil {
		log.Error().Err(err).Msg("failed to build wake lock event")
		return
	}
	p.cm.Publish(event)
}

type remoteSentinel struct {
	platform *RemotePlatform
	once     sync.Once
}

func (s *remoteSentinel) Release() error {
	s.once.Do(func() { s.platform.send(false) })
	return nil
}
