package settings

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// WatcherConfig configures a Watcher.
type WatcherConfig struct {
	DatabaseURL   string        // Postgres DSN for LISTEN/NOTIFY
	NotifyChannel string        // Channel name to LISTEN on
	PingInterval  time.Duration
}

// DefaultWatcherConfig returns defaults matching PostgresStore.
func DefaultWatcherConfig() WatcherConfig {
	return WatcherConfig{
		NotifyChannel: DefaultNotifyChannel,
		PingInterval:  90 * time.Second,
	}
}

// Watcher reports preference changes made by other processes sharing the
// same Postgres database.
type Watcher struct {
	listener *pq.Listener
	cfg      WatcherConfig
}

// NewWatcher starts listening on cfg.NotifyChannel.
func NewWatcher(cfg WatcherConfig) (*Watcher, error) {
	l := pq.NewListener(
		cfg.DatabaseURL,
		10*time.Second,
		time.Minute,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				log.Error().Err(err).Msg("preference listener event")
			}
		},
	)
	if err := l.Listen(cfg.NotifyChannel); err != nil {
		l.Close()
		return nil, fmt.Errorf("failed to listen to channel: %w", err)
	}

	log.Info().
		Str("channel", cfg.NotifyChannel).
		Msg("listening for preference changes")

	return &Watcher{listener: l, cfg: cfg}, nil
}

// Start calls onChange with the key of every change until ctx is done. A
// lost connection is reported with an empty key, since changes may have
// been missed.
func (w *Watcher) Start(ctx context.Context, onChange func(key string)) error {
	pingTicker := time.NewTicker(w.cfg.PingInterval)
	defer pingTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("preference watcher shutting down")
			return w.Stop()
		case note := <-w.listener.Notify:
			if note == nil {
				// reconnected; anything may have changed meanwhile
				onChange("")
				continue
			}
			log.Debug().Str("key", note.Extra).Msg("preference changed")
			onChange(note.Extra)
		case <-pingTicker.C:
			if err := w.listener.Ping(); err != nil {
				log.Error().Err(err).Msg("failed to ping preference listener")
			}
		}
	}
}

// Stop closes the listener.
func (w *Watcher) Stop() error {
	return w.listener.Close()
}
