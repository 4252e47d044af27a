package main

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/sidereal/go/internal/game"
	"github.com/mcdev12/sidereal/go/internal/gateway"
	"github.com/mcdev12/sidereal/go/internal/power"
	"github.com/mcdev12/sidereal/go/internal/settings"
	"github.com/mcdev12/sidereal/go/internal/trade"
	"github.com/rs/zerolog/log"
)

type Services struct {
	App      *game.App
	Gateway  *gateway.Service
	Watcher  *settings.Watcher
	WakeLock *power.WakeLock

	closeStore func()
}

func setupServices(ctx context.Context, config *Config) (*Services, error) {
	// Wire up dependency injection chain
	// Store → Repository → App → Gateway
	store, closeStore, err := setupStore(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to open preference store: %w", err)
	}
	repo := settings.NewRepository(store)

	cm := gateway.NewConnectionManager(gateway.DefaultConnectionConfig())
	platform := gateway.NewRemotePlatform(cm)
	visibility := power.NewVisibility()
	wakeLock := power.NewWakeLock(platform)

	app := game.NewApp(
		clockwork.NewRealClock(),
		repo,
		visibility,
		wakeLock,
		cm,
		trade.WithTickInterval(config.Trade.TickInterval),
	)
	if _, err := app.ReloadPreferences(ctx); err != nil {
		// a corrupt store should not keep the app from starting
		log.Warn().Err(err).Msg("using default preferences")
	}

	watcher, err := setupWatcher(config)
	if err != nil {
		closeStore()
		return nil, fmt.Errorf("failed to watch preferences: %w", err)
	}

	return &Services{
		App:        app,
		Gateway:    gateway.NewService(cm, platform, visibility, app),
		Watcher:    watcher,
		WakeLock:   wakeLock,
		closeStore: closeStore,
	}, nil
}

// Close tears the session down and releases the store.
func (s *Services) Close() {
	s.App.Close()
	s.WakeLock.Close()
	s.closeStore()
}
