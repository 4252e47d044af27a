package main

import (
	"context"
	"fmt"

	"github.com/mcdev12/sidereal/go/internal/dbconfig"
	"github.com/mcdev12/sidereal/go/internal/settings"
	"github.com/rs/zerolog/log"
)

// setupStore opens the preference store named by the config. The returned
// function releases it.
func setupStore(ctx context.Context, config *Config) (settings.Store, func(), error) {
	switch config.Preferences.Driver {
	case "file":
		store, err := settings.NewFileStore(config.Preferences.File.Path)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("path", config.Preferences.File.Path).Msg("using file preference store")
		return store, func() {}, nil

	case "postgres":
		dbCfg := dbconfig.NewConfigFromEnv()
		store, err := settings.NewPostgresStore(ctx, dbCfg.DSN(), config.Preferences.Postgres.NotifyChannel)
		if err != nil {
			return nil, nil, err
		}
		log.Info().
			Str("host", dbCfg.Host).
			Int("port", dbCfg.Port).
			Str("database", dbCfg.Database).
			Msg("using postgres preference store")
		return store, store.Close, nil

	case "redis":
		store, err := settings.NewRedisStore(ctx, config.Preferences.Redis)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close redis client")
			}
		}, nil

	case "memory":
		log.Warn().Msg("preferences will not survive a restart")
		return settings.NewMemoryStore(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown preferences driver %q", config.Preferences.Driver)
	}
}

// setupWatcher listens for preference changes made by other processes. Only
// the postgres store announces them.
func setupWatcher(config *Config) (*settings.Watcher, error) {
	if config.Preferences.Driver != "postgres" || !config.Preferences.Postgres.Watch {
		return nil, nil
	}
	cfg := settings.DefaultWatcherConfig()
	cfg.DatabaseURL = dbconfig.NewConfigFromEnv().DSN()
	cfg.NotifyChannel = config.Preferences.Postgres.NotifyChannel
	return settings.NewWatcher(cfg)
}
