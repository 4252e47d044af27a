package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/mcdev12/sidereal/go/internal/settings"
	"github.com/mcdev12/sidereal/go/internal/trade"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Trade struct {
		TickInterval time.Duration `yaml:"tick_interval"`
	} `yaml:"trade"`

	Preferences struct {
		// Driver is one of file, postgres, redis or memory
		Driver string `yaml:"driver"`
		File   struct {
			Path string `yaml:"path"`
		} `yaml:"file"`
		Postgres struct {
			NotifyChannel string `yaml:"notify_channel"`
			Watch         bool   `yaml:"watch"`
		} `yaml:"postgres"`
		Redis settings.RedisConfig `yaml:"redis"`
	} `yaml:"preferences"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

func defaultConfig() *Config {
	var config Config
	config.Server.Addr = "127.0.0.1:8080"
	config.Trade.TickInterval = trade.DefaultTickInterval
	config.Preferences.Driver = "file"
	config.Preferences.File.Path = ".sidereal/preferences.yaml"
	config.Preferences.Postgres.NotifyChannel = settings.DefaultNotifyChannel
	config.Preferences.Redis.Addr = "localhost:6379"
	config.Log.Level = "info"
	return &config
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// loadConfig reads path over the defaults, then applies environment
// overrides. A missing file is not an error.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	config.Server.Addr = getEnv("SERVER_ADDR", config.Server.Addr)
	config.Log.Level = getEnv("LOG_LEVEL", config.Log.Level)
	config.Preferences.Driver = getEnv("PREFERENCES_DRIVER", config.Preferences.Driver)
	config.Preferences.File.Path = getEnv("PREFERENCES_FILE", config.Preferences.File.Path)
	config.Preferences.Redis.Addr = getEnv("REDIS_ADDR", config.Preferences.Redis.Addr)
	config.Preferences.Redis.Password = getEnv("REDIS_PASSWORD", config.Preferences.Redis.Password)
	config.Preferences.Redis.DB = getEnvAsInt("REDIS_DB", config.Preferences.Redis.DB)

	if config.Trade.TickInterval <= 0 {
		return nil, fmt.Errorf("trade.tick_interval must be positive, got %s", config.Trade.TickInterval)
	}
	return config, nil
}
