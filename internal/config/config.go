package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevelRaw string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile     string `env:"LOG_FILE" envDefault:"story-player.log"`
	LogLevel    slog.Level

	StoryPath    string `env:"STORY_PATH" envDefault:"data/stories.json"`
	ManifestPath string `env:"MANIFEST_PATH"`

	StoreBackend string `env:"STORE_BACKEND" envDefault:"sqlite"`
	RedisURL     string `env:"REDIS_URL" envDefault:"redis://localhost:6379"`
	SQLitePath   string `env:"SQLITE_PATH" envDefault:"story-player.db"`
	EndingsKey   string `env:"ENDINGS_KEY" envDefault:"endings"`

	WatchStory    bool `env:"WATCH_STORY" envDefault:"false"`
	PublishEvents bool `env:"PUBLISH_EVENTS" envDefault:"false"`
	SeedEndings   bool `env:"SEED_ENDINGS" envDefault:"true"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	cfg.LogLevel = parseLogLevel(cfg.LogLevelRaw)
	cfg.StoreBackend = strings.ToLower(cfg.StoreBackend)

	switch cfg.StoreBackend {
	case "memory", "redis", "sqlite":
	default:
		return nil, fmt.Errorf("invalid STORE_BACKEND %q (supported: memory, redis, sqlite)", cfg.StoreBackend)
	}
	if cfg.PublishEvents && cfg.RedisURL == "" {
		return nil, fmt.Errorf("PUBLISH_EVENTS requires REDIS_URL")
	}
	return &cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
