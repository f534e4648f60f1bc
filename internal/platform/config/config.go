// Package config loads and validates the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" default:"development"`
	Port        string `env:"PORT" default:"3001"`
	DatabaseURL string `env:"DATABASE_URL"`
	LogLevel    string `env:"LOG_LEVEL" default:"info"`
	LogFormat   string `env:"LOG_FORMAT" default:"text"`

	// HeartbeatInterval is how often each stream connection receives a ping
	// frame, independent of event traffic.
	HeartbeatInterval time.Duration `env:"HEARTBEAT_INTERVAL" default:"15s"`

	// SubscriberQueueSize bounds each subscriber's undelivered-event queue.
	// When full, the oldest queued event is discarded.
	SubscriberQueueSize int `env:"SUBSCRIBER_QUEUE_SIZE" default:"1000"`

	MaxStreamConnections int64 `env:"MAX_STREAM_CONNECTIONS" default:"10000"`

	CORSAllowOrigins string `env:"CORS_ALLOW_ORIGINS" default:"*"`

	RateLimitPerSecond float64 `env:"RATE_LIMIT_PER_SECOND" default:"20"`
	RateLimitBurst     int     `env:"RATE_LIMIT_BURST" default:"40"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if cfg.HeartbeatInterval <= 0 {
		return errors.New("HEARTBEAT_INTERVAL must be positive")
	}
	if cfg.SubscriberQueueSize <= 0 {
		return errors.New("SUBSCRIBER_QUEUE_SIZE must be positive")
	}
	if cfg.MaxStreamConnections <= 0 {
		return errors.New("MAX_STREAM_CONNECTIONS must be positive")
	}
	if cfg.RateLimitPerSecond <= 0 || cfg.RateLimitBurst <= 0 {
		return errors.New("rate limit settings must be positive")
	}
	return nil
}
