package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Capture   CaptureConfig
	Broadcast BroadcastConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP/WebSocket server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8765"`
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
}

// CaptureConfig holds the producer-side configuration.
type CaptureConfig struct {
	DeviceIndex int     `envconfig:"CAPTURE_DEVICE" default:"0"`
	TargetFPS   float64 `envconfig:"CAPTURE_FPS" default:"30"`
	FrameWidth  int     `envconfig:"CAPTURE_WIDTH" default:"640"`
	FrameHeight int     `envconfig:"CAPTURE_HEIGHT" default:"480"`
}

// BroadcastConfig holds the delivery-side configuration.
type BroadcastConfig struct {
	TargetFPS float64 `envconfig:"BROADCAST_FPS" default:"30"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds connection rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"20"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"40"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8765",
			Host:            "0.0.0.0",
			ShutdownTimeout: 5 * time.Second,
		},
		Capture: CaptureConfig{
			DeviceIndex: 0,
			TargetFPS:   30,
			FrameWidth:  640,
			FrameHeight: 480,
		},
		Broadcast: BroadcastConfig{
			TargetFPS: 30,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 20,
			Burst:             40,
			Enabled:           true,
		},
	}
}
