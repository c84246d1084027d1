package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "8765", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)

	assert.Equal(t, 30.0, cfg.Capture.TargetFPS)
	assert.Equal(t, 640, cfg.Capture.FrameWidth)
	assert.Equal(t, 480, cfg.Capture.FrameHeight)

	assert.Equal(t, 30.0, cfg.Broadcast.TargetFPS)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoadOrDefault(t *testing.T) {
	cfg := LoadOrDefault()

	assert.NotNil(t, cfg)
	assert.Equal(t, "8765", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PORT":             "9000",
		"HOST":             "127.0.0.1",
		"SHUTDOWN_TIMEOUT": "2s",
		"CAPTURE_FPS":      "60",
		"CAPTURE_WIDTH":    "1280",
		"CAPTURE_HEIGHT":   "720",
		"BROADCAST_FPS":    "15",
		"LOG_LEVEL":        "debug",
		"LOG_DEV":          "true",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 2*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 60.0, cfg.Capture.TargetFPS)
	assert.Equal(t, 1280, cfg.Capture.FrameWidth)
	assert.Equal(t, 720, cfg.Capture.FrameHeight)
	assert.Equal(t, 15.0, cfg.Broadcast.TargetFPS)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
}
