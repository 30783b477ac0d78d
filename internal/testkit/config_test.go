package testkit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("FXDESK_TEST_REDIS_ADDR", "localhost:6399")
	t.Setenv("FXDESK_TEST_STARTUP_TIMEOUT", "30")
	t.Setenv("FXDESK_TEST_KEEP_CONTAINERS", "true")

	cfg := LoadConfig()

	assert.Equal(t, "localhost:6399", cfg.RedisAddr)
	assert.Equal(t, 30*time.Second, cfg.StartupTimeout)
	assert.True(t, cfg.KeepContainers)
	assert.Equal(t, "postgres:18.1-alpine", cfg.PGImage)
}

func TestParseTimeout(t *testing.T) {
	assert.Equal(t, 2*time.Minute, parseTimeout("2m", time.Second))
	assert.Equal(t, 45*time.Second, parseTimeout("45", time.Second))
	assert.Equal(t, time.Second, parseTimeout("soon", time.Second))
}
