package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":5050", cfg.HTTP.Addr)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, "idv_verifications", cfg.Search.Index)
	assert.Equal(t, 5, cfg.Search.MaxAttempts)
	assert.True(t, cfg.Search.Enabled)
	assert.Nil(t, cfg.Events.Brokers)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("LYNX_ADDR", ":9999")
	t.Setenv("SEARCH_ENABLED", "false")
	t.Setenv("SEARCH_RETRY_DELAY", "500ms")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("SERVER_SHUTDOWN_TIMEOUT", "3s")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.HTTP.Addr)
	assert.False(t, cfg.Search.Enabled)
	assert.Equal(t, 500*time.Millisecond, cfg.Search.RetryDelay)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Events.Brokers)
	assert.Equal(t, 3*time.Second, cfg.HTTP.ShutdownTimeout)
}

func TestFromEnvRejectsBadDuration(t *testing.T) {
	t.Setenv("SERVER_READ_TIMEOUT", "not-a-duration")

	_, err := FromEnv()
	assert.Error(t, err)
}
