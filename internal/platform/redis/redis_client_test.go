package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "")
	t.Setenv("REDIS_PASSWORD", "secret")

	cfg := LoadConfig()
	assert.Equal(t, "cache:6379", cfg.Addr)
	assert.Equal(t, "secret", cfg.Password)
	assert.True(t, cfg.Enabled())
}

func TestNewRedisClient_NotConfigured(t *testing.T) {
	t.Setenv("REDIS_URL", "")
	t.Setenv("REDIS_HOST", "")

	rdb, err := NewRedisClient(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rdb)
}

func TestNewRedisClient_BadURL(t *testing.T) {
	t.Setenv("REDIS_URL", "http://not-redis")

	rdb, err := NewRedisClient(context.Background())
	require.Error(t, err)
	assert.Nil(t, rdb)
}
