package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/planbridge/pkg/config"
	"github.com/dmitrymomot/planbridge/pkg/redis"
)

func TestConfig(t *testing.T) {
	t.Parallel()

	t.Run("disabled without url", func(t *testing.T) {
		t.Parallel()
		cfg, err := config.Parse[redis.Config](map[string]string{})
		require.NoError(t, err)
		assert.False(t, cfg.Enabled())
		assert.Equal(t, 3, cfg.RetryAttempts)
	})

	t.Run("enabled with url", func(t *testing.T) {
		t.Parallel()
		cfg, err := config.Parse[redis.Config](map[string]string{"REDIS_URL": "redis://localhost:6379/0"})
		require.NoError(t, err)
		assert.True(t, cfg.Enabled())
	})
}

func TestConnect_Errors(t *testing.T) {
	t.Parallel()

	t.Run("empty url", func(t *testing.T) {
		t.Parallel()
		_, err := redis.Connect(context.Background(), redis.Config{})
		assert.ErrorIs(t, err, redis.ErrEmptyConnectionURL)
	})

	t.Run("invalid url", func(t *testing.T) {
		t.Parallel()
		_, err := redis.Connect(context.Background(), redis.Config{ConnectionURL: "http://not-redis"})
		assert.ErrorIs(t, err, redis.ErrFailedToParseRedisConnString)
	})

	t.Run("unreachable server", func(t *testing.T) {
		t.Parallel()
		_, err := redis.Connect(context.Background(), redis.Config{
			ConnectionURL:  "redis://127.0.0.1:1/0",
			RetryAttempts:  2,
			RetryInterval:  10 * time.Millisecond,
			ConnectTimeout: time.Second,
		})
		assert.ErrorIs(t, err, redis.ErrRedisNotReady)
	})
}
