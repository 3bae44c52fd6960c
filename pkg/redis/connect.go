package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect parses cfg.ConnectionURL and pings the server until it answers,
// up to cfg.RetryAttempts times within cfg.ConnectTimeout.
//
// Returns ErrEmptyConnectionURL, ErrFailedToParseRedisConnString, or
// ErrRedisNotReady joined with the last failure.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	if !cfg.Enabled() {
		return nil, ErrEmptyConnectionURL
	}

	opts, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseRedisConnString, err)
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	attempts := max(cfg.RetryAttempts, 1)
	var lastErr error
	for attempt := range attempts {
		client := redis.NewClient(opts)
		if lastErr = client.Ping(ctx).Err(); lastErr == nil {
			return client, nil
		}
		_ = client.Close()

		if attempt == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrRedisNotReady, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}

	return nil, errors.Join(ErrRedisNotReady, lastErr)
}
