// Package mongo connects to MongoDB with env-driven pool settings and retry.
package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// New connects and pings the server, retrying up to cfg.RetryAttempts times.
// The returned error joins ErrFailedToConnectToMongo with the last failure.
func New(ctx context.Context, cfg Config) (*mongo.Client, error) {
	if cfg.ConnectionURL == "" {
		return nil, ErrEmptyConnectionURL
	}

	attempts := max(cfg.RetryAttempts, 1)
	var lastErr error
	for attempt := range attempts {
		client, err := mongo.Connect(ClientOptions(cfg))
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
			err = client.Ping(pingCtx, nil)
			cancel()
			if err == nil {
				return client, nil
			}
			_ = client.Disconnect(context.Background())
		}
		lastErr = err

		if attempt == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrFailedToConnectToMongo, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}

	return nil, errors.Join(ErrFailedToConnectToMongo, lastErr)
}

// NewWithDatabase connects and returns the configured database handle.
func NewWithDatabase(ctx context.Context, cfg Config) (*mongo.Database, error) {
	client, err := New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return client.Database(cfg.Database), nil
}

// ClientOptions maps cfg onto driver options.
func ClientOptions(cfg Config) *options.ClientOptions {
	return options.Client().
		ApplyURI(cfg.ConnectionURL).
		SetAppName(cfg.AppName).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime).
		SetRetryWrites(cfg.RetryWrites).
		SetRetryReads(cfg.RetryReads)
}
