package billing

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduper remembers processed webhook event ids so redeliveries are
// acknowledged without touching the store again.
type Deduper interface {
	// Claim marks the event as being processed. It returns false when the
	// event was already claimed.
	Claim(ctx context.Context, eventID string) (bool, error)

	// Release forgets the event so a redelivery is processed again.
	Release(ctx context.Context, eventID string) error
}

// NoOpDeduper claims every event. Used when Redis is not configured.
type NoOpDeduper struct{}

func (NoOpDeduper) Claim(context.Context, string) (bool, error) { return true, nil }

func (NoOpDeduper) Release(context.Context, string) error { return nil }

const dedupKeyPrefix = "planbridge:webhook:"

// RedisDeduper claims event ids with SET NX and a TTL.
type RedisDeduper struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisDeduper creates a deduper. A non-positive ttl defaults to 24h.
func NewRedisDeduper(client redis.UniversalClient, ttl time.Duration) *RedisDeduper {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisDeduper{client: client, ttl: ttl}
}

func (d *RedisDeduper) Claim(ctx context.Context, eventID string) (bool, error) {
	ok, err := d.client.SetNX(ctx, DedupKey(eventID), time.Now().UTC().Format(time.RFC3339), d.ttl).Result()
	if err != nil {
		return false, errors.Join(ErrClaimFailed, err)
	}
	return ok, nil
}

func (d *RedisDeduper) Release(ctx context.Context, eventID string) error {
	return d.client.Del(ctx, DedupKey(eventID)).Err()
}

// DedupKey is the Redis key used for an event id.
func DedupKey(eventID string) string {
	return dedupKeyPrefix + eventID
}
