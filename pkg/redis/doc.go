// Package redis connects to Redis through go-redis with retry and exposes a
// readiness check.
//
// Redis is optional for this service: when REDIS_URL is empty Config.Enabled
// reports false and callers skip the features that need it (webhook event
// deduplication).
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//	if cfg.Enabled() {
//		client, err := redis.Connect(ctx, cfg)
//		...
//	}
package redis
