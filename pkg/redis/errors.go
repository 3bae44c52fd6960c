package redis

import "errors"

var (
	ErrEmptyConnectionURL           = errors.New("redis: connection URL is empty")
	ErrFailedToParseRedisConnString = errors.New("redis: invalid connection URL")
	ErrRedisNotReady                = errors.New("redis: server did not answer ping")
	ErrHealthcheckFailed            = errors.New("redis: healthcheck failed")
)
