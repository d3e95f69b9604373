package redis

import "errors"

var (
	ErrEmptyConnectionURL           = errors.New("redis: connection url is empty")
	ErrFailedToParseRedisConnString = errors.New("redis: invalid connection url")
	ErrRedisNotReady                = errors.New("redis: server not ready")
	ErrHealthcheckFailed            = errors.New("redis: ping failed")

	// ErrSessionDecode means a cached session entry is not valid JSON.
	ErrSessionDecode = errors.New("redis: failed to decode session")
)
