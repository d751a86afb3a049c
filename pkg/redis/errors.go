package redis

import "errors"

var (
	// ErrEmptyConnectionURL is returned by Open when Config.URL is empty.
	ErrEmptyConnectionURL = errors.New("redis: empty connection URL")
	// ErrFailedToParseURL is returned for a URL that is not redis:// or rediss://.
	ErrFailedToParseURL = errors.New("redis: failed to parse connection URL")
	// ErrConnectionFailed is returned when PING fails after every retry.
	ErrConnectionFailed = errors.New("redis: failed to establish connection")
	// ErrHealthcheckFailed is returned by the readiness check.
	ErrHealthcheckFailed = errors.New("redis: healthcheck failed")

	errNilClient = errors.New("client is nil")
)
