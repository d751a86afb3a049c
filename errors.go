package ssocache

import "errors"

// Sentinel errors for cache operations.
var (
	// ErrGatewayRequired is returned by New when no storage gateway is provided.
	ErrGatewayRequired = errors.New("ssocache: storage gateway is required")

	// ErrInvalidTTL is returned when the time-to-live is not a positive
	// whole number of milliseconds.
	ErrInvalidTTL = errors.New("ssocache: ttl must be a positive integer number of milliseconds")

	// ErrInvalidTable is returned when the configured table name is not a plain SQL identifier.
	ErrInvalidTable = errors.New("ssocache: invalid table name")

	// ErrDuplicateKey is returned by Save when an entry with the same key already exists.
	ErrDuplicateKey = errors.New("ssocache: duplicate key")

	// ErrStorage wraps any failure reported by the storage gateway.
	ErrStorage = errors.New("ssocache: storage failure")

	// ErrMarshal is returned when value serialization fails.
	ErrMarshal = errors.New("ssocache: failed to marshal value")

	// ErrUnmarshal is returned when a stored value cannot be deserialized.
	ErrUnmarshal = errors.New("ssocache: failed to unmarshal value")
)
