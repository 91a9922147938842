// Package cache defines the cache interface.
package cache

import (
	"context"
	"time"
)

// Client defines the cache operations used for cross-process coordination.
type Client interface {
	// SetNX stores value under key only if the key does not exist yet.
	// Returns true if the value was stored.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)

	// CompareAndDelete removes key only while it still holds expected.
	// The comparison and the delete happen atomically.
	// Returns true if the key was deleted.
	CompareAndDelete(ctx context.Context, key string, expected []byte) (bool, error)

	// Ping checks if the cache connection is alive.
	Ping(ctx context.Context) error

	// Close closes the cache connection.
	Close() error
}
