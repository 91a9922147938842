package connection

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/unifiedui/donation-service/internal/core/cache"
)

// ProvisionLock coordinates collection provisioning across processes.
type ProvisionLock interface {
	// Acquire takes the lock for key. Returns false if another holder owns it.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release gives up the lock for key.
	Release(ctx context.Context, key string) error
}

// CacheLock is a ProvisionLock backed by a cache client's SetNX.
type CacheLock struct {
	cache cache.Client
	owner []byte
}

// NewCacheLock creates a provisioning lock on top of the given cache client.
func NewCacheLock(c cache.Client) (*CacheLock, error) {
	if c == nil {
		return nil, fmt.Errorf("cache client is required")
	}

	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}

	return &CacheLock{
		cache: c,
		owner: []byte(fmt.Sprintf("%s:%d:%s", host, os.Getpid(), uuid.NewString())),
	}, nil
}

// Acquire implements ProvisionLock.
func (l *CacheLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := l.cache.SetNX(ctx, key, l.owner, ttl)
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	return ok, nil
}

// Release implements ProvisionLock. The key is only deleted while this process owns it.
func (l *CacheLock) Release(ctx context.Context, key string) error {
	if _, err := l.cache.CompareAndDelete(ctx, key, l.owner); err != nil {
		return fmt.Errorf("failed to release lock %s: %w", key, err)
	}
	return nil
}
