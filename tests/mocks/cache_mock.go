// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockCacheClient is a mock implementation of cache.Client.
type MockCacheClient struct {
	mock.Mock
}

// NewMockCacheClient creates a new MockCacheClient.
func NewMockCacheClient() *MockCacheClient {
	return &MockCacheClient{}
}

// SetNX stores a value if the key is absent.
func (m *MockCacheClient) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, ttl)
	return args.Bool(0), args.Error(1)
}

// CompareAndDelete removes a value if it matches expected.
func (m *MockCacheClient) CompareAndDelete(ctx context.Context, key string, expected []byte) (bool, error) {
	args := m.Called(ctx, key, expected)
	return args.Bool(0), args.Error(1)
}

// Ping checks the cache connection.
func (m *MockCacheClient) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close closes the cache connection.
func (m *MockCacheClient) Close() error {
	args := m.Called()
	return args.Error(0)
}
