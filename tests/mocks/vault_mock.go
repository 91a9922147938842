// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockVaultClient is a mock implementation of vault.Client.
type MockVaultClient struct {
	mock.Mock
}

// NewMockVaultClient creates a new MockVaultClient.
func NewMockVaultClient() *MockVaultClient {
	return &MockVaultClient{}
}

// GetSecret retrieves a secret.
func (m *MockVaultClient) GetSecret(ctx context.Context, uri string) (string, error) {
	args := m.Called(ctx, uri)
	return args.String(0), args.Error(1)
}

// Close closes the vault connection.
func (m *MockVaultClient) Close() error {
	args := m.Called()
	return args.Error(0)
}
