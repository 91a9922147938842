// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/unifiedui/donation-service/internal/core/docdb"
	"github.com/unifiedui/donation-service/internal/services/connection"
)

// MockConnectionManager is a mock implementation of the connection manager.
type MockConnectionManager struct {
	mock.Mock
}

// CheckHealth probes the database.
func (m *MockConnectionManager) CheckHealth(ctx context.Context) connection.HealthStatus {
	args := m.Called(ctx)
	return args.Get(0).(connection.HealthStatus)
}

// Collection returns the donations collection and its provisioning outcome.
func (m *MockConnectionManager) Collection(ctx context.Context) (docdb.Collection, *connection.ProvisionResult, error) {
	args := m.Called(ctx)
	var coll docdb.Collection
	if args.Get(0) != nil {
		coll = args.Get(0).(docdb.Collection)
	}
	var result *connection.ProvisionResult
	if args.Get(1) != nil {
		result = args.Get(1).(*connection.ProvisionResult)
	}
	return coll, result, args.Error(2)
}

// DonationCollection returns the donations collection.
func (m *MockConnectionManager) DonationCollection(ctx context.Context) (docdb.Collection, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(docdb.Collection), args.Error(1)
}
