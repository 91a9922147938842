// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/unifiedui/donation-service/internal/core/docdb"
)

// MockConnector is a mock implementation of docdb.Connector.
type MockConnector struct {
	mock.Mock
}

// Connect establishes a client.
func (m *MockConnector) Connect(ctx context.Context, opts docdb.ConnectOptions) (docdb.Client, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(docdb.Client), args.Error(1)
}

// MockDocDBClient is a mock implementation of docdb.Client.
type MockDocDBClient struct {
	mock.Mock
}

// Database returns a database handle.
func (m *MockDocDBClient) Database(name string) docdb.Database {
	args := m.Called(name)
	return args.Get(0).(docdb.Database)
}

// Ping checks the database connection.
func (m *MockDocDBClient) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// IsLive reports whether the client is connected.
func (m *MockDocDBClient) IsLive() bool {
	args := m.Called()
	return args.Bool(0)
}

// Close closes the database connection.
func (m *MockDocDBClient) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockDatabase is a mock implementation of docdb.Database.
type MockDatabase struct {
	mock.Mock
}

// Name returns the database name.
func (m *MockDatabase) Name() string {
	args := m.Called()
	return args.String(0)
}

// Collection returns a collection from the database.
func (m *MockDatabase) Collection(name string) docdb.Collection {
	args := m.Called(name)
	return args.Get(0).(docdb.Collection)
}

// CollectionExists reports whether the named collection exists.
func (m *MockDatabase) CollectionExists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

// CreateCollection creates the named collection.
func (m *MockDatabase) CreateCollection(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

// MockCollection is a mock implementation of docdb.Collection.
type MockCollection struct {
	mock.Mock
}

// Name returns the collection name.
func (m *MockCollection) Name() string {
	args := m.Called()
	return args.String(0)
}

// InsertOne inserts a single document.
func (m *MockCollection) InsertOne(ctx context.Context, document interface{}) (interface{}, error) {
	args := m.Called(ctx, document)
	return args.Get(0), args.Error(1)
}

// FindOne finds a single document.
func (m *MockCollection) FindOne(ctx context.Context, filter interface{}) docdb.SingleResult {
	args := m.Called(ctx, filter)
	return args.Get(0).(docdb.SingleResult)
}

// CountDocuments counts documents matching the filter.
func (m *MockCollection) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// CreateIndex creates a single index.
func (m *MockCollection) CreateIndex(ctx context.Context, spec docdb.IndexSpec) (string, error) {
	args := m.Called(ctx, spec)
	return args.String(0), args.Error(1)
}

// ListIndexes lists the collection indexes.
func (m *MockCollection) ListIndexes(ctx context.Context) ([]docdb.IndexInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]docdb.IndexInfo), args.Error(1)
}

// MockSingleResult is a mock implementation of docdb.SingleResult.
type MockSingleResult struct {
	mock.Mock
}

// Decode decodes the result.
func (m *MockSingleResult) Decode(v interface{}) error {
	args := m.Called(v)
	return args.Error(0)
}

// Err returns the result error.
func (m *MockSingleResult) Err() error {
	args := m.Called()
	return args.Error(0)
}
