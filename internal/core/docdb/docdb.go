// Package docdb defines the document database interface.
package docdb

import (
	"context"
	"errors"
)

// ErrNoDocuments is returned by SingleResult when no document matched the filter.
var ErrNoDocuments = errors.New("no documents in result")

// SingleResult represents the result of a FindOne operation.
type SingleResult interface {
	// Decode decodes the result into the provided interface.
	Decode(v interface{}) error
	// Err returns any error from the operation.
	Err() error
}

// Collection is a ready-to-query handle on a named collection.
type Collection interface {
	// Name returns the collection name.
	Name() string

	// InsertOne inserts a single document and returns its ID.
	InsertOne(ctx context.Context, document interface{}) (interface{}, error)

	// FindOne finds a single document.
	FindOne(ctx context.Context, filter interface{}) SingleResult

	// CountDocuments counts documents matching the filter.
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)

	// CreateIndex creates a single index and returns the name the server assigned.
	CreateIndex(ctx context.Context, spec IndexSpec) (string, error)

	// ListIndexes returns the indexes currently defined on the collection.
	ListIndexes(ctx context.Context) ([]IndexInfo, error)
}

// Database is a handle scoped to one named database.
type Database interface {
	// Name returns the database name.
	Name() string

	// Collection returns a handle for the named collection. No I/O is performed.
	Collection(name string) Collection

	// CollectionExists lists collections filtered by name.
	CollectionExists(ctx context.Context, name string) (bool, error)

	// CreateCollection explicitly creates the named collection.
	CreateCollection(ctx context.Context, name string) error
}
