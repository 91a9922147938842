// Package docdb defines the document database client interface.
package docdb

import (
	"context"
)

// Client is an established session pool to a document database server.
type Client interface {
	// Database returns a handle for the named database.
	Database(name string) Database

	// Ping verifies the database connection with a round trip.
	Ping(ctx context.Context) error

	// IsLive reports whether the client is still connected without a round trip.
	IsLive() bool

	// Close closes the database connection.
	Close(ctx context.Context) error
}

// Connector establishes new clients.
type Connector interface {
	// Connect dials the server described by opts and confirms it is reachable.
	Connect(ctx context.Context, opts ConnectOptions) (Client, error)
}
