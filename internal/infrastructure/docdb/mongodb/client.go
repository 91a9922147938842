// Package mongodb provides MongoDB client implementation.
package mongodb

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/unifiedui/donation-service/internal/core/docdb"
)

// Connector implements the docdb.Connector interface for MongoDB.
type Connector struct{}

// NewConnector creates a new MongoDB connector.
func NewConnector() *Connector {
	return &Connector{}
}

// Connect opens a client with the given pool settings and pings the primary.
// The client is disconnected again if the ping fails.
func (c *Connector) Connect(ctx context.Context, opts docdb.ConnectOptions) (docdb.Client, error) {
	if opts.URI == "" {
		return nil, fmt.Errorf("mongodb URI is required")
	}

	mc, err := mongo.Connect(ctx, clientOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Verify connection
	if err := mc.Ping(ctx, readpref.Primary()); err != nil {
		_ = mc.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	client := &Client{client: mc}
	client.connected.Store(true)

	return client, nil
}

// clientOptions translates pool settings into driver options.
func clientOptions(opts docdb.ConnectOptions) *options.ClientOptions {
	pool := opts.Pool
	clientOpts := options.Client().
		ApplyURI(opts.URI).
		SetRetryWrites(pool.RetryWrites)

	if opts.AppName != "" {
		clientOpts.SetAppName(opts.AppName)
	}
	if pool.MaxPoolSize > 0 {
		clientOpts.SetMaxPoolSize(pool.MaxPoolSize)
	}
	if pool.MinPoolSize > 0 {
		clientOpts.SetMinPoolSize(pool.MinPoolSize)
	}
	if pool.MaxConnIdleTime > 0 {
		clientOpts.SetMaxConnIdleTime(pool.MaxConnIdleTime)
	}
	if pool.ConnectTimeout > 0 {
		clientOpts.SetConnectTimeout(pool.ConnectTimeout)
	}
	if pool.SocketTimeout > 0 {
		clientOpts.SetSocketTimeout(pool.SocketTimeout)
	}
	if pool.ServerSelectionTimeout > 0 {
		clientOpts.SetServerSelectionTimeout(pool.ServerSelectionTimeout)
	}
	if pool.WriteConcern == "majority" {
		clientOpts.SetWriteConcern(writeconcern.Majority())
	}

	return clientOpts
}

// Client implements the docdb.Client interface for MongoDB.
type Client struct {
	client *mongo.Client

	// connected is set after the first successful ping and cleared by Close.
	connected atomic.Bool
}

// Database returns the database interface.
func (c *Client) Database(name string) docdb.Database {
	return NewDatabase(c.client.Database(name))
}

// Ping verifies the connection to MongoDB.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongodb ping failed: %w", err)
	}
	return nil
}

// IsLive reports whether the client is still open. Transient server failures
// do not clear it; the driver rediscovers servers on its own heartbeat.
func (c *Client) IsLive() bool {
	return c.client != nil && c.connected.Load()
}

// Close closes the MongoDB connection.
func (c *Client) Close(ctx context.Context) error {
	c.connected.Store(false)
	if err := c.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from mongodb: %w", err)
	}
	return nil
}
