// Package vault defines the vault client interface.
package vault

import (
	"context"
)

// Client resolves secrets such as connection strings.
type Client interface {
	// GetSecret retrieves a secret by URI.
	// Implementations read the backing store on every call.
	GetSecret(ctx context.Context, uri string) (string, error)

	// Close closes the vault client connection.
	Close() error
}
