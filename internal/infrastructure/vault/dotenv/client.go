// Package dotenv provides a dotenv-based vault implementation.
package dotenv

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Scheme is the URI prefix of dotenv secrets.
const Scheme = "dotenv://"

// Client implements the vault.Client interface using environment variables.
// Variables loaded from a .env file are visible because godotenv exports them
// into the process environment.
type Client struct{}

// NewClient creates a new DotEnv vault client.
func NewClient() (*Client, error) {
	return &Client{}, nil
}

// GetSecret retrieves a secret from the environment. Both "dotenv://KEY" and a
// bare "KEY" are accepted. The environment is consulted on every call.
func (c *Client) GetSecret(ctx context.Context, uri string) (string, error) {
	key := strings.TrimPrefix(uri, Scheme)
	if key == "" {
		return "", fmt.Errorf("secret key is required")
	}

	if value := os.Getenv(key); value != "" {
		return value, nil
	}

	return "", fmt.Errorf("secret not found: %s", key)
}

// Close closes the vault (no-op for dotenv).
func (c *Client) Close() error {
	return nil
}
