// Package vault provides the vault type constants.
package vault

// Type represents the type of vault.
type Type string

const (
	// TypeDotEnv represents a DotEnv vault backed by the process environment.
	TypeDotEnv Type = "dotenv"
)
