// Package config handles application configuration loading and management.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	domainerrors "github.com/unifiedui/donation-service/internal/domain/errors"
	"github.com/unifiedui/donation-service/internal/services/connection"
)

// Config holds all configuration for the application.
type Config struct {
	Server ServerConfig
	Cache  CacheConfig
	DocDB  DocDBConfig
	Vault  VaultConfig
	Health HealthConfig
	Log    LogConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host           string
	Port           int
	GinMode        string
	AllowedOrigins []string
}

// Address returns the server address in host:port format.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CacheConfig holds cache-related configuration.
type CacheConfig struct {
	Type     string
	Host     string
	Port     string
	Password string
	DB       int
	LockTTL  time.Duration
}

// Enabled reports whether a cache backend was configured.
func (c CacheConfig) Enabled() bool {
	return c.Type != "" && c.Type != "none"
}

// DocDBConfig holds document database configuration.
type DocDBConfig struct {
	Type       string
	URI        string
	URISecret  string
	Database   string
	Collection string
	AppName    string
}

// Validate reports a missing connection URI as a configuration error.
func (c DocDBConfig) Validate() error {
	if strings.TrimSpace(c.URI) == "" {
		return domainerrors.NewConfigurationError("MONGODB_URI", "set it in the environment or .env file")
	}
	return nil
}

// VaultConfig holds vault configuration.
type VaultConfig struct {
	Type string
}

// HealthConfig holds health check configuration.
type HealthConfig struct {
	Mode    string
	Timeout time.Duration
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Cache: CacheConfig{
			Type:     getEnv("CACHE_TYPE", "none"),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			LockTTL:  getEnvAsSeconds("PROVISION_LOCK_TTL_SECONDS", connection.DefaultLockTTL),
		},
		DocDB: DocDBConfig{
			Type:       getEnv("DOCDB_TYPE", "mongodb"),
			URI:        getEnv("MONGODB_URI", ""),
			URISecret:  getEnv("MONGODB_URI_SECRET", connection.DefaultURISecret),
			Database:   getEnv("DATABASE_NAME", connection.DefaultDatabaseName),
			Collection: getEnv("COLLECTION_NAME", connection.DefaultCollectionName),
			AppName:    getEnv("MONGODB_APP_NAME", "donation-service"),
		},
		Vault: VaultConfig{
			Type: getEnv("VAULT_TYPE", "dotenv"),
		},
		Health: HealthConfig{
			Mode:    getEnv("HEALTH_CHECK_MODE", string(connection.HealthModeActive)),
			Timeout: getEnvAsSeconds("HEALTH_CHECK_TIMEOUT_SECONDS", connection.DefaultHealthTimeout),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsSeconds reads a whole number of seconds with a default duration.
func getEnvAsSeconds(key string, defaultValue time.Duration) time.Duration {
	return time.Duration(getEnvAsInt(key, int(defaultValue/time.Second))) * time.Second
}

// getEnvAsList splits a comma separated environment variable.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
