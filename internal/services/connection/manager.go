// Package connection manages the lazily established document database connection
// and the donations collection built on top of it.
package connection

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/unifiedui/donation-service/internal/core/docdb"
	"github.com/unifiedui/donation-service/internal/core/vault"
	domainerrors "github.com/unifiedui/donation-service/internal/domain/errors"
)

const (
	// DefaultDatabaseName is used when no database name is configured.
	DefaultDatabaseName = "donation_system"

	// DefaultCollectionName is used when no collection name is configured.
	DefaultCollectionName = "donations"

	// DefaultURISecret is the secret URI holding the connection string.
	DefaultURISecret = "dotenv://MONGODB_URI"

	// DefaultHealthTimeout bounds an active health probe.
	DefaultHealthTimeout = 5 * time.Second

	// DefaultLockTTL is how long a provisioning lock is held before it expires.
	DefaultLockTTL = 30 * time.Second
)

// DefaultPoolOptions returns the fixed pool and timeout settings used for every connect.
func DefaultPoolOptions() docdb.PoolOptions {
	return docdb.PoolOptions{
		MaxPoolSize:            10,
		MinPoolSize:            1,
		MaxConnIdleTime:        60 * time.Second,
		ConnectTimeout:         10 * time.Second,
		SocketTimeout:          45 * time.Second,
		ServerSelectionTimeout: 10 * time.Second,
		WriteConcern:           "majority",
		RetryWrites:            true,
	}
}

// Config holds the dependencies and settings of a Manager.
type Config struct {
	Connector      docdb.Connector
	Secrets        vault.Client
	URISecret      string
	AppName        string
	DatabaseName   string
	CollectionName string
	HealthMode     HealthMode
	HealthTimeout  time.Duration
	Lock           ProvisionLock
	LockTTL        time.Duration
	Logger         *zerolog.Logger
}

// Manager owns the cached client, database handle and collection handles.
// The database and collection names are bound at construction; a Manager
// serves exactly one database and one donations collection.
type Manager struct {
	connector      docdb.Connector
	secrets        vault.Client
	uriSecret      string
	appName        string
	databaseName   string
	collectionName string
	pool           docdb.PoolOptions
	healthMode     HealthMode
	healthTimeout  time.Duration
	lock           ProvisionLock
	lockTTL        time.Duration
	indexes        []docdb.IndexSpec
	logger         zerolog.Logger

	mu          sync.Mutex
	client      docdb.Client
	database    docdb.Database
	collections map[string]docdb.Collection

	// connects collapses concurrent cold-start connects into one attempt.
	connects singleflight.Group
	// provisionMu serializes collection existence checks and creation.
	provisionMu sync.Mutex
}

// NewManager creates a new connection manager. No connection is made until first use.
func NewManager(cfg *Config) (*Manager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Connector == nil {
		return nil, fmt.Errorf("connector is required")
	}
	if cfg.Secrets == nil {
		return nil, fmt.Errorf("secrets client is required")
	}

	healthMode := cfg.HealthMode
	if healthMode == "" {
		healthMode = HealthModeActive
	}
	if healthMode != HealthModeActive && healthMode != HealthModePassive {
		return nil, fmt.Errorf("unsupported health check mode: %s", healthMode)
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	m := &Manager{
		connector:      cfg.Connector,
		secrets:        cfg.Secrets,
		uriSecret:      valueOrDefault(cfg.URISecret, DefaultURISecret),
		appName:        cfg.AppName,
		databaseName:   valueOrDefault(cfg.DatabaseName, DefaultDatabaseName),
		collectionName: valueOrDefault(cfg.CollectionName, DefaultCollectionName),
		pool:           DefaultPoolOptions(),
		healthMode:     healthMode,
		healthTimeout:  durationOrDefault(cfg.HealthTimeout, DefaultHealthTimeout),
		lock:           cfg.Lock,
		lockTTL:        durationOrDefault(cfg.LockTTL, DefaultLockTTL),
		indexes:        DonationIndexes(),
		collections:    make(map[string]docdb.Collection),
	}
	m.logger = logger.With().
		Str("component", "connection").
		Str("database", m.databaseName).
		Logger()

	return m, nil
}

// DatabaseName returns the database this manager serves.
func (m *Manager) DatabaseName() string {
	return m.databaseName
}

// CollectionName returns the donations collection this manager serves.
func (m *Manager) CollectionName() string {
	return m.collectionName
}

// Client returns the cached client while it reports itself live, otherwise it
// connects, pings and caches a new one.
//
// Concurrent callers share one connect attempt. The attempt is detached from the
// caller that started it and bounded only by the pool timeouts; a caller whose
// ctx ends stops waiting without aborting the attempt for the others.
func (m *Manager) Client(ctx context.Context) (docdb.Client, error) {
	if client := m.liveClient(); client != nil {
		return client, nil
	}

	connectCtx := context.WithoutCancel(ctx)
	results := m.connects.DoChan("client", func() (interface{}, error) {
		return m.connect(connectCtx)
	})

	select {
	case res := <-results:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(docdb.Client), nil
	case <-ctx.Done():
		return nil, domainerrors.NewConnectionError("mongodb", ctx.Err())
	}
}

func (m *Manager) liveClient() docdb.Client {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client != nil && m.client.IsLive() {
		return m.client
	}
	return nil
}

// connect runs inside the singleflight group on a context no caller can cancel.
func (m *Manager) connect(ctx context.Context) (docdb.Client, error) {
	m.mu.Lock()
	if m.client != nil && m.client.IsLive() {
		client := m.client
		m.mu.Unlock()
		return client, nil
	}
	stale := m.client
	m.resetLocked()
	m.mu.Unlock()

	if stale != nil {
		m.logger.Warn().Msg("cached mongodb client is no longer live, reconnecting")
		m.closeClient(ctx, stale)
	}

	uri, err := m.resolveURI(ctx)
	if err != nil {
		return nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, m.pool.ConnectTimeout+m.pool.ServerSelectionTimeout)
	defer cancel()

	start := time.Now()
	client, err := m.connector.Connect(connectCtx, docdb.ConnectOptions{
		URI:     uri,
		AppName: m.appName,
		Pool:    m.pool,
	})
	if err != nil {
		m.logger.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("mongodb connection failed")
		return nil, domainerrors.NewConnectionError("mongodb", err)
	}

	m.mu.Lock()
	m.client = client
	m.mu.Unlock()

	m.logger.Info().Dur("elapsed", time.Since(start)).Msg("connected to mongodb")
	return client, nil
}

// resolveURI reads the connection string on every connect attempt.
func (m *Manager) resolveURI(ctx context.Context) (string, error) {
	uri, err := m.secrets.GetSecret(ctx, m.uriSecret)
	if err != nil || strings.TrimSpace(uri) == "" {
		details := "connection string is empty"
		if err != nil {
			details = err.Error()
		}
		return "", domainerrors.NewConfigurationError("MONGODB_URI", details)
	}
	return strings.TrimSpace(uri), nil
}

// Database resolves the client, then returns the cached database handle or derives it.
func (m *Manager) Database(ctx context.Context) (docdb.Database, error) {
	client, err := m.Client(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// The client may have been replaced or closed since Client returned.
	if m.client != client {
		return nil, domainerrors.NewConnectionError("mongodb", fmt.Errorf("client was closed during resolution"))
	}
	if m.database == nil {
		m.database = client.Database(m.databaseName)
	}
	return m.database, nil
}

// DonationCollection returns the provisioned donations collection.
func (m *Manager) DonationCollection(ctx context.Context) (docdb.Collection, error) {
	collection, _, err := m.Collection(ctx)
	return collection, err
}

// Close disconnects the cached client, if any, and clears every cached handle.
// Disconnect failures are logged; the caches are cleared either way.
func (m *Manager) Close(ctx context.Context) {
	m.mu.Lock()
	client := m.client
	m.resetLocked()
	m.mu.Unlock()

	if client == nil {
		return
	}

	m.closeClient(ctx, client)
	m.logger.Info().Msg("mongodb connection closed")
}

func (m *Manager) closeClient(ctx context.Context, client docdb.Client) {
	if err := client.Close(ctx); err != nil {
		m.logger.Warn().Err(err).Msg("failed to close mongodb client")
	}
}

// resetLocked clears the client and everything derived from it. Callers hold m.mu.
func (m *Manager) resetLocked() {
	m.client = nil
	m.database = nil
	m.collections = make(map[string]docdb.Collection)
}

func valueOrDefault(value, defaultValue string) string {
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	return value
}

func durationOrDefault(value, defaultValue time.Duration) time.Duration {
	if value <= 0 {
		return defaultValue
	}
	return value
}
