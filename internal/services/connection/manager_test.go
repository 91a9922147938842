package connection_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/unifiedui/donation-service/internal/core/docdb"
	domainerrors "github.com/unifiedui/donation-service/internal/domain/errors"
	"github.com/unifiedui/donation-service/internal/services/connection"
	"github.com/unifiedui/donation-service/tests/mocks"
)

const testURI = "mongodb://localhost:27017"

type fixture struct {
	connector  *mocks.MockConnector
	secrets    *mocks.MockVaultClient
	client     *mocks.MockDocDBClient
	database   *mocks.MockDatabase
	collection *mocks.MockCollection
}

func newFixture() *fixture {
	f := &fixture{
		connector:  &mocks.MockConnector{},
		secrets:    mocks.NewMockVaultClient(),
		client:     &mocks.MockDocDBClient{},
		database:   &mocks.MockDatabase{},
		collection: &mocks.MockCollection{},
	}

	f.secrets.On("GetSecret", mock.Anything, connection.DefaultURISecret).Return(testURI, nil)
	f.client.On("IsLive").Return(true)
	f.client.On("Database", connection.DefaultDatabaseName).Return(f.database)
	f.database.On("Collection", connection.DefaultCollectionName).Return(f.collection)

	return f
}

func (f *fixture) expectConnect(times int) {
	f.connector.On("Connect", mock.Anything, mock.Anything).Return(f.client, nil).Times(times)
}

func (f *fixture) expectAllIndexes() {
	for _, spec := range connection.DonationIndexes() {
		f.collection.On("CreateIndex", mock.Anything, spec).Return(spec.Name, nil).Once()
	}
}

func (f *fixture) manager(t *testing.T, opts ...func(*connection.Config)) *connection.Manager {
	t.Helper()

	cfg := &connection.Config{
		Connector: f.connector,
		Secrets:   f.secrets,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	m, err := connection.NewManager(cfg)
	require.NoError(t, err)
	return m
}

func TestNewManager_RequiresConfig(t *testing.T) {
	m, err := connection.NewManager(nil)

	assert.Nil(t, m)
	assert.EqualError(t, err, "config is required")
}

func TestNewManager_RequiresConnector(t *testing.T) {
	m, err := connection.NewManager(&connection.Config{Secrets: mocks.NewMockVaultClient()})

	assert.Nil(t, m)
	assert.EqualError(t, err, "connector is required")
}

func TestNewManager_RequiresSecrets(t *testing.T) {
	m, err := connection.NewManager(&connection.Config{Connector: &mocks.MockConnector{}})

	assert.Nil(t, m)
	assert.EqualError(t, err, "secrets client is required")
}

func TestNewManager_RejectsUnknownHealthMode(t *testing.T) {
	m, err := connection.NewManager(&connection.Config{
		Connector:  &mocks.MockConnector{},
		Secrets:    mocks.NewMockVaultClient(),
		HealthMode: "sometimes",
	})

	assert.Nil(t, m)
	assert.Contains(t, err.Error(), "unsupported health check mode")
}

func TestNewManager_AppliesDefaults(t *testing.T) {
	f := newFixture()
	m := f.manager(t)

	assert.Equal(t, "donation_system", m.DatabaseName())
	assert.Equal(t, "donations", m.CollectionName())
	assert.Equal(t, connection.HealthModeActive, m.HealthMode())
}

func TestNewManager_DoesNotConnect(t *testing.T) {
	f := newFixture()
	_ = f.manager(t)

	f.connector.AssertNotCalled(t, "Connect", mock.Anything, mock.Anything)
	f.secrets.AssertNotCalled(t, "GetSecret", mock.Anything, mock.Anything)
}

func TestManager_Client_ConnectsWithFixedPoolOptions(t *testing.T) {
	f := newFixture()
	f.connector.On("Connect", mock.Anything, mock.MatchedBy(func(opts docdb.ConnectOptions) bool {
		return opts.URI == testURI && opts.AppName == "donations-api" && opts.Pool == connection.DefaultPoolOptions()
	})).Return(f.client, nil).Once()

	m := f.manager(t, func(cfg *connection.Config) { cfg.AppName = "donations-api" })

	client, err := m.Client(context.Background())

	require.NoError(t, err)
	assert.Same(t, f.client, client)
	f.connector.AssertExpectations(t)
}

func TestDefaultPoolOptions(t *testing.T) {
	opts := connection.DefaultPoolOptions()

	assert.Equal(t, uint64(10), opts.MaxPoolSize)
	assert.Equal(t, uint64(1), opts.MinPoolSize)
	assert.Equal(t, 60*time.Second, opts.MaxConnIdleTime)
	assert.Equal(t, 10*time.Second, opts.ConnectTimeout)
	assert.Equal(t, 45*time.Second, opts.SocketTimeout)
	assert.Equal(t, 10*time.Second, opts.ServerSelectionTimeout)
	assert.Equal(t, "majority", opts.WriteConcern)
	assert.True(t, opts.RetryWrites)
}

func TestManager_Client_ReusesLiveClient(t *testing.T) {
	f := newFixture()
	f.expectConnect(1)
	m := f.manager(t)
	ctx := context.Background()

	first, err := m.Client(ctx)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		client, err := m.Client(ctx)
		require.NoError(t, err)
		assert.Same(t, first, client)
	}

	f.connector.AssertNumberOfCalls(t, "Connect", 1)
	f.secrets.AssertNumberOfCalls(t, "GetSecret", 1)
}

func TestManager_Client_MissingURI(t *testing.T) {
	f := newFixture()
	secrets := mocks.NewMockVaultClient()
	secrets.On("GetSecret", mock.Anything, connection.DefaultURISecret).Return("", nil)

	m := f.manager(t, func(cfg *connection.Config) { cfg.Secrets = secrets })

	client, err := m.Client(context.Background())

	assert.Nil(t, client)
	require.Error(t, err)
	assert.True(t, domainerrors.IsConfigurationError(err))
	f.connector.AssertNotCalled(t, "Connect", mock.Anything, mock.Anything)
}

func TestManager_Client_SecretLookupFails(t *testing.T) {
	f := newFixture()
	secrets := mocks.NewMockVaultClient()
	secrets.On("GetSecret", mock.Anything, connection.DefaultURISecret).Return("", errors.New("secret not found: MONGODB_URI"))

	m := f.manager(t, func(cfg *connection.Config) { cfg.Secrets = secrets })

	_, err := m.Client(context.Background())

	require.Error(t, err)
	assert.True(t, domainerrors.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "secret not found")
	f.connector.AssertNotCalled(t, "Connect", mock.Anything, mock.Anything)
}

func TestManager_Client_ConnectFailureLeavesCacheEmpty(t *testing.T) {
	f := newFixture()
	dialErr := errors.New("server selection timeout")
	f.connector.On("Connect", mock.Anything, mock.Anything).Return(nil, dialErr).Once()
	f.connector.On("Connect", mock.Anything, mock.Anything).Return(f.client, nil).Once()
	m := f.manager(t)
	ctx := context.Background()

	client, err := m.Client(ctx)

	assert.Nil(t, client)
	require.Error(t, err)
	assert.True(t, domainerrors.IsConnectionError(err))
	assert.ErrorIs(t, err, dialErr)

	client, err = m.Client(ctx)

	require.NoError(t, err)
	assert.Same(t, f.client, client)
	f.connector.AssertNumberOfCalls(t, "Connect", 2)
}

func TestManager_Client_ReconnectsWhenNotLive(t *testing.T) {
	f := newFixture()
	stale := &mocks.MockDocDBClient{}
	stale.On("IsLive").Return(false)
	stale.On("Close", mock.Anything).Return(nil).Once()

	f.connector.On("Connect", mock.Anything, mock.Anything).Return(stale, nil).Once()
	f.connector.On("Connect", mock.Anything, mock.Anything).Return(f.client, nil).Once()
	m := f.manager(t)
	ctx := context.Background()

	first, err := m.Client(ctx)
	require.NoError(t, err)
	assert.Same(t, stale, first)

	second, err := m.Client(ctx)
	require.NoError(t, err)
	assert.Same(t, f.client, second)

	stale.AssertExpectations(t)
	f.connector.AssertNumberOfCalls(t, "Connect", 2)
}

func TestManager_Client_CollapsesConcurrentConnects(t *testing.T) {
	f := newFixture()
	f.connector.On("Connect", mock.Anything, mock.Anything).
		Return(f.client, nil).
		After(20 * time.Millisecond)
	m := f.manager(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			client, err := m.Client(context.Background())
			assert.NoError(t, err)
			assert.Same(t, f.client, client)
		}()
	}
	wg.Wait()

	f.connector.AssertNumberOfCalls(t, "Connect", 1)
}

func TestManager_Client_CallerDeadlineDoesNotAbortSharedConnect(t *testing.T) {
	f := newFixture()
	started := make(chan struct{})
	var connectCtxErr error
	f.connector.On("Connect", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			close(started)
			select {
			case <-time.After(200 * time.Millisecond):
			case <-ctx.Done():
			}
			connectCtxErr = ctx.Err()
		}).
		Return(f.client, nil).
		Once()
	m := f.manager(t)

	shortCtx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	shortErr := make(chan error, 1)
	go func() {
		_, err := m.Client(shortCtx)
		shortErr <- err
	}()
	<-started

	client, err := m.Client(context.Background())

	require.NoError(t, err)
	assert.Same(t, f.client, client)
	assert.NoError(t, connectCtxErr)

	err = <-shortErr
	assert.True(t, domainerrors.IsConnectionError(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	f.connector.AssertNumberOfCalls(t, "Connect", 1)

	// The completed attempt is cached for later callers.
	again, err := m.Client(context.Background())
	require.NoError(t, err)
	assert.Same(t, f.client, again)
	f.connector.AssertNumberOfCalls(t, "Connect", 1)
}

func TestManager_Client_CancelledCallerStopsWaiting(t *testing.T) {
	f := newFixture()
	release := make(chan struct{})
	f.connector.On("Connect", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return(f.client, nil).
		Once()
	m := f.manager(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client, err := m.Client(ctx)

	assert.Nil(t, client)
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
	assert.Eventually(t, func() bool {
		client, err := m.Client(context.Background())
		return err == nil && client == f.client
	}, time.Second, 10*time.Millisecond)
	f.connector.AssertNumberOfCalls(t, "Connect", 1)
}

func TestManager_Database_CachesHandle(t *testing.T) {
	f := newFixture()
	f.expectConnect(1)
	m := f.manager(t)
	ctx := context.Background()

	first, err := m.Database(ctx)
	require.NoError(t, err)
	second, err := m.Database(ctx)
	require.NoError(t, err)

	assert.Same(t, f.database, first)
	assert.Same(t, first, second)
	f.client.AssertNumberOfCalls(t, "Database", 1)
}

func TestManager_Database_UsesConfiguredName(t *testing.T) {
	f := newFixture()
	f.expectConnect(1)
	f.client.On("Database", "testdb").Return(f.database).Once()
	m := f.manager(t, func(cfg *connection.Config) { cfg.DatabaseName = "testdb" })

	db, err := m.Database(context.Background())

	require.NoError(t, err)
	assert.Same(t, f.database, db)
	f.client.AssertCalled(t, "Database", "testdb")
}

func TestManager_Database_PropagatesConnectionError(t *testing.T) {
	f := newFixture()
	f.connector.On("Connect", mock.Anything, mock.Anything).Return(nil, errors.New("auth failed")).Once()
	m := f.manager(t)

	db, err := m.Database(context.Background())

	assert.Nil(t, db)
	assert.True(t, domainerrors.IsConnectionError(err))
	f.client.AssertNotCalled(t, "Database", mock.Anything)
}

func TestManager_Close_WithoutClientIsNoop(t *testing.T) {
	f := newFixture()
	m := f.manager(t)

	assert.NotPanics(t, func() { m.Close(context.Background()) })
	f.connector.AssertNotCalled(t, "Connect", mock.Anything, mock.Anything)
}

func TestManager_Close_ThenClientReconnects(t *testing.T) {
	f := newFixture()
	f.expectConnect(2)
	f.client.On("Close", mock.Anything).Return(nil).Once()
	m := f.manager(t)
	ctx := context.Background()

	_, err := m.Database(ctx)
	require.NoError(t, err)

	m.Close(ctx)

	_, err = m.Database(ctx)
	require.NoError(t, err)

	f.client.AssertNumberOfCalls(t, "Close", 1)
	f.connector.AssertNumberOfCalls(t, "Connect", 2)
	f.client.AssertNumberOfCalls(t, "Database", 2)
	f.secrets.AssertNumberOfCalls(t, "GetSecret", 2)
}

func TestManager_Close_ClearsCacheWhenDisconnectFails(t *testing.T) {
	f := newFixture()
	f.expectConnect(2)
	f.client.On("Close", mock.Anything).Return(errors.New("connection reset")).Once()
	m := f.manager(t)
	ctx := context.Background()

	_, err := m.Client(ctx)
	require.NoError(t, err)

	m.Close(ctx)
	m.Close(ctx)

	_, err = m.Client(ctx)
	require.NoError(t, err)

	f.client.AssertNumberOfCalls(t, "Close", 1)
	f.connector.AssertNumberOfCalls(t, "Connect", 2)
}
