package connection_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/unifiedui/donation-service/internal/services/connection"
	"github.com/unifiedui/donation-service/tests/mocks"
)

func TestManager_CheckHealth_ActiveHealthy(t *testing.T) {
	f := newFixture()
	f.expectConnect(1)
	f.client.On("Ping", mock.Anything).Return(nil).Once()
	m := f.manager(t)

	status := m.CheckHealth(context.Background())

	assert.True(t, status.OK)
	assert.Equal(t, connection.HealthModeActive, status.Mode)
	assert.Equal(t, "database connection is healthy", status.Message)
}

func TestManager_CheckHealth_ActivePingFails(t *testing.T) {
	f := newFixture()
	f.expectConnect(1)
	f.client.On("Ping", mock.Anything).Return(errors.New("not primary")).Once()
	m := f.manager(t)

	status := m.CheckHealth(context.Background())

	assert.False(t, status.OK)
	assert.Equal(t, "not primary", status.Message)
}

func TestManager_CheckHealth_ActiveConnectFails(t *testing.T) {
	f := newFixture()
	f.connector.On("Connect", mock.Anything, mock.Anything).Return(nil, errors.New("no reachable servers")).Once()
	m := f.manager(t)

	status := m.CheckHealth(context.Background())

	assert.False(t, status.OK)
	assert.Contains(t, status.Message, "no reachable servers")
	f.client.AssertNotCalled(t, "Ping", mock.Anything)
}

func TestManager_CheckHealth_ActiveMissingURI(t *testing.T) {
	f := newFixture()
	secrets := mocks.NewMockVaultClient()
	secrets.On("GetSecret", mock.Anything, connection.DefaultURISecret).Return("", nil)
	m := f.manager(t, func(cfg *connection.Config) { cfg.Secrets = secrets })

	status := m.CheckHealth(context.Background())

	assert.False(t, status.OK)
	assert.Contains(t, status.Message, "MONGODB_URI")
	f.connector.AssertNotCalled(t, "Connect", mock.Anything, mock.Anything)
}

func TestManager_CheckHealth_PassiveConfigured(t *testing.T) {
	f := newFixture()
	m := f.manager(t, func(cfg *connection.Config) { cfg.HealthMode = connection.HealthModePassive })

	status := m.CheckHealth(context.Background())

	assert.True(t, status.OK)
	assert.Equal(t, connection.HealthModePassive, status.Mode)
	f.connector.AssertNotCalled(t, "Connect", mock.Anything, mock.Anything)
}

func TestManager_CheckHealth_PassiveMissingURI(t *testing.T) {
	f := newFixture()
	secrets := mocks.NewMockVaultClient()
	secrets.On("GetSecret", mock.Anything, connection.DefaultURISecret).Return("", errors.New("secret not found: MONGODB_URI"))
	m := f.manager(t, func(cfg *connection.Config) {
		cfg.Secrets = secrets
		cfg.HealthMode = connection.HealthModePassive
	})

	status := m.CheckHealth(context.Background())

	assert.False(t, status.OK)
	assert.Equal(t, "MONGODB_URI is not configured", status.Message)
	f.connector.AssertNotCalled(t, "Connect", mock.Anything, mock.Anything)
}
