//go:build integration

package connection_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/unifiedui/donation-service/internal/core/docdb"
	"github.com/unifiedui/donation-service/internal/infrastructure/docdb/mongodb"
	"github.com/unifiedui/donation-service/internal/infrastructure/vault/dotenv"
	"github.com/unifiedui/donation-service/internal/services/connection"
)

// setupMongoContainer starts a disposable MongoDB 7 container and exports its
// connection string as MONGODB_URI for the duration of the test.
func setupMongoContainer(t *testing.T) {
	t.Helper()

	ctx := context.Background()

	container, err := tcmongo.Run(ctx,
		"mongo:7",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Waiting for connections").
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, container.Terminate(ctx))
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	t.Setenv("MONGODB_URI", uri)
}

func newIntegrationManager(t *testing.T) *connection.Manager {
	t.Helper()

	secrets, err := dotenv.NewClient()
	require.NoError(t, err)

	m, err := connection.NewManager(&connection.Config{
		Connector:      mongodb.NewConnector(),
		Secrets:        secrets,
		AppName:        "donation-service-integration",
		DatabaseName:   "testdb",
		CollectionName: "donations",
	})
	require.NoError(t, err)

	t.Cleanup(func() { m.Close(context.Background()) })
	return m
}

func findIndex(indexes []docdb.IndexInfo, name string) (docdb.IndexInfo, bool) {
	for _, idx := range indexes {
		if idx.Name == name {
			return idx, true
		}
	}
	return docdb.IndexInfo{}, false
}

func TestIntegration_DonationCollection_ProvisionsEmptyDatabase(t *testing.T) {
	setupMongoContainer(t)
	ctx := context.Background()
	m := newIntegrationManager(t)

	coll, result, err := m.Collection(ctx)
	require.NoError(t, err)
	assert.Equal(t, "donations", coll.Name())
	assert.Equal(t, connection.OutcomeCreated, result.Outcome)
	assert.Empty(t, result.Warnings)

	db, err := m.Database(ctx)
	require.NoError(t, err)
	assert.Equal(t, "testdb", db.Name())

	exists, err := db.CollectionExists(ctx, "donations")
	require.NoError(t, err)
	assert.True(t, exists)

	indexes, err := coll.ListIndexes(ctx)
	require.NoError(t, err)

	localID, ok := findIndex(indexes, "localId_unique")
	require.True(t, ok)
	assert.True(t, localID.Unique)
	assert.True(t, localID.Sparse)
	assert.Contains(t, localID.Keys, "localId")

	text, ok := findIndex(indexes, "donation_text")
	require.True(t, ok)
	assert.Equal(t, int32(10), text.Weights["submitterName"])
	assert.Equal(t, int32(5), text.Weights["projectName"])
	assert.Equal(t, int32(3), text.Weights["content"])
	assert.Equal(t, int32(2), text.Weights["contact"])

	for _, spec := range connection.DonationIndexes() {
		_, ok := findIndex(indexes, spec.Name)
		assert.True(t, ok, spec.Name)
	}
}

func TestIntegration_DonationCollection_SecondManagerFindsExisting(t *testing.T) {
	setupMongoContainer(t)
	ctx := context.Background()

	_, first, err := newIntegrationManager(t).Collection(ctx)
	require.NoError(t, err)
	assert.Equal(t, connection.OutcomeCreated, first.Outcome)

	_, second, err := newIntegrationManager(t).Collection(ctx)
	require.NoError(t, err)
	assert.Equal(t, connection.OutcomeExisting, second.Outcome)
	assert.Empty(t, second.IndexesCreated)
}

func TestIntegration_LocalIDIndex_UniqueButSparse(t *testing.T) {
	setupMongoContainer(t)
	ctx := context.Background()
	m := newIntegrationManager(t)

	coll, err := m.DonationCollection(ctx)
	require.NoError(t, err)

	_, err = coll.InsertOne(ctx, bson.M{"submitterName": "Ada", "localId": "device-1:0001"})
	require.NoError(t, err)
	_, err = coll.InsertOne(ctx, bson.M{"submitterName": "Grace", "localId": "device-1:0001"})
	require.Error(t, err)

	_, err = coll.InsertOne(ctx, bson.M{"submitterName": "Linus"})
	require.NoError(t, err)
	_, err = coll.InsertOne(ctx, bson.M{"submitterName": "Ken"})
	require.NoError(t, err)

	count, err := coll.CountDocuments(ctx, bson.M{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestIntegration_CheckHealth_AndClose(t *testing.T) {
	setupMongoContainer(t)
	ctx := context.Background()
	m := newIntegrationManager(t)

	status := m.CheckHealth(ctx)
	assert.True(t, status.OK, status.Message)

	first, err := m.Client(ctx)
	require.NoError(t, err)
	assert.True(t, first.IsLive())

	m.Close(ctx)
	assert.False(t, first.IsLive())

	second, err := m.Client(ctx)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.True(t, second.IsLive())
}
