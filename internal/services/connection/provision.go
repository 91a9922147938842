package connection

import (
	"context"
	"fmt"

	"github.com/unifiedui/donation-service/internal/core/docdb"
	domainerrors "github.com/unifiedui/donation-service/internal/domain/errors"
)

// ProvisionOutcome describes how a collection handle was obtained.
type ProvisionOutcome string

const (
	// OutcomeCached means the handle came from the manager cache.
	OutcomeCached ProvisionOutcome = "cached"
	// OutcomeExisting means the collection already existed and nothing was provisioned.
	OutcomeExisting ProvisionOutcome = "existing"
	// OutcomeCreated means the collection was absent and provisioning ran.
	OutcomeCreated ProvisionOutcome = "created"
	// OutcomeSkipped means the collection was absent but another instance holds the provisioning lock.
	OutcomeSkipped ProvisionOutcome = "skipped"
)

// ProvisionResult reports the non-fatal outcome of resolving a collection.
type ProvisionResult struct {
	Collection     string
	Outcome        ProvisionOutcome
	IndexesCreated []string
	Warnings       []error
}

// Degraded reports whether provisioning hit any failure. The collection is usable either way.
func (r *ProvisionResult) Degraded() bool {
	return r != nil && len(r.Warnings) > 0
}

// DonationIndexes returns the fixed index set of the donations collection.
func DonationIndexes() []docdb.IndexSpec {
	return []docdb.IndexSpec{
		{Name: "submittedAt_desc", Keys: []docdb.IndexKey{{Field: "submittedAt", Direction: docdb.IndexDescending}}},
		{Name: "submitterName_asc", Keys: []docdb.IndexKey{{Field: "submitterName", Direction: docdb.IndexAscending}}},
		{Name: "projectId_asc", Keys: []docdb.IndexKey{{Field: "projectId", Direction: docdb.IndexAscending}}},
		{Name: "paymentMethod_asc", Keys: []docdb.IndexKey{{Field: "paymentMethod", Direction: docdb.IndexAscending}}},
		{
			Name:   "localId_unique",
			Keys:   []docdb.IndexKey{{Field: "localId", Direction: docdb.IndexAscending}},
			Unique: true,
			Sparse: true,
		},
		{Name: "deviceId_asc", Keys: []docdb.IndexKey{{Field: "deviceId", Direction: docdb.IndexAscending}}},
		{Name: "batchId_asc", Keys: []docdb.IndexKey{{Field: "batchId", Direction: docdb.IndexAscending}}},
		{
			Name: "donation_text",
			Keys: []docdb.IndexKey{
				{Field: "submitterName", Direction: docdb.IndexText},
				{Field: "projectName", Direction: docdb.IndexText},
				{Field: "content", Direction: docdb.IndexText},
				{Field: "contact", Direction: docdb.IndexText},
			},
			Weights: []docdb.IndexWeight{
				{Field: "submitterName", Weight: 10},
				{Field: "projectName", Weight: 5},
				{Field: "content", Weight: 3},
				{Field: "contact", Weight: 2},
			},
		},
	}
}

// Collection resolves the database, then returns the donations collection,
// creating it and its indexes when it does not exist yet.
func (m *Manager) Collection(ctx context.Context) (docdb.Collection, *ProvisionResult, error) {
	return m.collection(ctx, m.collectionName)
}

func (m *Manager) collection(ctx context.Context, name string) (docdb.Collection, *ProvisionResult, error) {
	if coll := m.cachedCollection(name); coll != nil {
		return coll, &ProvisionResult{Collection: name, Outcome: OutcomeCached}, nil
	}

	db, err := m.Database(ctx)
	if err != nil {
		return nil, nil, err
	}

	m.provisionMu.Lock()
	defer m.provisionMu.Unlock()

	// Another caller may have provisioned while we waited.
	if coll := m.cachedCollection(name); coll != nil {
		return coll, &ProvisionResult{Collection: name, Outcome: OutcomeCached}, nil
	}

	logger := m.logger.With().Str("collection", name).Logger()

	listCtx, cancel := context.WithTimeout(ctx, m.pool.SocketTimeout)
	exists, err := db.CollectionExists(listCtx, name)
	cancel()
	if err != nil {
		logger.Error().Err(err).Msg("failed to list collections")
		return nil, nil, domainerrors.NewConnectionError("mongodb", err)
	}

	result := &ProvisionResult{Collection: name, Outcome: OutcomeExisting}
	if !exists {
		result = m.provision(ctx, db, name)
	}

	coll := db.Collection(name)
	if !m.storeCollection(db, name, coll) {
		return nil, nil, domainerrors.NewConnectionError("mongodb", fmt.Errorf("client was closed during resolution"))
	}

	return coll, result, nil
}

func (m *Manager) provision(ctx context.Context, db docdb.Database, name string) *ProvisionResult {
	logger := m.logger.With().Str("collection", name).Logger()
	result := &ProvisionResult{Collection: name, Outcome: OutcomeCreated}

	if m.lock != nil {
		key := fmt.Sprintf("provision:%s:%s", m.databaseName, name)
		acquired, err := m.lock.Acquire(ctx, key, m.lockTTL)
		switch {
		case err != nil:
			logger.Warn().Err(err).Msg("provisioning lock unavailable, provisioning anyway")
		case !acquired:
			logger.Info().Msg("collection is being provisioned by another instance")
			result.Outcome = OutcomeSkipped
			return result
		default:
			defer func() {
				if err := m.lock.Release(context.WithoutCancel(ctx), key); err != nil {
					logger.Warn().Err(err).Msg("failed to release provisioning lock")
				}
			}()
		}
	}

	createCtx, cancel := context.WithTimeout(ctx, m.pool.SocketTimeout)
	err := db.CreateCollection(createCtx, name)
	cancel()
	if err != nil {
		warning := domainerrors.NewProvisioningWarning("create_collection", name, err)
		result.Warnings = append(result.Warnings, warning)
		logger.Warn().Err(err).Msg("failed to create collection, creating indexes anyway")
	} else {
		logger.Info().Msg("created collection")
	}

	coll := db.Collection(name)
	for _, spec := range m.indexes {
		indexCtx, cancel := context.WithTimeout(ctx, m.pool.SocketTimeout)
		created, err := coll.CreateIndex(indexCtx, spec)
		cancel()
		if err != nil {
			warning := domainerrors.NewProvisioningWarning("create_index", spec.Name, err)
			result.Warnings = append(result.Warnings, warning)
			logger.Warn().Err(err).Str("index", spec.Name).Msg("failed to create index")
			continue
		}
		result.IndexesCreated = append(result.IndexesCreated, created)
	}

	logger.Info().
		Int("indexes_created", len(result.IndexesCreated)).
		Int("warnings", len(result.Warnings)).
		Msg("provisioned collection")

	return result
}

func (m *Manager) cachedCollection(name string) docdb.Collection {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client == nil || !m.client.IsLive() {
		return nil
	}
	return m.collections[name]
}

// storeCollection caches coll unless the database it came from has been invalidated.
func (m *Manager) storeCollection(db docdb.Database, name string, coll docdb.Collection) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.database != db {
		return false
	}
	m.collections[name] = coll
	return true
}
