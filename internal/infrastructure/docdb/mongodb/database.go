// Package mongodb provides MongoDB database implementation.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/unifiedui/donation-service/internal/core/docdb"
)

// namespaceExistsCode is the server error code for creating a collection that already exists.
const namespaceExistsCode = 48

// Collection implements the docdb.Collection interface for MongoDB.
type Collection struct {
	collection *mongo.Collection
}

// NewCollection creates a new MongoDB collection wrapper.
func NewCollection(collection *mongo.Collection) *Collection {
	return &Collection{
		collection: collection,
	}
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.collection.Name()
}

// InsertOne inserts a single document.
func (c *Collection) InsertOne(ctx context.Context, document interface{}) (interface{}, error) {
	result, err := c.collection.InsertOne(ctx, document)
	if err != nil {
		return nil, fmt.Errorf("failed to insert document: %w", err)
	}
	return result.InsertedID, nil
}

// FindOne finds a single document matching the filter.
func (c *Collection) FindOne(ctx context.Context, filter interface{}) docdb.SingleResult {
	return &SingleResult{
		result: c.collection.FindOne(ctx, filter),
	}
}

// CountDocuments counts documents matching the filter.
func (c *Collection) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	count, err := c.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

// CreateIndex creates a single index described by an IndexSpec.
func (c *Collection) CreateIndex(ctx context.Context, spec docdb.IndexSpec) (string, error) {
	model, err := indexModel(spec)
	if err != nil {
		return "", err
	}

	name, err := c.collection.Indexes().CreateOne(ctx, model)
	if err != nil {
		return "", fmt.Errorf("failed to create index %s: %w", spec.Name, err)
	}
	return name, nil
}

// ListIndexes lists the indexes defined on the collection.
func (c *Collection) ListIndexes(ctx context.Context) ([]docdb.IndexInfo, error) {
	cursor, err := c.collection.Indexes().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list indexes: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []indexDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode indexes: %w", err)
	}

	infos := make([]docdb.IndexInfo, 0, len(docs))
	for _, doc := range docs {
		infos = append(infos, doc.info())
	}
	return infos, nil
}

// Database implements the docdb.Database interface for MongoDB.
type Database struct {
	database *mongo.Database
}

// NewDatabase creates a new MongoDB database wrapper.
func NewDatabase(database *mongo.Database) *Database {
	return &Database{
		database: database,
	}
}

// Name returns the database name.
func (d *Database) Name() string {
	return d.database.Name()
}

// Collection returns a collection from the database.
func (d *Database) Collection(name string) docdb.Collection {
	return NewCollection(d.database.Collection(name))
}

// CollectionExists reports whether a collection with the given name exists.
func (d *Database) CollectionExists(ctx context.Context, name string) (bool, error) {
	names, err := d.database.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return false, fmt.Errorf("failed to list collections: %w", err)
	}
	return len(names) > 0, nil
}

// CreateCollection creates the named collection. An already existing collection is not an error.
func (d *Database) CreateCollection(ctx context.Context, name string) error {
	err := d.database.CreateCollection(ctx, name)
	if err == nil {
		return nil
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == namespaceExistsCode {
		return nil
	}
	return fmt.Errorf("failed to create collection %s: %w", name, err)
}

// SingleResult wraps a MongoDB single result.
type SingleResult struct {
	result *mongo.SingleResult
}

// Decode decodes the single result into the provided interface.
func (r *SingleResult) Decode(v interface{}) error {
	return r.result.Decode(v)
}

// Err returns any error from the single result.
func (r *SingleResult) Err() error {
	err := r.result.Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return docdb.ErrNoDocuments
	}
	return err
}
