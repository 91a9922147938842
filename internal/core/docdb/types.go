// Package docdb provides the document database types.
package docdb

import "time"

// Type represents the type of document database.
type Type string

const (
	// TypeMongoDB represents a MongoDB database.
	TypeMongoDB Type = "mongodb"
	// TypeCosmosDB represents an Azure Cosmos DB database (MongoDB API).
	TypeCosmosDB Type = "cosmosdb"
)

// PoolOptions holds the connection pool and timeout tuning applied to every connect.
type PoolOptions struct {
	MaxPoolSize            uint64
	MinPoolSize            uint64
	MaxConnIdleTime        time.Duration
	ConnectTimeout         time.Duration
	SocketTimeout          time.Duration
	ServerSelectionTimeout time.Duration
	WriteConcern           string // "majority" or empty for the server default
	RetryWrites            bool
}

// ConnectOptions describes a single connect attempt.
type ConnectOptions struct {
	URI     string
	AppName string
	Pool    PoolOptions
}

// IndexDirection is the kind of a single index key.
type IndexDirection string

const (
	// IndexAscending orders the field ascending.
	IndexAscending IndexDirection = "asc"
	// IndexDescending orders the field descending.
	IndexDescending IndexDirection = "desc"
	// IndexText includes the field in a full-text index.
	IndexText IndexDirection = "text"
)

// IndexKey is one field of an index.
type IndexKey struct {
	Field     string
	Direction IndexDirection
}

// IndexWeight is the relevance weight of a text-indexed field.
type IndexWeight struct {
	Field  string
	Weight int32
}

// IndexSpec describes an index to create.
type IndexSpec struct {
	Name    string
	Keys    []IndexKey
	Unique  bool
	Sparse  bool
	Weights []IndexWeight
}

// Fields returns the indexed field names in key order.
func (s IndexSpec) Fields() []string {
	fields := make([]string, 0, len(s.Keys))
	for _, k := range s.Keys {
		fields = append(fields, k.Field)
	}
	return fields
}

// IndexInfo describes an index as reported by the server.
type IndexInfo struct {
	Name    string
	Unique  bool
	Sparse  bool
	Keys    map[string]interface{}
	Weights map[string]int32
}
