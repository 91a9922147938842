package mongodb

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/unifiedui/donation-service/internal/core/docdb"
)

// indexModel converts an index spec into a driver index model.
func indexModel(spec docdb.IndexSpec) (mongo.IndexModel, error) {
	if len(spec.Keys) == 0 {
		return mongo.IndexModel{}, fmt.Errorf("index %s has no keys", spec.Name)
	}

	keys := bson.D{}
	for _, key := range spec.Keys {
		value, err := keyValue(key.Direction)
		if err != nil {
			return mongo.IndexModel{}, fmt.Errorf("index %s: %w", spec.Name, err)
		}
		keys = append(keys, bson.E{Key: key.Field, Value: value})
	}

	opts := options.Index()
	if spec.Name != "" {
		opts.SetName(spec.Name)
	}
	if spec.Unique {
		opts.SetUnique(true)
	}
	if spec.Sparse {
		opts.SetSparse(true)
	}
	if len(spec.Weights) > 0 {
		weights := bson.D{}
		for _, w := range spec.Weights {
			weights = append(weights, bson.E{Key: w.Field, Value: w.Weight})
		}
		opts.SetWeights(weights)
	}

	return mongo.IndexModel{Keys: keys, Options: opts}, nil
}

func keyValue(direction docdb.IndexDirection) (interface{}, error) {
	switch direction {
	case docdb.IndexAscending, "":
		return int32(1), nil
	case docdb.IndexDescending:
		return int32(-1), nil
	case docdb.IndexText:
		return "text", nil
	default:
		return nil, fmt.Errorf("unsupported index direction %q", direction)
	}
}

// indexDocument is the shape of an entry returned by listIndexes.
type indexDocument struct {
	Name    string `bson:"name"`
	Key     bson.M `bson:"key"`
	Unique  bool   `bson:"unique,omitempty"`
	Sparse  bool   `bson:"sparse,omitempty"`
	Weights bson.M `bson:"weights,omitempty"`
}

func (d indexDocument) info() docdb.IndexInfo {
	info := docdb.IndexInfo{
		Name:   d.Name,
		Unique: d.Unique,
		Sparse: d.Sparse,
		Keys:   map[string]interface{}(d.Key),
	}

	if len(d.Weights) > 0 {
		info.Weights = make(map[string]int32, len(d.Weights))
		for field, raw := range d.Weights {
			info.Weights[field] = toInt32(raw)
		}
	}

	return info
}

// toInt32 normalizes the numeric types the server may use for weights.
func toInt32(v interface{}) int32 {
	switch n := v.(type) {
	case int32:
		return n
	case int64:
		return int32(n)
	case float64:
		return int32(n)
	case int:
		return int32(n)
	default:
		return 0
	}
}
