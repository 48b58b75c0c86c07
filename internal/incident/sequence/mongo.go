package sequence

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/incidentdesk/incident-service/pkg/metrics"
)

// Counter is the singleton document stored in the counters collection.
type Counter struct {
	Name  string `bson:"name" json:"name"`
	Value int64  `bson:"value" json:"value"`
}

// MongoAllocator increments a named counter document with $inc.
type MongoAllocator struct {
	col  *mongo.Collection
	name string
}

// NewMongoAllocator returns an allocator for the counter called name.
// Call Init once at startup to create the counter.
func NewMongoAllocator(col *mongo.Collection, name string) *MongoAllocator {
	return &MongoAllocator{col: col, name: name}
}

// Init creates the counter with value 0 unless it already exists. The upsert
// with $setOnInsert never resets an existing counter, so several processes
// may run it concurrently.
func (m *MongoAllocator) Init(ctx context.Context) error {
	opts := options.Update().SetUpsert(true)
	_, err := m.col.UpdateOne(ctx,
		bson.M{"name": m.name},
		bson.M{"$setOnInsert": bson.M{"value": int64(0)}},
		opts,
	)
	return err
}

func (m *MongoAllocator) Next(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var c Counter
	err := m.col.FindOneAndUpdate(ctx,
		bson.M{"name": m.name},
		bson.M{"$inc": bson.M{"value": int64(1)}},
		opts,
	).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, ErrUninitialized
		}
		return 0, err
	}
	metrics.SequenceAllocations.WithLabelValues("mongo").Inc()
	return c.Value, nil
}
