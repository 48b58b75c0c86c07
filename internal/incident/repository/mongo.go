package repository

import (
	"context"
	"errors"

	"github.com/incidentdesk/incident-service/internal/incident"
	"github.com/incidentdesk/incident-service/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements Repository on a MongoDB collection. Documents are
// keyed logically by issue_number; _id stays store-assigned.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	return &MongoRepo{col: col}
}

// EnsureIndexes creates the unique index on issue_number.
func (m *MongoRepo) EnsureIndexes(ctx context.Context) error {
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: incident.IssueNumberField, Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, err := m.col.Indexes().CreateOne(ctx, idx)
	return err
}

func (m *MongoRepo) List(ctx context.Context) ([]*incident.Incident, error) {
	opts := options.Find().SetProjection(bson.M{incident.StorageIDField: 0})
	cur, err := m.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*incident.Incident{}
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		inc := incident.FromStoredDocument(displaySafe(doc))
		if inc.IssueNumber == 0 {
			logger.Warnf("incident document without an integer %s: %v", incident.IssueNumberField, inc.Attributes[incident.IssueNumberField])
		}
		out = append(out, inc)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MongoRepo) Insert(ctx context.Context, inc *incident.Incident) error {
	_, err := m.col.InsertOne(ctx, inc.Document())
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (m *MongoRepo) Delete(ctx context.Context, issueNumber int64) error {
	res, err := m.col.DeleteOne(ctx, bson.M{incident.IssueNumberField: issueNumber})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) Update(ctx context.Context, issueNumber int64, fields map[string]interface{}) (*incident.Incident, error) {
	set := bson.M{}
	for k, v := range fields {
		if k == incident.IssueNumberField || k == incident.StorageIDField {
			continue
		}
		set[k] = v
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc bson.M
	err := m.col.FindOneAndUpdate(ctx, bson.M{incident.IssueNumberField: issueNumber}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return incident.FromDocument(displaySafe(doc))
}

// displaySafe converts BSON-specific values into forms encoding/json renders
// sensibly: ObjectIDs become hex strings, dates become time.Time, nested
// documents become plain maps.
func displaySafe(doc bson.M) map[string]interface{} {
	out := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		out[k] = displayValue(v)
	}
	return out
}

func displayValue(v interface{}) interface{} {
	switch t := v.(type) {
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.Timestamp:
		return t.T
	case primitive.Decimal128:
		return t.String()
	case bson.M:
		return displaySafe(t)
	case bson.D:
		out := make(map[string]interface{}, len(t))
		for _, e := range t {
			out[e.Key] = displayValue(e.Value)
		}
		return out
	case bson.A:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = displayValue(e)
		}
		return out
	default:
		return v
	}
}
