package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/socialhub/go-services/internal/apperr"
	"github.com/socialhub/go-services/internal/document"
)

// Mongo maps a partitioned container onto a MongoDB collection. The id lives
// in _id and the partition key in pk; point operations filter on both.
type Mongo[T any] struct {
	col *mongo.Collection
}

func NewMongo[T any](col *mongo.Collection) *Mongo[T] {
	return &Mongo[T]{col: col}
}

// EnsureIndexes creates the partition and scan-order indexes. Safe to repeat.
func (m *Mongo[T]) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "pk", Value: 1}}},
		{Keys: bson.D{{Key: "creationTimestamp", Value: 1}, {Key: "_id", Value: 1}}},
	}
	if _, err := m.col.Indexes().CreateMany(ctx, models); err != nil {
		return classify("mongo.indexes", err)
	}
	return nil
}

func filterFor(key document.Key) bson.D {
	return bson.D{{Key: "_id", Value: key.ID}, {Key: "pk", Value: key.PartitionKey}}
}

func (m *Mongo[T]) Insert(ctx context.Context, key document.Key, doc *T) error {
	if _, err := m.col.InsertOne(ctx, doc); err != nil {
		return classify("mongo.insert", err)
	}
	return nil
}

func (m *Mongo[T]) Find(ctx context.Context, key document.Key) (*T, error) {
	var d T
	if err := m.col.FindOne(ctx, filterFor(key)).Decode(&d); err != nil {
		return nil, classify("mongo.find", err)
	}
	return &d, nil
}

func (m *Mongo[T]) Replace(ctx context.Context, key document.Key, doc *T) error {
	res, err := m.col.ReplaceOne(ctx, filterFor(key), doc)
	if err != nil {
		return classify("mongo.replace", err)
	}
	if res.MatchedCount == 0 {
		return apperr.E(apperr.NotFound, "mongo.replace", "document not found")
	}
	return nil
}

func (m *Mongo[T]) Remove(ctx context.Context, key document.Key) error {
	res, err := m.col.DeleteOne(ctx, filterFor(key))
	if err != nil {
		return classify("mongo.remove", err)
	}
	if res.DeletedCount == 0 {
		return apperr.E(apperr.NotFound, "mongo.remove", "document not found")
	}
	return nil
}

func (m *Mongo[T]) Scan(ctx context.Context, page document.Page) ([]*T, error) {
	opts := options.Find().SetSort(bson.D{{Key: "creationTimestamp", Value: 1}, {Key: "_id", Value: 1}})
	if page.Offset > 0 {
		opts.SetSkip(int64(page.Offset))
	}
	if page.Limit > 0 {
		opts.SetLimit(int64(page.Limit))
	}
	cur, err := m.col.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, classify("mongo.scan", err)
	}
	defer cur.Close(ctx)

	out := []*T{}
	for cur.Next(ctx) {
		var d T
		if err := cur.Decode(&d); err != nil {
			return nil, apperr.Wrap(apperr.Internal, "mongo.scan", err)
		}
		out = append(out, &d)
	}
	if err := cur.Err(); err != nil {
		return nil, classify("mongo.scan", err)
	}
	return out, nil
}

// classify turns a driver error into an apperr kind. Only ErrNoDocuments means
// the document is absent; everything else is a backend failure.
func classify(op string, err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return apperr.E(apperr.NotFound, op, "document not found")
	case mongo.IsDuplicateKeyError(err):
		return apperr.E(apperr.InvalidInput, op, "document already exists")
	}
	return apperr.Wrap(apperr.BackendUnavailable, op, err)
}
