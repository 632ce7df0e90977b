package credentials

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/socialhub/go-services/internal/apperr"
)

// Collection is the default collection for stored credentials.
const Collection = "credentials"

// MongoStore keeps hashed credentials in MongoDB, keyed by identity.
type MongoStore struct {
	col    *mongo.Collection
	hasher *Hasher
	now    func() time.Time
}

func NewMongoStore(col *mongo.Collection, h *Hasher) *MongoStore {
	return &MongoStore{col: col, hasher: h, now: time.Now}
}

func (s *MongoStore) Lookup(ctx context.Context, identity string) (*Credential, error) {
	const op = "credentials.lookup"
	var c Credential
	if err := s.col.FindOne(ctx, bson.M{"_id": identity}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.E(apperr.NotFound, op, "unknown identity")
		}
		return nil, apperr.Wrap(apperr.BackendUnavailable, op, err)
	}
	return &c, nil
}

// Upsert hashes secret and stores it for identity, replacing any prior entry.
func (s *MongoStore) Upsert(ctx context.Context, identity, secret string) error {
	const op = "credentials.upsert"
	if identity == "" || secret == "" {
		return apperr.E(apperr.InvalidInput, op, "identity and secret are required")
	}
	hash, err := s.hasher.Hash(secret)
	if err != nil {
		return apperr.Wrap(apperr.Internal, op, err)
	}
	c := Credential{Identity: identity, SecretHash: hash, CreatedAt: s.now().UTC().Truncate(time.Millisecond)}
	_, err = s.col.ReplaceOne(ctx, bson.M{"_id": identity}, c, options.Replace().SetUpsert(true))
	if err != nil {
		return apperr.Wrap(apperr.BackendUnavailable, op, err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, identity string) error {
	const op = "credentials.delete"
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": identity})
	if err != nil {
		return apperr.Wrap(apperr.BackendUnavailable, op, err)
	}
	if res.DeletedCount == 0 {
		return apperr.E(apperr.NotFound, op, "unknown identity")
	}
	return nil
}
