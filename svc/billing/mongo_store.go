package billing

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/planbridge/pkg/subscription"
)

// MongoStore keeps one entitlement document per user, keyed by user id.
type MongoStore struct {
	coll *mongo.Collection
}

var _ subscription.EntitlementStore = (*MongoStore)(nil)

// NewMongoStore creates a store over the named collection.
func NewMongoStore(db *mongo.Database, collection string) *MongoStore {
	return &MongoStore{coll: db.Collection(collection)}
}

// Merge upserts the update's fields with a single $set, so fields the update
// does not carry keep their stored value.
func (s *MongoStore) Merge(ctx context.Context, userID string, update subscription.EntitlementUpdate) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": userID},
		MergeDocument(update),
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return errors.Join(ErrMergeFailed, err)
	}
	return nil
}

// MergeDocument builds the update document written by Merge.
func MergeDocument(update subscription.EntitlementUpdate) bson.M {
	return bson.M{"$set": bson.M(update.Fields())}
}
