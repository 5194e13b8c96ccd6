package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type indexSpec struct {
	collection string
	model      mongodrv.IndexModel
}

func unique(keys bson.D) mongodrv.IndexModel {
	return mongodrv.IndexModel{Keys: keys, Options: options.Index().SetUnique(true)}
}

var indexSpecs = []indexSpec{
	{CounterCollection, unique(bson.D{{Key: "category", Value: 1}})},
	{CategoryCollection, unique(bson.D{{Key: "id", Value: 1}})},
	{CategoryCollection, mongodrv.IndexModel{Keys: bson.D{{Key: "forums.id", Value: 1}}}},
	{ThreadCollection, unique(bson.D{{Key: "id", Value: 1}})},
	{ThreadCollection, mongodrv.IndexModel{Keys: bson.D{{Key: "forum_id", Value: 1}, {Key: "id", Value: -1}}}},
	{PostCollection, unique(bson.D{{Key: "id", Value: 1}})},
	{PostCollection, mongodrv.IndexModel{Keys: bson.D{{Key: "thread_id", Value: 1}, {Key: "id", Value: 1}}}},
	{AttachmentCollection, unique(bson.D{{Key: "id", Value: 1}})},
	{AttachmentCollection, mongodrv.IndexModel{Keys: bson.D{{Key: "post_id", Value: 1}}}},
}

// EnsureIndexes creates the indexes the queries rely on. Creating an existing
// index is a no-op on the server, so this is safe to run on every migrate.
func EnsureIndexes(ctx context.Context, db *mongodrv.Database) error {
	for _, s := range indexSpecs {
		if _, err := db.Collection(s.collection).Indexes().CreateOne(ctx, s.model); err != nil {
			return fmt.Errorf("create index on %s: %w", s.collection, err)
		}
	}
	return nil
}
