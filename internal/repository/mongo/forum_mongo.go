package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"dafoerum/internal/model"
	"dafoerum/internal/repository"
)

// Collection names in the forum database.
const (
	CounterCollection    = "counters"
	CategoryCollection   = "categories"
	ThreadCollection     = "threads"
	PostCollection       = "posts"
	AttachmentCollection = "attachments"
)

// ForumMongo is a MongoDB implementation of repository.Store.
// Forums are embedded in their category document; threads, posts and
// attachments each have their own collection keyed by a numeric "id".
type ForumMongo struct {
	db *mongodrv.Database
}

// NewForumMongo creates a new ForumMongo repository on db.
func NewForumMongo(db *mongodrv.Database) *ForumMongo {
	return &ForumMongo{db: db}
}

var _ repository.Store = (*ForumMongo)(nil)

func (r *ForumMongo) col(name string) *mongodrv.Collection {
	return r.db.Collection(name)
}

// NextID increments the kind's counter with an upsert and returns the new value.
func (r *ForumMongo) NextID(ctx context.Context, kind string) (uint32, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var c model.Counter
	err := r.col(CounterCollection).FindOneAndUpdate(ctx,
		bson.M{"category": kind},
		bson.M{"$inc": bson.M{"sequence": 1}},
		opts,
	).Decode(&c)
	if err != nil {
		return 0, err
	}
	return c.Sequence, nil
}

// ListCategories returns every category document ordered by id.
func (r *ForumMongo) ListCategories(ctx context.Context) ([]model.Category, error) {
	cur, err := r.col(CategoryCollection).Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	categories := make([]model.Category, 0)
	if err := cur.All(ctx, &categories); err != nil {
		return nil, err
	}
	for i := range categories {
		if categories[i].Forums == nil {
			categories[i].Forums = make([]model.Forum, 0)
		}
	}
	return categories, nil
}

// InsertCategory stores a category with an empty forum array so $push works on it.
func (r *ForumMongo) InsertCategory(ctx context.Context, c *model.Category) error {
	doc := *c
	if doc.Forums == nil {
		doc.Forums = make([]model.Forum, 0)
	}
	_, err := r.col(CategoryCollection).InsertOne(ctx, doc)
	return err
}

// CategoryExists checks for a category document with id.
func (r *ForumMongo) CategoryExists(ctx context.Context, id uint32) (bool, error) {
	n, err := r.col(CategoryCollection).CountDocuments(ctx, bson.M{"id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// InsertForum appends the forum to its category's forum array.
func (r *ForumMongo) InsertForum(ctx context.Context, categoryID uint32, f *model.Forum) error {
	res, err := r.col(CategoryCollection).UpdateOne(ctx,
		bson.M{"id": categoryID},
		bson.M{"$push": bson.M{"forums": f}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// FindForum loads the category holding the forum and picks the forum out of it.
func (r *ForumMongo) FindForum(ctx context.Context, id uint32) (*model.Forum, string, error) {
	var c model.Category
	err := r.col(CategoryCollection).FindOne(ctx, bson.M{"forums.id": id}).Decode(&c)
	if err != nil {
		return nil, "", notFound(err)
	}
	for i := range c.Forums {
		if c.Forums[i].ID == id {
			return &c.Forums[i], c.Name, nil
		}
	}
	return nil, "", repository.ErrNotFound
}

// CreateThread stores the thread and its origin post and points the forum at
// the thread. Documents written before a failing step are deleted again, so
// no thread survives without its origin post.
func (r *ForumMongo) CreateThread(ctx context.Context, t *model.Thread, origin *model.Post) error {
	if _, err := r.col(ThreadCollection).InsertOne(ctx, t); err != nil {
		return fmt.Errorf("insert thread: %w", err)
	}
	if _, err := r.col(PostCollection).InsertOne(ctx, origin); err != nil {
		return r.undo(ctx, fmt.Errorf("insert origin post: %w", err), ThreadCollection, t.ID)
	}
	if err := r.setLatestThread(ctx, t.ForumID, t.ID); err != nil {
		err = r.undo(ctx, err, PostCollection, origin.ID)
		return r.undo(ctx, err, ThreadCollection, t.ID)
	}
	return nil
}

// CreatePost stores a reply and points forumID at its thread. The post is
// deleted again when the forum update fails.
func (r *ForumMongo) CreatePost(ctx context.Context, p *model.Post, forumID uint32) error {
	if _, err := r.col(PostCollection).InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	if err := r.setLatestThread(ctx, forumID, p.ThreadID); err != nil {
		return r.undo(ctx, err, PostCollection, p.ID)
	}
	return nil
}

// undo deletes the document id from collection after cause and reports both
// failures when the delete fails too.
func (r *ForumMongo) undo(ctx context.Context, cause error, collection string, id uint32) error {
	if _, err := r.col(collection).DeleteOne(context.WithoutCancel(ctx), bson.M{"id": id}); err != nil {
		return errors.Join(cause, fmt.Errorf("undo %s %d: %w", collection, id, err))
	}
	return cause
}

func (r *ForumMongo) setLatestThread(ctx context.Context, forumID, threadID uint32) error {
	res, err := r.col(CategoryCollection).UpdateOne(ctx,
		bson.M{"forums.id": forumID},
		bson.M{"$set": bson.M{"forums.$.latest_thread_id": threadID}},
	)
	if err != nil {
		return fmt.Errorf("update forum latest thread: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// FindThread fetches a thread by id.
func (r *ForumMongo) FindThread(ctx context.Context, id uint32) (*model.Thread, error) {
	var t model.Thread
	if err := r.col(ThreadCollection).FindOne(ctx, bson.M{"id": id}).Decode(&t); err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

// ListThreads returns a forum's threads, newest id first.
func (r *ForumMongo) ListThreads(ctx context.Context, forumID uint32) ([]model.Thread, error) {
	cur, err := r.col(ThreadCollection).Find(ctx,
		bson.M{"forum_id": forumID},
		options.Find().SetSort(bson.D{{Key: "id", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	threads := make([]model.Thread, 0)
	if err := cur.All(ctx, &threads); err != nil {
		return nil, err
	}
	return threads, nil
}

// CountThreads counts a forum's threads.
func (r *ForumMongo) CountThreads(ctx context.Context, forumID uint32) (int64, error) {
	return r.col(ThreadCollection).CountDocuments(ctx, bson.M{"forum_id": forumID})
}

// FindPost fetches a post by id.
func (r *ForumMongo) FindPost(ctx context.Context, id uint32) (*model.Post, error) {
	var p model.Post
	if err := r.col(PostCollection).FindOne(ctx, bson.M{"id": id}).Decode(&p); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// ListPosts returns a thread's posts, oldest first.
func (r *ForumMongo) ListPosts(ctx context.Context, threadID uint32) ([]model.Post, error) {
	return r.findPosts(ctx, bson.M{"thread_id": threadID}, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
}

// LatestPosts returns up to limit posts, newest first.
func (r *ForumMongo) LatestPosts(ctx context.Context, limit int) ([]model.Post, error) {
	if limit <= 0 {
		return []model.Post{}, nil
	}
	return r.findPosts(ctx, bson.D{}, options.Find().
		SetSort(bson.D{{Key: "id", Value: -1}}).
		SetLimit(int64(limit)))
}

// LatestPostOf returns the newest post of a thread.
func (r *ForumMongo) LatestPostOf(ctx context.Context, threadID uint32) (*model.Post, error) {
	var p model.Post
	err := r.col(PostCollection).FindOne(ctx,
		bson.M{"thread_id": threadID},
		options.FindOne().SetSort(bson.D{{Key: "id", Value: -1}}),
	).Decode(&p)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// CountPosts counts a thread's posts.
func (r *ForumMongo) CountPosts(ctx context.Context, threadID uint32) (int64, error) {
	return r.col(PostCollection).CountDocuments(ctx, bson.M{"thread_id": threadID})
}

// CountForumPosts collects the forum's thread ids and counts posts in them.
func (r *ForumMongo) CountForumPosts(ctx context.Context, forumID uint32) (int64, error) {
	ids, err := r.col(ThreadCollection).Distinct(ctx, "id", bson.M{"forum_id": forumID})
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	return r.col(PostCollection).CountDocuments(ctx, bson.M{"thread_id": bson.M{"$in": ids}})
}

// Ping checks the primary is reachable.
func (r *ForumMongo) Ping(ctx context.Context) error {
	return r.db.Client().Ping(ctx, readpref.Primary())
}

func (r *ForumMongo) findPosts(ctx context.Context, filter any, opts *options.FindOptions) ([]model.Post, error) {
	cur, err := r.col(PostCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	posts := make([]model.Post, 0)
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// notFound translates mongo.ErrNoDocuments into repository.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, mongodrv.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	return err
}
