package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"dafoerum/internal/model"
)

// CreateAttachment stores an attachment document.
func (r *ForumMongo) CreateAttachment(ctx context.Context, a *model.Attachment) error {
	_, err := r.col(AttachmentCollection).InsertOne(ctx, a)
	return err
}

// FindAttachment fetches an attachment by id.
func (r *ForumMongo) FindAttachment(ctx context.Context, id string) (*model.Attachment, error) {
	var a model.Attachment
	if err := r.col(AttachmentCollection).FindOne(ctx, bson.M{"id": id}).Decode(&a); err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

// ListAttachments returns a post's attachments in upload order.
func (r *ForumMongo) ListAttachments(ctx context.Context, postID uint32) ([]model.Attachment, error) {
	cur, err := r.col(AttachmentCollection).Find(ctx,
		bson.M{"post_id": postID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "id", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	items := make([]model.Attachment, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteAttachment removes an attachment document; deleting nothing is fine.
func (r *ForumMongo) DeleteAttachment(ctx context.Context, id string) error {
	_, err := r.col(AttachmentCollection).DeleteOne(ctx, bson.M{"id": id})
	return err
}
