package model

import "time"

// Attachment is a file uploaded to a post. The content lives in object storage
// under StoragePath; only metadata is kept in the forum store.
type Attachment struct {
	ID          string    `json:"id" bson:"id"`
	PostID      uint32    `json:"post_id" bson:"post_id"`
	Filename    string    `json:"filename" bson:"filename"`
	StoragePath string    `json:"storage_path" bson:"storage_path"`
	Size        int64     `json:"size" bson:"size"`
	ContentType string    `json:"content_type" bson:"content_type"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}
