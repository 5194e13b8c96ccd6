package repository

// Package repository contains data access layer abstractions.
// Implementations live in subpackages: postgres (relational) and mongo (document).

import (
	"context"
	"errors"

	"dafoerum/internal/model"
)

// ErrNotFound is returned by every implementation when a lookup matches nothing.
var ErrNotFound = errors.New("not found")

// ForumRepository defines persistence for categories, forums, threads and posts.
// No business logic here: validation and existence rules belong to the service.
type ForumRepository interface {
	// NextID increments the counter of kind and returns the new value.
	// A missing counter starts at zero, so the first id of a kind is 1.
	NextID(ctx context.Context, kind string) (uint32, error)

	// ListCategories returns all categories with their forums, ordered by id.
	ListCategories(ctx context.Context) ([]model.Category, error)
	// InsertCategory stores a category without forums.
	InsertCategory(ctx context.Context, c *model.Category) error
	// CategoryExists reports whether a category with id is stored.
	CategoryExists(ctx context.Context, id uint32) (bool, error)

	// InsertForum stores a forum inside the category categoryID.
	InsertForum(ctx context.Context, categoryID uint32, f *model.Forum) error
	// FindForum returns the forum with id and the name of its category.
	FindForum(ctx context.Context, id uint32) (*model.Forum, string, error)

	// CreateThread stores a thread with its origin post and records it as the
	// forum's latest thread. Either all three writes persist or none does.
	// ErrNotFound means the forum is gone.
	CreateThread(ctx context.Context, t *model.Thread, origin *model.Post) error
	// FindThread returns the thread with id.
	FindThread(ctx context.Context, id uint32) (*model.Thread, error)
	// ListThreads returns the threads of a forum in id-descending order.
	ListThreads(ctx context.Context, forumID uint32) ([]model.Thread, error)
	// CountThreads counts the threads of a forum.
	CountThreads(ctx context.Context, forumID uint32) (int64, error)

	// CreatePost stores a reply and records its thread as the latest of
	// forumID, all or nothing. ErrNotFound means the forum is gone.
	CreatePost(ctx context.Context, p *model.Post, forumID uint32) error
	// FindPost returns the post with id.
	FindPost(ctx context.Context, id uint32) (*model.Post, error)
	// ListPosts returns the posts of a thread in id-ascending order.
	ListPosts(ctx context.Context, threadID uint32) ([]model.Post, error)
	// LatestPosts returns at most limit posts in id-descending order.
	LatestPosts(ctx context.Context, limit int) ([]model.Post, error)
	// LatestPostOf returns the newest post of a thread.
	LatestPostOf(ctx context.Context, threadID uint32) (*model.Post, error)
	// CountPosts counts the posts of a thread.
	CountPosts(ctx context.Context, threadID uint32) (int64, error)
	// CountForumPosts counts the posts in all threads of a forum.
	CountForumPosts(ctx context.Context, forumID uint32) (int64, error)

	// Ping checks connectivity to the backing store.
	Ping(ctx context.Context) error
}

// AttachmentRepository defines persistence for attachment metadata.
type AttachmentRepository interface {
	// CreateAttachment inserts a new attachment record.
	CreateAttachment(ctx context.Context, a *model.Attachment) error
	// FindAttachment returns an attachment by its ID.
	FindAttachment(ctx context.Context, id string) (*model.Attachment, error)
	// ListAttachments returns the attachments of a post, oldest first.
	ListAttachments(ctx context.Context, postID uint32) ([]model.Attachment, error)
	// DeleteAttachment removes an attachment by ID. Missing rows are not an error.
	DeleteAttachment(ctx context.Context, id string) error
}

// Store is what a backend provides to the rest of the application.
type Store interface {
	ForumRepository
	AttachmentRepository
}
