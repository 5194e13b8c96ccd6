package model

import (
	"fmt"
	"time"
)

// Counter kinds. Every entity with a numeric id draws it from its own sequence.
const (
	KindCategory = "category"
	KindForum    = "forum"
	KindThread   = "thread"
	KindPost     = "post"
)

// PostTimeLayout renders e.g. 2025-03-07T02:12:38+01:00.
const PostTimeLayout = "2006-01-02T15:04:05-07:00"

// Counter holds the last id handed out for one kind.
type Counter struct {
	Category string `json:"category" bson:"category"`
	Sequence uint32 `json:"sequence" bson:"sequence"`
}

// Category groups forums under a heading.
type Category struct {
	ID     uint32  `json:"id" bson:"id"`
	Name   string  `json:"name" bson:"name"`
	Forums []Forum `json:"forums" bson:"forums"`
}

// Forum is a board inside a category holding threads.
// LatestThreadID is 0 while the forum has no threads.
type Forum struct {
	ID             uint32 `json:"id" bson:"id"`
	Name           string `json:"name" bson:"name"`
	LatestThreadID uint32 `json:"latest_thread_id" bson:"latest_thread_id"`
}

// Thread is part of a forum and contains one or more posts. OriginPostID is
// the post the thread was opened with.
type Thread struct {
	ID           uint32 `json:"id" bson:"id"`
	OriginPostID uint32 `json:"origin_post_id" bson:"origin_post_id"`
	Subject      string `json:"subject" bson:"subject"`
	ForumID      uint32 `json:"forum_id" bson:"forum_id"`
}

// Post is a single message in a thread.
type Post struct {
	ID        uint32    `json:"id" bson:"id"`
	Content   string    `json:"content" bson:"content"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	ThreadID  uint32    `json:"thread_id" bson:"thread_id"`
}

// FormatIn renders the creation time in loc, e.g. 2025-03-07T02:12:38+01:00.
func (p Post) FormatIn(loc *time.Location) string {
	return p.CreatedAt.In(loc).Format(PostTimeLayout)
}

// ForumWithCategory is a forum together with the name of its category.
type ForumWithCategory struct {
	Forum        Forum  `json:"forum"`
	CategoryName string `json:"category_name"`
}

// ThreadSummary is a row of a forum's thread list.
type ThreadSummary struct {
	Thread     Thread `json:"thread"`
	PostCount  int64  `json:"post_count"`
	LatestPost Post   `json:"latest_post"`
}

// ForumStats counts the threads and posts of a forum.
type ForumStats struct {
	Threads int64 `json:"threads"`
	Posts   int64 `json:"posts"`
}

// LatestActivity is the most recent post of a thread with the thread itself.
type LatestActivity struct {
	Post   Post   `json:"post"`
	Thread Thread `json:"thread"`
}

// Ago renders how many minutes lie between t and now, with one decimal.
func Ago(t, now time.Time) string {
	return fmt.Sprintf("%.1f", now.Sub(t).Minutes())
}
