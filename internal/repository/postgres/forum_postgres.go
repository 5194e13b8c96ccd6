package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"dafoerum/internal/model"
	"dafoerum/internal/repository"
)

// psql renders squirrel builders with PostgreSQL $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// ForumPostgres is a PostgreSQL implementation of repository.Store.
// It uses database/sql with parameterized queries and contains no business logic.
type ForumPostgres struct {
	db *sql.DB
}

// NewForumPostgres creates a new ForumPostgres repository.
func NewForumPostgres(db *sql.DB) *ForumPostgres {
	return &ForumPostgres{db: db}
}

var _ repository.Store = (*ForumPostgres)(nil)

// NextID bumps the counter of kind, creating it on first use.
func (r *ForumPostgres) NextID(ctx context.Context, kind string) (uint32, error) {
	const q = `
		INSERT INTO counters (category, sequence)
		VALUES ($1, 1)
		ON CONFLICT (category) DO UPDATE SET sequence = counters.sequence + 1
		RETURNING sequence
	`
	var id uint32
	if err := r.db.QueryRowContext(ctx, q, kind).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// ListCategories loads categories and forums with two queries and nests them.
func (r *ForumPostgres) ListCategories(ctx context.Context) ([]model.Category, error) {
	const qCategories = `SELECT id, name FROM categories ORDER BY id`
	rows, err := r.db.QueryContext(ctx, qCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]model.Category, 0)
	index := make(map[uint32]int)
	for rows.Next() {
		c := model.Category{Forums: make([]model.Forum, 0)}
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		index[c.ID] = len(categories)
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const qForums = `SELECT id, category_id, name, latest_thread_id FROM forums ORDER BY id`
	frows, err := r.db.QueryContext(ctx, qForums)
	if err != nil {
		return nil, err
	}
	defer frows.Close()

	for frows.Next() {
		var f model.Forum
		var categoryID uint32
		if err := frows.Scan(&f.ID, &categoryID, &f.Name, &f.LatestThreadID); err != nil {
			return nil, err
		}
		if i, ok := index[categoryID]; ok {
			categories[i].Forums = append(categories[i].Forums, f)
		}
	}
	if err := frows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

// InsertCategory inserts a category row.
func (r *ForumPostgres) InsertCategory(ctx context.Context, c *model.Category) error {
	const q = `INSERT INTO categories (id, name) VALUES ($1, $2)`
	_, err := r.db.ExecContext(ctx, q, c.ID, c.Name)
	return err
}

// CategoryExists checks for a category row with id.
func (r *ForumPostgres) CategoryExists(ctx context.Context, id uint32) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// InsertForum inserts a forum row under categoryID.
func (r *ForumPostgres) InsertForum(ctx context.Context, categoryID uint32, f *model.Forum) error {
	const q = `INSERT INTO forums (id, category_id, name, latest_thread_id) VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, q, f.ID, categoryID, f.Name, f.LatestThreadID)
	return err
}

// FindForum fetches a forum joined with its category name.
func (r *ForumPostgres) FindForum(ctx context.Context, id uint32) (*model.Forum, string, error) {
	const q = `
		SELECT f.id, f.name, f.latest_thread_id, c.name
		FROM forums f
		JOIN categories c ON c.id = f.category_id
		WHERE f.id = $1
	`
	var f model.Forum
	var categoryName string
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&f.ID, &f.Name, &f.LatestThreadID, &categoryName); err != nil {
		return nil, "", notFound(err)
	}
	return &f, categoryName, nil
}

// CreateThread inserts the thread and its origin post and points the forum
// at the thread, all in one transaction.
func (r *ForumPostgres) CreateThread(ctx context.Context, t *model.Thread, origin *model.Post) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if err := insertThread(ctx, tx, t); err != nil {
			return fmt.Errorf("insert thread: %w", err)
		}
		if err := insertPost(ctx, tx, origin); err != nil {
			return fmt.Errorf("insert origin post: %w", err)
		}
		return setLatestThread(ctx, tx, t.ForumID, t.ID)
	})
}

// CreatePost inserts a reply and points forumID at the reply's thread in one
// transaction.
func (r *ForumPostgres) CreatePost(ctx context.Context, p *model.Post, forumID uint32) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if err := insertPost(ctx, tx, p); err != nil {
			return fmt.Errorf("insert post: %w", err)
		}
		return setLatestThread(ctx, tx, forumID, p.ThreadID)
	})
}

func (r *ForumPostgres) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	// No-op once committed.
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func setLatestThread(ctx context.Context, tx *sql.Tx, forumID, threadID uint32) error {
	const q = `UPDATE forums SET latest_thread_id = $1 WHERE id = $2`
	res, err := tx.ExecContext(ctx, q, threadID, forumID)
	if err != nil {
		return fmt.Errorf("update forum latest thread: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func insertThread(ctx context.Context, tx *sql.Tx, t *model.Thread) error {
	const q = `INSERT INTO threads (id, forum_id, origin_post_id, subject) VALUES ($1, $2, $3, $4)`
	_, err := tx.ExecContext(ctx, q, t.ID, t.ForumID, t.OriginPostID, t.Subject)
	return err
}

func insertPost(ctx context.Context, tx *sql.Tx, p *model.Post) error {
	const q = `INSERT INTO posts (id, thread_id, content, created_at) VALUES ($1, $2, $3, $4)`
	_, err := tx.ExecContext(ctx, q, p.ID, p.ThreadID, p.Content, p.CreatedAt)
	return err
}

// FindThread fetches a single thread by its ID.
func (r *ForumPostgres) FindThread(ctx context.Context, id uint32) (*model.Thread, error) {
	const q = `SELECT id, origin_post_id, subject, forum_id FROM threads WHERE id = $1`
	var t model.Thread
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.OriginPostID, &t.Subject, &t.ForumID); err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

// ListThreads returns a forum's threads, newest id first.
func (r *ForumPostgres) ListThreads(ctx context.Context, forumID uint32) ([]model.Thread, error) {
	q, args, err := psql.
		Select("id", "origin_post_id", "subject", "forum_id").
		From("threads").
		Where(sq.Eq{"forum_id": forumID}).
		OrderBy("id DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	threads := make([]model.Thread, 0)
	for rows.Next() {
		var t model.Thread
		if err := rows.Scan(&t.ID, &t.OriginPostID, &t.Subject, &t.ForumID); err != nil {
			return nil, err
		}
		threads = append(threads, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return threads, nil
}

// CountThreads counts a forum's threads. Unknown forums count zero.
func (r *ForumPostgres) CountThreads(ctx context.Context, forumID uint32) (int64, error) {
	return r.count(ctx, psql.Select("COUNT(*)").From("threads").Where(sq.Eq{"forum_id": forumID}))
}

// FindPost fetches a single post by its ID.
func (r *ForumPostgres) FindPost(ctx context.Context, id uint32) (*model.Post, error) {
	const q = `SELECT id, content, created_at, thread_id FROM posts WHERE id = $1`
	var p model.Post
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&p.ID, &p.Content, &p.CreatedAt, &p.ThreadID); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// ListPosts returns a thread's posts, oldest first.
func (r *ForumPostgres) ListPosts(ctx context.Context, threadID uint32) ([]model.Post, error) {
	return r.queryPosts(ctx, postsQuery().Where(sq.Eq{"thread_id": threadID}).OrderBy("id ASC"))
}

// LatestPosts returns up to limit posts, newest first.
func (r *ForumPostgres) LatestPosts(ctx context.Context, limit int) ([]model.Post, error) {
	if limit <= 0 {
		return []model.Post{}, nil
	}
	return r.queryPosts(ctx, postsQuery().OrderBy("id DESC").Limit(uint64(limit)))
}

// LatestPostOf returns the newest post of a thread.
func (r *ForumPostgres) LatestPostOf(ctx context.Context, threadID uint32) (*model.Post, error) {
	posts, err := r.queryPosts(ctx, postsQuery().Where(sq.Eq{"thread_id": threadID}).OrderBy("id DESC").Limit(1))
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, repository.ErrNotFound
	}
	return &posts[0], nil
}

// CountPosts counts a thread's posts. Unknown threads count zero.
func (r *ForumPostgres) CountPosts(ctx context.Context, threadID uint32) (int64, error) {
	return r.count(ctx, psql.Select("COUNT(*)").From("posts").Where(sq.Eq{"thread_id": threadID}))
}

// CountForumPosts counts the posts of every thread in a forum.
func (r *ForumPostgres) CountForumPosts(ctx context.Context, forumID uint32) (int64, error) {
	return r.count(ctx, psql.
		Select("COUNT(*)").
		From("posts p").
		Join("threads t ON t.id = p.thread_id").
		Where(sq.Eq{"t.forum_id": forumID}))
}

// Ping verifies the connection pool can reach the database.
func (r *ForumPostgres) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func postsQuery() sq.SelectBuilder {
	return psql.Select("id", "content", "created_at", "thread_id").From("posts")
}

func (r *ForumPostgres) queryPosts(ctx context.Context, b sq.SelectBuilder) ([]model.Post, error) {
	q, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]model.Post, 0)
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.Content, &p.CreatedAt, &p.ThreadID); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *ForumPostgres) count(ctx context.Context, b sq.SelectBuilder) (int64, error) {
	q, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}
	var n int64
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// notFound translates sql.ErrNoRows into repository.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}
