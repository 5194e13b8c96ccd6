package postgres

import (
	"context"

	"dafoerum/internal/model"
)

// CreateAttachment inserts a new attachment row.
func (r *ForumPostgres) CreateAttachment(ctx context.Context, a *model.Attachment) error {
	const q = `
		INSERT INTO attachments (id, post_id, filename, storage_path, size, content_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, q,
		a.ID,
		a.PostID,
		a.Filename,
		a.StoragePath,
		a.Size,
		a.ContentType,
		a.CreatedAt,
	)
	return err
}

// FindAttachment fetches a single attachment by its ID.
func (r *ForumPostgres) FindAttachment(ctx context.Context, id string) (*model.Attachment, error) {
	const q = `
		SELECT id, post_id, filename, storage_path, size, content_type, created_at
		FROM attachments
		WHERE id = $1
	`
	var a model.Attachment
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&a.ID,
		&a.PostID,
		&a.Filename,
		&a.StoragePath,
		&a.Size,
		&a.ContentType,
		&a.CreatedAt,
	); err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

// ListAttachments returns a post's attachments in upload order.
func (r *ForumPostgres) ListAttachments(ctx context.Context, postID uint32) ([]model.Attachment, error) {
	const q = `
		SELECT id, post_id, filename, storage_path, size, content_type, created_at
		FROM attachments
		WHERE post_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, q, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Attachment, 0)
	for rows.Next() {
		var a model.Attachment
		if err := rows.Scan(
			&a.ID,
			&a.PostID,
			&a.Filename,
			&a.StoragePath,
			&a.Size,
			&a.ContentType,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteAttachment removes an attachment row. It does not fail when the row is gone.
func (r *ForumPostgres) DeleteAttachment(ctx context.Context, id string) error {
	const q = `DELETE FROM attachments WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
