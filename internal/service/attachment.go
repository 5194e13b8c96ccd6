package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"dafoerum/internal/metrics"
	"dafoerum/internal/model"
	"dafoerum/internal/repository"
	"dafoerum/internal/storage"
)

// DefaultDownloadExpiry is how long a presigned download link stays valid.
const DefaultDownloadExpiry = 15 * time.Minute

// AttachmentService defines the use cases for files attached to posts.
type AttachmentService interface {
	// Upload stores the content in object storage, then saves its metadata.
	// The object is removed again if saving the metadata fails.
	Upload(ctx context.Context, postID uint32, r io.Reader, originalFilename, contentType string, size int64) (*model.Attachment, error)
	// List returns a post's attachments in upload order.
	List(ctx context.Context, postID uint32) ([]model.Attachment, error)
	// Get returns a single attachment by its ID.
	Get(ctx context.Context, id string) (*model.Attachment, error)
	// DownloadURL returns a presigned URL for the attachment's content.
	DownloadURL(ctx context.Context, id string, expiry time.Duration) (string, error)
	// Delete removes an attachment from storage, then its metadata.
	Delete(ctx context.Context, id string) error
}

type attachmentService struct {
	store    storage.Storage
	repo     repository.Store
	metrics  *metrics.Forum
	now      func() time.Time
	disabled bool
}

// NewAttachmentService constructs an AttachmentService. With storage.Disabled
// every operation fails with ErrAttachmentsDisabled before touching the
// repository.
func NewAttachmentService(store storage.Storage, repo repository.Store, m *metrics.Forum) AttachmentService {
	_, disabled := store.(storage.Disabled)
	return &attachmentService{store: store, repo: repo, metrics: m, now: time.Now, disabled: disabled}
}

func (s *attachmentService) Upload(ctx context.Context, postID uint32, r io.Reader, originalFilename, contentType string, size int64) (_ *model.Attachment, err error) {
	ctx, span := tracer.Start(ctx, "AttachmentService.Upload",
		trace.WithAttributes(attribute.Int64("post.id", int64(postID)), attribute.Int64("attachment.size", size)))
	defer func() { endSpan(span, err) }()

	if s.disabled {
		return nil, ErrAttachmentsDisabled
	}
	if r == nil {
		return nil, ErrReaderNil
	}
	if _, err := s.repo.FindPost(ctx, postID); err != nil {
		return nil, lookupErr(err, "post", postID)
	}

	id := uuid.New().String()
	key := storage.AttachmentKey(postID, id, originalFilename)

	objInfo, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": filepath.Base(originalFilename),
			"post-id":           fmt.Sprint(postID),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	a := &model.Attachment{
		ID:          id,
		PostID:      postID,
		Filename:    filepath.Base(originalFilename),
		StoragePath: objInfo.Key,
		Size:        objInfo.Size,
		ContentType: objInfo.ContentType,
		CreatedAt:   s.now().UTC().Truncate(time.Millisecond),
	}
	if err := s.repo.CreateAttachment(ctx, a); err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	s.metrics.AttachmentUploaded()
	return a, nil
}

func (s *attachmentService) List(ctx context.Context, postID uint32) ([]model.Attachment, error) {
	if s.disabled {
		return nil, ErrAttachmentsDisabled
	}
	if _, err := s.repo.FindPost(ctx, postID); err != nil {
		return nil, lookupErr(err, "post", postID)
	}
	return s.repo.ListAttachments(ctx, postID)
}

func (s *attachmentService) Get(ctx context.Context, id string) (*model.Attachment, error) {
	if s.disabled {
		return nil, ErrAttachmentsDisabled
	}
	if id == "" {
		return nil, ErrIDRequired
	}
	a, err := s.repo.FindAttachment(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "attachment", id)
	}
	return a, nil
}

func (s *attachmentService) DownloadURL(ctx context.Context, id string, expiry time.Duration) (string, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if expiry <= 0 {
		expiry = DefaultDownloadExpiry
	}
	u, err := s.store.PresignDownload(ctx, a.StoragePath, a.Filename, expiry)
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return u, nil
}

func (s *attachmentService) Delete(ctx context.Context, id string) error {
	a, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	// Storage first: a failed delete keeps the row pointing at the object.
	if err := s.store.Delete(ctx, a.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	if err := s.repo.DeleteAttachment(ctx, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}
