// Package storage contains the object store abstraction used for post
// attachments and its S3-compatible implementation. Implementations stream
// content and never touch local disk.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// ErrDisabled is returned by Disabled for every call.
var ErrDisabled = errors.New("object storage is not configured")

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known, -1 otherwise.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage holds attachment bodies. Reads never pass through the server;
// clients download from a presigned URL.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	Delete(ctx context.Context, key string) error
	// PresignDownload returns a time-limited URL for key. The response
	// carries a Content-Disposition naming filename.
	PresignDownload(ctx context.Context, key, filename string, expiry time.Duration) (string, error)
}

// AttachmentKey builds the object key of an attachment:
// attachments/<post id>/<attachment id><original extension>.
func AttachmentKey(postID uint32, attachmentID, originalFilename string) string {
	ext := strings.ToLower(path.Ext(strings.ReplaceAll(originalFilename, "\\", "/")))
	return fmt.Sprintf("attachments/%d/%s%s", postID, attachmentID, ext)
}

// Disabled stands in for Storage when no endpoint is configured.
type Disabled struct{}

func (Disabled) Put(context.Context, string, io.Reader, PutObjectOptions) (ObjectInfo, error) {
	return ObjectInfo{}, ErrDisabled
}

func (Disabled) Delete(context.Context, string) error {
	return ErrDisabled
}

func (Disabled) PresignDownload(context.Context, string, string, time.Duration) (string, error) {
	return "", ErrDisabled
}
