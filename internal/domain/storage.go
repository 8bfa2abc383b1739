package domain

import (
	"context"
	"errors"
	"time"
)

// ErrNoText is returned by a TextExtractor when a document has no text layer.
var ErrNoText = errors.New("extract: document contains no text")

type UploadOptions struct {
	Upsert      bool
	ContentType string
}

// BlobStore holds raw resume files.
type BlobStore interface {
	Upload(ctx context.Context, bucket, path string, data []byte, opts UploadOptions) error
	Download(ctx context.Context, bucket, path string) ([]byte, error)
	PresignGet(ctx context.Context, bucket, path string, ttl time.Duration) (string, error)
}

// TextExtractor turns a stored document into plain text.
// Documents that parse but carry no text return ErrNoText.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte, fileName, mimeType string) (string, error)
}
