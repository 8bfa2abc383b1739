// Package storage holds BlobStore implementations for resume files.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"maplehr-backend/internal/domain"
)

var (
	ErrObjectNotFound = errors.New("storage: object not found")
	ErrObjectExists   = errors.New("storage: object already exists")
	ErrInvalidPath    = errors.New("storage: invalid object path")
)

// LocalStore keeps objects under root/bucket/path on the local filesystem.
type LocalStore struct {
	root string
}

var _ domain.BlobStore = (*LocalStore)(nil)

func NewLocalStore(root string) (*LocalStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &LocalStore{root: abs}, nil
}

// resolve rejects keys that would escape the bucket directory.
func (s *LocalStore) resolve(bucket, path string) (string, error) {
	if bucket == "" || path == "" || strings.Contains(bucket, "..") || strings.ContainsAny(bucket, `/\`) {
		return "", ErrInvalidPath
	}
	clean := filepath.Clean("/" + filepath.FromSlash(path))
	if clean == string(filepath.Separator) {
		return "", ErrInvalidPath
	}
	return filepath.Join(s.root, bucket, clean), nil
}

func (s *LocalStore) Upload(ctx context.Context, bucket, path string, data []byte, opts domain.UploadOptions) error {
	full, err := s.resolve(bucket, path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(full), err)
	}

	// Written to a temp file and renamed into place; readers never see a partial object.
	tmp, err := os.CreateTemp(filepath.Dir(full), ".upload-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if !opts.Upsert {
		f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			if errors.Is(err, fs.ErrExist) {
				return fmt.Errorf("%w: %s/%s", ErrObjectExists, bucket, path)
			}
			return err
		}
		f.Close()
	}
	return os.Rename(tmp.Name(), full)
}

func (s *LocalStore) Download(ctx context.Context, bucket, path string) ([]byte, error) {
	full, err := s.resolve(bucket, path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s/%s", ErrObjectNotFound, bucket, path)
	}
	return data, err
}

// PresignGet returns a file:// URL. TTL is not enforced for local files.
func (s *LocalStore) PresignGet(ctx context.Context, bucket, path string, ttl time.Duration) (string, error) {
	full, err := s.resolve(bucket, path)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(full); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s/%s", ErrObjectNotFound, bucket, path)
		}
		return "", err
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(full)}).String(), nil
}
