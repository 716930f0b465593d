// Package storage provides interfaces and implementations for different storage providers
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"
)

// LocalStorage implements ObjectStore on the local filesystem. It stands in
// for cloud object storage during development; "signed" URLs are plain
// links under the configured base URL with an expiry query parameter.
type LocalStorage struct {
	basePath string
	baseURL  string
}

// NewLocalStorage creates a local filesystem ObjectStore rooted at basePath.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if basePath == "" {
		basePath = "./storage"
	}

	if _, err := os.Stat(basePath); os.IsNotExist(err) {
		if err := os.MkdirAll(basePath, 0755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}

	return &LocalStorage{basePath: basePath, baseURL: baseURL}, nil
}

func (l *LocalStorage) objectPath(object string) string {
	return filepath.Join(l.basePath, filepath.FromSlash(object))
}

// Exists reports whether the object file is present.
func (l *LocalStorage) Exists(ctx context.Context, object string) (bool, error) {
	if _, err := os.Stat(l.objectPath(object)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object %s: %w", object, err)
	}
	return true, nil
}

// Upload copies a local file into the store.
func (l *LocalStorage) Upload(ctx context.Context, object, localPath, contentType string) error {
	dst := l.objectPath(object)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", object, err)
	}

	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return fmt.Errorf("failed to write object %s: %w", object, err)
	}

	return nil
}

// Download copies the object file to localPath.
func (l *LocalStorage) Download(ctx context.Context, object, localPath string) error {
	src, err := os.Open(l.objectPath(object))
	if err != nil {
		return fmt.Errorf("failed to open object %s: %w", object, err)
	}
	defer src.Close()

	out, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", localPath, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return fmt.Errorf("failed to download object %s: %w", object, err)
	}

	return nil
}

// SignedURL returns a development URL for the object. No cryptographic
// signature is involved; the expiry is informational only.
func (l *LocalStorage) SignedURL(ctx context.Context, object, method string, expiry time.Duration, contentType string) (string, error) {
	expires := time.Now().Add(expiry).Unix()
	return fmt.Sprintf("%s/%s?expires=%d", l.baseURL, path.Clean(object), expires), nil
}

// ObjectURI returns the absolute filesystem path of the object.
func (l *LocalStorage) ObjectURI(object string) string {
	abs, err := filepath.Abs(l.objectPath(object))
	if err != nil {
		return l.objectPath(object)
	}
	return abs
}
