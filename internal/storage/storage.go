// Package storage provides interfaces and implementations for different storage providers
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrObjectNotFound is returned when a probed object does not exist in
// the store.
var ErrObjectNotFound = errors.New("object not found in storage")

// ObjectStore defines the operations the service needs against an object
// storage backend. Objects are addressed by their full path within the
// bucket (e.g. "uploads/<fileId>.mp4").
type ObjectStore interface {
	// Exists reports whether the object is present in the store.
	Exists(ctx context.Context, object string) (bool, error)

	// Upload stores the contents of a local file under the given object path.
	Upload(ctx context.Context, object, localPath, contentType string) error

	// Download copies the object's contents to a local file.
	Download(ctx context.Context, object, localPath string) error

	// SignedURL returns a time-limited URL authorizing the given HTTP
	// method on the object. For PUT, a non-empty contentType is bound
	// into the signature.
	SignedURL(ctx context.Context, object, method string, expiry time.Duration, contentType string) (string, error)

	// ObjectURI returns the provider-native URI for the object
	// (e.g. gs://bucket/object for Google Cloud Storage).
	ObjectURI(object string) string
}

// VideoFormat pairs a file extension with its MIME type.
type VideoFormat struct {
	Ext      string
	MIMEType string
}

// VideoFormats is the ordered list of supported upload formats. Source
// probes try these extensions in order and the first existing object wins.
var VideoFormats = []VideoFormat{
	{".mp4", "video/mp4"},
	{".mov", "video/quicktime"},
	{".avi", "video/x-msvideo"},
	{".webm", "video/webm"},
}

// FindSource probes the store for "{prefix}{fileID}{ext}" across the
// supported video formats and returns the extension and MIME type of the
// first match. Returns ErrObjectNotFound when no candidate exists.
func FindSource(ctx context.Context, store ObjectStore, prefix, fileID string) (string, string, error) {
	for _, format := range VideoFormats {
		exists, err := store.Exists(ctx, prefix+fileID+format.Ext)
		if err != nil {
			return "", "", err
		}
		if exists {
			return format.Ext, format.MIMEType, nil
		}
	}
	return "", "", ErrObjectNotFound
}
