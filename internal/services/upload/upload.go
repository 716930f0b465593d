// Package upload implements upload initiation: it issues a signed URL the
// client uses to PUT the video directly into object storage.
package upload

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/HosakaKeigo/short-video-ai-generator-public/internal/config"
	"github.com/HosakaKeigo/short-video-ai-generator-public/internal/models"
	"github.com/HosakaKeigo/short-video-ai-generator-public/internal/storage"
)

// ErrEmptyFileName is returned when the request file name is empty or
// whitespace-only.
var ErrEmptyFileName = errors.New("fileName cannot be empty")

// uploadURLExpiry is how long the signed upload URL stays valid.
const uploadURLExpiry = 24 * time.Hour

// contentTypeExtensions maps known video content types to a file extension
// for uploads whose file name carries none.
var contentTypeExtensions = map[string]string{
	"video/mp4":       "mp4",
	"video/quicktime": "mov",
	"video/x-msvideo": "avi",
	"video/webm":      "webm",
}

// Service initiates uploads against an object store.
type Service struct {
	settings *config.Settings
	store    storage.ObjectStore
}

// NewService creates an upload service
func NewService(settings *config.Settings, store storage.ObjectStore) *Service {
	return &Service{settings: settings, store: store}
}

// InitUpload validates the request, generates a fresh file id and returns a
// signed PUT URL for the computed object path. No object is created until
// the client performs the upload itself.
func (s *Service) InitUpload(ctx context.Context, req *models.UploadRequest) (*models.UploadResponse, error) {
	if strings.TrimSpace(req.FileName) == "" {
		return nil, ErrEmptyFileName
	}

	fileID := uuid.NewString()
	extension := DeriveExtension(req.FileName, req.ContentType)

	if err := s.settings.ValidateStorageConfig(); err != nil {
		return nil, err
	}

	object := fmt.Sprintf("%s%s.%s", s.settings.GCSUploadsPrefix, fileID, extension)

	signedURL, err := s.store.SignedURL(ctx, object, http.MethodPut, uploadURLExpiry, req.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to generate signed upload URL: %w", err)
	}

	log.Printf("Generated signed URL for fileId %s, object %s (Content-Type: %s)", fileID, object, req.ContentType)

	return &models.UploadResponse{UploadURL: signedURL, FileID: fileID}, nil
}

// DeriveExtension returns the lower-cased extension of fileName. When the
// name has no extension, the content type decides, defaulting to mp4 for
// unrecognized types.
func DeriveExtension(fileName, contentType string) string {
	if idx := strings.LastIndex(fileName, "."); idx >= 0 && idx < len(fileName)-1 {
		return strings.ToLower(fileName[idx+1:])
	}

	ext, ok := contentTypeExtensions[contentType]
	if !ok {
		ext = "mp4"
	}
	log.Printf("No file extension found in '%s', using '%s' based on content type", fileName, ext)
	return ext
}
