// Package extract cuts a single time-range segment out of an uploaded video
// and returns a signed download URL for the result.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/HosakaKeigo/short-video-ai-generator-public/internal/config"
	"github.com/HosakaKeigo/short-video-ai-generator-public/internal/models"
	"github.com/HosakaKeigo/short-video-ai-generator-public/internal/storage"
)

var (
	// ErrNoSegments is returned when the request carries no segments.
	ErrNoSegments = errors.New("no segments provided")

	// ErrMultipleSegments is returned when the request carries more than
	// one segment; multi-segment composition is not supported.
	ErrMultipleSegments = errors.New("multiple segments are not supported, please select only one segment")
)

// downloadURLExpiry is how long the signed download URL stays valid.
const downloadURLExpiry = 24 * time.Hour

// ProgressEvent describes a stage transition of a running extraction.
type ProgressEvent struct {
	FileID string `json:"fileId"`
	Stage  string `json:"stage"`
}

// Notifier receives extraction progress events. Implementations must not
// block; publishing is fire-and-forget.
type Notifier interface {
	Publish(event ProgressEvent)
}

// Service performs single-segment video extraction.
type Service struct {
	settings *config.Settings
	store    storage.ObjectStore
	trimmer  Trimmer
	notifier Notifier
}

// NewService creates an extraction service
func NewService(settings *config.Settings, store storage.ObjectStore, trimmer Trimmer) *Service {
	return &Service{settings: settings, store: store, trimmer: trimmer}
}

// SetNotifier attaches an optional progress notifier.
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

func (s *Service) notify(fileID, stage string) {
	if s.notifier != nil {
		s.notifier.Publish(ProgressEvent{FileID: fileID, Stage: stage})
	}
}

// OutputObjectName returns the deterministic name of the extraction output
// for a given (fileId, start, end) triple. Repeated identical requests
// overwrite the same object rather than duplicating it.
func OutputObjectName(fileID string, start, end float64) string {
	return fmt.Sprintf("%s_extracted_%d_%d.mp4", fileID, int(start), int(end))
}

// Extract downloads the source video, trims the requested range with stream
// copy, uploads the result under the processed prefix and returns a signed
// download URL. Exactly one segment is required.
func (s *Service) Extract(ctx context.Context, req *models.ExtractRequest) (*models.ExtractResponse, error) {
	if len(req.Segments) == 0 {
		return nil, ErrNoSegments
	}
	if len(req.Segments) > 1 {
		return nil, ErrMultipleSegments
	}

	segment := req.Segments[0]
	outputName := OutputObjectName(req.FileID, segment.Start, segment.End)

	ext, _, err := storage.FindSource(ctx, s.store, s.settings.GCSUploadsPrefix, req.FileID)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, fmt.Errorf("input file not found in storage for fileId %s: %w", req.FileID, err)
		}
		return nil, err
	}

	tempDir, err := os.MkdirTemp("", "extract-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	sourceObject := s.settings.GCSUploadsPrefix + req.FileID + ext
	inputPath := filepath.Join(tempDir, req.FileID+ext)
	outputPath := filepath.Join(tempDir, outputName)

	s.notify(req.FileID, "downloading")
	log.Printf("Downloading from storage: %s", sourceObject)
	downloadStart := time.Now()
	if err := s.store.Download(ctx, sourceObject, inputPath); err != nil {
		return nil, err
	}
	log.Printf("Download completed: %s in %.2f seconds", sourceObject, time.Since(downloadStart).Seconds())

	s.notify(req.FileID, "extracting")
	log.Printf("Extracting video segment: %.2fs - %.2fs", segment.Start, segment.End)
	extractStart := time.Now()
	if err := s.trimmer.Trim(ctx, inputPath, outputPath, segment.Start, segment.End); err != nil {
		return nil, fmt.Errorf("video extraction failed: %w", err)
	}
	log.Printf("Video extraction completed in %.2f seconds", time.Since(extractStart).Seconds())

	outputObject := s.settings.GCSProcessedPrefix + outputName

	s.notify(req.FileID, "uploading")
	log.Printf("Uploading to storage: %s", outputObject)
	uploadStart := time.Now()
	if err := s.store.Upload(ctx, outputObject, outputPath, "video/mp4"); err != nil {
		return nil, err
	}
	log.Printf("Upload completed: %s in %.2f seconds", outputObject, time.Since(uploadStart).Seconds())

	downloadURL, err := s.store.SignedURL(ctx, outputObject, http.MethodGet, downloadURLExpiry, "")
	if err != nil {
		return nil, fmt.Errorf("failed to generate signed download URL: %w", err)
	}

	s.notify(req.FileID, "done")

	return &models.ExtractResponse{DownloadURL: downloadURL}, nil
}
