package analyze

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"google.golang.org/genai"

	"github.com/HosakaKeigo/short-video-ai-generator-public/internal/config"
	"github.com/HosakaKeigo/short-video-ai-generator-public/internal/models"
	"github.com/HosakaKeigo/short-video-ai-generator-public/internal/storage"
)

// GoogleAIAnalyzer analyzes videos through the Google AI API. Unlike the
// Vertex backend it cannot reference storage URIs, so it downloads the
// source and re-uploads it to the Files API, waiting until the service
// finishes processing it.
type GoogleAIAnalyzer struct {
	settings *config.Settings
	store    storage.ObjectStore
	apiKey   string
}

// fileGetter fetches the current state of a Files API entry.
type fileGetter interface {
	Get(ctx context.Context, name string) (*genai.File, error)
}

// genaiFiles adapts the genai client's file service to fileGetter.
type genaiFiles struct {
	client *genai.Client
}

func (g genaiFiles) Get(ctx context.Context, name string) (*genai.File, error) {
	return g.client.Files.Get(ctx, name, nil)
}

// NewGoogleAIAnalyzer creates a Google AI API backed analyzer
func NewGoogleAIAnalyzer(settings *config.Settings, store storage.ObjectStore, apiKey string) *GoogleAIAnalyzer {
	return &GoogleAIAnalyzer{settings: settings, store: store, apiKey: apiKey}
}

// Analyze downloads the video, uploads it to the Google AI Files API, waits
// for processing and runs the analysis prompt against it. The uploaded file
// is deleted best-effort afterwards.
func (g *GoogleAIAnalyzer) Analyze(ctx context.Context, fileID string) (*models.AnalysisResult, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  g.apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Google AI client: %w", err)
	}

	tempDir, err := os.MkdirTemp("", "analyze-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	ext, mimeType := resolveSource(ctx, g.store, g.settings.GCSUploadsPrefix, fileID)
	object := g.settings.GCSUploadsPrefix + fileID + ext
	localPath := filepath.Join(tempDir, fileID+ext)

	log.Printf("Downloading video from storage: %s", object)
	if err := g.store.Download(ctx, object, localPath); err != nil {
		return nil, err
	}

	log.Printf("Uploading video to Google AI Files API: %s", localPath)
	file, err := client.Files.UploadFromPath(ctx, localPath, &genai.UploadFileConfig{MIMEType: mimeType})
	if err != nil {
		return nil, fmt.Errorf("failed to upload video to Google AI: %w", err)
	}

	defer func() {
		if _, err := client.Files.Delete(ctx, file.Name, nil); err != nil {
			log.Printf("Failed to delete file from Google AI: %v", err)
		} else {
			log.Println("Deleted uploaded file from Google AI")
		}
	}()

	file, err = g.waitForProcessing(ctx, genaiFiles{client: client}, file)
	if err != nil {
		return nil, err
	}

	log.Println("Video upload completed")

	contents := []*genai.Content{
		{
			Parts: []*genai.Part{
				{FileData: &genai.FileData{FileURI: file.URI, MIMEType: file.MIMEType}},
				{Text: analysisPrompt},
			},
		},
	}

	log.Printf("Starting Google AI analysis for file: %s", file.Name)
	analysisStart := time.Now()
	resp, err := client.Models.GenerateContent(ctx, g.settings.GoogleAIModel, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   segmentsSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("Google AI analysis failed: %w", err)
	}
	log.Printf("Google AI analysis completed in %.2f seconds", time.Since(analysisStart).Seconds())

	return parseSegments(resp.Text())
}

// waitForProcessing polls the Files API at the configured interval until the
// file leaves the processing state. The wait is bounded by the configured
// timeout so a stuck remote state cannot pin the request forever.
func (g *GoogleAIAnalyzer) waitForProcessing(ctx context.Context, files fileGetter, file *genai.File) (*genai.File, error) {
	deadline := time.Now().Add(g.settings.AnalyzePollTimeout)

	for file.State == genai.FileStateProcessing {
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("timed out waiting for Google AI to process file %s", file.Name)
		}

		log.Printf("File state: %s, name: %s", file.State, file.Name)
		log.Println("Waiting for video to be processed...")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(g.settings.AnalyzePollInterval):
		}

		var err error
		file, err = files.Get(ctx, file.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to poll file state: %w", err)
		}
	}

	if file.State != genai.FileStateActive {
		return nil, fmt.Errorf("file upload failed with state: %s", file.State)
	}

	return file, nil
}
