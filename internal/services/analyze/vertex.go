package analyze

import (
	"context"
	"fmt"
	"log"
	"time"

	"google.golang.org/genai"

	"github.com/HosakaKeigo/short-video-ai-generator-public/internal/config"
	"github.com/HosakaKeigo/short-video-ai-generator-public/internal/models"
	"github.com/HosakaKeigo/short-video-ai-generator-public/internal/storage"
)

const vertexLocation = "us-central1"

// VertexAnalyzer analyzes videos with Vertex AI, referencing the source
// object by its storage URI directly with no upload/poll cycle.
type VertexAnalyzer struct {
	settings *config.Settings
	store    storage.ObjectStore
}

// NewVertexAnalyzer creates a Vertex AI backed analyzer
func NewVertexAnalyzer(settings *config.Settings, store storage.ObjectStore) *VertexAnalyzer {
	return &VertexAnalyzer{settings: settings, store: store}
}

// Analyze submits the video's storage URI plus the analysis prompt to
// Vertex AI and maps the structured response into highlights.
func (v *VertexAnalyzer) Analyze(ctx context.Context, fileID string) (*models.AnalysisResult, error) {
	if v.settings.GCSProjectID == "" {
		return nil, fmt.Errorf("GCS_PROJECT_ID environment variable is not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend:     genai.BackendVertexAI,
		Project:     v.settings.GCSProjectID,
		Location:    vertexLocation,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex AI client: %w", err)
	}

	ext, mimeType := resolveSource(ctx, v.store, v.settings.GCSUploadsPrefix, fileID)
	sourceURI := v.store.ObjectURI(v.settings.GCSUploadsPrefix + fileID + ext)

	log.Printf("Analyzing video with Vertex AI model: %s", v.settings.VertexAIModel)
	log.Printf("Video location: %s (MIME: %s)", sourceURI, mimeType)

	contents := []*genai.Content{
		{
			Parts: []*genai.Part{
				{FileData: &genai.FileData{FileURI: sourceURI, MIMEType: mimeType}},
				{Text: analysisPrompt},
			},
		},
	}

	analysisStart := time.Now()
	resp, err := client.Models.GenerateContent(ctx, v.settings.VertexAIModel, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   segmentsSchema,
		MediaResolution:  genai.MediaResolutionLow,
	})
	if err != nil {
		return nil, fmt.Errorf("Vertex AI analysis failed: %w", err)
	}
	log.Printf("Vertex AI analysis completed in %.2f seconds", time.Since(analysisStart).Seconds())

	return parseSegments(resp.Text())
}
