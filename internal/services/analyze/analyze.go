// Package analyze submits uploaded videos to a Gemini backend and maps the
// structured response into scored highlight segments.
package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"google.golang.org/genai"

	"github.com/HosakaKeigo/short-video-ai-generator-public/internal/config"
	"github.com/HosakaKeigo/short-video-ai-generator-public/internal/models"
	"github.com/HosakaKeigo/short-video-ai-generator-public/internal/storage"
)

// Analyzer produces highlight segments for an uploaded video.
type Analyzer interface {
	Analyze(ctx context.Context, fileID string) (*models.AnalysisResult, error)
}

// ForSettings selects the backend for a single call: the API-key backend
// when GOOGLE_API_KEY is present in the environment, the Vertex AI backend
// otherwise. The environment is read fresh on every call.
func ForSettings(settings *config.Settings, store storage.ObjectStore) Analyzer {
	if apiKey := os.Getenv("GOOGLE_API_KEY"); apiKey != "" {
		log.Println("Using Google AI API for video analysis")
		return NewGoogleAIAnalyzer(settings, store, apiKey)
	}
	log.Println("Using Vertex AI for video analysis")
	return NewVertexAnalyzer(settings, store)
}

// analysisPrompt instructs the model to split the video into 30-second
// segments and score each one. The weighting rubric is an instruction to
// the model, not enforced here.
const analysisPrompt = `
この動画を30秒ごとのセグメントに分割して分析してください。
各セグメントについて以下の情報を提供してください：
- start: セグメントの開始時間（秒）
- end: セグメントの終了時間（秒）
- title: そのセグメントの簡潔なタイトル（日本語）
- description: セグメントの内容説明（日本語）
- score: そのセグメントの重要度スコア（0.0〜1.0）

重要度スコアは以下の基準で評価してください：
- 視覚的に魅力的なシーン: +0.2
- 重要な情報が含まれている: +0.3
- アクションや動きがある: +0.2
- 音声で重要な説明がある: +0.3
`

// segmentsSchema constrains the model response to the segments JSON shape.
var segmentsSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"segments": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"start":       {Type: genai.TypeNumber},
					"end":         {Type: genai.TypeNumber},
					"title":       {Type: genai.TypeString},
					"description": {Type: genai.TypeString},
					"score":       {Type: genai.TypeNumber},
				},
				Required: []string{"start", "end", "title", "description", "score"},
			},
		},
	},
	Required: []string{"segments"},
}

type geminiSegment struct {
	Start       float64 `json:"start"`
	End         float64 `json:"end"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

type geminiResponse struct {
	Segments []geminiSegment `json:"segments"`
}

// parseSegments decodes the model's JSON response and maps each segment 1:1
// into a Highlight, preserving order. Parse failures propagate unchanged.
func parseSegments(text string) (*models.AnalysisResult, error) {
	var resp geminiResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse analysis response: %w", err)
	}

	highlights := make([]models.Highlight, 0, len(resp.Segments))
	for _, segment := range resp.Segments {
		highlights = append(highlights, models.Highlight{
			Start:       segment.Start,
			End:         segment.End,
			Title:       segment.Title,
			Description: segment.Description,
			Score:       segment.Score,
		})
	}

	return &models.AnalysisResult{Highlights: highlights}, nil
}

// resolveSource probes storage for the uploaded object's extension and MIME
// type. When no candidate exists (or the probe itself fails) it defaults to
// mp4 rather than failing; the analysis backends accept this deliberately.
func resolveSource(ctx context.Context, store storage.ObjectStore, prefix, fileID string) (string, string) {
	ext, mimeType, err := storage.FindSource(ctx, store, prefix, fileID)
	if err != nil {
		log.Printf("No video file found for fileId %s, defaulting to .mp4: %v", fileID, err)
		return ".mp4", "video/mp4"
	}
	log.Printf("Found video file: %s%s%s", prefix, fileID, ext)
	return ext, mimeType
}
