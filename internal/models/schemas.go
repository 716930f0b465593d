// Package models provides request and response schemas for the API
package models

// UploadRequest is the body of POST /api/upload/init.
type UploadRequest struct {
	FileName    string `json:"fileName"`
	FileSize    int64  `json:"fileSize"`
	ContentType string `json:"contentType"`
}

// UploadResponse carries the signed upload URL and the generated file id.
type UploadResponse struct {
	UploadURL string `json:"uploadUrl"`
	FileID    string `json:"fileId"`
}

// Highlight is a scored time-range segment produced by AI analysis.
type Highlight struct {
	Start       float64 `json:"start"`
	End         float64 `json:"end"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

// AnalysisResult is the body of a successful POST /api/analyze/{fileId}.
// Highlight order follows the AI response's segment order.
type AnalysisResult struct {
	Highlights []Highlight `json:"highlights"`
}

// Segment is a client-supplied extraction bound in seconds.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// ExtractRequest is the body of POST /api/extract. Exactly one segment is
// supported.
type ExtractRequest struct {
	FileID   string    `json:"fileId"`
	Segments []Segment `json:"segments"`
}

// ExtractResponse carries the signed download URL for the extracted clip.
type ExtractResponse struct {
	DownloadURL string `json:"downloadUrl"`
}

// ErrorResponse is the JSON error body returned on failures.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
