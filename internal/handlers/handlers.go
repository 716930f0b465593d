// Package handlers provides HTTP handlers for the video generator API
package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/HosakaKeigo/short-video-ai-generator-public/internal/config"
	"github.com/HosakaKeigo/short-video-ai-generator-public/internal/models"
	"github.com/HosakaKeigo/short-video-ai-generator-public/internal/services/analyze"
	"github.com/HosakaKeigo/short-video-ai-generator-public/internal/services/extract"
	"github.com/HosakaKeigo/short-video-ai-generator-public/internal/services/upload"
	"github.com/HosakaKeigo/short-video-ai-generator-public/internal/storage"
)

// Handler bundles the service dependencies behind the HTTP endpoints.
type Handler struct {
	settings *config.Settings
	store    storage.ObjectStore
	uploads  *upload.Service
	extracts *extract.Service
}

// NewHandler creates an API handler over the given store and services.
func NewHandler(settings *config.Settings, store storage.ObjectStore, uploads *upload.Service, extracts *extract.Service) *Handler {
	return &Handler{
		settings: settings,
		store:    store,
		uploads:  uploads,
		extracts: extracts,
	}
}

// RegisterRoutes attaches the API routes to the router.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/models", h.GetModels).Methods(http.MethodGet)
	r.HandleFunc("/api/upload/init", h.InitUpload).Methods(http.MethodPost)
	r.HandleFunc("/api/analyze/{fileId}", h.AnalyzeVideo).Methods(http.MethodPost)
	r.HandleFunc("/api/extract", h.ExtractVideo).Methods(http.MethodPost)
}

// Health is the liveness endpoint.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	sendJSONResponse(w, map[string]string{"status": "healthy"}, http.StatusOK)
}

// GetModels returns the static catalog of AI providers and models.
func (h *Handler) GetModels(w http.ResponseWriter, r *http.Request) {
	sendJSONResponse(w, config.Models(), http.StatusOK)
}

// InitUpload generates a signed upload URL and a fresh file id.
func (h *Handler) InitUpload(w http.ResponseWriter, r *http.Request) {
	var req models.UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.uploads.InitUpload(r.Context(), &req)
	if err != nil {
		log.Printf("Failed to generate signed URL: %v", err)
		sendJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	sendJSONResponse(w, resp, http.StatusOK)
}

// AnalyzeVideo runs AI analysis on an uploaded video. The backend is
// selected per call from the environment.
func (h *Handler) AnalyzeVideo(w http.ResponseWriter, r *http.Request) {
	fileID := strings.TrimSpace(mux.Vars(r)["fileId"])

	analyzer := analyze.ForSettings(h.settings, h.store)
	result, err := analyzer.Analyze(r.Context(), fileID)
	if err != nil {
		log.Printf("Error analyzing video %s: %v", fileID, err)
		sendJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	sendJSONResponse(w, result, http.StatusOK)
}

// ExtractVideo cuts a single segment out of an uploaded video and returns a
// signed download URL. Segment-count violations map to 400; everything else
// surfaces as 500.
func (h *Handler) ExtractVideo(w http.ResponseWriter, r *http.Request) {
	var req models.ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.extracts.Extract(r.Context(), &req)
	if err != nil {
		if err == extract.ErrNoSegments || err == extract.ErrMultipleSegments {
			sendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("Video extraction failed: %v", err)
		sendJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	sendJSONResponse(w, resp, http.StatusOK)
}

// sendJSONResponse writes data as a JSON response with the given status
func sendJSONResponse(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON response: %v", err)
	}
}

// sendJSONError writes an error message as a JSON response with the given status
func sendJSONError(w http.ResponseWriter, message string, status int) {
	sendJSONResponse(w, models.ErrorResponse{Detail: message}, status)
}
