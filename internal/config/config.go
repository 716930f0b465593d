// Package config provides configuration management for the video generator backend
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Settings holds the application configuration. It is resolved once per
// process via Get and treated as read-only afterwards.
type Settings struct {
	AppName string
	Version string
	Debug   bool

	// Server
	Host            string
	Port            int
	ShutdownTimeout int
	CORSOrigins     []string

	// Storage
	UseMockStorage  bool
	StorageProvider string // "gcs" or "s3"; ignored when UseMockStorage is true
	StorageBaseURL  string
	StorageRoot     string

	// Google Cloud Storage
	GCSBucketName      string
	GCSProjectID       string
	GCSUploadsPrefix   string
	GCSProcessedPrefix string

	// Amazon S3 (alternative provider)
	S3Region     string
	S3BucketName string

	// Google Cloud authentication
	GoogleApplicationCredentials string

	// AI models
	VertexAIModel string
	GoogleAIModel string
	GoogleAPIKey  string

	// Analysis polling
	AnalyzePollInterval time.Duration
	AnalyzePollTimeout  time.Duration
}

var (
	settings     *Settings
	settingsOnce sync.Once
)

// Get returns the process-wide settings instance, loading it from the
// environment on first call.
func Get() *Settings {
	settingsOnce.Do(func() {
		settings = Load()
		settings.configureGoogleAuth()
	})
	return settings
}

// Load builds a Settings instance from environment variables and defaults.
// Most callers should use Get; Load exists so tests can construct isolated
// instances.
func Load() *Settings {
	s := &Settings{
		AppName:            "AI Short Video Generator API",
		Version:            "0.1.0",
		Host:               "0.0.0.0",
		Port:               8080,
		ShutdownTimeout:    30,
		CORSOrigins:        []string{"*"},
		UseMockStorage:     true,
		StorageProvider:    "gcs",
		StorageBaseURL:     "http://localhost:8080/storage",
		StorageRoot:        "./storage",
		GCSUploadsPrefix:   "uploads/",
		GCSProcessedPrefix: "processed/",
		VertexAIModel:      "gemini-2.0-flash-lite-001",
		GoogleAIModel:      "gemini-2.0-flash-lite-001",

		AnalyzePollInterval: 5 * time.Second,
		AnalyzePollTimeout:  10 * time.Minute,
	}

	s.overrideWithEnv()
	return s
}

// overrideWithEnv overrides configuration with environment variables
func (s *Settings) overrideWithEnv() {
	if debug := os.Getenv("DEBUG"); debug != "" {
		s.Debug = debug == "true" || debug == "1"
	}

	if host := os.Getenv("HOST"); host != "" {
		s.Host = host
	}

	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			s.Port = p
		}
	}

	if timeout := os.Getenv("SHUTDOWN_TIMEOUT"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil {
			s.ShutdownTimeout = t
		}
	}

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		s.CORSOrigins = ParseCORSOrigins(origins)
	}

	if mock := os.Getenv("USE_MOCK_STORAGE"); mock != "" {
		s.UseMockStorage = mock == "true" || mock == "1"
	}

	if provider := os.Getenv("STORAGE_PROVIDER"); provider != "" {
		s.StorageProvider = provider
	}

	if baseURL := os.Getenv("STORAGE_BASE_URL"); baseURL != "" {
		s.StorageBaseURL = baseURL
	}

	if root := os.Getenv("STORAGE_ROOT"); root != "" {
		s.StorageRoot = root
	}

	if bucket := os.Getenv("GCS_BUCKET_NAME"); bucket != "" {
		s.GCSBucketName = bucket
	}

	if project := os.Getenv("GCS_PROJECT_ID"); project != "" {
		s.GCSProjectID = project
	}

	if prefix := os.Getenv("GCS_UPLOADS_PREFIX"); prefix != "" {
		s.GCSUploadsPrefix = prefix
	}

	if prefix := os.Getenv("GCS_PROCESSED_PREFIX"); prefix != "" {
		s.GCSProcessedPrefix = prefix
	}

	if region := os.Getenv("S3_REGION"); region != "" {
		s.S3Region = region
	}

	if bucket := os.Getenv("S3_BUCKET_NAME"); bucket != "" {
		s.S3BucketName = bucket
	}

	if creds := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); creds != "" {
		s.GoogleApplicationCredentials = creds
	}

	if model := os.Getenv("VERTEX_AI_MODEL"); model != "" {
		s.VertexAIModel = model
	}

	if model := os.Getenv("GOOGLE_AI_MODEL"); model != "" {
		s.GoogleAIModel = model
	}

	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		s.GoogleAPIKey = key
	}

	if interval := os.Getenv("ANALYZE_POLL_INTERVAL"); interval != "" {
		if d, err := time.ParseDuration(interval); err == nil {
			s.AnalyzePollInterval = d
		}
	}

	if timeout := os.Getenv("ANALYZE_POLL_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			s.AnalyzePollTimeout = d
		}
	}
}

// ParseCORSOrigins parses allowed origins from a comma-separated string.
func ParseCORSOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if o := strings.TrimSpace(origin); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// ValidateStorageConfig checks that real-storage settings are usable. It is
// invoked lazily by callers that need cloud storage, not at load time.
func (s *Settings) ValidateStorageConfig() error {
	if s.UseMockStorage {
		return nil
	}

	switch s.StorageProvider {
	case "s3":
		if s.S3BucketName == "" {
			return fmt.Errorf("S3_BUCKET_NAME environment variable is required when STORAGE_PROVIDER is s3")
		}
		if s.S3Region == "" {
			return fmt.Errorf("S3_REGION environment variable is required when STORAGE_PROVIDER is s3")
		}
	default:
		if s.GCSBucketName == "" {
			return fmt.Errorf("GCS_BUCKET_NAME environment variable is required when USE_MOCK_STORAGE is false")
		}
		if s.GCSProjectID == "" {
			return fmt.Errorf("GCS_PROJECT_ID environment variable is required when USE_MOCK_STORAGE is false")
		}
	}

	return nil
}

// configureGoogleAuth exports the credentials path so the Google Cloud SDKs
// pick it up as application default credentials.
func (s *Settings) configureGoogleAuth() {
	if s.GoogleApplicationCredentials != "" {
		os.Setenv("GOOGLE_APPLICATION_CREDENTIALS", s.GoogleApplicationCredentials)
	}
}

// UploadsDir returns the local uploads directory for mock storage,
// creating it if needed.
func (s *Settings) UploadsDir() (string, error) {
	return s.ensureDir(filepath.Join(s.StorageRoot, "uploads"))
}

// ProcessedDir returns the local processed-files directory for mock storage,
// creating it if needed.
func (s *Settings) ProcessedDir() (string, error) {
	return s.ensureDir(filepath.Join(s.StorageRoot, "processed"))
}

func (s *Settings) ensureDir(dir string) (string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return dir, nil
}

// GetAddressString returns the address string for the server to listen on
func (s *Settings) GetAddressString() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
