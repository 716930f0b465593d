package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// Clear variables the test environment may carry.
	t.Setenv("PORT", "")
	t.Setenv("HOST", "")
	t.Setenv("USE_MOCK_STORAGE", "")
	t.Setenv("CORS_ORIGINS", "")

	s := Load()

	if s.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", s.Port)
	}
	if !s.UseMockStorage {
		t.Error("Expected mock storage by default")
	}
	if s.GCSUploadsPrefix != "uploads/" {
		t.Errorf("Expected default uploads prefix 'uploads/', got %q", s.GCSUploadsPrefix)
	}
	if s.GCSProcessedPrefix != "processed/" {
		t.Errorf("Expected default processed prefix 'processed/', got %q", s.GCSProcessedPrefix)
	}
	if s.VertexAIModel != "gemini-2.0-flash-lite-001" {
		t.Errorf("Unexpected default Vertex AI model: %q", s.VertexAIModel)
	}
	if s.AnalyzePollInterval != 5*time.Second {
		t.Errorf("Unexpected default poll interval: %v", s.AnalyzePollInterval)
	}
	if len(s.CORSOrigins) != 1 || s.CORSOrigins[0] != "*" {
		t.Errorf("Expected default CORS origins [*], got %v", s.CORSOrigins)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("USE_MOCK_STORAGE", "false")
	t.Setenv("GCS_BUCKET_NAME", "my-bucket")
	t.Setenv("GCS_PROJECT_ID", "my-project")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, https://example.com")
	t.Setenv("ANALYZE_POLL_INTERVAL", "2s")

	s := Load()

	if s.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", s.Port)
	}
	if s.UseMockStorage {
		t.Error("Expected mock storage disabled")
	}
	if s.GCSBucketName != "my-bucket" {
		t.Errorf("Expected bucket 'my-bucket', got %q", s.GCSBucketName)
	}
	if len(s.CORSOrigins) != 2 || s.CORSOrigins[0] != "http://localhost:3000" || s.CORSOrigins[1] != "https://example.com" {
		t.Errorf("Unexpected CORS origins: %v", s.CORSOrigins)
	}
	if s.AnalyzePollInterval != 2*time.Second {
		t.Errorf("Expected poll interval 2s, got %v", s.AnalyzePollInterval)
	}
}

func TestParseCORSOrigins(t *testing.T) {
	origins := ParseCORSOrigins("a.com, ,b.com,")
	if len(origins) != 2 || origins[0] != "a.com" || origins[1] != "b.com" {
		t.Errorf("Unexpected origins: %v", origins)
	}
}

func TestValidateStorageConfig(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		wantErr  string
	}{
		{
			name:     "mock storage always passes",
			settings: Settings{UseMockStorage: true},
		},
		{
			name:     "missing bucket",
			settings: Settings{UseMockStorage: false, GCSBucketName: "", GCSProjectID: "x"},
			wantErr:  "GCS_BUCKET_NAME",
		},
		{
			name:     "missing project",
			settings: Settings{UseMockStorage: false, GCSBucketName: "b", GCSProjectID: ""},
			wantErr:  "GCS_PROJECT_ID",
		},
		{
			name:     "gcs fully configured",
			settings: Settings{UseMockStorage: false, GCSBucketName: "b", GCSProjectID: "p"},
		},
		{
			name:     "s3 missing bucket",
			settings: Settings{UseMockStorage: false, StorageProvider: "s3", S3Region: "us-east-1"},
			wantErr:  "S3_BUCKET_NAME",
		},
		{
			name:     "s3 fully configured",
			settings: Settings{UseMockStorage: false, StorageProvider: "s3", S3Region: "us-east-1", S3BucketName: "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.ValidateStorageConfig()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Expected an error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error mentioning %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}
