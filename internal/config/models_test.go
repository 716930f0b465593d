package config

import (
	"strings"
	"testing"
)

func TestGetModelID(t *testing.T) {
	id, err := GetModelID("vertex_ai", "gemini-20-flash-lite")
	if err != nil {
		t.Fatalf("GetModelID failed: %v", err)
	}
	if id != "gemini-2.0-flash-lite-001" {
		t.Errorf("Expected 'gemini-2.0-flash-lite-001', got %q", id)
	}

	id, err = GetModelID("google_ai", "gemini-20-flash-exp")
	if err != nil {
		t.Fatalf("GetModelID failed: %v", err)
	}
	if id != "gemini-2.0-flash-exp" {
		t.Errorf("Expected 'gemini-2.0-flash-exp', got %q", id)
	}
}

func TestGetModelIDUnknownProvider(t *testing.T) {
	_, err := GetModelID("openai", "gpt-4")
	if err == nil {
		t.Fatal("Expected an error for unknown provider")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("Expected a not-found error, got %q", err.Error())
	}
}

func TestGetModelIDUnknownModel(t *testing.T) {
	_, err := GetModelID("vertex_ai", "nonexistent-model")
	if err == nil {
		t.Fatal("Expected an error for unknown model")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("Expected a not-found error, got %q", err.Error())
	}
}

func TestModelsCatalog(t *testing.T) {
	catalog := Models()

	if len(catalog.Providers) != 2 {
		t.Fatalf("Expected 2 providers, got %d", len(catalog.Providers))
	}

	vertex, ok := catalog.Providers["vertex_ai"]
	if !ok {
		t.Fatal("Expected vertex_ai provider")
	}
	if vertex.Name != "Vertex AI" {
		t.Errorf("Expected provider name 'Vertex AI', got %q", vertex.Name)
	}
	if len(vertex.Models) != 2 {
		t.Errorf("Expected 2 vertex_ai models, got %d", len(vertex.Models))
	}
}
