package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestLocalStorage(t *testing.T) *LocalStorage {
	t.Helper()
	store, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/storage")
	if err != nil {
		t.Fatalf("Failed to create local storage: %v", err)
	}
	return store
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.mp4")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return path
}

func TestLocalStorageRoundtrip(t *testing.T) {
	store := newTestLocalStorage(t)
	ctx := context.Background()

	src := writeTempFile(t, "video bytes")
	if err := store.Upload(ctx, "uploads/abc.mp4", src, "video/mp4"); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	exists, err := store.Exists(ctx, "uploads/abc.mp4")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("Expected uploaded object to exist")
	}

	exists, err = store.Exists(ctx, "uploads/other.mp4")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("Expected missing object to not exist")
	}

	dst := filepath.Join(t.TempDir(), "out.mp4")
	if err := store.Download(ctx, "uploads/abc.mp4", dst); err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("Failed to read downloaded file: %v", err)
	}
	if string(data) != "video bytes" {
		t.Errorf("Downloaded content mismatch: %q", data)
	}
}

func TestLocalStorageSignedURL(t *testing.T) {
	store := newTestLocalStorage(t)

	url, err := store.SignedURL(context.Background(), "uploads/abc.mp4", "PUT", 24*time.Hour, "video/mp4")
	if err != nil {
		t.Fatalf("SignedURL failed: %v", err)
	}

	if !strings.HasPrefix(url, "http://localhost:8080/storage/uploads/abc.mp4") {
		t.Errorf("Unexpected URL prefix: %q", url)
	}
	if !strings.Contains(url, "expires=") {
		t.Errorf("Expected expires parameter in URL: %q", url)
	}
}

func TestFindSource(t *testing.T) {
	store := newTestLocalStorage(t)
	ctx := context.Background()

	src := writeTempFile(t, "x")
	if err := store.Upload(ctx, "uploads/abc.webm", src, "video/webm"); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	ext, mimeType, err := FindSource(ctx, store, "uploads/", "abc")
	if err != nil {
		t.Fatalf("FindSource failed: %v", err)
	}
	if ext != ".webm" || mimeType != "video/webm" {
		t.Errorf("Expected .webm/video/webm, got %s/%s", ext, mimeType)
	}
}

func TestFindSourcePrefersEarlierFormat(t *testing.T) {
	store := newTestLocalStorage(t)
	ctx := context.Background()

	src := writeTempFile(t, "x")
	if err := store.Upload(ctx, "uploads/abc.mov", src, "video/quicktime"); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if err := store.Upload(ctx, "uploads/abc.webm", src, "video/webm"); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	ext, _, err := FindSource(ctx, store, "uploads/", "abc")
	if err != nil {
		t.Fatalf("FindSource failed: %v", err)
	}
	if ext != ".mov" {
		t.Errorf("Expected .mov to win over .webm, got %s", ext)
	}
}

func TestFindSourceNotFound(t *testing.T) {
	store := newTestLocalStorage(t)

	_, _, err := FindSource(context.Background(), store, "uploads/", "missing")
	if err != ErrObjectNotFound {
		t.Errorf("Expected ErrObjectNotFound, got %v", err)
	}
}
