package analyze

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"google.golang.org/genai"

	"github.com/HosakaKeigo/short-video-ai-generator-public/internal/config"
)

// stubFileGetter returns queued file states in order, repeating the last
// one once the queue is drained.
type stubFileGetter struct {
	states []genai.FileState
	calls  int
}

func (s *stubFileGetter) Get(ctx context.Context, name string) (*genai.File, error) {
	s.calls++
	state := genai.FileStateProcessing
	if len(s.states) > 0 {
		state = s.states[0]
		if len(s.states) > 1 {
			s.states = s.states[1:]
		}
	}
	return &genai.File{Name: name, State: state}, nil
}

func pollSettings(interval, timeout time.Duration) *config.Settings {
	return &config.Settings{
		UseMockStorage:      true,
		GCSUploadsPrefix:    "uploads/",
		AnalyzePollInterval: interval,
		AnalyzePollTimeout:  timeout,
	}
}

func TestWaitForProcessingActiveImmediately(t *testing.T) {
	analyzer := NewGoogleAIAnalyzer(pollSettings(time.Millisecond, time.Second), newFakeStore(), "key")
	getter := &stubFileGetter{}

	file := &genai.File{Name: "files/abc", State: genai.FileStateActive}
	got, err := analyzer.waitForProcessing(context.Background(), getter, file)
	if err != nil {
		t.Fatalf("waitForProcessing failed: %v", err)
	}
	if got.State != genai.FileStateActive {
		t.Errorf("Expected active file, got state %s", got.State)
	}
	if getter.calls != 0 {
		t.Errorf("Expected no polls for an already-active file, got %d", getter.calls)
	}
}

func TestWaitForProcessingBecomesActive(t *testing.T) {
	analyzer := NewGoogleAIAnalyzer(pollSettings(time.Millisecond, time.Second), newFakeStore(), "key")
	getter := &stubFileGetter{states: []genai.FileState{genai.FileStateProcessing, genai.FileStateActive}}

	file := &genai.File{Name: "files/abc", State: genai.FileStateProcessing}
	got, err := analyzer.waitForProcessing(context.Background(), getter, file)
	if err != nil {
		t.Fatalf("waitForProcessing failed: %v", err)
	}
	if got.State != genai.FileStateActive {
		t.Errorf("Expected active file, got state %s", got.State)
	}
	if getter.calls != 2 {
		t.Errorf("Expected 2 polls, got %d", getter.calls)
	}
}

func TestWaitForProcessingTimeout(t *testing.T) {
	// A deadline in the past trips the bound on the first iteration.
	analyzer := NewGoogleAIAnalyzer(pollSettings(time.Millisecond, -time.Millisecond), newFakeStore(), "key")
	getter := &stubFileGetter{}

	file := &genai.File{Name: "files/abc", State: genai.FileStateProcessing}
	_, err := analyzer.waitForProcessing(context.Background(), getter, file)
	if err == nil {
		t.Fatal("Expected a timeout error")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("Expected a timeout error, got %q", err.Error())
	}
	if getter.calls != 0 {
		t.Errorf("Expected no polls past the deadline, got %d", getter.calls)
	}
}

func TestWaitForProcessingFailedState(t *testing.T) {
	analyzer := NewGoogleAIAnalyzer(pollSettings(time.Millisecond, time.Second), newFakeStore(), "key")
	getter := &stubFileGetter{states: []genai.FileState{genai.FileStateFailed}}

	file := &genai.File{Name: "files/abc", State: genai.FileStateProcessing}
	_, err := analyzer.waitForProcessing(context.Background(), getter, file)
	if err == nil {
		t.Fatal("Expected an error for a failed file state")
	}
	if !strings.Contains(err.Error(), "failed with state") {
		t.Errorf("Expected a failed-state error, got %q", err.Error())
	}
}

func TestWaitForProcessingContextCancelled(t *testing.T) {
	analyzer := NewGoogleAIAnalyzer(pollSettings(time.Hour, time.Hour), newFakeStore(), "key")
	getter := &stubFileGetter{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	file := &genai.File{Name: "files/abc", State: genai.FileStateProcessing}
	_, err := analyzer.waitForProcessing(ctx, getter, file)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
