package handlers

import (
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// MockStorageHandler serves the local storage tree over HTTP in mock mode.
// GET downloads an object and PUT stores one, so the "signed" URLs issued
// by local storage are actually usable during development.
type MockStorageHandler struct {
	root string
}

// NewMockStorageHandler creates a handler rooted at the storage directory.
func NewMockStorageHandler(root string) *MockStorageHandler {
	return &MockStorageHandler{root: root}
}

func (m *MockStorageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	object := strings.TrimPrefix(r.URL.Path, "/storage/")
	object = path.Clean("/" + object)[1:]
	if object == "" || object == "." {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	localPath := filepath.Join(m.root, filepath.FromSlash(object))

	switch r.Method {
	case http.MethodPut:
		if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
			http.Error(w, "Failed to store object", http.StatusInternalServerError)
			return
		}

		file, err := os.Create(localPath)
		if err != nil {
			http.Error(w, "Failed to store object", http.StatusInternalServerError)
			return
		}
		defer file.Close()

		if _, err := io.Copy(file, r.Body); err != nil {
			http.Error(w, "Failed to store object", http.StatusInternalServerError)
			return
		}

		log.Printf("Mock storage stored object: %s", object)
		w.WriteHeader(http.StatusOK)

	case http.MethodGet:
		http.ServeFile(w, r, localPath)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
