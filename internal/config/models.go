package config

import "fmt"

// ModelInfo describes a single selectable AI model.
type ModelInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ProviderModels groups the models offered by one AI provider.
type ProviderModels struct {
	Name   string               `json:"name"`
	Models map[string]ModelInfo `json:"models"`
}

// ModelCatalog is the static table of available providers and models.
// Immutable for the process lifetime.
type ModelCatalog struct {
	Providers map[string]ProviderModels `json:"providers"`
}

var modelCatalog = ModelCatalog{
	Providers: map[string]ProviderModels{
		"vertex_ai": {
			Name: "Vertex AI",
			Models: map[string]ModelInfo{
				"gemini-25-flash-lite": {
					ID:          "gemini-2.5-flash-lite-preview-06-17",
					Name:        "Gemini 2.5 Flash Lite (Preview)",
					Description: "Fast and efficient model for video analysis",
				},
				"gemini-20-flash-lite": {
					ID:          "gemini-2.0-flash-lite-001",
					Name:        "Gemini 2.0 Flash Lite",
					Description: "Stable lightweight model",
				},
			},
		},
		"google_ai": {
			Name: "Google AI",
			Models: map[string]ModelInfo{
				"gemini-25-flash-lite": {
					ID:          "gemini-2.5-flash-lite-preview-06-17",
					Name:        "Gemini 2.5 Flash Lite (Preview)",
					Description: "Fast and efficient model via Google AI API",
				},
				"gemini-20-flash-exp": {
					ID:          "gemini-2.0-flash-exp",
					Name:        "Gemini 2.0 Flash (Experimental)",
					Description: "Experimental features with Google AI",
				},
			},
		},
	},
}

// Models returns the static model catalog.
func Models() ModelCatalog {
	return modelCatalog
}

// GetModelID resolves a provider/model key pair to the underlying model
// identifier. Unknown keys return an error.
func GetModelID(provider, modelKey string) (string, error) {
	providerModels, ok := modelCatalog.Providers[provider]
	if !ok {
		return "", fmt.Errorf("provider '%s' not found", provider)
	}

	model, ok := providerModels.Models[modelKey]
	if !ok {
		return "", fmt.Errorf("model '%s' not found for provider '%s'", modelKey, provider)
	}

	return model.ID, nil
}
