// Package storage provides interfaces and implementations for different storage providers
package storage

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/HosakaKeigo/short-video-ai-generator-public/internal/config"
)

// Factory creates ObjectStore instances for the configured provider and
// tracks providers that failed to initialize.
type Factory struct {
	mu                   sync.RWMutex
	unavailableProviders map[string]string
}

// NewFactory creates a new storage factory
func NewFactory() *Factory {
	return &Factory{
		unavailableProviders: make(map[string]string),
	}
}

// MarkProviderUnavailable records that a provider failed to initialize.
func (f *Factory) MarkProviderUnavailable(provider, reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unavailableProviders[provider] = reason
	log.Printf("Storage provider '%s' marked as unavailable: %s", provider, reason)
}

// IsProviderAvailable reports whether a provider is usable, with the
// failure reason when it is not.
func (f *Factory) IsProviderAvailable(provider string) (bool, string) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	reason, unavailable := f.unavailableProviders[provider]
	return !unavailable, reason
}

// CreateStore builds the ObjectStore selected by the settings. Mock mode
// always yields local storage; otherwise the provider name picks GCS or S3.
// Storage configuration is not validated here; services check it lazily
// before performing operations.
func (f *Factory) CreateStore(ctx context.Context, settings *config.Settings) (ObjectStore, error) {
	provider := settings.StorageProvider
	if settings.UseMockStorage {
		provider = "local"
	}

	f.mu.RLock()
	if reason, unavailable := f.unavailableProviders[provider]; unavailable {
		f.mu.RUnlock()
		return nil, fmt.Errorf("%s provider is currently unavailable: %s", provider, reason)
	}
	f.mu.RUnlock()

	var store ObjectStore
	var err error

	switch provider {
	case "local":
		store, err = NewLocalStorage(settings.StorageRoot, settings.StorageBaseURL)
	case "s3", "amazon", "aws":
		store, err = NewAmazonS3Storage(settings.S3Region, settings.S3BucketName)
	case "gcs", "google", "":
		store, err = NewGoogleCloudStorage(ctx, settings.GCSBucketName, settings.GoogleApplicationCredentials)
	default:
		return nil, fmt.Errorf("unsupported storage provider type: %s", provider)
	}

	if err != nil {
		f.MarkProviderUnavailable(provider, err.Error())
		return nil, fmt.Errorf("failed to initialize %s storage provider: %w", provider, err)
	}

	return store, nil
}

// DefaultFactory is the default storage factory instance
var DefaultFactory = NewFactory()

// CreateStore builds an ObjectStore using the default factory.
func CreateStore(ctx context.Context, settings *config.Settings) (ObjectStore, error) {
	return DefaultFactory.CreateStore(ctx, settings)
}
