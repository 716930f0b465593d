// Package storage provides interfaces and implementations for different storage providers
package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	gcs "cloud.google.com/go/storage"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

// Scopes needed to sign object URLs with application default credentials.
var signingScopes = []string{
	"https://www.googleapis.com/auth/devstorage.read_write",
	"https://www.googleapis.com/auth/iam",
}

// GoogleCloudStorage implements ObjectStore for Google Cloud Storage
type GoogleCloudStorage struct {
	client     *gcs.Client
	bucketName string
}

// NewGoogleCloudStorage creates a Google Cloud Storage backed ObjectStore.
// The bucket name is not validated here; callers check the storage
// configuration before performing operations.
func NewGoogleCloudStorage(ctx context.Context, bucketName, credentialsFile string) (*GoogleCloudStorage, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Cloud Storage client: %w", err)
	}

	return &GoogleCloudStorage{client: client, bucketName: bucketName}, nil
}

// Exists reports whether the object is present in the bucket.
func (g *GoogleCloudStorage) Exists(ctx context.Context, object string) (bool, error) {
	_, err := g.client.Bucket(g.bucketName).Object(object).Attrs(ctx)
	if err == gcs.ErrObjectNotExist {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check object %s in GCS: %w", object, err)
	}
	return true, nil
}

// Upload stores the contents of a local file under the given object path.
func (g *GoogleCloudStorage) Upload(ctx context.Context, object, localPath, contentType string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer file.Close()

	writer := g.client.Bucket(g.bucketName).Object(object).NewWriter(ctx)
	if contentType != "" {
		writer.ContentType = contentType
	}

	if _, err := io.Copy(writer, file); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write object %s to GCS: %w", object, err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize upload of %s to GCS: %w", object, err)
	}

	return nil
}

// Download copies the object's contents to a local file.
func (g *GoogleCloudStorage) Download(ctx context.Context, object, localPath string) error {
	reader, err := g.client.Bucket(g.bucketName).Object(object).NewReader(ctx)
	if err != nil {
		return fmt.Errorf("failed to open object %s from GCS: %w", object, err)
	}
	defer reader.Close()

	file, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", localPath, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return fmt.Errorf("failed to download object %s from GCS: %w", object, err)
	}

	return nil
}

// SignedURL produces a v4 signed URL for the object. Application default
// credentials are refreshed immediately before signing so that credential
// problems surface here rather than when the client uses the URL. For PUT
// requests the content type is bound into the signature.
func (g *GoogleCloudStorage) SignedURL(ctx context.Context, object, method string, expiry time.Duration, contentType string) (string, error) {
	creds, err := google.FindDefaultCredentials(ctx, signingScopes...)
	if err != nil {
		return "", fmt.Errorf("failed to load credentials for signing: %w", err)
	}

	token, err := creds.TokenSource.Token()
	if err != nil {
		return "", fmt.Errorf("failed to refresh credentials for signing: %w", err)
	}
	if !token.Valid() {
		return "", fmt.Errorf("refreshed credential token is not valid")
	}

	opts := &gcs.SignedURLOptions{
		Scheme:  gcs.SigningSchemeV4,
		Method:  method,
		Expires: time.Now().Add(expiry),
	}
	if method == http.MethodPut && contentType != "" {
		opts.ContentType = contentType
	}

	url, err := g.client.Bucket(g.bucketName).SignedURL(object, opts)
	if err != nil {
		return "", fmt.Errorf("failed to generate signed URL for %s: %w", object, err)
	}

	return url, nil
}

// ObjectURI returns the gs:// URI for the object.
func (g *GoogleCloudStorage) ObjectURI(object string) string {
	return fmt.Sprintf("gs://%s/%s", g.bucketName, object)
}
