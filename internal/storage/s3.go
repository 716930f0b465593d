// Package storage provides interfaces and implementations for different storage providers
package storage

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// AmazonS3Storage implements ObjectStore for Amazon S3
type AmazonS3Storage struct {
	bucket     string
	s3Client   *s3.S3
	uploader   *s3manager.Uploader
	downloader *s3manager.Downloader
}

// NewAmazonS3Storage creates an Amazon S3 backed ObjectStore. Credentials
// come from the environment or instance profile.
func NewAmazonS3Storage(region, bucket string) (*AmazonS3Storage, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &AmazonS3Storage{
		bucket:     bucket,
		s3Client:   s3.New(sess),
		uploader:   s3manager.NewUploader(sess),
		downloader: s3manager.NewDownloader(sess),
	}, nil
}

// Exists reports whether the object is present in the bucket.
func (a *AmazonS3Storage) Exists(ctx context.Context, object string) (bool, error) {
	_, err := a.s3Client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(object),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok {
			switch aerr.Code() {
			case s3.ErrCodeNoSuchKey, "NotFound":
				return false, nil
			}
		}
		return false, fmt.Errorf("failed to check object %s in S3: %w", object, err)
	}
	return true, nil
}

// Upload stores the contents of a local file under the given object key.
func (a *AmazonS3Storage) Upload(ctx context.Context, object, localPath, contentType string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer file.Close()

	input := &s3manager.UploadInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(object),
		Body:   file,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := a.uploader.UploadWithContext(ctx, input); err != nil {
		return fmt.Errorf("failed to upload object %s to S3: %w", object, err)
	}

	return nil
}

// Download copies the object's contents to a local file.
func (a *AmazonS3Storage) Download(ctx context.Context, object, localPath string) error {
	file, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", localPath, err)
	}
	defer file.Close()

	_, err = a.downloader.DownloadWithContext(ctx, file, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(object),
	})
	if err != nil {
		return fmt.Errorf("failed to download object %s from S3: %w", object, err)
	}

	return nil
}

// SignedURL produces a presigned URL for the object. For PUT requests the
// content type is bound into the signature.
func (a *AmazonS3Storage) SignedURL(ctx context.Context, object, method string, expiry time.Duration, contentType string) (string, error) {
	var url string
	var err error

	switch method {
	case http.MethodPut:
		input := &s3.PutObjectInput{
			Bucket: aws.String(a.bucket),
			Key:    aws.String(object),
		}
		if contentType != "" {
			input.ContentType = aws.String(contentType)
		}
		req, _ := a.s3Client.PutObjectRequest(input)
		url, err = req.Presign(expiry)
	default:
		req, _ := a.s3Client.GetObjectRequest(&s3.GetObjectInput{
			Bucket: aws.String(a.bucket),
			Key:    aws.String(object),
		})
		url, err = req.Presign(expiry)
	}

	if err != nil {
		return "", fmt.Errorf("failed to presign URL for %s: %w", object, err)
	}

	return url, nil
}

// ObjectURI returns the s3:// URI for the object.
func (a *AmazonS3Storage) ObjectURI(object string) string {
	return fmt.Sprintf("s3://%s/%s", a.bucket, object)
}
