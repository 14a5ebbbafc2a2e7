package firebase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"

	"github.com/noisevisionproductions/Vitema-sub001/internal/logger"
)

// StorageClient writes diet files to a Cloud Storage bucket.
type StorageClient struct {
	bucket *storage.BucketHandle
	name   string
}

func NewStorageClient(client *storage.Client, bucket string) *StorageClient {
	return &StorageClient{bucket: client.Bucket(bucket), name: bucket}
}

func (s *StorageClient) Upload(ctx context.Context, path string, body io.Reader, _ int64, contentType string) (string, error) {
	writer := s.bucket.Object(path).NewWriter(ctx)
	writer.ContentType = contentType

	if _, err := io.Copy(writer, body); err != nil {
		_ = writer.Close()
		logger.Error("failed to copy content to GCS object", "bucket", s.name, "path", path, "err", err)
		return "", describeGCSError(err)
	}

	if err := writer.Close(); err != nil {
		logger.Error("failed to close GCS writer", "bucket", s.name, "path", path, "err", err)
		return "", describeGCSError(err)
	}

	return PublicURL(s.name, path), nil
}

func PublicURL(bucket, path string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, path)
}

func describeGCSError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusForbidden, http.StatusUnauthorized:
			return fmt.Errorf("storage access denied: %w", err)
		case http.StatusNotFound:
			return fmt.Errorf("storage bucket not found: %w", err)
		}
	}
	return fmt.Errorf("failed to write to GCS: %w", err)
}
