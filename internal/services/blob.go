package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// BlobStore is the external file storage consumed by the pipeline. Upload
// returns the stored object's path; the same path is later handed to the
// scoring service and to detail views.
type BlobStore interface {
	Upload(ctx context.Context, name string, data []byte, contentType string) (string, error)
	Download(ctx context.Context, path string) ([]byte, error)
}

type s3BlobStore struct {
	client *s3.Client
	bucket string
}

// NewS3BlobStore wraps an S3-compatible bucket (AWS S3 or Cloudflare R2 via
// a custom endpoint) as the upload collaborator.
func NewS3BlobStore(awsConfig aws.Config, bucket, endpoint string) BlobStore {
	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	return &s3BlobStore{client: client, bucket: bucket}
}

func (s *s3BlobStore) Upload(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	key := uploadKey(name)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", name, err)
	}

	return key, nil
}

func (s *s3BlobStore) Download(ctx context.Context, path string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", path, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}

	return data, nil
}

// uploadKey builds a unique object key, keeping the original name readable.
func uploadKey(name string) string {
	base := strings.ReplaceAll(filepath.Base(name), " ", "_")
	return fmt.Sprintf("uploads/%s_%s", uuid.New().String(), base)
}
