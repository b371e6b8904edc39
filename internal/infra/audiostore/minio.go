// Package audiostore caches synthesized speech, either in an S3-compatible
// bucket or in process memory.
package audiostore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/akhilvs/sarvajna/internal/domain/assistant"
)

// ObjectStore stores audio clips in an S3-compatible bucket via minio.
type ObjectStore struct {
	client *minio.Client
	bucket string
	logger *slog.Logger
}

// NewObjectStore constructs the storage adapter.
func NewObjectStore(endpoint, accessKey, secretKey, bucket, region string, logger *slog.Logger) (*ObjectStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cleanEndpoint := sanitizeEndpoint(endpoint)
	useSSL := strings.HasPrefix(strings.ToLower(endpoint), "https")
	client, err := minio.New(cleanEndpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:       useSSL,
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init audio store client: %w", err)
	}
	return &ObjectStore{client: client, bucket: bucket, logger: logger.With("component", "audiostore.object")}, nil
}

func (s *ObjectStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err == nil && exists {
		return nil
	}
	err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "BucketAlreadyOwnedByYou" {
		return err
	}
	return nil
}

// Put uploads an audio clip.
func (s *ObjectStore) Put(ctx context.Context, key string, data []byte, mimeType string) error {
	if err := s.ensureBucket(ctx); err != nil {
		return err
	}
	reader := bytes.NewReader(data)
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, int64(len(data)), minio.PutObjectOptions{
		ContentType:      mimeType,
		DisableMultipart: len(data) < 5*1024*1024,
	})
	return err
}

// Get fetches a cached clip. A missing key is a miss, not an error.
func (s *ObjectStore) Get(ctx context.Context, key string) ([]byte, string, bool, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", false, err
	}
	defer obj.Close()
	stat, err := obj.Stat()
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" || minio.ToErrorResponse(err).Code == "NoSuchBucket" {
			return nil, "", false, nil
		}
		return nil, "", false, err
	}
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, "", false, err
	}
	return data, stat.ContentType, true, nil
}

func sanitizeEndpoint(endpoint string) string {
	clean := strings.TrimSpace(endpoint)
	clean = strings.TrimPrefix(clean, "https://")
	clean = strings.TrimPrefix(clean, "http://")
	return strings.TrimRight(clean, "/")
}

var _ assistant.AudioStore = (*ObjectStore)(nil)
