package s3

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/swipebay/marketplace-service/internal/platform/logger"
)

// Storage uploads listing and profile photos to a MinIO/S3 bucket.
type Storage struct {
	client *minio.Client
	bucket string
	logger *logger.Logger
}

func New(endpoint, accessKey, secretKey, bucket string, useSSL bool, log *logger.Logger) (*Storage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client for %s: %w", endpoint, err)
	}

	err = client.MakeBucket(context.Background(), bucket, minio.MakeBucketOptions{})
	if err != nil {
		exists, errExists := client.BucketExists(context.Background(), bucket)
		if errExists != nil || !exists {
			return nil, fmt.Errorf("make/verify bucket %s: (make: %v / exists: %v)", bucket, err, errExists)
		}
	}

	log.Info("object storage ready", zap.String("endpoint", endpoint), zap.String("bucket", bucket))
	return &Storage{client: client, bucket: bucket, logger: log}, nil
}

// Upload stores data under a fresh uuid key, keeping the original extension,
// and returns the public URL.
func (s *Storage) Upload(ctx context.Context, originalFileName string, data []byte) (string, error) {
	ext := filepath.Ext(originalFileName)
	objectKey := fmt.Sprintf("photos/%s%s", uuid.New().String(), ext)

	_, err := s.client.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	if err != nil {
		s.logger.Error("photo upload failed",
			zap.String("bucket", s.bucket), zap.String("key", objectKey), zap.Error(err))
		return "", fmt.Errorf("upload object %s to bucket %s: %w", objectKey, s.bucket, err)
	}

	url := fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, objectKey)
	s.logger.Debug("photo uploaded", zap.String("url", url), zap.Int("size_bytes", len(data)))
	return url, nil
}
