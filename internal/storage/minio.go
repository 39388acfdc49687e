package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/qprocure/inventory-backend/internal/config"
)

// MinioArchive stores frames in an S3-compatible bucket.
type MinioArchive struct {
	client *minio.Client
	bucket string
}

func NewMinioArchive(cfg config.StorageConfig) (*MinioArchive, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("storage endpoint must be provided")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("storage credentials must be provided")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket must be provided")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create storage client: %w", err)
	}

	archive := &MinioArchive{client: client, bucket: cfg.Bucket}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := archive.ensureBucket(ctx); err != nil {
		return nil, err
	}

	return archive, nil
}

func (a *MinioArchive) ensureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("could not check bucket %s: %w", a.bucket, err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("could not create bucket %s: %w", a.bucket, err)
	}
	return nil
}

// StoreFrame uploads a frame under a date-partitioned key and returns it.
func (a *MinioArchive) StoreFrame(ctx context.Context, r io.Reader, size int64, contentType string) (string, error) {
	if contentType == "" {
		contentType = "image/jpeg"
	}

	key := fmt.Sprintf("frames/%s/%s.jpg", time.Now().UTC().Format("2006/01/02"), uuid.NewString())

	if _, err := a.client.PutObject(ctx, a.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return "", fmt.Errorf("could not store frame %s: %w", key, err)
	}

	return key, nil
}

var _ FrameArchive = (*MinioArchive)(nil)
