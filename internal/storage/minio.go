package storage

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/h3yzack/aurasage-document-service/internal/config"
)

// minioStorage implements the Storage interface using an S3-compatible backend (MinIO, AWS S3, etc.).
// It is safe for concurrent use by multiple goroutines.
type minioStorage struct {
	client         *minio.Client
	bucket         string
	uploadExpiry   time.Duration
	downloadExpiry time.Duration
	callTimeout    time.Duration
}

// NewMinIO creates a new S3-compatible storage client backed by MinIO.
// It validates connectivity and ensures the bucket exists (creates it if missing).
func NewMinIO(cfg config.MinIOConfig, storageCfg config.StorageConfig) (Storage, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ms := &minioStorage{
		client:         cli,
		bucket:         cfg.Bucket,
		uploadExpiry:   time.Duration(storageCfg.UploadURLExpirySec) * time.Second,
		downloadExpiry: time.Duration(storageCfg.DownloadURLExpirySec) * time.Second,
		callTimeout:    time.Duration(storageCfg.CallTimeoutSec) * time.Second,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Ensure bucket exists.
	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return ms, nil
}

// bounded derives a context with the configured call timeout so no storage
// call can wait indefinitely.
func (m *minioStorage) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, m.callTimeout)
}

// PresignPut generates a pre-signed upload URL for the given object key.
func (m *minioStorage) PresignPut(ctx context.Context, key string) (string, error) {
	ctx, cancel := m.bounded(ctx)
	defer cancel()

	u, err := m.client.PresignedPutObject(ctx, m.bucket, key, m.uploadExpiry)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// PresignGet generates a pre-signed download URL. When fileName is set, the
// response is served as an attachment under that name.
func (m *minioStorage) PresignGet(ctx context.Context, key string, fileName string) (string, error) {
	ctx, cancel := m.bounded(ctx)
	defer cancel()

	params := url.Values{}
	if fileName != "" {
		params.Set("response-content-disposition", fmt.Sprintf(`attachment; filename=%q`, fileName))
	}

	u, err := m.client.PresignedGetObject(ctx, m.bucket, key, m.downloadExpiry, params)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// Delete removes an object by key.
func (m *minioStorage) Delete(ctx context.Context, key string) error {
	ctx, cancel := m.bounded(ctx)
	defer cancel()

	return m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
}
