package s3store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/couchcryptid/weather-collector/internal/config"
	"github.com/couchcryptid/weather-collector/internal/domain"
)

// Store persists dataset snapshots in an S3-compatible object store.
// It implements pipeline.SnapshotStore. Puts are plain replacements: no
// versioning and no conditional writes, matching the single-writer
// deployment model.
type Store struct {
	client *minio.Client
	bucket string
	logger *slog.Logger
}

// New creates a Store and ensures the target bucket exists.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Store, error) {
	client, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Secure: cfg.S3UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create object store client: %w", err)
	}

	s := &Store{client: client, bucket: cfg.S3Bucket, logger: logger}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %q: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %q: %w", s.bucket, err)
	}
	s.logger.Info("created dataset bucket", "bucket", s.bucket)
	return nil
}

// Get fetches an object's full contents. A missing object is reported as
// domain.ErrSnapshotNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %q: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		// GetObject is lazy; NoSuchKey surfaces on the first read.
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("read object %q: %w", key, err)
	}
	return data, nil
}

// Put replaces an object wholesale.
func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("put object %q: %w", key, err)
	}
	return nil
}
