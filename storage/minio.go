package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"sonicstream/config"
	"sonicstream/logger"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// FileStore is the narrow file-store contract the core services use:
// they only ever check for and delete objects by the path string stored
// on the entity, never read bytes.
type FileStore interface {
	Exists(ctx context.Context, objectPath string) (bool, error)
	Remove(ctx context.Context, objectPath string) error
}

// MinioStore implements FileStore and the upload/download plumbing on a
// MinIO bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
}

var defaultStore *MinioStore

// InitMinio initializes the MinIO client and ensures the bucket exists.
func InitMinio(cfg *config.Config) error {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		err = client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{
			Region: cfg.MinioRegion,
		})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		logger.Info("Created bucket", logger.String("bucket", cfg.MinioBucket))
	}

	defaultStore = &MinioStore{client: client, bucket: cfg.MinioBucket}
	logger.Info("MinIO client initialized", logger.String("bucket", cfg.MinioBucket))
	return nil
}

// GetStore returns the initialized MinioStore, or nil before InitMinio.
func GetStore() *MinioStore {
	return defaultStore
}

// ObjectKey builds a collision-free object path under the given prefix,
// keeping the original file extension.
func ObjectKey(prefix, originalName string) string {
	return fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), filepath.Ext(originalName))
}

// Upload stores an object and returns its path within the bucket.
func (s *MinioStore) Upload(ctx context.Context, objectPath string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, objectPath, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload object %s: %w", objectPath, err)
	}
	return nil
}

// Get opens an object for reading.
func (s *MinioStore) Get(ctx context.Context, objectPath string) (*minio.Object, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, objectPath, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", objectPath, err)
	}
	return obj, nil
}

// ListObjects walks the bucket under the given prefix.
func (s *MinioStore) ListObjects(ctx context.Context, prefix string, recursive bool) <-chan minio.ObjectInfo {
	return s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: recursive,
	})
}

// Exists reports whether the object is present.
func (s *MinioStore) Exists(ctx context.Context, objectPath string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, objectPath, minio.StatObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat object %s: %w", objectPath, err)
	}
	return true, nil
}

// Remove deletes the object. Removing a missing object is a no-op.
func (s *MinioStore) Remove(ctx context.Context, objectPath string) error {
	err := s.client.RemoveObject(ctx, s.bucket, objectPath, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to remove object %s: %w", objectPath, err)
	}
	return nil
}
