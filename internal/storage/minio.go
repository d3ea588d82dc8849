package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStorage implements Storage on a MinIO server.
type MinioStorage struct {
	client *minio.Client
	bucket string
}

type MinioConfig struct {
	Endpoint  string // host:port, no scheme
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

func NewMinioStorage(ctx context.Context, cfg MinioConfig) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket %q exists: %w", cfg.Bucket, err)
	}
	if !exists {
		err = client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region})
		if err != nil {
			return nil, fmt.Errorf("failed to create bucket %q: %w", cfg.Bucket, err)
		}
		slog.Info("created MinIO bucket", "bucket", cfg.Bucket)
	}

	return &MinioStorage{client: client, bucket: cfg.Bucket}, nil
}

func (s *MinioStorage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload object %q to minio: %w", key, err)
	}
	return nil
}

func (s *MinioStorage) Get(ctx context.Context, key string) (*Object, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, minioError(key, err)
	}

	// GetObject is lazy; Stat performs the request and surfaces NoSuchKey.
	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, minioError(key, err)
	}

	return &Object{
		Body:        obj,
		ContentType: info.ContentType,
		Size:        info.Size,
	}, nil
}

func (s *MinioStorage) Delete(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object %q from minio: %w", key, err)
	}
	return nil
}

func (s *MinioStorage) List(ctx context.Context) ([]ObjectInfo, error) {
	return collectMinioObjects(ctx, func(ctx context.Context) <-chan minio.ObjectInfo {
		return s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true})
	})
}

// collectMinioObjects drains a listing. The listing context is cancelled on
// return so the producer goroutine stops when an error ends the loop early.
func collectMinioObjects(ctx context.Context, list func(context.Context) <-chan minio.ObjectInfo) ([]ObjectInfo, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var objects []ObjectInfo
	for obj := range list(ctx) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list minio objects: %w", obj.Err)
		}
		objects = append(objects, ObjectInfo{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	return objects, nil
}

func minioError(key string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return ErrObjectNotFound
	}
	return fmt.Errorf("failed to get object %q from minio: %w", key, err)
}
