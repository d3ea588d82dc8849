package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	cfg "github.com/templui/picture-gallery/internal/config"
)

var (
	ErrObjectNotFound = errors.New("object not found")
)

// Object is a stored blob opened for reading. Callers must close Body.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// ObjectInfo describes a stored blob without its contents.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Storage is a flat key/value blob store.
type Storage interface {
	// Put stores body under key. size may be -1 when unknown.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error

	// Get opens the blob stored under key, or returns ErrObjectNotFound.
	Get(ctx context.Context, key string) (*Object, error)

	// Delete removes the blob. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns every stored blob.
	List(ctx context.Context) ([]ObjectInfo, error)
}

// New creates the storage backend selected by STORAGE_DRIVER.
func New(ctx context.Context, c *cfg.Config) (Storage, error) {
	switch c.StorageDriver {
	case "s3":
		slog.Info("initializing S3 storage",
			"bucket", c.S3Bucket,
			"region", c.S3Region,
			"endpoint", c.S3Endpoint,
		)
		return NewS3Storage(ctx, S3Config{
			Region:    c.S3Region,
			Bucket:    c.S3Bucket,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			Endpoint:  c.S3Endpoint,
		})
	case "minio":
		slog.Info("initializing MinIO storage",
			"bucket", c.S3Bucket,
			"endpoint", c.S3Endpoint,
		)
		return NewMinioStorage(ctx, MinioConfig{
			Endpoint:  c.S3Endpoint,
			Region:    c.S3Region,
			Bucket:    c.S3Bucket,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			UseSSL:    c.S3UseSSL,
		})
	case "memory":
		slog.Warn("using in-memory storage, uploads are lost on restart")
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
}
