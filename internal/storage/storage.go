package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/pyjuan91/Limira/internal/config"
)

// ErrObjectNotFound is returned by Get when no object exists under the key.
var ErrObjectNotFound = errors.New("object not found")

// Storage holds uploaded attachment bytes under opaque keys.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	// Bucket is the label recorded on file rows.
	Bucket() string
}

// New picks the backend named by STORAGE_BACKEND.
func New(cfg config.StorageConfig) (Storage, error) {
	switch cfg.Backend {
	case "", "local":
		return NewFileStore(cfg.LocalPath)
	case "s3":
		return NewMinioStore(MinioOptions{
			Endpoint:  cfg.Endpoint,
			Region:    cfg.AWSRegion,
			AccessKey: cfg.AWSAccessKeyID,
			SecretKey: cfg.AWSSecretAccessKey,
			Bucket:    cfg.Bucket,
			UseSSL:    cfg.UseSSL,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
