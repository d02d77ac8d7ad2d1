// Package storage persists uploaded files and hands back their public URLs.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/foodiehub/foodiehub-backend/config"
)

// FileStorage is implemented by every upload backend.
type FileStorage interface {
	// Put stores body under key and returns the public URL of the object.
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	// Delete removes the object behind url. URLs the backend does not own are
	// ignored.
	Delete(ctx context.Context, url string) error
	// Owns reports whether url points at an object managed by this backend.
	Owns(url string) bool
}

// New builds the backend selected by cfg.Storage.Driver.
func New(ctx context.Context, cfg *config.Config) (FileStorage, error) {
	switch cfg.Storage.Driver {
	case "", "local":
		return NewLocalStorage(cfg.Storage.LocalDir, cfg.Storage.PublicPath)
	case "s3":
		return NewS3Storage(ctx, cfg.S3.Region, cfg.S3.Bucket, cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, cfg.S3.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
