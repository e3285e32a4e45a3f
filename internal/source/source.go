// Package source reads the precomputed statistics files from an S3
// bucket or a local directory.
package source

import (
	"context"
	"errors"
	"time"

	"github.com/sportnumerics/sportnumerics/internal/config"
)

var ErrNotFound = errors.New("not found")

type Object struct {
	Body         []byte
	LastModified time.Time
}

type Source interface {
	// Get returns the object stored under key.
	Get(ctx context.Context, key string) (Object, error)
	// List returns the names of the entries directly below prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// New returns the backend selected by cfg, without caching.
func New(ctx context.Context, cfg config.Data) (Source, error) {
	switch {
	case cfg.Bucket != "":
		return NewS3Source(ctx, cfg.Bucket, cfg.BucketPrefix)
	case cfg.Path != "":
		return NewLocalSource(cfg.Path), nil
	default:
		return nil, errors.New("no data source provided, set DATA_BUCKET or DATA_PATH")
	}
}
