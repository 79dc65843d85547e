// Package storage keeps the documents produced by physical output.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a key does not exist
var ErrNotFound = errors.New("object not found")

// Store defines the interface for document storage
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string, size int64) (*Object, error)
	Get(ctx context.Context, key string) (io.ReadCloser, string, error) // reader, content type
	URL(key string) string
}

// Object describes a stored document
type Object struct {
	Key         string    `json:"key"`
	Size        int64     `json:"size"`
	ContentType string    `json:"contentType"`
	URL         string    `json:"url,omitempty"`
	StoredAt    time.Time `json:"storedAt"`
}

// PrintKey returns a fresh key for a printed document, e.g. prints/<uuid>.pdf
func PrintKey() string {
	return path.Join("prints", uuid.New().String()+".pdf")
}

// Config selects and configures a store
type Config struct {
	// Driver is "local" or "s3"
	Driver string
	Dir    string

	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PublicURL       string
	UsePathStyle    bool
}

// New creates the store selected by cfg. An S3 store that cannot be
// reached falls back to local storage in cfg.Dir.
func New(ctx context.Context, cfg Config, logger *log.Logger) (Store, error) {
	if logger == nil {
		logger = log.Default()
	}

	switch strings.ToLower(cfg.Driver) {
	case "", "local":
		logger.Printf("Storage: local filesystem (path: %s)", cfg.Dir)
		return NewLocalStore(cfg.Dir), nil
	case "s3", "r2":
		s3, err := NewS3Store(ctx, cfg)
		if err != nil {
			return nil, err
		}
		checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := s3.Check(checkCtx); err != nil {
			logger.Printf("[WARNING] S3 bucket check failed: %v. Falling back to local storage.", err)
			return NewLocalStore(cfg.Dir), nil
		}
		logger.Printf("Storage: S3 (bucket: %s)", cfg.Bucket)
		return s3, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}
