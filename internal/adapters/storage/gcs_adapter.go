package storage

import (
	"context"
	"fmt"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/zatekoja/rfp-response-pipeline/internal/domain/providers"
	"github.com/zatekoja/rfp-response-pipeline/pkg/config"
)

var _ providers.ObjectStore = (*GCSAdapter)(nil)

// GCSAdapter implements the ObjectStore interface on Google Cloud
// Storage. A single documents bucket holds uploaded RFP files and
// archived response documents.
type GCSAdapter struct {
	client *gcs.Client
	bucket string
	cfg    *config.StorageConfig
}

// NewGCSAdapter creates a new GCS object store adapter.
func NewGCSAdapter(ctx context.Context, cfg *config.StorageConfig) (*GCSAdapter, error) {
	if cfg == nil || cfg.DocumentsBucket == "" {
		return nil, fmt.Errorf("documents bucket is required")
	}

	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &GCSAdapter{
		client: client,
		bucket: cfg.DocumentsBucket,
		cfg:    cfg,
	}, nil
}

// Put writes an object under the given key.
func (a *GCSAdapter) Put(ctx context.Context, key string, data []byte, contentType string) error {
	w := a.client.Bucket(a.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write object %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize object %s: %w", key, err)
	}
	return nil
}

// PresignedGet returns a time-limited download URL for an object.
func (a *GCSAdapter) PresignedGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return a.signedURL(key, "GET", "", ttl)
}

// PresignedPut returns a time-limited upload URL for an object.
func (a *GCSAdapter) PresignedPut(ctx context.Context, key string, contentType string, ttl time.Duration) (string, error) {
	return a.signedURL(key, "PUT", contentType, ttl)
}

func (a *GCSAdapter) signedURL(key, method, contentType string, ttl time.Duration) (string, error) {
	opts := &gcs.SignedURLOptions{
		Scheme:  gcs.SigningSchemeV4,
		Method:  method,
		Expires: time.Now().Add(ttl),
	}
	if contentType != "" {
		opts.ContentType = contentType
	}
	if a.cfg.GoogleAccessID != "" {
		opts.GoogleAccessID = a.cfg.GoogleAccessID
		opts.PrivateKey = []byte(a.cfg.GooglePrivateKey)
	}

	url, err := a.client.Bucket(a.bucket).SignedURL(key, opts)
	if err != nil {
		return "", fmt.Errorf("failed to sign URL for %s: %w", key, err)
	}
	return url, nil
}

// Close releases the underlying storage client.
func (a *GCSAdapter) Close() error {
	return a.client.Close()
}
