package providers

import (
	"context"
	"time"
)

// ObjectStore defines the interface for object storage of uploaded RFP
// files and archived response documents. The backing bucket is fixed at
// construction time; there is a single configured documents bucket.
type ObjectStore interface {
	// Put writes an object under the given key.
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// PresignedGet returns a time-limited download URL for an object.
	PresignedGet(ctx context.Context, key string, ttl time.Duration) (string, error)

	// PresignedPut returns a time-limited upload URL for an object.
	PresignedPut(ctx context.Context, key string, contentType string, ttl time.Duration) (string, error)
}
