package outbound

import (
	"context"
	"time"
)

type ObjectMetadata struct {
	Size         int64
	LastModified time.Time
	ContentType  string
}

// AudioObjectStorePort is the gateway to the durable blob store. Exists and
// HeadMetadata report a clean "not found" (false / nil) instead of an error;
// any other failure propagates as a StorageError. SignedURL never fails
// solely because the object is missing.
type AudioObjectStorePort interface {
	Put(ctx context.Context, key string, payload []byte, contentType string) (string, error)
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	HeadMetadata(ctx context.Context, key string) (*ObjectMetadata, error)
}
