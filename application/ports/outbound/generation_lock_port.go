package outbound

import (
	"context"
	"time"
)

// GenerationLockPort is a per-content advisory lease. Acquire returns false
// without error when another holder owns a live lease; an expired lease may
// be taken over. Release is best-effort, the lease expires on its own.
type GenerationLockPort interface {
	Acquire(ctx context.Context, contentID string, lease time.Duration) (bool, error)
	Release(ctx context.Context, contentID string) error
}
