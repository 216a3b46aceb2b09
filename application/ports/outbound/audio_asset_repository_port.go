package outbound

import (
	"context"

	"narration-service/domain"
)

// AudioAssetRepositoryPort stores one AudioAsset record per content id.
// Get returns (nil, nil) when no record exists. List returns every asset
// when contentID is empty, or at most the one asset for that content.
type AudioAssetRepositoryPort interface {
	Get(ctx context.Context, contentID string) (*domain.AudioAsset, error)
	Put(ctx context.Context, asset domain.AudioAsset) error
	Delete(ctx context.Context, contentID string) error
	List(ctx context.Context, contentID string) ([]domain.AudioAsset, error)
}
