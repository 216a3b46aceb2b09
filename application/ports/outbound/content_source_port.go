package outbound

import (
	"context"

	"narration-service/domain"
)

// ContentSourcePort resolves a content id to its narratable fields. A
// missing item, or one without a body or slug, is ErrContentNotFound.
type ContentSourcePort interface {
	Fetch(ctx context.Context, contentID string) (*domain.Content, error)
}
