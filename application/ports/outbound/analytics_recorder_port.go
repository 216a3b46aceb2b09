package outbound

import (
	"context"

	"narration-service/domain"
)

type PlaySummary struct {
	PlayCount        int
	TotalPlaySeconds float64
}

// AnalyticsRecorderPort appends narration events. Recording is best-effort
// from the coordinator's point of view: failures are logged and swallowed
// there, never surfaced to the narration caller.
type AnalyticsRecorderPort interface {
	Record(ctx context.Context, event domain.AnalyticsEvent) error
	PlaySummary(ctx context.Context, contentID string) (*PlaySummary, error)
	DeleteForContent(ctx context.Context, contentID string) error
}
