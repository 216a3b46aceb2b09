package inbound

import (
	"context"

	"narration-service/domain"
)

type NarrationRequest struct {
	ContentID string
	Voice     domain.VoiceOptions
}

type NarrationResult struct {
	URL             string
	DurationSeconds int
	FileSizeBytes   int64
	Cost            float64
	Cached          bool
}

type TrackEventParams struct {
	ContentID           string
	EventType           domain.AnalyticsEventType
	SessionID           string
	PlayDurationSeconds float64
}

// NarrationPort is the service surface behind the HTTP boundary.
type NarrationPort interface {
	GetOrCreate(ctx context.Context, req NarrationRequest) (*NarrationResult, error)
	Delete(ctx context.Context, contentID string) error
	Stats(ctx context.Context, contentID string) (*domain.NarrationStats, error)
	TrackEvent(ctx context.Context, params TrackEventParams)
}
