package domain

import "time"

type AnalyticsEventType string

const (
	GenerateEvent AnalyticsEventType = "generate"
	PlayEvent     AnalyticsEventType = "play"
	PauseEvent    AnalyticsEventType = "pause"
	CompleteEvent AnalyticsEventType = "complete"
)

// AnalyticsEvent is an append-only record of a narration action. Events are
// never mutated; they are deleted only when the parent content's narration
// is deleted.
type AnalyticsEvent struct {
	ContentID           string
	EventType           AnalyticsEventType
	SessionID           string
	PlayDurationSeconds float64
	CreatedAt           time.Time
}

type NarrationStats struct {
	TotalGenerations       int
	TotalCost              float64
	TotalPlayTimeSeconds   float64
	AverageDurationSeconds float64
}
