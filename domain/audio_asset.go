package domain

import "time"

// AudioAsset is the cached narration for one content item. At most one
// asset exists per content id; the backing object in storage is the
// stronger truth and the record self-heals when the object is gone.
type AudioAsset struct {
	ContentID       string
	StorageKey      string
	DeliveryURL     string
	DurationSeconds int
	FileSizeBytes   int64
	CostEstimate    float64
	UpdatedAt       time.Time
}

// URLExpired reports whether the stored delivery URL must be treated as
// potentially expired and re-signed before serving.
func (a AudioAsset) URLExpired(refreshAfter time.Duration, now time.Time) bool {
	return now.Sub(a.UpdatedAt) > refreshAfter
}

type VoiceOptions struct {
	VoiceName    string
	LanguageCode string
	SpeakingRate float64
	Pitch        float64
}
