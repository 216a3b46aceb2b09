package dto

type NarrationOptionsRequest struct {
	VoiceName    string  `json:"voice_name"`
	LanguageCode string  `json:"language_code"`
	SpeakingRate float64 `json:"speaking_rate"`
	Pitch        float64 `json:"pitch"`
}

type TrackEventRequest struct {
	Event        string  `json:"event" binding:"required"`
	SessionID    string  `json:"session_id"`
	PlayDuration float64 `json:"play_duration"`
}
