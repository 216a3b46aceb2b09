package dto

type NarrationResponse struct {
	URL             string  `json:"url"`
	DurationSeconds int     `json:"duration_seconds"`
	FileSizeBytes   int64   `json:"file_size_bytes"`
	Cost            float64 `json:"cost"`
	Cached          bool    `json:"cached"`
}

type StatsResponse struct {
	TotalGenerations       int     `json:"total_generations"`
	TotalCost              float64 `json:"total_cost"`
	TotalPlayTimeSeconds   float64 `json:"total_play_time_seconds"`
	AverageDurationSeconds float64 `json:"average_duration_seconds"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
