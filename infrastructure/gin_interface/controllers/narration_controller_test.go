package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"narration-service/application/ports/inbound"
	"narration-service/domain"
	"narration-service/infrastructure/gin_interface/dto"
)

type nopLogger struct{}

func (nopLogger) Info(string)                                           {}
func (nopLogger) InfoWithFields(string, map[string]interface{})         {}
func (nopLogger) Error(error, string)                                   {}
func (nopLogger) ErrorWithFields(error, string, map[string]interface{}) {}
func (nopLogger) Debug(string)                                          {}
func (nopLogger) DebugWithFields(string, map[string]interface{})        {}
func (nopLogger) Warn(string)                                           {}
func (nopLogger) WarnWithFields(string, map[string]interface{})         {}

type stubNarrationPort struct {
	result  *inbound.NarrationResult
	stats   *domain.NarrationStats
	err     error
	deleted []string
	tracked []inbound.TrackEventParams
}

func (s *stubNarrationPort) GetOrCreate(_ context.Context, _ inbound.NarrationRequest) (*inbound.NarrationResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubNarrationPort) Delete(_ context.Context, contentID string) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, contentID)
	return nil
}

func (s *stubNarrationPort) Stats(_ context.Context, _ string) (*domain.NarrationStats, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.stats, nil
}

func (s *stubNarrationPort) TrackEvent(_ context.Context, params inbound.TrackEventParams) {
	s.tracked = append(s.tracked, params)
}

func newTestRouter(port inbound.NarrationPort) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewNarrationController(nopLogger{}, port).RegisterRoutes(router)
	return router
}

func TestGetOrCreateNarrationOK(t *testing.T) {
	port := &stubNarrationPort{
		result: &inbound.NarrationResult{
			URL:             "https://signed/audio/posts/my-post.mp3",
			DurationSeconds: 90,
			FileSizeBytes:   2048,
			Cost:            0.01,
			Cached:          false,
		},
	}
	router := newTestRouter(port)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/narrations/post-1", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body dto.NarrationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "https://signed/audio/posts/my-post.mp3", body.URL)
	assert.Equal(t, 90, body.DurationSeconds)
	assert.False(t, body.Cached)
}

func TestGetOrCreateNarrationErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "invalid input",
			err:        &domain.InvalidInputError{Reason: "text is empty"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
		},
		{
			name:       "content not found",
			err:        domain.ErrContentNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   "CONTENT_NOT_FOUND",
		},
		{
			name:       "generation busy",
			err:        domain.ErrGenerationBusy,
			wantStatus: http.StatusConflict,
			wantCode:   "GENERATION_IN_PROGRESS",
		},
		{
			name:       "synthesis failure",
			err:        &domain.SynthesisError{Code: domain.SynthesisAPIError, Message: "provider down"},
			wantStatus: http.StatusBadGateway,
			wantCode:   "API_ERROR",
		},
		{
			name:       "storage failure",
			err:        &domain.StorageError{Op: "put", Key: "k"},
			wantStatus: http.StatusBadGateway,
			wantCode:   "STORAGE_ERROR",
		},
		{
			name:       "metadata failure",
			err:        &domain.MetadataError{Op: "get"},
			wantStatus: http.StatusInternalServerError,
			wantCode:   "METADATA_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&stubNarrationPort{err: tt.err})

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/narrations/post-1", nil)
			router.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)

			var body dto.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
		})
	}
}

func TestDeleteNarration(t *testing.T) {
	port := &stubNarrationPort{}
	router := newTestRouter(port)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/narrations/post-1", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"post-1"}, port.deleted)
}

func TestGetStats(t *testing.T) {
	port := &stubNarrationPort{
		stats: &domain.NarrationStats{
			TotalGenerations:       3,
			TotalCost:              0.05,
			TotalPlayTimeSeconds:   600,
			AverageDurationSeconds: 88.5,
		},
	}
	router := newTestRouter(port)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/narrations/stats?content_id=post-1", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body dto.StatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.TotalGenerations)
	assert.InDelta(t, 88.5, body.AverageDurationSeconds, 1e-9)
}

func TestTrackEventAccepted(t *testing.T) {
	port := &stubNarrationPort{}
	router := newTestRouter(port)

	payload := `{"event":"play","session_id":"session-1","play_duration":12.5}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/narrations/post-1/events", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, port.tracked, 1)
	assert.Equal(t, domain.PlayEvent, port.tracked[0].EventType)
	assert.Equal(t, "session-1", port.tracked[0].SessionID)
	assert.InDelta(t, 12.5, port.tracked[0].PlayDurationSeconds, 1e-9)
}

func TestTrackEventDefaultsSessionID(t *testing.T) {
	port := &stubNarrationPort{}
	router := newTestRouter(port)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/narrations/post-1/events", strings.NewReader(`{"event":"play"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, port.tracked, 1)
	assert.NotEmpty(t, port.tracked[0].SessionID)
}

func TestTrackEventRequiresEvent(t *testing.T) {
	port := &stubNarrationPort{}
	router := newTestRouter(port)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/narrations/post-1/events", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, port.tracked)
}

func TestHealthBypassesEverything(t *testing.T) {
	router := newTestRouter(&stubNarrationPort{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
