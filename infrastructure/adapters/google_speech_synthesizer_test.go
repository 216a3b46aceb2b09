package adapters

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"narration-service/application/ports/outbound"
	"narration-service/config"
	"narration-service/domain"
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

func testTTSConfig(apiUrl string) *config.GoogleTTSConfig {
	return &config.GoogleTTSConfig{
		ApiUrl: apiUrl,
		Credentials: config.GoogleTTSCredentials{
			APIKey:    "test-key",
			ProjectID: "test-project",
		},
		DefaultVoice:   "es-US-Neural2-A",
		DefaultRate:    1.0,
		DefaultPitch:   0,
		RequestTimeout: 5 * time.Second,
	}
}

func TestSynthesizeSendsProviderRequest(t *testing.T) {
	audio := []byte("mp3-bytes")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("X-Goog-Api-Key"))
		assert.Equal(t, "test-project", r.Header.Get("X-Goog-User-Project"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		input := body["input"].(map[string]interface{})
		assert.Equal(t, "Hello there.", input["text"])

		voice := body["voice"].(map[string]interface{})
		assert.Equal(t, "es-US", voice["languageCode"])
		assert.Equal(t, "es-US-Neural2-A", voice["name"])

		audioConfig := body["audioConfig"].(map[string]interface{})
		assert.Equal(t, "MP3", audioConfig["audioEncoding"])

		json.NewEncoder(w).Encode(map[string]string{
			"audioContent": base64.StdEncoding.EncodeToString(audio),
		})
	}))
	defer server.Close()

	synth := NewGoogleSpeechSynthesizer(nopLogger{}, NewContentFetcher(nopLogger{}), testTTSConfig(server.URL))

	got, err := synth.Synthesize(context.Background(), outbound.SynthesizeRequest{Text: "Hello there."})
	require.NoError(t, err)
	assert.Equal(t, audio, got)
}

func TestSynthesizeUsesRequestedVoice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		voice := body["voice"].(map[string]interface{})
		assert.Equal(t, "en-GB", voice["languageCode"])
		assert.Equal(t, "en-GB-Neural2-B", voice["name"])

		json.NewEncoder(w).Encode(map[string]string{
			"audioContent": base64.StdEncoding.EncodeToString([]byte("x")),
		})
	}))
	defer server.Close()

	synth := NewGoogleSpeechSynthesizer(nopLogger{}, NewContentFetcher(nopLogger{}), testTTSConfig(server.URL))

	_, err := synth.Synthesize(context.Background(), outbound.SynthesizeRequest{
		Text:  "Hello there.",
		Voice: domain.VoiceOptions{VoiceName: "en-GB-Neural2-B"},
	})
	require.NoError(t, err)
}

func TestSynthesizeRejectsEmptyText(t *testing.T) {
	synth := NewGoogleSpeechSynthesizer(nopLogger{}, NewContentFetcher(nopLogger{}), testTTSConfig("http://unused"))

	_, err := synth.Synthesize(context.Background(), outbound.SynthesizeRequest{Text: "   "})
	require.Error(t, err)

	var synthErr *domain.SynthesisError
	require.ErrorAs(t, err, &synthErr)
	assert.Equal(t, domain.SynthesisEmptyText, synthErr.Code)
}

func TestSynthesizeProviderFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	synth := NewGoogleSpeechSynthesizer(nopLogger{}, NewContentFetcher(nopLogger{}), testTTSConfig(server.URL))

	_, err := synth.Synthesize(context.Background(), outbound.SynthesizeRequest{Text: "Hello there."})
	require.Error(t, err)

	var synthErr *domain.SynthesisError
	require.ErrorAs(t, err, &synthErr)
	assert.Equal(t, domain.SynthesisAPIError, synthErr.Code)
}

func TestSynthesizeEmptyAudioPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer server.Close()

	synth := NewGoogleSpeechSynthesizer(nopLogger{}, NewContentFetcher(nopLogger{}), testTTSConfig(server.URL))

	_, err := synth.Synthesize(context.Background(), outbound.SynthesizeRequest{Text: "Hello there."})
	require.Error(t, err)

	var synthErr *domain.SynthesisError
	require.ErrorAs(t, err, &synthErr)
	assert.Equal(t, domain.SynthesisAPIError, synthErr.Code)
}

func TestLanguageCodeFromVoice(t *testing.T) {
	assert.Equal(t, "es-US", languageCodeFromVoice("es-US-Neural2-A"))
	assert.Equal(t, "en-GB", languageCodeFromVoice("en-GB-Wavenet-C"))
	assert.Equal(t, "plain", languageCodeFromVoice("plain"))
}
