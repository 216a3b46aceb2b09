package config

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"narration-service/domain"
)

const defaultSynthesizeURL = "https://texttospeech.googleapis.com/v1/text:synthesize"

type GoogleTTSCredentials struct {
	APIKey    string `json:"api_key"`
	ProjectID string `json:"project_id"`
}

type GoogleTTSConfig struct {
	ApiUrl         string
	Credentials    GoogleTTSCredentials
	DefaultVoice   string
	DefaultRate    float64
	DefaultPitch   float64
	RequestTimeout time.Duration
}

// GetGoogleTTSConfig parses the provider credentials once at startup. A
// missing credential payload is MISSING_CONFIG, a malformed one is
// INVALID_CREDENTIALS; neither is ever a silent no-op.
func GetGoogleTTSConfig() (*GoogleTTSConfig, error) {
	encoded := os.Getenv("GOOGLE_TTS_CREDENTIALS_BASE64")
	if encoded == "" {
		return nil, &domain.SynthesisError{
			Code:    domain.SynthesisMissingConfig,
			Message: "GOOGLE_TTS_CREDENTIALS_BASE64 environment variable not set",
		}
	}

	payload, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, &domain.SynthesisError{
			Code:    domain.SynthesisInvalidCredentials,
			Message: "failed to decode GOOGLE_TTS_CREDENTIALS_BASE64",
			Err:     err,
		}
	}

	var credentials GoogleTTSCredentials
	if err := json.Unmarshal(payload, &credentials); err != nil {
		return nil, &domain.SynthesisError{
			Code:    domain.SynthesisInvalidCredentials,
			Message: "failed to parse the credential payload",
			Err:     err,
		}
	}
	if credentials.APIKey == "" {
		return nil, &domain.SynthesisError{
			Code:    domain.SynthesisInvalidCredentials,
			Message: "credential payload has no api_key",
		}
	}

	apiUrl := os.Getenv("GOOGLE_TTS_API_URL")
	if apiUrl == "" {
		apiUrl = defaultSynthesizeURL
	}

	voice := os.Getenv("GOOGLE_TTS_VOICE")
	if voice == "" {
		voice = "es-US-Neural2-A"
	}

	rate := 1.0
	if raw := os.Getenv("GOOGLE_TTS_SPEAKING_RATE"); raw != "" {
		rate, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse GOOGLE_TTS_SPEAKING_RATE: %w", err)
		}
	}

	pitch := 0.0
	if raw := os.Getenv("GOOGLE_TTS_PITCH"); raw != "" {
		pitch, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse GOOGLE_TTS_PITCH: %w", err)
		}
	}

	timeout := 30 * time.Second
	if raw := os.Getenv("GOOGLE_TTS_TIMEOUT_SECONDS"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse GOOGLE_TTS_TIMEOUT_SECONDS: %w", err)
		}
		timeout = time.Duration(seconds) * time.Second
	}

	return &GoogleTTSConfig{
		ApiUrl:         apiUrl,
		Credentials:    credentials,
		DefaultVoice:   voice,
		DefaultRate:    rate,
		DefaultPitch:   pitch,
		RequestTimeout: timeout,
	}, nil
}
