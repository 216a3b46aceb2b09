package adapters

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"narration-service/application/ports/outbound"
	"narration-service/config"
	"narration-service/domain"
)

type synthesizeRequestBody struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		Name         string `json:"name"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string  `json:"audioEncoding"`
		SpeakingRate  float64 `json:"speakingRate"`
		Pitch         float64 `json:"pitch"`
	} `json:"audioConfig"`
}

type synthesizeResponseBody struct {
	AudioContent string `json:"audioContent"`
}

type googleSpeechSynthesizer struct {
	logger    outbound.LoggerPort
	fetcher   ContentFetcher
	ttsConfig *config.GoogleTTSConfig
}

func NewGoogleSpeechSynthesizer(logger outbound.LoggerPort, fetcher ContentFetcher, ttsConfig *config.GoogleTTSConfig) outbound.SpeechSynthesizerPort {
	return &googleSpeechSynthesizer{
		logger:    logger,
		fetcher:   fetcher,
		ttsConfig: ttsConfig,
	}
}

func (g *googleSpeechSynthesizer) Synthesize(ctx context.Context, req outbound.SynthesizeRequest) ([]byte, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, &domain.SynthesisError{
			Code:    domain.SynthesisEmptyText,
			Message: "nothing to synthesize",
		}
	}

	voiceName := req.Voice.VoiceName
	if voiceName == "" {
		voiceName = g.ttsConfig.DefaultVoice
	}
	languageCode := req.Voice.LanguageCode
	if languageCode == "" {
		languageCode = languageCodeFromVoice(voiceName)
	}
	speakingRate := req.Voice.SpeakingRate
	if speakingRate == 0 {
		speakingRate = g.ttsConfig.DefaultRate
	}
	pitch := req.Voice.Pitch
	if pitch == 0 {
		pitch = g.ttsConfig.DefaultPitch
	}

	var body synthesizeRequestBody
	body.Input.Text = req.Text
	body.Voice.LanguageCode = languageCode
	body.Voice.Name = voiceName
	body.AudioConfig.AudioEncoding = "MP3"
	body.AudioConfig.SpeakingRate = speakingRate
	body.AudioConfig.Pitch = pitch

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &domain.SynthesisError{
			Code:    domain.SynthesisAPIError,
			Message: "failed to marshal the synthesize request",
			Err:     err,
		}
	}

	reqCtx, cancel := context.WithTimeout(ctx, g.ttsConfig.RequestTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodPost, g.ttsConfig.ApiUrl, bytes.NewReader(payload))
	if err != nil {
		return nil, &domain.SynthesisError{
			Code:    domain.SynthesisAPIError,
			Message: "failed to create the synthesize request",
			Err:     err,
		}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Goog-Api-Key", g.ttsConfig.Credentials.APIKey)
	if g.ttsConfig.Credentials.ProjectID != "" {
		httpReq.Header.Set("X-Goog-User-Project", g.ttsConfig.Credentials.ProjectID)
	}

	res, err := g.fetcher.FetchContent(httpReq)
	if err != nil {
		return nil, &domain.SynthesisError{
			Code:    domain.SynthesisAPIError,
			Message: "synthesize request failed",
			Err:     err,
		}
	}
	if res.StatusCode != http.StatusOK {
		g.logger.ErrorWithFields(nil, "Speech provider returned non-OK status", map[string]interface{}{
			"status": res.StatusCode,
			"body":   truncateForLog(res.Body),
		})
		return nil, &domain.SynthesisError{
			Code:    domain.SynthesisAPIError,
			Message: "speech provider returned status " + http.StatusText(res.StatusCode),
		}
	}

	var parsed synthesizeResponseBody
	if err := json.Unmarshal(res.Body, &parsed); err != nil {
		return nil, &domain.SynthesisError{
			Code:    domain.SynthesisAPIError,
			Message: "failed to parse the synthesize response",
			Err:     err,
		}
	}
	if parsed.AudioContent == "" {
		return nil, &domain.SynthesisError{
			Code:    domain.SynthesisAPIError,
			Message: "synthesize response carried no audio",
		}
	}

	audio, err := base64.StdEncoding.DecodeString(parsed.AudioContent)
	if err != nil {
		return nil, &domain.SynthesisError{
			Code:    domain.SynthesisAPIError,
			Message: "failed to decode the audio payload",
			Err:     err,
		}
	}

	return audio, nil
}

// languageCodeFromVoice derives "es-US" from a voice name like
// "es-US-Neural2-A".
func languageCodeFromVoice(voiceName string) string {
	parts := strings.SplitN(voiceName, "-", 3)
	if len(parts) < 2 {
		return voiceName
	}
	return parts[0] + "-" + parts[1]
}

func truncateForLog(body []byte) string {
	const max = 512
	if len(body) > max {
		return string(body[:max])
	}
	return string(body)
}
