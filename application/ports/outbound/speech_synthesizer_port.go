package outbound

import (
	"context"

	"narration-service/domain"
)

type SynthesizeRequest struct {
	Text  string
	Voice domain.VoiceOptions
}

// SpeechSynthesizerPort turns one text chunk into raw encoded audio bytes.
// Stateless per call; the caller owns chunking and concatenation.
type SpeechSynthesizerPort interface {
	Synthesize(ctx context.Context, req SynthesizeRequest) ([]byte, error)
}
