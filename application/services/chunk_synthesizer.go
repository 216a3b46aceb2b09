package services

import (
	"bytes"
	"context"
	"sync"

	"narration-service/application/ports/outbound"
	"narration-service/domain"
)

// ChunkSynthesizer fans per-chunk synthesis calls out on the worker pool
// and concatenates every chunk's audio in original order. All chunks are
// kept; text that needed multiple chunks is narrated in full.
type ChunkSynthesizer struct {
	logger      outbound.LoggerPort
	synthesizer outbound.SpeechSynthesizerPort
	workerPool  outbound.TaskDispatcher
}

func NewChunkSynthesizer(logger outbound.LoggerPort, synthesizer outbound.SpeechSynthesizerPort,
	workerPool outbound.TaskDispatcher) *ChunkSynthesizer {
	return &ChunkSynthesizer{
		logger:      logger,
		synthesizer: synthesizer,
		workerPool:  workerPool,
	}
}

// SynthesizeAll synthesizes each chunk, in parallel across chunks, and
// returns the ordered concatenation of their audio. The first failure
// cancels the remaining calls and aborts the whole request; partial audio
// is never returned.
func (s *ChunkSynthesizer) SynthesizeAll(ctx context.Context, chunks []string, voice domain.VoiceOptions) ([]byte, error) {
	if len(chunks) == 0 {
		return nil, &domain.SynthesisError{
			Code:    domain.SynthesisEmptyText,
			Message: "no chunks to synthesize",
		}
	}

	newCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([][]byte, len(chunks))

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
		cancel()
	}

	for i, chunk := range chunks {
		i, chunk := i, chunk
		wg.Add(1)
		err := s.workerPool.Submit(func() {
			defer wg.Done()
			select {
			case <-newCtx.Done():
				return
			default:
			}

			audio, err := s.synthesizer.Synthesize(newCtx, outbound.SynthesizeRequest{
				Text:  chunk,
				Voice: voice,
			})
			if err != nil {
				fail(err)
				return
			}
			results[i] = audio
		})
		if err != nil {
			wg.Done()
			fail(err)
			break
		}
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	for i, part := range results {
		if len(part) == 0 {
			s.logger.WarnWithFields("synthesizer returned no audio for chunk", map[string]interface{}{
				"chunk": i,
			})
			return nil, &domain.SynthesisError{
				Code:    domain.SynthesisAPIError,
				Message: "provider returned no audio for a chunk",
			}
		}
		buf.Write(part)
	}

	return buf.Bytes(), nil
}
