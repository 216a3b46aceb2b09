package services

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"narration-service/application/ports/outbound"
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

// syncDispatcher runs submitted tasks inline, keeping coordinator tests
// deterministic.
type syncDispatcher struct{}

func (syncDispatcher) Submit(task func()) error {
	task()
	return nil
}

type stubSynthesizer struct {
	calls   int32
	failOn  string
	failErr error
}

func (s *stubSynthesizer) Synthesize(_ context.Context, req outbound.SynthesizeRequest) ([]byte, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.failOn != "" && req.Text == s.failOn {
		return nil, s.failErr
	}
	return []byte("[" + req.Text + "]"), nil
}

func newTestPool(t *testing.T) *ants.Pool {
	t.Helper()
	pool, err := ants.NewPool(8)
	require.NoError(t, err)
	t.Cleanup(pool.Release)
	return pool
}

func TestSynthesizeAllConcatenatesInOrder(t *testing.T) {
	synth := &stubSynthesizer{}
	cs := NewChunkSynthesizer(nopLogger{}, synth, newTestPool(t))

	chunks := []string{"one", "two", "three", "four"}
	audio, err := cs.SynthesizeAll(context.Background(), chunks, domain.VoiceOptions{})
	require.NoError(t, err)

	assert.Equal(t, "[one][two][three][four]", string(audio))
	assert.Equal(t, int32(4), atomic.LoadInt32(&synth.calls))
}

func TestSynthesizeAllSingleChunk(t *testing.T) {
	cs := NewChunkSynthesizer(nopLogger{}, &stubSynthesizer{}, newTestPool(t))

	audio, err := cs.SynthesizeAll(context.Background(), []string{"only"}, domain.VoiceOptions{})
	require.NoError(t, err)
	assert.Equal(t, "[only]", string(audio))
}

func TestSynthesizeAllPropagatesFirstError(t *testing.T) {
	wantErr := &domain.SynthesisError{Code: domain.SynthesisAPIError, Message: "boom"}
	synth := &stubSynthesizer{failOn: "two", failErr: wantErr}
	cs := NewChunkSynthesizer(nopLogger{}, synth, newTestPool(t))

	audio, err := cs.SynthesizeAll(context.Background(), []string{"one", "two", "three"}, domain.VoiceOptions{})
	require.Error(t, err)
	assert.Nil(t, audio)

	var synthErr *domain.SynthesisError
	require.ErrorAs(t, err, &synthErr)
	assert.Equal(t, domain.SynthesisAPIError, synthErr.Code)
}

func TestSynthesizeAllRejectsEmptyChunkList(t *testing.T) {
	cs := NewChunkSynthesizer(nopLogger{}, &stubSynthesizer{}, newTestPool(t))

	_, err := cs.SynthesizeAll(context.Background(), nil, domain.VoiceOptions{})
	require.Error(t, err)

	var synthErr *domain.SynthesisError
	require.ErrorAs(t, err, &synthErr)
	assert.Equal(t, domain.SynthesisEmptyText, synthErr.Code)
}

func TestSynthesizeAllHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cs := NewChunkSynthesizer(nopLogger{}, &stubSynthesizer{}, syncDispatcher{})

	_, err := cs.SynthesizeAll(ctx, []string{"one", "two"}, domain.VoiceOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}
