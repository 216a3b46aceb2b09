package services

import (
	"context"
	"fmt"
	"time"

	"narration-service/application/ports/inbound"
	"narration-service/application/ports/outbound"
	"narration-service/config"
	"narration-service/domain"
)

const lockPollInterval = 500 * time.Millisecond

// narrationService is the cache coordinator. Given a content id it returns
// a playable URL, deciding between serving the cached asset, re-signing its
// delivery URL, or regenerating the audio end to end.
type narrationService struct {
	logger        outbound.LoggerPort
	normalizer    *TextNormalizer
	chunkSynth    *ChunkSynthesizer
	contentSource outbound.ContentSourcePort
	assets        outbound.AudioAssetRepositoryPort
	store         outbound.AudioObjectStorePort
	analytics     outbound.AnalyticsRecorderPort
	locks         outbound.GenerationLockPort
	cacheConfig   *config.CacheConfig
}

func NewNarrationService(logger outbound.LoggerPort, normalizer *TextNormalizer, chunkSynth *ChunkSynthesizer,
	contentSource outbound.ContentSourcePort, assets outbound.AudioAssetRepositoryPort,
	store outbound.AudioObjectStorePort, analytics outbound.AnalyticsRecorderPort,
	locks outbound.GenerationLockPort, cacheConfig *config.CacheConfig) inbound.NarrationPort {
	return &narrationService{
		logger:        logger,
		normalizer:    normalizer,
		chunkSynth:    chunkSynth,
		contentSource: contentSource,
		assets:        assets,
		store:         store,
		analytics:     analytics,
		locks:         locks,
		cacheConfig:   cacheConfig,
	}
}

func (s *narrationService) GetOrCreate(ctx context.Context, req inbound.NarrationRequest) (*inbound.NarrationResult, error) {
	asset, err := s.assets.Get(ctx, req.ContentID)
	if err != nil {
		return nil, err
	}

	if asset != nil {
		exists, err := s.store.Exists(ctx, asset.StorageKey)
		if err != nil {
			return nil, err
		}

		if exists {
			if !asset.URLExpired(s.cacheConfig.RefreshAfter, time.Now()) {
				return cachedResult(asset), nil
			}

			refreshed, err := s.refreshDeliveryURL(ctx, asset)
			if err == nil {
				return cachedResult(refreshed), nil
			}
			// Re-signing is strictly cheaper than regenerating, but a
			// broken link is worse than either: treat the asset as gone.
			s.logger.ErrorWithFields(err, "delivery url refresh failed, regenerating", map[string]interface{}{
				"contentId":  asset.ContentID,
				"storageKey": asset.StorageKey,
			})
		} else {
			s.logger.WarnWithFields("audio object missing, discarding stale record", map[string]interface{}{
				"contentId":  asset.ContentID,
				"storageKey": asset.StorageKey,
			})
		}

		if err := s.assets.Delete(ctx, asset.ContentID); err != nil {
			return nil, err
		}
	}

	return s.generate(ctx, req)
}

// generate runs the cache-miss path under a per-content lease so that at
// most one generation proceeds per content item. Losers wait briefly for
// the winner's asset instead of paying for a second generation.
func (s *narrationService) generate(ctx context.Context, req inbound.NarrationRequest) (*inbound.NarrationResult, error) {
	deadline := time.Now().Add(s.cacheConfig.LockWait)

	for {
		acquired, err := s.locks.Acquire(ctx, req.ContentID, s.cacheConfig.LockLease)
		if err != nil {
			return nil, err
		}
		if acquired {
			return s.generateLocked(ctx, req)
		}

		if !time.Now().Before(deadline) {
			return nil, domain.ErrGenerationBusy
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockPollInterval):
		}

		asset, err := s.assets.Get(ctx, req.ContentID)
		if err != nil {
			return nil, err
		}
		if asset != nil {
			return cachedResult(asset), nil
		}
	}
}

func (s *narrationService) generateLocked(ctx context.Context, req inbound.NarrationRequest) (*inbound.NarrationResult, error) {
	defer func() {
		if err := s.locks.Release(context.WithoutCancel(ctx), req.ContentID); err != nil {
			s.logger.ErrorWithFields(err, "failed to release generation lease", map[string]interface{}{
				"contentId": req.ContentID,
			})
		}
	}()

	// Another request may have finished while we waited for the lease.
	if asset, err := s.assets.Get(ctx, req.ContentID); err == nil && asset != nil {
		if exists, err := s.store.Exists(ctx, asset.StorageKey); err == nil && exists {
			if refreshed, err := s.refreshDeliveryURL(ctx, asset); err == nil {
				return cachedResult(refreshed), nil
			}
		}
	}

	content, err := s.contentSource.Fetch(ctx, req.ContentID)
	if err != nil {
		return nil, err
	}

	text := s.normalizer.Normalize(content.NarrationText())
	if err := s.normalizer.Validate(text); err != nil {
		return nil, err
	}

	chunks, err := SplitIntoChunks(text, s.cacheConfig.MaxChunkBytes)
	if err != nil {
		return nil, err
	}

	audio, err := s.chunkSynth.SynthesizeAll(ctx, chunks, req.Voice)
	if err != nil {
		return nil, err
	}

	storageKey := audioStorageKey(content.Slug)
	if _, err := s.store.Put(ctx, storageKey, audio, "audio/mpeg"); err != nil {
		return nil, err
	}

	deliveryURL, err := s.store.SignedURL(ctx, storageKey, s.cacheConfig.SignedURLTTL)
	if err != nil {
		return nil, err
	}

	asset := domain.AudioAsset{
		ContentID:       req.ContentID,
		StorageKey:      storageKey,
		DeliveryURL:     deliveryURL,
		DurationSeconds: EstimatedDurationSeconds(text),
		FileSizeBytes:   int64(len(audio)),
		CostEstimate:    EstimatedCost(text),
		UpdatedAt:       time.Now(),
	}
	if err := s.assets.Put(ctx, asset); err != nil {
		return nil, err
	}

	s.recordEvent(ctx, domain.AnalyticsEvent{
		ContentID: req.ContentID,
		EventType: domain.GenerateEvent,
	})

	s.logger.InfoWithFields("narration generated", map[string]interface{}{
		"contentId":  req.ContentID,
		"storageKey": storageKey,
		"chunks":     len(chunks),
		"bytes":      asset.FileSizeBytes,
	})

	return &inbound.NarrationResult{
		URL:             deliveryURL,
		DurationSeconds: asset.DurationSeconds,
		FileSizeBytes:   asset.FileSizeBytes,
		Cost:            asset.CostEstimate,
		Cached:          false,
	}, nil
}

func (s *narrationService) Delete(ctx context.Context, contentID string) error {
	asset, err := s.assets.Get(ctx, contentID)
	if err != nil {
		return err
	}
	if asset == nil {
		return nil
	}

	if err := s.store.Delete(ctx, asset.StorageKey); err != nil {
		return err
	}
	if err := s.assets.Delete(ctx, contentID); err != nil {
		return err
	}
	return s.analytics.DeleteForContent(ctx, contentID)
}

func (s *narrationService) Stats(ctx context.Context, contentID string) (*domain.NarrationStats, error) {
	assets, err := s.assets.List(ctx, contentID)
	if err != nil {
		return nil, err
	}

	summary, err := s.analytics.PlaySummary(ctx, contentID)
	if err != nil {
		return nil, err
	}

	stats := &domain.NarrationStats{
		TotalGenerations:     len(assets),
		TotalPlayTimeSeconds: summary.TotalPlaySeconds,
	}

	var totalDuration int
	for _, asset := range assets {
		stats.TotalCost += asset.CostEstimate
		totalDuration += asset.DurationSeconds
	}
	if len(assets) > 0 {
		stats.AverageDurationSeconds = float64(totalDuration) / float64(len(assets))
	}

	return stats, nil
}

func (s *narrationService) TrackEvent(ctx context.Context, params inbound.TrackEventParams) {
	s.recordEvent(ctx, domain.AnalyticsEvent{
		ContentID:           params.ContentID,
		EventType:           params.EventType,
		SessionID:           params.SessionID,
		PlayDurationSeconds: params.PlayDurationSeconds,
	})
}

// recordEvent is best-effort: analytics failures never block or fail the
// primary narration flow.
func (s *narrationService) recordEvent(ctx context.Context, event domain.AnalyticsEvent) {
	if err := s.analytics.Record(ctx, event); err != nil {
		s.logger.ErrorWithFields(err, "failed to record analytics event", map[string]interface{}{
			"contentId": event.ContentID,
			"event":     string(event.EventType),
		})
	}
}

func (s *narrationService) refreshDeliveryURL(ctx context.Context, asset *domain.AudioAsset) (*domain.AudioAsset, error) {
	deliveryURL, err := s.store.SignedURL(ctx, asset.StorageKey, s.cacheConfig.SignedURLTTL)
	if err != nil {
		return nil, err
	}

	refreshed := *asset
	refreshed.DeliveryURL = deliveryURL
	refreshed.UpdatedAt = time.Now()
	if err := s.assets.Put(ctx, refreshed); err != nil {
		return nil, err
	}

	return &refreshed, nil
}

func cachedResult(asset *domain.AudioAsset) *inbound.NarrationResult {
	return &inbound.NarrationResult{
		URL:             asset.DeliveryURL,
		DurationSeconds: asset.DurationSeconds,
		FileSizeBytes:   asset.FileSizeBytes,
		Cost:            0,
		Cached:          true,
	}
}

func audioStorageKey(slug string) string {
	return fmt.Sprintf("audio/posts/%s.mp3", slug)
}
