package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// CacheConfig is the single source of truth for the freshness policy.
// RefreshAfter says when a stored delivery URL must be proactively
// re-signed; SignedURLTTL says how long a signed URL stays valid. The two
// are deliberately separate knobs, with RefreshAfter well inside the TTL.
type CacheConfig struct {
	RefreshAfter  time.Duration
	SignedURLTTL  time.Duration
	LockLease     time.Duration
	LockWait      time.Duration
	MaxChunkBytes int
}

func GetCacheConfig() (*CacheConfig, error) {
	refreshAfter, err := durationFromEnv("NARRATION_REFRESH_AFTER_HOURS", time.Hour, 12)
	if err != nil {
		return nil, err
	}

	signedURLTTL, err := durationFromEnv("NARRATION_SIGNED_URL_TTL_HOURS", time.Hour, 24)
	if err != nil {
		return nil, err
	}

	lockLease, err := durationFromEnv("NARRATION_LOCK_LEASE_SECONDS", time.Second, 120)
	if err != nil {
		return nil, err
	}

	lockWait, err := durationFromEnv("NARRATION_LOCK_WAIT_SECONDS", time.Second, 15)
	if err != nil {
		return nil, err
	}

	maxChunkBytes := 5000
	if raw := os.Getenv("NARRATION_MAX_CHUNK_BYTES"); raw != "" {
		maxChunkBytes, err = strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse NARRATION_MAX_CHUNK_BYTES: %w", err)
		}
		if maxChunkBytes < 1 {
			return nil, fmt.Errorf("NARRATION_MAX_CHUNK_BYTES must be positive")
		}
	}

	return &CacheConfig{
		RefreshAfter:  refreshAfter,
		SignedURLTTL:  signedURLTTL,
		LockLease:     lockLease,
		LockWait:      lockWait,
		MaxChunkBytes: maxChunkBytes,
	}, nil
}

func durationFromEnv(name string, unit time.Duration, fallback int) (time.Duration, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return time.Duration(fallback) * unit, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	if value < 1 {
		return 0, fmt.Errorf("%s must be positive", name)
	}
	return time.Duration(value) * unit, nil
}
