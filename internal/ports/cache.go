package ports

import (
	"context"
	"time"
)

// CacheTier identifies which store serviced a cache operation.
type CacheTier string

const (
	TierNone   CacheTier = ""
	TierRedis  CacheTier = "redis"
	TierMemory CacheTier = "memory"
)

// CacheEntry is the canonical stored form of an embed result. Entries are
// sanitized exactly once, before storage, so readers never re-sanitize.
// Error-marker entries (Failed=true) record a recent upstream failure and
// carry a shorter TTL than success entries.
type CacheEntry struct {
	HTML         string    `json:"html"`
	Title        string    `json:"title"`
	ProviderName string    `json:"provider_name"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	Failed       bool      `json:"failed,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the entry's TTL has elapsed at the given instant.
func (e CacheEntry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// CacheStats is the aggregate introspection snapshot served by the stats
// endpoint. Request-serving logic never reads it.
type CacheStats struct {
	CacheType        string
	PrimaryAvailable bool
	SuccessTTL       time.Duration
	PrimarySize      int
	MemorySize       int
}

// EmbedCache is the two-tier Get/Set surface used by the proxy service.
// Absence in both tiers is a miss (nil entry, nil error), never an error;
// primary-tier failures are absorbed inside the implementation.
type EmbedCache interface {
	Get(ctx context.Context, key string) (*CacheEntry, CacheTier, error)
	Set(ctx context.Context, key string, entry CacheEntry, ttl time.Duration)
	Stats(ctx context.Context) CacheStats
}

// CacheStore is a single cache tier. Both the Redis primary and the
// in-process fallback implement it so the tiered strategy can treat them
// interchangeably.
type CacheStore interface {
	Get(ctx context.Context, key string) (*CacheEntry, error)
	Set(ctx context.Context, key string, entry CacheEntry, ttl time.Duration) error
	Size(ctx context.Context) (int, error)
}
